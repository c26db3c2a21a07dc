// Package importer reconciles employee/exam spreadsheets into the record store
// without creating duplicates.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/errs"
	"safetrack/internal/infrastructure/sheet"
	"safetrack/internal/ports"
)

// LastSummaryKey is the cache key holding the JSON summary of the latest import.
const LastSummaryKey = "import:last_summary"

var ErrMissingColumns = errors.New("required columns missing")

// Columns lists the accepted header aliases per logical column.
type Columns struct {
	Name          []string
	Role          []string
	Registration  []string
	ExamDate      []string
	ExamExpiry    []string
	LicenseExpiry []string
}

type Options struct {
	DayFirst bool
	Columns  Columns
	Sheet    sheet.Options
}

type Reconciler struct {
	repo     ports.RecordRepository
	uow      ports.UnitOfWork
	cache    ports.Cache
	opts     Options
	now      func() time.Time
	newRunID func() string
}

// NewReconciler wires the import with its repository, unit of work and optional cache.
func NewReconciler(repo ports.RecordRepository, uow ports.UnitOfWork, cache ports.Cache, opts Options) *Reconciler {
	return &Reconciler{
		repo:     repo,
		uow:      uow,
		cache:    cache,
		opts:     opts,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
}

// RowError describes one row that could not be reconciled.
type RowError struct {
	Line         int    `json:"line"`
	Registration string `json:"registration"`
	Message      string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d (registration %s): %s", e.Line, e.Registration, e.Message)
}

type Result struct {
	RunID            string     `json:"run_id"`
	Source           string     `json:"source,omitempty"`
	Processed        int        `json:"processed"`
	Errored          int        `json:"errored"`
	Errors           []RowError `json:"errors"`
	CreatedEmployees int        `json:"created_employees"`
	CreatedExams     int        `json:"created_exams"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       time.Time  `json:"finished_at"`
}

// ImportFile reads a CSV or XLSX file and reconciles it. A non-empty
// sheetName overrides the configured worksheet.
func (r *Reconciler) ImportFile(ctx context.Context, path string, sheetName string) (Result, error) {
	table, err := sheet.ReadFile(path, r.sheetOptions(sheetName))
	if err != nil {
		return Result{}, err
	}
	return r.Import(ctx, table, filepath.Base(path))
}

// ImportReader is ImportFile for uploaded content; name supplies the extension.
func (r *Reconciler) ImportReader(ctx context.Context, src io.Reader, name string, sheetName string) (Result, error) {
	table, err := sheet.Read(src, name, r.sheetOptions(sheetName))
	if err != nil {
		return Result{}, err
	}
	return r.Import(ctx, table, filepath.Base(name))
}

func (r *Reconciler) sheetOptions(sheetName string) sheet.Options {
	opts := r.opts.Sheet
	if name := strings.TrimSpace(sheetName); name != "" {
		opts.Sheet = name
	}
	return opts
}

// Import processes rows in order. A failing row is reported and the rest of
// the batch carries on.
func (r *Reconciler) Import(ctx context.Context, table sheet.Table, source string) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, errs.Wrap(err, "check context")
	}
	if r.repo == nil {
		return Result{}, errors.New("record repository is required")
	}
	if r.uow == nil {
		return Result{}, errors.New("unit of work is required")
	}

	cols, err := resolveColumns(table, r.opts.Columns)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		RunID:     r.newRunID(),
		Source:    source,
		Errors:    []RowError{},
		StartedAt: r.now().UTC(),
	}
	logCtx := logging.WithImportRun(logging.WithAttrs(ctx, slog.String("component", "importer")), result.RunID, source)
	logging.Info(logCtx, "import started", slog.Int("rows", len(table.Rows)))

	for i, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return result, errs.Wrap(err, "import cancelled")
		}

		line := table.Line(i)
		registration := coerceText(sheet.Cell(row, cols.registration))

		createdEmployee, createdExam, err := r.reconcileRow(ctx, row, cols, registration)
		if createdEmployee {
			result.CreatedEmployees++
		}
		if err != nil {
			rowErr := RowError{Line: line, Registration: registration, Message: err.Error()}
			result.Errored++
			result.Errors = append(result.Errors, rowErr)
			logging.Warn(logCtx, "import row failed",
				slog.Int("line", line),
				slog.String("registration", registration),
				slog.Any("err", errs.Loggable(err)),
			)
			continue
		}

		result.Processed++
		if createdExam {
			result.CreatedExams++
		}
	}

	result.FinishedAt = r.now().UTC()
	logging.Info(logCtx, "import finished",
		slog.Int("processed", result.Processed),
		slog.Int("errored", result.Errored),
		slog.Int("created_employees", result.CreatedEmployees),
		slog.Int("created_exams", result.CreatedExams),
	)

	r.storeSummaryBestEffort(logCtx, result)
	return result, nil
}

// LastSummary returns the summary of the most recent import, if one was cached.
func (r *Reconciler) LastSummary(ctx context.Context) (Result, bool, error) {
	if r.cache == nil {
		return Result{}, false, nil
	}
	raw, found, err := r.cache.Get(ctx, LastSummaryKey)
	if err != nil || !found {
		return Result{}, false, err
	}
	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return Result{}, false, errs.Wrap(err, "decode last import summary")
	}
	return result, true, nil
}

func (r *Reconciler) storeSummaryBestEffort(ctx context.Context, result Result) {
	if r.cache == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		logging.Warn(ctx, "encode import summary failed", slog.Any("err", errs.Loggable(err)))
		return
	}
	if err := r.cache.Set(ctx, LastSummaryKey, string(payload), 0); err != nil {
		logging.Warn(ctx, "cache import summary failed", slog.Any("err", errs.Loggable(err)))
	}
}

// reconcileRow commits the employee before touching the exam, so an employee
// created by a row stays even when that row's exam is rejected.
func (r *Reconciler) reconcileRow(ctx context.Context, row []string, cols columnIndex, registration string) (bool, bool, error) {
	var (
		employee ports.Employee
		created  bool
	)
	err := r.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		employee, created, err = r.resolveEmployee(txCtx, row, cols, registration)
		return err
	})
	if err != nil {
		return false, false, err
	}

	var createdExam bool
	err = r.uow.WithTx(ctx, func(txCtx context.Context) error {
		var err error
		createdExam, err = r.addExam(txCtx, row, cols, employee.ID)
		return err
	})
	return created, createdExam, err
}

type columnIndex struct {
	name          int
	role          int
	registration  int
	examDate      int
	examExpiry    int
	licenseExpiry int
}

func (c columnIndex) hasExam() bool {
	return c.examDate >= 0 && c.examExpiry >= 0
}

func resolveColumns(table sheet.Table, aliases Columns) (columnIndex, error) {
	find := func(names []string) int {
		idx, ok := table.Column(names)
		if !ok {
			return -1
		}
		return idx
	}

	cols := columnIndex{
		name:          find(aliases.Name),
		role:          find(aliases.Role),
		registration:  find(aliases.Registration),
		examDate:      find(aliases.ExamDate),
		examExpiry:    find(aliases.ExamExpiry),
		licenseExpiry: find(aliases.LicenseExpiry),
	}

	var missing []string
	for _, req := range []struct {
		idx     int
		aliases []string
		label   string
	}{
		{cols.name, aliases.Name, "name"},
		{cols.role, aliases.Role, "role"},
		{cols.registration, aliases.Registration, "registration"},
	} {
		if req.idx < 0 {
			missing = append(missing, fmt.Sprintf("%s (%s)", req.label, strings.Join(req.aliases, "|")))
		}
	}
	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return cols, nil
}
