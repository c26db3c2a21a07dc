// Package export writes every user table to a CSV file for BI tools.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/errs"
	"safetrack/internal/ports"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Service struct {
	dumper ports.TableDumper
}

func NewService(dumper ports.TableDumper) *Service {
	return &Service{dumper: dumper}
}

// File is one written table.
type File struct {
	Table string `json:"table"`
	Path  string `json:"path"`
	Rows  int    `json:"rows"`
}

// WriteAll writes <table>.csv into dir for every table, replacing existing files.
func (s *Service) WriteAll(ctx context.Context, dir string) ([]File, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.dumper == nil {
		return nil, errors.New("table dumper is required")
	}
	if dir == "" {
		return nil, errors.New("export directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.Wrapf(err, "create export directory %q", dir)
	}

	tables, err := s.dumper.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "export"))
	files := make([]File, 0, len(tables))
	for _, table := range tables {
		file, err := s.writeTable(ctx, dir, table)
		if err != nil {
			return files, err
		}
		logging.Info(logCtx, "table exported", slog.String("table", table), slog.String("path", file.Path), slog.Int("rows", file.Rows))
		files = append(files, file)
	}
	return files, nil
}

func (s *Service) writeTable(ctx context.Context, dir string, table string) (File, error) {
	path := filepath.Join(dir, table+".csv")
	f, err := os.Create(path)
	if err != nil {
		return File{}, errs.Wrapf(err, "create %q", path)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return File{}, errs.Wrapf(err, "write bom to %q", path)
	}

	w := csv.NewWriter(f)
	rows := 0
	err = s.dumper.DumpTable(ctx, table,
		func(columns []string) error {
			return w.Write(columns)
		},
		func(row []string) error {
			rows++
			return w.Write(row)
		},
	)
	if err != nil {
		return File{}, errs.Wrapf(err, "export table %s", table)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return File{}, errs.Wrapf(err, "flush %q", path)
	}
	if err := f.Close(); err != nil {
		return File{}, errs.Wrapf(err, "close %q", path)
	}
	return File{Table: table, Path: path, Rows: rows}, nil
}
