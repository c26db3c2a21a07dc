package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"safetrack/internal/errs"
	"safetrack/internal/infrastructure/persistence/sqlite/model"
	"safetrack/internal/ports"
)

// TableDumpRepository streams whole user tables with their raw column values.
type TableDumpRepository struct {
	db *sqlx.DB
}

var _ ports.TableDumper = (*TableDumpRepository)(nil)

func NewTableDumpRepository(db *sqlx.DB) *TableDumpRepository {
	return &TableDumpRepository{db: db}
}

func (r *TableDumpRepository) ListTables(ctx context.Context) ([]string, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	return model.UserTables(), nil
}

func (r *TableDumpRepository) DumpTable(ctx context.Context, table string, onHeader func(columns []string) error, onRow func(row []string) error) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if !slices.Contains(model.UserTables(), table) {
		return fmt.Errorf("unknown table %q", table)
	}

	rows, err := r.db.QueryxContext(ctx, "SELECT * FROM "+table+" ORDER BY id")
	if err != nil {
		return errs.Wrapf(err, "query table %s", table)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return errs.Wrapf(err, "read columns of %s", table)
	}
	if err := onHeader(columns); err != nil {
		return err
	}

	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return errs.Wrapf(err, "scan row of %s", table)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = rawString(v)
		}
		if err := onRow(record); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return errs.Wrapf(err, "iterate table %s", table)
	}
	return nil
}

func rawString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(value)
	case string:
		return value
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case time.Time:
		return value.Format(time.RFC3339)
	default:
		return fmt.Sprint(value)
	}
}
