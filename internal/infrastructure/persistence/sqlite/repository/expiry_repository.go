package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"safetrack/internal/domain/safety"
	"safetrack/internal/errs"
	"safetrack/internal/ports"
)

// expirySource describes where one record kind keeps its expiry date.
// The employee row is always reachable under the alias "e".
type expirySource struct {
	from         string
	idColumn     string
	detailColumn string
	expiryColumn string
}

var expirySources = map[safety.RecordKind]expirySource{
	safety.KindTraining: {
		from:         "training_records AS r JOIN employees AS e ON e.id = r.employee_id",
		idColumn:     "r.id",
		detailColumn: "r.training_name",
		expiryColumn: "r.expires_on",
	},
	safety.KindExam: {
		from:         "exam_records AS r JOIN employees AS e ON e.id = r.employee_id",
		idColumn:     "r.id",
		detailColumn: "r.exam_type",
		expiryColumn: "r.expires_on",
	},
	safety.KindLicense: {
		from:         "employees AS e",
		idColumn:     "e.id",
		detailColumn: "e.license_category",
		expiryColumn: "e.license_expiry",
	},
}

type ExpiryRepository struct {
	db *sqlx.DB
}

var _ ports.ExpiryRepository = (*ExpiryRepository)(nil)

func NewExpiryRepository(db *sqlx.DB) *ExpiryRepository {
	return &ExpiryRepository{db: db}
}

type expiringRow struct {
	RecordID           uint64 `db:"record_id"`
	EmployeeID         uint64 `db:"employee_id"`
	EmployeeName       string `db:"employee_name"`
	RegistrationNumber string `db:"registration_number"`
	Role               string `db:"role"`
	Detail             string `db:"detail"`
	ExpiresOn          string `db:"expires_on"`
}

func (r *ExpiryRepository) ListExpiring(ctx context.Context, kind safety.RecordKind, window safety.Window, role string) ([]ports.ExpiringRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	src, ok := expirySources[kind]
	if !ok {
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}

	query, args := buildExpiringQuery(src, window, role)

	var rows []expiringRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errs.Wrapf(err, "query expiring %s records", kind)
	}

	items := make([]ports.ExpiringRecord, 0, len(rows))
	for _, row := range rows {
		expires := storedDate(&row.ExpiresOn)
		if expires == nil {
			continue
		}
		items = append(items, ports.ExpiringRecord{
			Kind:               kind,
			RecordID:           row.RecordID,
			EmployeeID:         row.EmployeeID,
			EmployeeName:       row.EmployeeName,
			RegistrationNumber: row.RegistrationNumber,
			Role:               row.Role,
			Detail:             row.Detail,
			ExpiresOn:          *expires,
		})
	}
	return items, nil
}

func buildExpiringQuery(src expirySource, window safety.Window, role string) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b,
		"SELECT %s AS record_id, e.id AS employee_id, e.name AS employee_name, e.registration_number, e.role, COALESCE(%s, '') AS detail, %s AS expires_on FROM %s WHERE %s IS NOT NULL AND %s <> ''",
		src.idColumn, src.detailColumn, src.expiryColumn, src.from, src.expiryColumn, src.expiryColumn,
	)

	args := make([]any, 0, 3)
	if !window.From.IsZero() {
		fmt.Fprintf(&b, " AND %s >= ?", src.expiryColumn)
		args = append(args, safety.FormatDate(window.From))
	}
	if window.ToExclusive {
		fmt.Fprintf(&b, " AND %s < ?", src.expiryColumn)
	} else {
		fmt.Fprintf(&b, " AND %s <= ?", src.expiryColumn)
	}
	args = append(args, safety.FormatDate(window.To))

	if role = strings.TrimSpace(role); role != "" {
		b.WriteString(" AND e.role = ?")
		args = append(args, role)
	}

	fmt.Fprintf(&b, " ORDER BY %s ASC, e.name ASC, %s ASC", src.expiryColumn, src.idColumn)
	return b.String(), args
}

type tallyRow struct {
	Label string `db:"label"`
	Total int    `db:"total"`
}

// TallyIncidents counts incidents by severity and by type. With a role set,
// incidents with no employee attached are left out.
func (r *ExpiryRepository) TallyIncidents(ctx context.Context, role string) (ports.IncidentTally, error) {
	if ctx == nil {
		return ports.IncidentTally{}, errors.New("context is required")
	}

	where := ""
	args := []any{}
	if role = strings.TrimSpace(role); role != "" {
		where = " WHERE e.role = ?"
		args = append(args, role)
	}
	const from = " FROM incidents AS i LEFT JOIN employees AS e ON e.id = i.employee_id"

	var tally ports.IncidentTally
	if err := r.db.GetContext(ctx, &tally.Total, r.db.Rebind("SELECT COUNT(*)"+from+where), args...); err != nil {
		return ports.IncidentTally{}, errs.Wrap(err, "count incidents")
	}

	var err error
	if tally.BySeverity, err = r.tallyBy(ctx, "i.severity", from+where, args); err != nil {
		return ports.IncidentTally{}, err
	}
	if tally.ByType, err = r.tallyBy(ctx, "i.incident_type", from+where, args); err != nil {
		return ports.IncidentTally{}, err
	}
	return tally, nil
}

func (r *ExpiryRepository) tallyBy(ctx context.Context, column string, fromWhere string, args []any) ([]ports.CountItem, error) {
	query := fmt.Sprintf("SELECT %s AS label, COUNT(*) AS total%s GROUP BY %s ORDER BY total DESC, label ASC", column, fromWhere, column)

	var rows []tallyRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errs.Wrapf(err, "tally incidents by %s", column)
	}

	items := make([]ports.CountItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.CountItem{Key: row.Label, Count: row.Total})
	}
	return items, nil
}
