package ports

import (
	"context"
	"time"

	"safetrack/internal/domain/safety"
)

// ExpiringRecord is one training, exam or driving license with its owner.
type ExpiringRecord struct {
	Kind               safety.RecordKind
	RecordID           uint64
	EmployeeID         uint64
	EmployeeName       string
	RegistrationNumber string
	Role               string
	Detail             string
	ExpiresOn          time.Time
}

type CountItem struct {
	Key   string
	Count int
}

type IncidentTally struct {
	Total      int
	BySeverity []CountItem
	ByType     []CountItem
}

// ExpiryRepository answers the read-only dashboard queries. An empty role means no filter.
type ExpiryRepository interface {
	ListExpiring(ctx context.Context, kind safety.RecordKind, window safety.Window, role string) ([]ExpiringRecord, error)
	TallyIncidents(ctx context.Context, role string) (IncidentTally, error)
}

// TableDumper reads whole tables for export.
type TableDumper interface {
	ListTables(ctx context.Context) ([]string, error)
	DumpTable(ctx context.Context, table string, onHeader func(columns []string) error, onRow func(row []string) error) error
}
