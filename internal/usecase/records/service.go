package records

import (
	"context"
	"errors"
	"time"

	"safetrack/internal/domain/safety"
	"safetrack/internal/errs"
	"safetrack/internal/ports"
)

// Options controls how free-text dates are read and how far ahead
// the expiring-soon status reaches.
type Options struct {
	DayFirst      bool
	LookaheadDays int
}

type Service struct {
	repo ports.RecordRepository
	opts Options
	now  func() time.Time
}

// NewService wires the record operations used by the CLI and the HTTP API.
func NewService(repo ports.RecordRepository, opts Options) *Service {
	if opts.LookaheadDays < 0 {
		opts.LookaheadDays = safety.DefaultLookaheadDays
	}
	return &Service{
		repo: repo,
		opts: opts,
		now:  time.Now,
	}
}

type EmployeeInput struct {
	Name               string
	RegistrationNumber string
	Role               string
	LicenseCategory    string
	LicenseExpiry      string
}

type TrainingInput struct {
	EmployeeID   uint64
	TrainingName string
	PerformedOn  string
	ExpiresOn    string
}

type ExamInput struct {
	EmployeeID uint64
	ExamType   string
	ExamDate   string
	Result     string
	ExpiresOn  string
}

type IncidentInput struct {
	EmployeeID   *uint64
	OccurredOn   string
	Severity     string
	IncidentType string
	Location     string
	RootCause    string
	BodyParts    string
	LostWorkdays int
}

type EmployeeView struct {
	ID                 uint64        `json:"id"`
	Name               string        `json:"name"`
	RegistrationNumber string        `json:"registration_number"`
	Role               string        `json:"role"`
	LicenseCategory    string        `json:"license_category"`
	LicenseExpiry      string        `json:"license_expiry,omitempty"`
	LicenseStatus      safety.Status `json:"license_status"`
	DaysLeft           *int          `json:"days_left,omitempty"`
}

type TrainingView struct {
	ID           uint64        `json:"id"`
	EmployeeID   uint64        `json:"employee_id"`
	EmployeeName string        `json:"employee_name"`
	TrainingName string        `json:"training_name"`
	PerformedOn  string        `json:"performed_on,omitempty"`
	ExpiresOn    string        `json:"expires_on,omitempty"`
	Status       safety.Status `json:"status"`
	DaysLeft     *int          `json:"days_left,omitempty"`
}

type ExamView struct {
	ID           uint64            `json:"id"`
	EmployeeID   uint64            `json:"employee_id"`
	EmployeeName string            `json:"employee_name"`
	ExamType     safety.ExamType   `json:"exam_type"`
	ExamDate     string            `json:"exam_date,omitempty"`
	Result       safety.ExamResult `json:"result,omitempty"`
	ExpiresOn    string            `json:"expires_on,omitempty"`
	Status       safety.Status     `json:"status"`
	DaysLeft     *int              `json:"days_left,omitempty"`
}

type IncidentView struct {
	ID           uint64          `json:"id"`
	EmployeeID   *uint64         `json:"employee_id,omitempty"`
	EmployeeName string          `json:"employee_name"`
	OccurredOn   string          `json:"occurred_on"`
	Severity     safety.Severity `json:"severity"`
	IncidentType string          `json:"incident_type"`
	Location     string          `json:"location,omitempty"`
	RootCause    string          `json:"root_cause,omitempty"`
	BodyParts    string          `json:"body_parts,omitempty"`
	LostWorkdays int             `json:"lost_workdays"`
}

func (s *Service) check(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return errors.New("record repository is required")
	}
	return nil
}

func (s *Service) today() time.Time {
	return safety.DateOf(s.now())
}

// optionalDate parses raw, returning nil for an empty value.
func (s *Service) optionalDate(raw string, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := safety.ParseDate(raw, s.opts.DayFirst)
	if err != nil {
		return nil, errs.Wrapf(err, "parse %s", field)
	}
	return &parsed, nil
}

func (s *Service) status(expiry *time.Time) (safety.Status, *int) {
	st := safety.Classify(expiry, s.today(), s.opts.LookaheadDays)
	if expiry == nil {
		return st, nil
	}
	days := safety.DaysUntil(*expiry, s.today())
	return st, &days
}
