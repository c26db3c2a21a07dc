// Package dashboard builds the expiry and incident overview.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/domain/safety"
	"safetrack/internal/errs"
	"safetrack/internal/ports"
)

type Aggregator struct {
	repo          ports.ExpiryRepository
	lookaheadDays int
	now           func() time.Time
}

// NewAggregator uses safety.DefaultLookaheadDays when lookaheadDays is negative.
func NewAggregator(repo ports.ExpiryRepository, lookaheadDays int) *Aggregator {
	if lookaheadDays < 0 {
		lookaheadDays = safety.DefaultLookaheadDays
	}
	return &Aggregator{
		repo:          repo,
		lookaheadDays: lookaheadDays,
		now:           time.Now,
	}
}

// WithClock replaces the time source, mainly for tests and reproducible reports.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	if now != nil {
		a.now = now
	}
	return a
}

type Item struct {
	Kind               safety.RecordKind `json:"kind"`
	RecordID           uint64            `json:"record_id"`
	EmployeeID         uint64            `json:"employee_id"`
	EmployeeName       string            `json:"employee_name"`
	RegistrationNumber string            `json:"registration_number"`
	Role               string            `json:"role"`
	Detail             string            `json:"detail"`
	ExpiresOn          string            `json:"expires_on"`
	DaysLeft           int               `json:"days_left"`
}

type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type Incidents struct {
	Total      int     `json:"total"`
	BySeverity []Count `json:"by_severity"`
	ByType     []Count `json:"by_type"`
}

type Summary struct {
	Expired      int `json:"expired"`
	ExpiringSoon int `json:"expiring_soon"`
	Incidents    int `json:"incidents"`
}

// Dashboard holds six expiry lists (expired and expiring soon for trainings,
// exams and licenses) plus the incident tallies.
type Dashboard struct {
	Today         string    `json:"today"`
	Horizon       string    `json:"horizon"`
	LookaheadDays int       `json:"lookahead_days"`
	Role          string    `json:"role,omitempty"`
	Summary       Summary   `json:"summary"`
	Trainings     Bucket    `json:"trainings"`
	Exams         Bucket    `json:"exams"`
	Licenses      Bucket    `json:"licenses"`
	Incidents     Incidents `json:"incidents"`
}

type Bucket struct {
	Expired      []Item `json:"expired"`
	ExpiringSoon []Item `json:"expiring_soon"`
}

// Bucket returns the lists for one record kind.
func (d Dashboard) Bucket(kind safety.RecordKind) Bucket {
	switch kind {
	case safety.KindTraining:
		return d.Trainings
	case safety.KindExam:
		return d.Exams
	default:
		return d.Licenses
	}
}

// Build reads the current state; an empty role covers every employee.
func (a *Aggregator) Build(ctx context.Context, role string) (Dashboard, error) {
	if ctx == nil {
		return Dashboard{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Dashboard{}, errs.Wrap(err, "check context")
	}
	if a.repo == nil {
		return Dashboard{}, errors.New("expiry repository is required")
	}

	role = strings.TrimSpace(role)
	today := safety.DateOf(a.now())
	expiredWindow := safety.ExpiredWindow(today)
	soonWindow := safety.ExpiringSoonWindow(today, a.lookaheadDays)

	out := Dashboard{
		Today:         safety.FormatDate(today),
		Horizon:       safety.FormatDate(soonWindow.To),
		LookaheadDays: a.lookaheadDays,
		Role:          role,
	}

	for _, kind := range safety.RecordKinds() {
		expired, err := a.list(ctx, kind, expiredWindow, role, today)
		if err != nil {
			return Dashboard{}, err
		}
		soon, err := a.list(ctx, kind, soonWindow, role, today)
		if err != nil {
			return Dashboard{}, err
		}
		bucket := Bucket{Expired: expired, ExpiringSoon: soon}
		switch kind {
		case safety.KindTraining:
			out.Trainings = bucket
		case safety.KindExam:
			out.Exams = bucket
		case safety.KindLicense:
			out.Licenses = bucket
		}
		out.Summary.Expired += len(expired)
		out.Summary.ExpiringSoon += len(soon)
	}

	tally, err := a.repo.TallyIncidents(ctx, role)
	if err != nil {
		return Dashboard{}, err
	}
	out.Incidents = Incidents{
		Total:      tally.Total,
		BySeverity: counts(tally.BySeverity),
		ByType:     counts(tally.ByType),
	}
	out.Summary.Incidents = tally.Total

	logging.Debug(
		logging.WithAttrs(ctx, slog.String("component", "dashboard")),
		"dashboard built",
		slog.String("role", role),
		slog.Int("expired", out.Summary.Expired),
		slog.Int("expiring_soon", out.Summary.ExpiringSoon),
	)
	return out, nil
}

func (a *Aggregator) list(ctx context.Context, kind safety.RecordKind, window safety.Window, role string, today time.Time) ([]Item, error) {
	records, err := a.repo.ListExpiring(ctx, kind, window, role)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(records))
	for _, rec := range records {
		items = append(items, Item{
			Kind:               kind,
			RecordID:           rec.RecordID,
			EmployeeID:         rec.EmployeeID,
			EmployeeName:       rec.EmployeeName,
			RegistrationNumber: rec.RegistrationNumber,
			Role:               rec.Role,
			Detail:             rec.Detail,
			ExpiresOn:          safety.FormatDate(rec.ExpiresOn),
			DaysLeft:           safety.DaysUntil(rec.ExpiresOn, today),
		})
	}
	return items, nil
}

func counts(in []ports.CountItem) []Count {
	out := make([]Count, 0, len(in))
	for _, item := range in {
		out = append(out, Count{Key: item.Key, Count: item.Count})
	}
	return out
}
