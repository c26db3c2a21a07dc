package records

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/domain/safety"
	"safetrack/internal/errs"
	"safetrack/internal/ports"
)

// ReportIncident records an incident. A nil EmployeeID files it against a third party.
func (s *Service) ReportIncident(ctx context.Context, input IncidentInput) (IncidentView, error) {
	if err := s.check(ctx); err != nil {
		return IncidentView{}, err
	}
	severity, err := safety.ParseSeverity(input.Severity)
	if err != nil {
		return IncidentView{}, err
	}
	incidentType := strings.TrimSpace(input.IncidentType)
	if incidentType == "" {
		return IncidentView{}, safety.ErrIncidentTypeRequired
	}
	rawDate := strings.TrimSpace(input.OccurredOn)
	if rawDate == "" {
		return IncidentView{}, fmt.Errorf("%w: occurrence date is required", safety.ErrInvalidDate)
	}
	occurred, err := safety.ParseDate(rawDate, s.opts.DayFirst)
	if err != nil {
		return IncidentView{}, errs.Wrap(err, "parse occurrence date")
	}
	if input.LostWorkdays < 0 {
		return IncidentView{}, safety.ErrNegativeLostWorkdays
	}

	created, err := s.repo.CreateIncident(ctx, ports.IncidentCreate{
		EmployeeID:   input.EmployeeID,
		OccurredOn:   occurred,
		Severity:     severity,
		IncidentType: incidentType,
		Location:     input.Location,
		RootCause:    input.RootCause,
		BodyParts:    input.BodyParts,
		LostWorkdays: input.LostWorkdays,
	})
	if err != nil {
		return IncidentView{}, err
	}
	if created.EmployeeID != nil {
		if emp, err := s.repo.GetEmployee(ctx, *created.EmployeeID); err == nil {
			created.EmployeeName = emp.Name
		}
	}

	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "records")),
		"incident reported",
		slog.Uint64("incident_id", created.ID),
		slog.String("severity", string(severity)),
	)
	return incidentView(created), nil
}

// ListIncidents returns incidents newest first.
func (s *Service) ListIncidents(ctx context.Context) ([]IncidentView, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	items, err := s.repo.ListIncidents(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]IncidentView, 0, len(items))
	for _, item := range items {
		out = append(out, incidentView(item))
	}
	return out, nil
}

func (s *Service) DeleteIncident(ctx context.Context, id uint64) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	return s.repo.DeleteIncident(ctx, id)
}

func incidentView(inc ports.Incident) IncidentView {
	return IncidentView{
		ID:           inc.ID,
		EmployeeID:   inc.EmployeeID,
		EmployeeName: inc.EmployeeName,
		OccurredOn:   safety.FormatDate(inc.OccurredOn),
		Severity:     inc.Severity,
		IncidentType: inc.IncidentType,
		Location:     inc.Location,
		RootCause:    inc.RootCause,
		BodyParts:    inc.BodyParts,
		LostWorkdays: inc.LostWorkdays,
	}
}
