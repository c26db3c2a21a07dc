package records

import (
	"context"
	"strings"

	"safetrack/internal/domain/safety"
	"safetrack/internal/ports"
)

func (s *Service) AddTraining(ctx context.Context, input TrainingInput) (TrainingView, error) {
	if err := s.check(ctx); err != nil {
		return TrainingView{}, err
	}
	name := strings.TrimSpace(input.TrainingName)
	if name == "" {
		return TrainingView{}, safety.ErrTrainingNameRequired
	}
	performed, err := s.optionalDate(strings.TrimSpace(input.PerformedOn), "performed date")
	if err != nil {
		return TrainingView{}, err
	}
	expires, err := s.optionalDate(strings.TrimSpace(input.ExpiresOn), "expiry date")
	if err != nil {
		return TrainingView{}, err
	}

	created, err := s.repo.CreateTraining(ctx, ports.TrainingCreate{
		EmployeeID:   input.EmployeeID,
		TrainingName: name,
		PerformedOn:  performed,
		ExpiresOn:    expires,
	})
	if err != nil {
		return TrainingView{}, err
	}
	if emp, err := s.repo.GetEmployee(ctx, created.EmployeeID); err == nil {
		created.EmployeeName = emp.Name
	}
	return s.trainingView(created), nil
}

// ListTrainings lists every training, or only one employee's when employeeID is set.
func (s *Service) ListTrainings(ctx context.Context, employeeID *uint64) ([]TrainingView, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	var (
		items []ports.TrainingRecord
		err   error
	)
	if employeeID != nil {
		if _, err := s.repo.GetEmployee(ctx, *employeeID); err != nil {
			return nil, err
		}
		items, err = s.repo.ListTrainingsByEmployee(ctx, *employeeID)
	} else {
		items, err = s.repo.ListTrainings(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]TrainingView, 0, len(items))
	for _, item := range items {
		out = append(out, s.trainingView(item))
	}
	return out, nil
}

func (s *Service) DeleteTraining(ctx context.Context, id uint64) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	return s.repo.DeleteTraining(ctx, id)
}

func (s *Service) trainingView(rec ports.TrainingRecord) TrainingView {
	status, days := s.status(rec.ExpiresOn)
	return TrainingView{
		ID:           rec.ID,
		EmployeeID:   rec.EmployeeID,
		EmployeeName: rec.EmployeeName,
		TrainingName: rec.TrainingName,
		PerformedOn:  safety.FormatDatePtr(rec.PerformedOn),
		ExpiresOn:    safety.FormatDatePtr(rec.ExpiresOn),
		Status:       status,
		DaysLeft:     days,
	}
}
