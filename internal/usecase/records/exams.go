package records

import (
	"context"
	"strings"

	"safetrack/internal/domain/safety"
	"safetrack/internal/ports"
)

func (s *Service) AddExam(ctx context.Context, input ExamInput) (ExamView, error) {
	if err := s.check(ctx); err != nil {
		return ExamView{}, err
	}
	examType, err := safety.ParseExamType(input.ExamType)
	if err != nil {
		return ExamView{}, err
	}
	var result safety.ExamResult
	if raw := strings.TrimSpace(input.Result); raw != "" {
		if result, err = safety.ParseExamResult(raw); err != nil {
			return ExamView{}, err
		}
	}
	examDate, err := s.optionalDate(strings.TrimSpace(input.ExamDate), "exam date")
	if err != nil {
		return ExamView{}, err
	}
	expires, err := s.optionalDate(strings.TrimSpace(input.ExpiresOn), "exam expiry")
	if err != nil {
		return ExamView{}, err
	}

	created, err := s.repo.CreateExam(ctx, ports.ExamCreate{
		EmployeeID: input.EmployeeID,
		ExamType:   examType,
		ExamDate:   examDate,
		Result:     result,
		ExpiresOn:  expires,
	})
	if err != nil {
		return ExamView{}, err
	}
	if emp, err := s.repo.GetEmployee(ctx, created.EmployeeID); err == nil {
		created.EmployeeName = emp.Name
	}
	return s.examView(created), nil
}

// ListExams lists every exam, or only one employee's when employeeID is set.
func (s *Service) ListExams(ctx context.Context, employeeID *uint64) ([]ExamView, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	var (
		items []ports.ExamRecord
		err   error
	)
	if employeeID != nil {
		if _, err := s.repo.GetEmployee(ctx, *employeeID); err != nil {
			return nil, err
		}
		items, err = s.repo.ListExamsByEmployee(ctx, *employeeID)
	} else {
		items, err = s.repo.ListExams(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]ExamView, 0, len(items))
	for _, item := range items {
		out = append(out, s.examView(item))
	}
	return out, nil
}

func (s *Service) DeleteExam(ctx context.Context, id uint64) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	return s.repo.DeleteExam(ctx, id)
}

func (s *Service) examView(rec ports.ExamRecord) ExamView {
	status, days := s.status(rec.ExpiresOn)
	return ExamView{
		ID:           rec.ID,
		EmployeeID:   rec.EmployeeID,
		EmployeeName: rec.EmployeeName,
		ExamType:     rec.ExamType,
		ExamDate:     safety.FormatDatePtr(rec.ExamDate),
		Result:       rec.Result,
		ExpiresOn:    safety.FormatDatePtr(rec.ExpiresOn),
		Status:       status,
		DaysLeft:     days,
	}
}
