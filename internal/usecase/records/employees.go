package records

import (
	"context"
	"log/slog"
	"strings"

	"safetrack/internal/bootstrap/logging"
	"safetrack/internal/domain/safety"
	"safetrack/internal/ports"
)

func (s *Service) CreateEmployee(ctx context.Context, input EmployeeInput) (EmployeeView, error) {
	if err := s.check(ctx); err != nil {
		return EmployeeView{}, err
	}
	fields, err := s.employeeFields(input)
	if err != nil {
		return EmployeeView{}, err
	}

	created, err := s.repo.CreateEmployee(ctx, fields)
	if err != nil {
		return EmployeeView{}, err
	}
	logging.Info(
		logging.WithAttrs(ctx, slog.String("component", "records")),
		"employee created",
		slog.Uint64("employee_id", created.ID),
		slog.String("registration", created.RegistrationNumber),
	)
	return s.employeeView(created), nil
}

func (s *Service) UpdateEmployee(ctx context.Context, id uint64, input EmployeeInput) (EmployeeView, error) {
	if err := s.check(ctx); err != nil {
		return EmployeeView{}, err
	}
	fields, err := s.employeeFields(input)
	if err != nil {
		return EmployeeView{}, err
	}

	updated, err := s.repo.UpdateEmployee(ctx, id, fields)
	if err != nil {
		return EmployeeView{}, err
	}
	return s.employeeView(updated), nil
}

// DeleteEmployee also removes the employee's trainings and exams; their
// incidents stay on record without an employee.
func (s *Service) DeleteEmployee(ctx context.Context, id uint64) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if err := s.repo.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	logging.Info(logging.WithAttrs(ctx, slog.String("component", "records")), "employee deleted", slog.Uint64("employee_id", id))
	return nil
}

func (s *Service) GetEmployee(ctx context.Context, id uint64) (EmployeeView, error) {
	if err := s.check(ctx); err != nil {
		return EmployeeView{}, err
	}
	emp, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		return EmployeeView{}, err
	}
	return s.employeeView(emp), nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]EmployeeView, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	items, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]EmployeeView, 0, len(items))
	for _, item := range items {
		out = append(out, s.employeeView(item))
	}
	return out, nil
}

// ListRoles returns the distinct non-empty roles in alphabetical order.
func (s *Service) ListRoles(ctx context.Context) ([]string, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	return s.repo.ListRoles(ctx)
}

func (s *Service) employeeFields(input EmployeeInput) (ports.EmployeeFields, error) {
	expiry, err := s.optionalDate(strings.TrimSpace(input.LicenseExpiry), "license expiry")
	if err != nil {
		return ports.EmployeeFields{}, err
	}
	return ports.EmployeeFields{
		Name:               input.Name,
		RegistrationNumber: input.RegistrationNumber,
		Role:               input.Role,
		LicenseCategory:    input.LicenseCategory,
		LicenseExpiry:      expiry,
	}, nil
}

func (s *Service) employeeView(emp ports.Employee) EmployeeView {
	status, days := s.status(emp.LicenseExpiry)
	return EmployeeView{
		ID:                 emp.ID,
		Name:               emp.Name,
		RegistrationNumber: emp.RegistrationNumber,
		Role:               emp.Role,
		LicenseCategory:    emp.LicenseCategory,
		LicenseExpiry:      safety.FormatDatePtr(emp.LicenseExpiry),
		LicenseStatus:      status,
		DaysLeft:           days,
	}
}
