package repository

import (
	"context"
	"errors"
	"testing"

	"safetrack/internal/domain/safety"
	"safetrack/internal/errs"
	"safetrack/internal/infrastructure/persistence/sqlite/uow"
	"safetrack/internal/ports"
)

func TestCreateEmployeeRejectsDuplicateRegistration(t *testing.T) {
	repo, _ := setupRecordRepository(t)
	ctx := context.Background()

	first, err := repo.CreateEmployee(ctx, ports.EmployeeFields{Name: "Alice", RegistrationNumber: "123", Role: "Welder"})
	if err != nil {
		t.Fatalf("CreateEmployee() error = %v", err)
	}
	if first.ID == 0 {
		t.Fatalf("CreateEmployee() id = 0")
	}

	_, err = repo.CreateEmployee(ctx, ports.EmployeeFields{Name: "Alice2", RegistrationNumber: " 123 "})
	if !errors.Is(err, safety.ErrDuplicateRegistration) {
		t.Fatalf("CreateEmployee(duplicate) error = %v, want ErrDuplicateRegistration", err)
	}

	items, err := repo.ListEmployees(ctx)
	if err != nil {
		t.Fatalf("ListEmployees() error = %v", err)
	}
	if len(items) != 1 || items[0].Name != "Alice" {
		t.Fatalf("ListEmployees() = %+v", items)
	}
}

func TestCreateEmployeeRequiresNameAndRegistration(t *testing.T) {
	repo, _ := setupRecordRepository(t)
	ctx := context.Background()

	if _, err := repo.CreateEmployee(ctx, ports.EmployeeFields{RegistrationNumber: "1"}); !errors.Is(err, safety.ErrNameRequired) {
		t.Fatalf("CreateEmployee(no name) error = %v", err)
	}
	if _, err := repo.CreateEmployee(ctx, ports.EmployeeFields{Name: "Bob"}); !errors.Is(err, safety.ErrRegistrationRequired) {
		t.Fatalf("CreateEmployee(no registration) error = %v", err)
	}
}

func TestUpdateEmployee(t *testing.T) {
	repo, _ := setupRecordRepository(t)
	ctx := context.Background()

	alice, err := repo.CreateEmployee(ctx, ports.EmployeeFields{Name: "Alice", RegistrationNumber: "1", Role: "Driver"})
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if _, err := repo.CreateEmployee(ctx, ports.EmployeeFields{Name: "Bob", RegistrationNumber: "2"}); err != nil {
		t.Fatalf("create bob: %v", err)
	}

	updated, err := repo.UpdateEmployee(ctx, alice.ID, ports.EmployeeFields{
		Name:               "Alice Souza",
		RegistrationNumber: "1",
		Role:               "Manager",
		LicenseCategory:    "B",
		LicenseExpiry:      day(t, "2025-03-01"),
	})
	if err != nil {
		t.Fatalf("UpdateEmployee(same registration) error = %v", err)
	}
	if updated.Name != "Alice Souza" || updated.Role != "Manager" {
		t.Fatalf("UpdateEmployee() = %+v", updated)
	}

	got, err := repo.GetEmployee(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetEmployee() error = %v", err)
	}
	if safety.FormatDatePtr(got.LicenseExpiry) != "2025-03-01" || got.LicenseCategory != "B" {
		t.Fatalf("GetEmployee() = %+v", got)
	}

	if _, err := repo.UpdateEmployee(ctx, alice.ID, ports.EmployeeFields{Name: "Alice", RegistrationNumber: "2"}); !errors.Is(err, safety.ErrDuplicateRegistration) {
		t.Fatalf("UpdateEmployee(taken registration) error = %v", err)
	}
	if _, err := repo.UpdateEmployee(ctx, 999, ports.EmployeeFields{Name: "X", RegistrationNumber: "9"}); !errors.Is(err, safety.ErrEmployeeNotFound) {
		t.Fatalf("UpdateEmployee(missing) error = %v", err)
	}
}

func TestDeleteEmployeeCascadesChildrenAndDetachesIncidents(t *testing.T) {
	repo, _ := setupRecordRepository(t)
	ctx := context.Background()

	emp, err := repo.CreateEmployee(ctx, ports.EmployeeFields{Name: "Carla", RegistrationNumber: "77"})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	if _, err := repo.CreateTraining(ctx, ports.TrainingCreate{EmployeeID: emp.ID, TrainingName: "NR-35", ExpiresOn: day(t, "2025-01-01")}); err != nil {
		t.Fatalf("create training: %v", err)
	}
	if _, err := repo.CreateExam(ctx, ports.ExamCreate{EmployeeID: emp.ID, ExamType: safety.ExamPeriodic, ExamDate: day(t, "2024-01-01"), Result: safety.ResultFit}); err != nil {
		t.Fatalf("create exam: %v", err)
	}
	empID := emp.ID
	if _, err := repo.CreateIncident(ctx, ports.IncidentCreate{EmployeeID: &empID, OccurredOn: *day(t, "2024-02-02"), Severity: safety.SeverityMinor, IncidentType: "Fall"}); err != nil {
		t.Fatalf("create incident: %v", err)
	}

	if err := repo.DeleteEmployee(ctx, emp.ID); err != nil {
		t.Fatalf("DeleteEmployee() error = %v", err)
	}

	trainings, err := repo.ListTrainings(ctx)
	if err != nil {
		t.Fatalf("ListTrainings() error = %v", err)
	}
	exams, err := repo.ListExams(ctx)
	if err != nil {
		t.Fatalf("ListExams() error = %v", err)
	}
	if len(trainings) != 0 || len(exams) != 0 {
		t.Fatalf("children left after delete: trainings=%d exams=%d", len(trainings), len(exams))
	}

	incidents, err := repo.ListIncidents(ctx)
	if err != nil {
		t.Fatalf("ListIncidents() error = %v", err)
	}
	if len(incidents) != 1 {
		t.Fatalf("ListIncidents() len = %d", len(incidents))
	}
	if incidents[0].EmployeeID != nil || incidents[0].EmployeeName != safety.ThirdPartyLabel {
		t.Fatalf("incident not detached: %+v", incidents[0])
	}

	if err := repo.DeleteEmployee(ctx, emp.ID); !errors.Is(err, safety.ErrEmployeeNotFound) {
		t.Fatalf("DeleteEmployee(again) error = %v", err)
	}
}

func TestChildRecordsRejectUnknownEmployee(t *testing.T) {
	repo, _ := setupRecordRepository(t)
	ctx := context.Background()

	if _, err := repo.CreateTraining(ctx, ports.TrainingCreate{EmployeeID: 42, TrainingName: "NR-10"}); !errors.Is(err, safety.ErrEmployeeReference) {
		t.Fatalf("CreateTraining() error = %v, want ErrEmployeeReference", err)
	}
	if _, err := repo.CreateExam(ctx, ports.ExamCreate{EmployeeID: 42, ExamType: safety.ExamAdmission}); !errors.Is(err, safety.ErrEmployeeReference) {
		t.Fatalf("CreateExam() error = %v, want ErrEmployeeReference", err)
	}
	missing := uint64(42)
	if _, err := repo.CreateIncident(ctx, ports.IncidentCreate{EmployeeID: &missing, OccurredOn: *day(t, "2024-01-01"), Severity: safety.SeverityFatal, IncidentType: "Crush"}); !errors.Is(err, safety.ErrEmployeeReference) {
		t.Fatalf("CreateIncident() error = %v, want ErrEmployeeReference", err)
	}
}

func TestFindExamAndListByEmployee(t *testing.T) {
	repo, _ := setupRecordRepository(t)
	ctx := context.Background()

	emp, err := repo.CreateEmployee(ctx, ports.EmployeeFields{Name: "Dan", RegistrationNumber: "5"})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	other, err := repo.CreateEmployee(ctx, ports.EmployeeFields{Name: "Eva", RegistrationNumber: "6"})
	if err != nil {
		t.Fatalf("create other: %v", err)
	}

	created, err := repo.CreateExam(ctx, ports.ExamCreate{
		EmployeeID: emp.ID,
		ExamType:   safety.ExamPeriodic,
		ExamDate:   day(t, "2024-01-10"),
		Result:     safety.ResultFit,
		ExpiresOn:  day(t, "2025-01-10"),
	})
	if err != nil {
		t.Fatalf("CreateExam() error = %v", err)
	}
	if _, err := repo.CreateExam(ctx, ports.ExamCreate{EmployeeID: other.ID, ExamType: safety.ExamAdmission, ExamDate: day(t, "2024-01-10")}); err != nil {
		t.Fatalf("CreateExam(other) error = %v", err)
	}

	found, ok, err := repo.FindExam(ctx, emp.ID, *day(t, "2024-01-10"))
	if err != nil {
		t.Fatalf("FindExam() error = %v", err)
	}
	if !ok || found.ID != created.ID {
		t.Fatalf("FindExam() = %+v, ok=%v", found, ok)
	}
	if _, ok, err := repo.FindExam(ctx, emp.ID, *day(t, "2024-01-11")); err != nil || ok {
		t.Fatalf("FindExam(other date) ok=%v err=%v", ok, err)
	}

	exams, err := repo.ListExamsByEmployee(ctx, emp.ID)
	if err != nil {
		t.Fatalf("ListExamsByEmployee() error = %v", err)
	}
	if len(exams) != 1 || exams[0].EmployeeName != "Dan" || safety.FormatDatePtr(exams[0].ExpiresOn) != "2025-01-10" {
		t.Fatalf("ListExamsByEmployee() = %+v", exams)
	}
}

func TestListRolesSkipsEmpty(t *testing.T) {
	repo, _ := setupRecordRepository(t)
	ctx := context.Background()

	for i, role := range []string{"Manager", "Driver", "", "Driver"} {
		if _, err := repo.CreateEmployee(ctx, ports.EmployeeFields{
			Name:               "E",
			RegistrationNumber: string(rune('a' + i)),
			Role:               role,
		}); err != nil {
			t.Fatalf("create employee %d: %v", i, err)
		}
	}

	roles, err := repo.ListRoles(ctx)
	if err != nil {
		t.Fatalf("ListRoles() error = %v", err)
	}
	if len(roles) != 2 || roles[0] != "Driver" || roles[1] != "Manager" {
		t.Fatalf("ListRoles() = %v", roles)
	}
}

func TestDeleteRecordNotFound(t *testing.T) {
	repo, _ := setupRecordRepository(t)
	ctx := context.Background()

	if err := repo.DeleteTraining(ctx, 1); !errors.Is(err, safety.ErrRecordNotFound) {
		t.Fatalf("DeleteTraining() error = %v", err)
	}
	if err := repo.DeleteExam(ctx, 1); !errors.Is(err, safety.ErrRecordNotFound) {
		t.Fatalf("DeleteExam() error = %v", err)
	}
	if err := repo.DeleteIncident(ctx, 1); !errors.Is(err, safety.ErrRecordNotFound) {
		t.Fatalf("DeleteIncident() error = %v", err)
	}
}

func TestUnitOfWorkRollsBackOnError(t *testing.T) {
	repo, db := setupRecordRepository(t)
	ctx := context.Background()
	work := uow.NewUnitOfWork(db)

	boom := errors.New("boom")
	err := work.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := repo.CreateEmployee(txCtx, ports.EmployeeFields{Name: "Tx", RegistrationNumber: "tx-1"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v", err)
	}

	if _, found, err := repo.FindEmployeeByRegistration(ctx, "tx-1"); err != nil || found {
		t.Fatalf("employee survived rollback: found=%v err=%v", found, err)
	}

	if err := work.WithTx(ctx, func(txCtx context.Context) error {
		_, err := repo.CreateEmployee(txCtx, ports.EmployeeFields{Name: "Tx", RegistrationNumber: "tx-2"})
		return err
	}); err != nil {
		t.Fatalf("WithTx(commit) error = %v", err)
	}
	if _, found, err := repo.FindEmployeeByRegistration(ctx, "tx-2"); err != nil || !found {
		t.Fatalf("committed employee missing: found=%v err=%v", found, err)
	}
}

func TestTranslateWriteErrorStacksUnexpectedErrors(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := translateWriteError(cause)

	var se *errs.StackError
	if !errors.As(err, &se) {
		t.Fatalf("translateWriteError() = %T, want *errs.StackError", err)
	}
	if !errors.Is(err, cause) || len(se.Stack()) == 0 {
		t.Fatalf("translateWriteError() lost cause or stack: %v", err)
	}

	dup := translateWriteError(errors.New("UNIQUE constraint failed: employees.registration_number"))
	if !errors.Is(dup, safety.ErrDuplicateRegistration) || errors.As(dup, &se) {
		t.Fatalf("translateWriteError(unique) = %v", dup)
	}
}
