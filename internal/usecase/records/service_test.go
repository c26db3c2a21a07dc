package records

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"safetrack/internal/bootstrap/config"
	"safetrack/internal/bootstrap/database"
	"safetrack/internal/domain/safety"
	"safetrack/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "safetrack/internal/infrastructure/persistence/sqlite/repository"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "records.sqlite")
	db, err := database.Open(context.Background(), config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	svc := NewService(sqliterepo.NewRecordRepository(db), Options{DayFirst: true, LookaheadDays: 30})
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 9, 30, 0, 0, time.Local) }
	return svc
}

func TestEmployeeLicenseStatus(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	cases := []struct {
		reg    string
		expiry string
		want   safety.Status
		days   int
	}{
		{reg: "1", expiry: "14/06/2024", want: safety.StatusExpired, days: -1},
		{reg: "2", expiry: "2024-06-15", want: safety.StatusExpiringSoon, days: 0},
		{reg: "3", expiry: "15/07/2024", want: safety.StatusExpiringSoon, days: 30},
		{reg: "4", expiry: "16/07/2024", want: safety.StatusValid, days: 31},
	}
	for _, tc := range cases {
		view, err := svc.CreateEmployee(ctx, EmployeeInput{Name: "E" + tc.reg, RegistrationNumber: tc.reg, LicenseCategory: "B", LicenseExpiry: tc.expiry})
		if err != nil {
			t.Fatalf("CreateEmployee(%s) error = %v", tc.reg, err)
		}
		if view.LicenseStatus != tc.want {
			t.Fatalf("license status for %s = %s, want %s", tc.expiry, view.LicenseStatus, tc.want)
		}
		if view.DaysLeft == nil || *view.DaysLeft != tc.days {
			t.Fatalf("days left for %s = %v, want %d", tc.expiry, view.DaysLeft, tc.days)
		}
	}

	view, err := svc.CreateEmployee(ctx, EmployeeInput{Name: "No license", RegistrationNumber: "5"})
	if err != nil {
		t.Fatalf("CreateEmployee(no license) error = %v", err)
	}
	if view.LicenseStatus != safety.StatusNone || view.DaysLeft != nil || view.LicenseExpiry != "" {
		t.Fatalf("no-license view = %+v", view)
	}
}

func TestCreateEmployeeRejectsBadDate(t *testing.T) {
	svc := setupService(t)

	_, err := svc.CreateEmployee(context.Background(), EmployeeInput{Name: "A", RegistrationNumber: "1", LicenseExpiry: "31/02/2024"})
	if !errors.Is(err, safety.ErrInvalidDate) {
		t.Fatalf("CreateEmployee() error = %v, want ErrInvalidDate", err)
	}
}

func TestTrainingAndExamLifecycle(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, EmployeeInput{Name: "Ana", RegistrationNumber: "10", Role: "Welder"})
	if err != nil {
		t.Fatalf("CreateEmployee() error = %v", err)
	}

	training, err := svc.AddTraining(ctx, TrainingInput{EmployeeID: emp.ID, TrainingName: "NR-35", PerformedOn: "01/06/2023", ExpiresOn: "01/06/2024"})
	if err != nil {
		t.Fatalf("AddTraining() error = %v", err)
	}
	if training.Status != safety.StatusExpired || training.EmployeeName != "Ana" {
		t.Fatalf("AddTraining() = %+v", training)
	}
	if training.PerformedOn != "2023-06-01" || training.ExpiresOn != "2024-06-01" {
		t.Fatalf("training dates = %s..%s", training.PerformedOn, training.ExpiresOn)
	}

	exam, err := svc.AddExam(ctx, ExamInput{EmployeeID: emp.ID, ExamType: "Periódico", ExamDate: "10/06/2024", Result: "Apto", ExpiresOn: "10/06/2025"})
	if err != nil {
		t.Fatalf("AddExam() error = %v", err)
	}
	if exam.ExamType != safety.ExamPeriodic || exam.Result != safety.ResultFit || exam.Status != safety.StatusValid {
		t.Fatalf("AddExam() = %+v", exam)
	}
	if exam.ExamDate != "2024-06-10" || exam.ExpiresOn != "2025-06-10" {
		t.Fatalf("exam dates = %s..%s", exam.ExamDate, exam.ExpiresOn)
	}

	if _, err := svc.AddExam(ctx, ExamInput{EmployeeID: emp.ID, ExamType: "annual"}); !errors.Is(err, safety.ErrInvalidExamType) {
		t.Fatalf("AddExam(bad type) error = %v", err)
	}

	id := emp.ID
	trainings, err := svc.ListTrainings(ctx, &id)
	if err != nil {
		t.Fatalf("ListTrainings() error = %v", err)
	}
	if len(trainings) != 1 {
		t.Fatalf("ListTrainings() len = %d", len(trainings))
	}

	missing := uint64(999)
	if _, err := svc.ListExams(ctx, &missing); !errors.Is(err, safety.ErrEmployeeNotFound) {
		t.Fatalf("ListExams(missing employee) error = %v", err)
	}

	if err := svc.DeleteTraining(ctx, training.ID); err != nil {
		t.Fatalf("DeleteTraining() error = %v", err)
	}
	if err := svc.DeleteExam(ctx, exam.ID); err != nil {
		t.Fatalf("DeleteExam() error = %v", err)
	}
	exams, err := svc.ListExams(ctx, nil)
	if err != nil {
		t.Fatalf("ListExams() error = %v", err)
	}
	if len(exams) != 0 {
		t.Fatalf("ListExams() after delete = %+v", exams)
	}
}

func TestReportIncident(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, EmployeeInput{Name: "Bia", RegistrationNumber: "20"})
	if err != nil {
		t.Fatalf("CreateEmployee() error = %v", err)
	}
	id := emp.ID

	if _, err := svc.ReportIncident(ctx, IncidentInput{EmployeeID: &id, OccurredOn: "02/03/2024", Severity: "Grave", IncidentType: "Fall", LostWorkdays: 3}); err != nil {
		t.Fatalf("ReportIncident() error = %v", err)
	}
	if _, err := svc.ReportIncident(ctx, IncidentInput{OccurredOn: "05/03/2024", Severity: "quase acidente", IncidentType: "Slip"}); err != nil {
		t.Fatalf("ReportIncident(third party) error = %v", err)
	}
	if _, err := svc.ReportIncident(ctx, IncidentInput{OccurredOn: "05/03/2024", Severity: "catastrophic", IncidentType: "Slip"}); !errors.Is(err, safety.ErrInvalidSeverity) {
		t.Fatalf("ReportIncident(bad severity) error = %v", err)
	}

	items, err := svc.ListIncidents(ctx)
	if err != nil {
		t.Fatalf("ListIncidents() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("ListIncidents() len = %d", len(items))
	}
	if items[0].OccurredOn != "2024-03-05" || items[0].EmployeeName != safety.ThirdPartyLabel || items[0].Severity != safety.SeverityNearMiss {
		t.Fatalf("newest incident = %+v", items[0])
	}
	if items[1].EmployeeName != "Bia" || items[1].Severity != safety.SeveritySevere || items[1].LostWorkdays != 3 {
		t.Fatalf("oldest incident = %+v", items[1])
	}
}
