package ports

import (
	"context"
	"time"

	"safetrack/internal/domain/safety"
)

type Employee struct {
	ID                 uint64
	Name               string
	RegistrationNumber string
	Role               string
	LicenseCategory    string
	LicenseExpiry      *time.Time
}

// EmployeeFields carries every editable employee attribute.
type EmployeeFields struct {
	Name               string
	RegistrationNumber string
	Role               string
	LicenseCategory    string
	LicenseExpiry      *time.Time
}

type TrainingRecord struct {
	ID           uint64
	EmployeeID   uint64
	EmployeeName string
	TrainingName string
	PerformedOn  *time.Time
	ExpiresOn    *time.Time
}

type TrainingCreate struct {
	EmployeeID   uint64
	TrainingName string
	PerformedOn  *time.Time
	ExpiresOn    *time.Time
}

type ExamRecord struct {
	ID           uint64
	EmployeeID   uint64
	EmployeeName string
	ExamType     safety.ExamType
	ExamDate     *time.Time
	Result       safety.ExamResult
	ExpiresOn    *time.Time
}

type ExamCreate struct {
	EmployeeID uint64
	ExamType   safety.ExamType
	ExamDate   *time.Time
	Result     safety.ExamResult
	ExpiresOn  *time.Time
}

type Incident struct {
	ID           uint64
	EmployeeID   *uint64
	EmployeeName string
	OccurredOn   time.Time
	Severity     safety.Severity
	IncidentType string
	Location     string
	RootCause    string
	BodyParts    string
	LostWorkdays int
}

type IncidentCreate struct {
	EmployeeID   *uint64
	OccurredOn   time.Time
	Severity     safety.Severity
	IncidentType string
	Location     string
	RootCause    string
	BodyParts    string
	LostWorkdays int
}

// RecordRepository is the Record Store. Every call commits on its own unless a
// transaction was attached to ctx by a UnitOfWork.
type RecordRepository interface {
	CreateEmployee(ctx context.Context, fields EmployeeFields) (Employee, error)
	UpdateEmployee(ctx context.Context, id uint64, fields EmployeeFields) (Employee, error)
	DeleteEmployee(ctx context.Context, id uint64) error
	GetEmployee(ctx context.Context, id uint64) (Employee, error)
	FindEmployeeByRegistration(ctx context.Context, registration string) (Employee, bool, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	ListRoles(ctx context.Context) ([]string, error)

	CreateTraining(ctx context.Context, input TrainingCreate) (TrainingRecord, error)
	ListTrainings(ctx context.Context) ([]TrainingRecord, error)
	ListTrainingsByEmployee(ctx context.Context, employeeID uint64) ([]TrainingRecord, error)
	DeleteTraining(ctx context.Context, id uint64) error

	CreateExam(ctx context.Context, input ExamCreate) (ExamRecord, error)
	FindExam(ctx context.Context, employeeID uint64, examDate time.Time) (ExamRecord, bool, error)
	ListExams(ctx context.Context) ([]ExamRecord, error)
	ListExamsByEmployee(ctx context.Context, employeeID uint64) ([]ExamRecord, error)
	DeleteExam(ctx context.Context, id uint64) error

	CreateIncident(ctx context.Context, input IncidentCreate) (Incident, error)
	ListIncidents(ctx context.Context) ([]Incident, error)
	DeleteIncident(ctx context.Context, id uint64) error
}
