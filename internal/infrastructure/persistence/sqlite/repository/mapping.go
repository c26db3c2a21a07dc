package repository

import (
	"time"

	"safetrack/internal/domain/safety"
	"safetrack/internal/infrastructure/persistence/sqlite/model"
	"safetrack/internal/ports"
)

type trainingRow struct {
	ID           uint64
	EmployeeID   uint64
	EmployeeName string
	TrainingName string
	PerformedOn  *string
	ExpiresOn    *string
}

type examRow struct {
	ID           uint64
	EmployeeID   uint64
	EmployeeName string
	ExamType     string
	ExamDate     *string
	Result       string
	ExpiresOn    *string
}

type incidentRow struct {
	ID           uint64
	EmployeeID   *uint64
	EmployeeName string
	OccurredOn   string
	Severity     string
	IncidentType string
	Location     string
	RootCause    string
	BodyParts    string
	LostWorkdays int
}

func mapEmployee(row model.Employee) ports.Employee {
	return ports.Employee{
		ID:                 row.ID,
		Name:               row.Name,
		RegistrationNumber: row.RegistrationNumber,
		Role:               row.Role,
		LicenseCategory:    row.LicenseCategory,
		LicenseExpiry:      storedDate(row.LicenseExpiry),
	}
}

func mapTraining(row trainingRow) ports.TrainingRecord {
	return ports.TrainingRecord{
		ID:           row.ID,
		EmployeeID:   row.EmployeeID,
		EmployeeName: row.EmployeeName,
		TrainingName: row.TrainingName,
		PerformedOn:  storedDate(row.PerformedOn),
		ExpiresOn:    storedDate(row.ExpiresOn),
	}
}

func mapExam(row examRow) ports.ExamRecord {
	return ports.ExamRecord{
		ID:           row.ID,
		EmployeeID:   row.EmployeeID,
		EmployeeName: row.EmployeeName,
		ExamType:     safety.ExamType(row.ExamType),
		ExamDate:     storedDate(row.ExamDate),
		Result:       safety.ExamResult(row.Result),
		ExpiresOn:    storedDate(row.ExpiresOn),
	}
}

func mapIncident(row incidentRow) ports.Incident {
	name := row.EmployeeName
	if row.EmployeeID == nil {
		name = safety.ThirdPartyLabel
	}
	var occurred time.Time
	if parsed := storedDate(&row.OccurredOn); parsed != nil {
		occurred = *parsed
	}
	return ports.Incident{
		ID:           row.ID,
		EmployeeID:   row.EmployeeID,
		EmployeeName: name,
		OccurredOn:   occurred,
		Severity:     safety.Severity(row.Severity),
		IncidentType: row.IncidentType,
		Location:     row.Location,
		RootCause:    row.RootCause,
		BodyParts:    row.BodyParts,
		LostWorkdays: row.LostWorkdays,
	}
}

func dateColumn(t *time.Time) *string {
	if t == nil {
		return nil
	}
	value := safety.FormatDate(*t)
	return &value
}

// storedDate treats unreadable values like missing ones.
func storedDate(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	parsed, err := safety.ParseStoredDate(*raw)
	if err != nil {
		return nil
	}
	return parsed
}
