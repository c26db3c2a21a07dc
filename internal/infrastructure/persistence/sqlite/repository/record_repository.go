package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"safetrack/internal/domain/safety"
	"safetrack/internal/errs"
	"safetrack/internal/infrastructure/persistence/sqlite/model"
	"safetrack/internal/ports"
)

type RecordRepository struct {
	db *gorm.DB
}

var _ ports.RecordRepository = (*RecordRepository)(nil)

func NewRecordRepository(db *gorm.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

func (r *RecordRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *RecordRepository) CreateEmployee(ctx context.Context, fields ports.EmployeeFields) (ports.Employee, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Employee{}, err
	}

	row, err := employeeRow(fields)
	if err != nil {
		return ports.Employee{}, err
	}
	if err := db.Create(&row).Error; err != nil {
		return ports.Employee{}, errs.Wrapf(translateWriteError(err), "create employee %q", row.RegistrationNumber)
	}
	return mapEmployee(row), nil
}

func (r *RecordRepository) UpdateEmployee(ctx context.Context, id uint64, fields ports.EmployeeFields) (ports.Employee, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Employee{}, err
	}

	if _, err := getEmployeeByID(db, id); err != nil {
		return ports.Employee{}, err
	}

	row, err := employeeRow(fields)
	if err != nil {
		return ports.Employee{}, err
	}
	row.ID = id

	if err := db.Model(&model.Employee{}).Where("id = ?", id).Updates(map[string]any{
		"name":                row.Name,
		"registration_number": row.RegistrationNumber,
		"role":                row.Role,
		"license_category":    row.LicenseCategory,
		"license_expiry":      row.LicenseExpiry,
	}).Error; err != nil {
		return ports.Employee{}, errs.Wrapf(translateWriteError(err), "update employee %d", id)
	}
	return mapEmployee(row), nil
}

func (r *RecordRepository) DeleteEmployee(ctx context.Context, id uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Where("id = ?", id).Delete(&model.Employee{})
	if result.Error != nil {
		return errs.Wrapf(result.Error, "delete employee %d", id)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", safety.ErrEmployeeNotFound, id)
	}
	return nil
}

func (r *RecordRepository) GetEmployee(ctx context.Context, id uint64) (ports.Employee, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Employee{}, err
	}
	row, err := getEmployeeByID(db, id)
	if err != nil {
		return ports.Employee{}, err
	}
	return mapEmployee(row), nil
}

func (r *RecordRepository) FindEmployeeByRegistration(ctx context.Context, registration string) (ports.Employee, bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Employee{}, false, err
	}

	var row model.Employee
	if err := db.Where("registration_number = ?", strings.TrimSpace(registration)).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Employee{}, false, nil
		}
		return ports.Employee{}, false, errs.Wrap(err, "query employee by registration")
	}
	return mapEmployee(row), true, nil
}

func (r *RecordRepository) ListEmployees(ctx context.Context) ([]ports.Employee, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Employee
	if err := db.Order("name asc").Order("id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query employees")
	}

	items := make([]ports.Employee, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapEmployee(row))
	}
	return items, nil
}

func (r *RecordRepository) ListRoles(ctx context.Context) ([]string, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var roles []string
	if err := db.Model(&model.Employee{}).
		Where("role <> ''").
		Distinct("role").
		Order("role asc").
		Pluck("role", &roles).Error; err != nil {
		return nil, errs.Wrap(err, "query roles")
	}
	return roles, nil
}

func (r *RecordRepository) CreateTraining(ctx context.Context, input ports.TrainingCreate) (ports.TrainingRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.TrainingRecord{}, err
	}

	name := strings.TrimSpace(input.TrainingName)
	if name == "" {
		return ports.TrainingRecord{}, safety.ErrTrainingNameRequired
	}
	row := model.TrainingRecord{
		EmployeeID:   input.EmployeeID,
		TrainingName: name,
		PerformedOn:  dateColumn(input.PerformedOn),
		ExpiresOn:    dateColumn(input.ExpiresOn),
	}
	if err := db.Omit(clause.Associations).Create(&row).Error; err != nil {
		return ports.TrainingRecord{}, errs.Wrapf(translateWriteError(err), "create training for employee %d", input.EmployeeID)
	}
	return mapTraining(trainingRow{
		ID:           row.ID,
		EmployeeID:   row.EmployeeID,
		TrainingName: row.TrainingName,
		PerformedOn:  row.PerformedOn,
		ExpiresOn:    row.ExpiresOn,
	}), nil
}

func (r *RecordRepository) ListTrainings(ctx context.Context) ([]ports.TrainingRecord, error) {
	return r.listTrainings(ctx, nil)
}

func (r *RecordRepository) ListTrainingsByEmployee(ctx context.Context, employeeID uint64) ([]ports.TrainingRecord, error) {
	return r.listTrainings(ctx, &employeeID)
}

func (r *RecordRepository) listTrainings(ctx context.Context, employeeID *uint64) ([]ports.TrainingRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Table("training_records AS t").
		Select("t.id, t.employee_id, e.name AS employee_name, t.training_name, t.performed_on, t.expires_on").
		Joins("JOIN employees AS e ON e.id = t.employee_id")
	if employeeID != nil {
		query = query.Where("t.employee_id = ?", *employeeID)
	}

	var rows []trainingRow
	if err := query.Order("e.name asc").Order("t.id asc").Scan(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query training records")
	}

	items := make([]ports.TrainingRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapTraining(row))
	}
	return items, nil
}

func (r *RecordRepository) DeleteTraining(ctx context.Context, id uint64) error {
	return r.deleteRecord(ctx, &model.TrainingRecord{}, id)
}

func (r *RecordRepository) CreateExam(ctx context.Context, input ports.ExamCreate) (ports.ExamRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.ExamRecord{}, err
	}

	row := model.ExamRecord{
		EmployeeID: input.EmployeeID,
		ExamType:   string(input.ExamType),
		ExamDate:   dateColumn(input.ExamDate),
		Result:     string(input.Result),
		ExpiresOn:  dateColumn(input.ExpiresOn),
	}
	if err := db.Omit(clause.Associations).Create(&row).Error; err != nil {
		return ports.ExamRecord{}, errs.Wrapf(translateWriteError(err), "create exam for employee %d", input.EmployeeID)
	}
	return mapExam(examRow{
		ID:         row.ID,
		EmployeeID: row.EmployeeID,
		ExamType:   row.ExamType,
		ExamDate:   row.ExamDate,
		Result:     row.Result,
		ExpiresOn:  row.ExpiresOn,
	}), nil
}

func (r *RecordRepository) FindExam(ctx context.Context, employeeID uint64, examDate time.Time) (ports.ExamRecord, bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.ExamRecord{}, false, err
	}

	var row model.ExamRecord
	if err := db.
		Where("employee_id = ? AND exam_date = ?", employeeID, safety.FormatDate(examDate)).
		Order("id asc").
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ExamRecord{}, false, nil
		}
		return ports.ExamRecord{}, false, errs.Wrap(err, "query exam by employee and date")
	}
	return mapExam(examRow{
		ID:         row.ID,
		EmployeeID: row.EmployeeID,
		ExamType:   row.ExamType,
		ExamDate:   row.ExamDate,
		Result:     row.Result,
		ExpiresOn:  row.ExpiresOn,
	}), true, nil
}

func (r *RecordRepository) ListExams(ctx context.Context) ([]ports.ExamRecord, error) {
	return r.listExams(ctx, nil)
}

func (r *RecordRepository) ListExamsByEmployee(ctx context.Context, employeeID uint64) ([]ports.ExamRecord, error) {
	return r.listExams(ctx, &employeeID)
}

func (r *RecordRepository) listExams(ctx context.Context, employeeID *uint64) ([]ports.ExamRecord, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := db.Table("exam_records AS x").
		Select("x.id, x.employee_id, e.name AS employee_name, x.exam_type, x.exam_date, x.result, x.expires_on").
		Joins("JOIN employees AS e ON e.id = x.employee_id")
	if employeeID != nil {
		query = query.Where("x.employee_id = ?", *employeeID)
	}

	var rows []examRow
	if err := query.Order("e.name asc").Order("x.exam_date desc").Order("x.id asc").Scan(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query exam records")
	}

	items := make([]ports.ExamRecord, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapExam(row))
	}
	return items, nil
}

func (r *RecordRepository) DeleteExam(ctx context.Context, id uint64) error {
	return r.deleteRecord(ctx, &model.ExamRecord{}, id)
}

func (r *RecordRepository) CreateIncident(ctx context.Context, input ports.IncidentCreate) (ports.Incident, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.Incident{}, err
	}

	incidentType := strings.TrimSpace(input.IncidentType)
	if incidentType == "" {
		return ports.Incident{}, safety.ErrIncidentTypeRequired
	}
	if input.OccurredOn.IsZero() {
		return ports.Incident{}, fmt.Errorf("%w: occurrence date is required", safety.ErrInvalidDate)
	}

	row := model.Incident{
		EmployeeID:   input.EmployeeID,
		OccurredOn:   safety.FormatDate(input.OccurredOn),
		Severity:     string(input.Severity),
		IncidentType: incidentType,
		Location:     strings.TrimSpace(input.Location),
		RootCause:    strings.TrimSpace(input.RootCause),
		BodyParts:    strings.TrimSpace(input.BodyParts),
		LostWorkdays: input.LostWorkdays,
	}
	if err := db.Omit(clause.Associations).Create(&row).Error; err != nil {
		return ports.Incident{}, errs.Wrap(translateWriteError(err), "create incident")
	}
	return mapIncident(incidentRow{
		ID:           row.ID,
		EmployeeID:   row.EmployeeID,
		OccurredOn:   row.OccurredOn,
		Severity:     row.Severity,
		IncidentType: row.IncidentType,
		Location:     row.Location,
		RootCause:    row.RootCause,
		BodyParts:    row.BodyParts,
		LostWorkdays: row.LostWorkdays,
	}), nil
}

func (r *RecordRepository) ListIncidents(ctx context.Context) ([]ports.Incident, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []incidentRow
	if err := db.Table("incidents AS i").
		Select("i.id, i.employee_id, COALESCE(e.name, '') AS employee_name, i.occurred_on, i.severity, i.incident_type, i.location, i.root_cause, i.body_parts, i.lost_workdays").
		Joins("LEFT JOIN employees AS e ON e.id = i.employee_id").
		Order("i.occurred_on desc").
		Order("i.id desc").
		Scan(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query incidents")
	}

	items := make([]ports.Incident, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapIncident(row))
	}
	return items, nil
}

func (r *RecordRepository) DeleteIncident(ctx context.Context, id uint64) error {
	return r.deleteRecord(ctx, &model.Incident{}, id)
}

func (r *RecordRepository) deleteRecord(ctx context.Context, value any, id uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Where("id = ?", id).Delete(value)
	if result.Error != nil {
		return errs.Wrapf(result.Error, "delete record %d", id)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: id=%d", safety.ErrRecordNotFound, id)
	}
	return nil
}

func getEmployeeByID(db *gorm.DB, id uint64) (model.Employee, error) {
	var row model.Employee
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Employee{}, fmt.Errorf("%w: id=%d", safety.ErrEmployeeNotFound, id)
		}
		return model.Employee{}, errs.Wrap(err, "query employee by id")
	}
	return row, nil
}

func employeeRow(fields ports.EmployeeFields) (model.Employee, error) {
	name := strings.TrimSpace(fields.Name)
	if name == "" {
		return model.Employee{}, safety.ErrNameRequired
	}
	registration := strings.TrimSpace(fields.RegistrationNumber)
	if registration == "" {
		return model.Employee{}, safety.ErrRegistrationRequired
	}
	return model.Employee{
		Name:               name,
		RegistrationNumber: registration,
		Role:               strings.TrimSpace(fields.Role),
		LicenseCategory:    strings.TrimSpace(fields.LicenseCategory),
		LicenseExpiry:      dateColumn(fields.LicenseExpiry),
	}, nil
}

// translateWriteError maps constraint failures to domain errors. The driver
// reports them either through gorm's translated sentinels or as raw messages.
// Anything else is unexpected and keeps a stack for the error log.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", safety.ErrDuplicateRegistration, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", safety.ErrEmployeeReference, err)
	default:
		return errs.WithStack(err)
	}
}
