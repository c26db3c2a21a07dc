package importer

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"safetrack/internal/domain/safety"
	"safetrack/internal/errs"
	"safetrack/internal/infrastructure/sheet"
	"safetrack/internal/ports"
)

var errExamExpiryMissing = errors.New("exam expiry is empty")

// resolveEmployee finds the employee by registration number or creates it
// from the row. An existing employee is never updated.
func (r *Reconciler) resolveEmployee(ctx context.Context, row []string, cols columnIndex, registration string) (ports.Employee, bool, error) {
	if registration == "" {
		return ports.Employee{}, false, safety.ErrRegistrationRequired
	}

	employee, found, err := r.repo.FindEmployeeByRegistration(ctx, registration)
	if err != nil || found {
		return employee, false, err
	}

	name := sheet.Cell(row, cols.name)
	if name == "" {
		return ports.Employee{}, false, safety.ErrNameRequired
	}

	var licenseExpiry *time.Time
	if raw := sheet.Cell(row, cols.licenseExpiry); raw != "" {
		parsed, err := r.parseCellDate(raw)
		if err != nil {
			return ports.Employee{}, false, errs.Wrap(err, "license expiry")
		}
		licenseExpiry = &parsed
	}

	employee, err = r.repo.CreateEmployee(ctx, ports.EmployeeFields{
		Name:               name,
		RegistrationNumber: registration,
		Role:               sheet.Cell(row, cols.role),
		LicenseCategory:    safety.LicenseNotApplicable,
		LicenseExpiry:      licenseExpiry,
	})
	if err != nil {
		return ports.Employee{}, false, err
	}
	return employee, true, nil
}

// addExam inserts the row's exam unless the employee already has one on the
// same date. It reports whether an exam was created.
func (r *Reconciler) addExam(ctx context.Context, row []string, cols columnIndex, employeeID uint64) (bool, error) {
	if !cols.hasExam() {
		return false, nil
	}
	rawExamDate := sheet.Cell(row, cols.examDate)
	if rawExamDate == "" {
		return false, nil
	}

	examDate, err := r.parseCellDate(rawExamDate)
	if err != nil {
		return false, errs.Wrap(err, "exam date")
	}
	if _, exists, err := r.repo.FindExam(ctx, employeeID, examDate); err != nil {
		return false, err
	} else if exists {
		return false, nil
	}

	rawExpiry := sheet.Cell(row, cols.examExpiry)
	if rawExpiry == "" {
		return false, errExamExpiryMissing
	}
	expiry, err := r.parseCellDate(rawExpiry)
	if err != nil {
		return false, errs.Wrap(err, "exam expiry")
	}

	if _, err := r.repo.CreateExam(ctx, ports.ExamCreate{
		EmployeeID: employeeID,
		ExamType:   safety.ExamPeriodic,
		ExamDate:   &examDate,
		Result:     safety.ResultFit,
		ExpiresOn:  &expiry,
	}); err != nil {
		return false, err
	}
	return true, nil
}

// parseCellDate accepts the textual layouts plus Excel serial day numbers.
func (r *Reconciler) parseCellDate(raw string) (time.Time, error) {
	parsed, err := safety.ParseDate(raw, r.opts.DayFirst)
	if err == nil {
		return parsed, nil
	}
	serial, numErr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if numErr != nil || serial < 1 || serial > 2958465 {
		return time.Time{}, err
	}
	converted, convErr := excelize.ExcelDateToTime(serial, false)
	if convErr != nil {
		return time.Time{}, err
	}
	return safety.DateOf(converted), nil
}

// coerceText drops the ".0" that spreadsheets append to whole numbers, so
// "123.0" becomes "123". Any other value is returned trimmed.
func coerceText(raw string) string {
	value := strings.TrimSpace(raw)
	dot := strings.IndexByte(value, '.')
	if dot <= 0 || dot == len(value)-1 {
		return value
	}
	intPart, fraction := value[:dot], value[dot+1:]
	if strings.Trim(fraction, "0") != "" {
		return value
	}
	digits := strings.TrimPrefix(intPart, "-")
	if digits == "" || strings.Trim(digits, "0123456789") != "" {
		return value
	}
	return intPart
}
