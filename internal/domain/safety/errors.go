package safety

import "errors"

var (
	ErrDuplicateRegistration = errors.New("registration number already exists")
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrRecordNotFound        = errors.New("record not found")
	ErrEmployeeReference     = errors.New("referenced employee does not exist")

	ErrNameRequired         = errors.New("employee name is required")
	ErrRegistrationRequired = errors.New("registration number is required")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidExamType      = errors.New("invalid exam type")
	ErrInvalidExamResult    = errors.New("invalid exam result")
	ErrInvalidSeverity      = errors.New("invalid incident severity")
	ErrTrainingNameRequired = errors.New("training name is required")
	ErrIncidentTypeRequired = errors.New("incident type is required")
	ErrNegativeLostWorkdays = errors.New("lost workdays must not be negative")
)
