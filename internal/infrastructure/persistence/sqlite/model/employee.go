package model

type Employee struct {
	ID                 uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name               string  `gorm:"column:name;type:text;not null"`
	RegistrationNumber string  `gorm:"column:registration_number;type:text;not null;uniqueIndex:idx_employees_registration"`
	Role               string  `gorm:"column:role;type:text;not null;default:''"`
	LicenseCategory    string  `gorm:"column:license_category;type:text;not null;default:''"`
	LicenseExpiry      *string `gorm:"column:license_expiry;type:text"`
}

func (Employee) TableName() string {
	return "employees"
}
