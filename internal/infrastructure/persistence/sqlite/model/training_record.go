package model

type TrainingRecord struct {
	ID           uint64   `gorm:"column:id;primaryKey;autoIncrement"`
	EmployeeID   uint64   `gorm:"column:employee_id;not null;index:idx_training_records_employee"`
	Employee     Employee `gorm:"foreignKey:EmployeeID;references:ID;constraint:OnDelete:CASCADE"`
	TrainingName string   `gorm:"column:training_name;type:text;not null"`
	PerformedOn  *string  `gorm:"column:performed_on;type:text"`
	ExpiresOn    *string  `gorm:"column:expires_on;type:text;index:idx_training_records_expires"`
}

func (TrainingRecord) TableName() string {
	return "training_records"
}
