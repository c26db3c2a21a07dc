package model

type ExamRecord struct {
	ID         uint64   `gorm:"column:id;primaryKey;autoIncrement"`
	EmployeeID uint64   `gorm:"column:employee_id;not null;index:idx_exam_records_employee_date,priority:1"`
	Employee   Employee `gorm:"foreignKey:EmployeeID;references:ID;constraint:OnDelete:CASCADE"`
	ExamType   string   `gorm:"column:exam_type;type:text;not null"`
	ExamDate   *string  `gorm:"column:exam_date;type:text;index:idx_exam_records_employee_date,priority:2"`
	Result     string   `gorm:"column:result;type:text;not null;default:''"`
	ExpiresOn  *string  `gorm:"column:expires_on;type:text;index:idx_exam_records_expires"`
}

func (ExamRecord) TableName() string {
	return "exam_records"
}
