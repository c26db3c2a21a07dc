package model

type Incident struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	EmployeeID   *uint64   `gorm:"column:employee_id;index:idx_incidents_employee"`
	Employee     *Employee `gorm:"foreignKey:EmployeeID;references:ID;constraint:OnDelete:SET NULL"`
	OccurredOn   string    `gorm:"column:occurred_on;type:text;not null"`
	Severity     string    `gorm:"column:severity;type:text;not null"`
	IncidentType string    `gorm:"column:incident_type;type:text;not null"`
	Location     string    `gorm:"column:location;type:text;not null;default:''"`
	RootCause    string    `gorm:"column:root_cause;type:text;not null;default:''"`
	BodyParts    string    `gorm:"column:body_parts;type:text;not null;default:''"`
	LostWorkdays int       `gorm:"column:lost_workdays;not null;default:0"`
}

func (Incident) TableName() string {
	return "incidents"
}
