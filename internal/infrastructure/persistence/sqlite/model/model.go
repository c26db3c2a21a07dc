package model

// All lists every table in creation order; parents come before children.
func All() []any {
	return []any{&Employee{}, &TrainingRecord{}, &ExamRecord{}, &Incident{}, &AppKV{}}
}

// UserTables are the tables written by export.
func UserTables() []string {
	return []string{
		Employee{}.TableName(),
		TrainingRecord{}.TableName(),
		ExamRecord{}.TableName(),
		Incident{}.TableName(),
	}
}
