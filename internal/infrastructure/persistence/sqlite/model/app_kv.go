package model

type AppKV struct {
	Key       string  `gorm:"column:key;type:text;primaryKey"`
	Value     string  `gorm:"column:value;type:text;not null"`
	UpdatedAt string  `gorm:"column:updated_at;type:text;not null"`
	ExpiresAt *string `gorm:"column:expires_at;type:text"`
}

func (AppKV) TableName() string {
	return "app_kv"
}
