package models

import "time"

// KVEntry backs the SQL key-value store used for cart persistence.
type KVEntry struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
