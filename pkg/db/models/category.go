package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a named product grouping. Names are unique across the catalog.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:categories_name_key"`
	AdminID   uuid.UUID `gorm:"column:admin_id;type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
