package models

import (
	"time"

	dbtypes "github.com/angelmondragon/polly-storefront/pkg/db/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog listing owned by an admin.
type Product struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	AdminID     uuid.UUID          `gorm:"column:admin_id;type:uuid;not null;index"`
	Name        string             `gorm:"column:name;not null"`
	Description *string            `gorm:"column:description"`
	Price       decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	Category    string             `gorm:"column:category;not null"`
	Stock       int                `gorm:"column:stock;not null;default:0"`
	Tags        dbtypes.StringList `gorm:"column:tags;not null"`
	Images      dbtypes.StringList `gorm:"column:images;not null"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Tags == nil {
		p.Tags = dbtypes.StringList{}
	}
	if p.Images == nil {
		p.Images = dbtypes.StringList{}
	}
	return nil
}
