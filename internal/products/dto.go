package product

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/polly-storefront/pkg/db/models"
	dbtypes "github.com/angelmondragon/polly-storefront/pkg/db/types"
	"github.com/angelmondragon/polly-storefront/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO represents the product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	AdminID     uuid.UUID       `json:"admin_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Tags        []string        `json:"tags"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FromModel maps a product row to its DTO.
func FromModel(m models.Product) ProductDTO {
	tags := []string(m.Tags)
	if tags == nil {
		tags = []string{}
	}
	images := []string(m.Images)
	if images == nil {
		images = []string{}
	}
	return ProductDTO{
		ID:          m.ID,
		AdminID:     m.AdminID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Category:    m.Category,
		Stock:       m.Stock,
		Tags:        tags,
		Images:      images,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// BrowseResult is the public listing plus the categories offered as filters.
type BrowseResult struct {
	Products   []ProductDTO `json:"products"`
	Categories []string     `json:"categories"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	Category    string
	Stock       int
	Tags        []string
	Images      []string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	Stock       *int
	Tags        *[]string
	Images      *[]string
}

// PriceInput accepts a JSON number (12.5) or a formatted string ("12,50").
type PriceInput struct {
	decimal.Decimal
}

func (p *PriceInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		d, err := types.ParsePrice(s)
		if err != nil {
			return err
		}
		p.Decimal = d
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price must be a number or string")
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return fmt.Errorf("invalid price %q", n)
	}
	p.Decimal = d
	return nil
}

// TagsInput accepts a list of tags or a comma-separated string.
type TagsInput []string

func (t *TagsInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = TagsInput{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TagsInput(dbtypes.ParseStringList([]string{s}))
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags must be a list or a comma-separated string")
	}
	*t = TagsInput(dbtypes.ParseStringList(list))
	return nil
}
