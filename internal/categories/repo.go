package categories

import (
	"context"

	"github.com/angelmondragon/polly-storefront/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	nameConstraint = "categories_name_key"
	nameColumn     = "categories.name"
)

// Repository persists product categories.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// List returns every category ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) FindOwned(ctx context.Context, adminID, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).
		Where("id = ? AND admin_id = ?", id, adminID).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) Rename(ctx context.Context, category *models.Category, name string) error {
	return r.db.WithContext(ctx).
		Model(category).
		Update("name", name).Error
}

// DeleteOwned reports whether a row owned by adminID was removed.
func (r *Repository) DeleteOwned(ctx context.Context, adminID, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND admin_id = ?", id, adminID).
		Delete(&models.Category{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
