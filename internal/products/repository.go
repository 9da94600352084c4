package product

import (
	"context"

	"github.com/angelmondragon/polly-storefront/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists catalog products.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update saves every column of an existing product row.
func (r *Repository) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a product regardless of owner.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindOwned loads a product only when it belongs to adminID.
func (r *Repository) FindOwned(ctx context.Context, adminID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND admin_id = ?", id, adminID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListAll returns every product, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListByAdmin returns the admin's products, newest first.
func (r *Repository) ListByAdmin(ctx context.Context, adminID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("admin_id = ?", adminID).
		Order("created_at DESC").
		Order("id").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// DeleteOwned removes the product if adminID owns it and reports whether a row went away.
func (r *Repository) DeleteOwned(ctx context.Context, adminID, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND admin_id = ?", id, adminID).
		Delete(&models.Product{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteByAdmin removes every product the admin owns.
func (r *Repository) DeleteByAdmin(ctx context.Context, adminID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("admin_id = ?", adminID).
		Delete(&models.Product{}).Error
}
