package admins

import (
	"context"
	"time"

	"github.com/angelmondragon/polly-storefront/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EmailConstraint = "admins_email_key"
	EmailColumn     = "admins.email"
)

// Repository exposes admin persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an admins repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new admin and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateAdminDTO) (*models.Admin, error) {
	admin := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

// FindByEmail retrieves the admin matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByID loads an admin by UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).First(&admin, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// UpdateLastLogin refreshes the admin's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// Save writes every profile column.
func (r *Repository) Save(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Save(admin).Error
}

// Delete removes the admin row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Admin{}, "id = ?", id).Error
}
