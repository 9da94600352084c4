package admins

import (
	"time"

	"github.com/angelmondragon/polly-storefront/pkg/db/models"
	"github.com/google/uuid"
)

// AdminDTO is the transport shape that omits the password hash.
type AdminDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	CompanyName string     `json:"company_name"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateAdminDTO holds the data required by the repo to persist a new admin.
type CreateAdminDTO struct {
	Email        string
	PasswordHash string
	Name         string
	CompanyName  string
}

func FromModel(a *models.Admin) *AdminDTO {
	if a == nil {
		return nil
	}
	return &AdminDTO{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		CompanyName: a.CompanyName,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (c CreateAdminDTO) ToModel() *models.Admin {
	return &models.Admin{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Name:         c.Name,
		CompanyName:  c.CompanyName,
	}
}
