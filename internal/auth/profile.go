package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/polly-storefront/internal/admins"
	product "github.com/angelmondragon/polly-storefront/internal/products"
	"github.com/angelmondragon/polly-storefront/pkg/db"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileService manages the signed-in admin's own account.
type ProfileService interface {
	Get(ctx context.Context, adminID uuid.UUID) (*admins.AdminDTO, error)
	Update(ctx context.Context, adminID uuid.UUID, req UpdateProfileRequest) (*admins.AdminDTO, error)
	Delete(ctx context.Context, adminID uuid.UUID) error
}

// ProfileServiceParams packages the profile dependencies.
type ProfileServiceParams struct {
	DB     *db.Client
	Hasher passwordHasher
}

type profileService struct {
	db     *db.Client
	hasher passwordHasher
}

func NewProfileService(params ProfileServiceParams) (ProfileService, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	return &profileService{db: params.DB, hasher: params.Hasher}, nil
}

func (s *profileService) Get(ctx context.Context, adminID uuid.UUID) (*admins.AdminDTO, error) {
	admin, err := admins.NewRepository(s.db.DB()).FindByID(ctx, adminID)
	if err != nil {
		return nil, mapAdminLookup(err)
	}
	return admins.FromModel(admin), nil
}

func (s *profileService) Update(ctx context.Context, adminID uuid.UUID, req UpdateProfileRequest) (*admins.AdminDTO, error) {
	repo := admins.NewRepository(s.db.DB())
	admin, err := repo.FindByID(ctx, adminID)
	if err != nil {
		return nil, mapAdminLookup(err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		admin.Name = name
	}
	if req.CompanyName != nil {
		company := strings.TrimSpace(*req.CompanyName)
		if company == "" {
			company = DefaultCompanyName
		}
		admin.CompanyName = company
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		admin.Email = email
	}
	if req.NewPassword != nil {
		if req.CurrentPassword == nil || *req.CurrentPassword == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "current_password is required to set a new password")
		}
		ok, err := s.hasher.Verify(*req.CurrentPassword, admin.PasswordHash)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
		}
		hash, err := s.hasher.Hash(*req.NewPassword)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
		}
		admin.PasswordHash = hash
	}

	if err := repo.Save(ctx, admin); err != nil {
		if db.IsUniqueViolation(err, admins.EmailConstraint, admins.EmailColumn) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update admin")
	}
	return admins.FromModel(admin), nil
}

// Delete removes the admin together with every product they own.
func (s *profileService) Delete(ctx context.Context, adminID uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := admins.NewRepository(tx)
		if _, err := repo.FindByID(ctx, adminID); err != nil {
			return mapAdminLookup(err)
		}
		if err := product.NewRepository(tx).DeleteByAdmin(ctx, adminID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete admin products")
		}
		if err := repo.Delete(ctx, adminID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete admin")
		}
		return nil
	})
}

func mapAdminLookup(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup admin")
}
