package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/polly-storefront/internal/admins"
	"github.com/angelmondragon/polly-storefront/pkg/db"
	"github.com/angelmondragon/polly-storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
	"gorm.io/gorm"
)

const emailTakenMessage = "email already registered"

// RegisterService handles admin sign-up.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*admins.AdminDTO, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

type registerRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Create(ctx context.Context, dto admins.CreateAdminDTO) (*models.Admin, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	AdminRepo registerRepository
	Hasher    passwordHasher
}

type registerService struct {
	admins registerRepository
	hasher passwordHasher
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.AdminRepo == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	return &registerService{admins: params.AdminRepo, hasher: params.Hasher}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*admins.AdminDTO, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	company := strings.TrimSpace(req.CompanyName)
	if company == "" {
		company = DefaultCompanyName
	}

	if _, err := s.admins.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check admin email")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}

	admin, err := s.admins.Create(ctx, admins.CreateAdminDTO{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CompanyName:  company,
	})
	if err != nil {
		if db.IsUniqueViolation(err, admins.EmailConstraint, admins.EmailColumn) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin")
	}
	return admins.FromModel(admin), nil
}
