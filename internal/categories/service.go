// Package categories manages the named groupings products are filed under.
package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/polly-storefront/pkg/db"
	"github.com/angelmondragon/polly-storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const errDuplicateName = "a category with this name already exists"

// CategoryDTO is the category payload returned to clients.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AdminID   uuid.UUID `json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
}

func fromModel(m models.Category) CategoryDTO {
	return CategoryDTO{ID: m.ID, Name: m.Name, AdminID: m.AdminID, CreatedAt: m.CreatedAt}
}

type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	Create(ctx context.Context, adminID uuid.UUID, name string) (*CategoryDTO, error)
	Rename(ctx context.Context, adminID, categoryID uuid.UUID, name string) (*CategoryDTO, error)
	Delete(ctx context.Context, adminID, categoryID uuid.UUID) error
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromModel(row))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, adminID uuid.UUID, name string) (*CategoryDTO, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, &models.Category{Name: name, AdminID: adminID})
	if err != nil {
		return nil, mapWriteError(err, "db: insert category")
	}
	dto := fromModel(*created)
	return &dto, nil
}

func (s *service) Rename(ctx context.Context, adminID, categoryID uuid.UUID, name string) (*CategoryDTO, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	category, err := s.repo.FindOwned(ctx, adminID, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}
	if err := s.repo.Rename(ctx, category, name); err != nil {
		return nil, mapWriteError(err, "db: rename category")
	}
	category.Name = name
	dto := fromModel(*category)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, adminID, categoryID uuid.UUID) error {
	deleted, err := s.repo.DeleteOwned(ctx, adminID, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	return name, nil
}

func mapWriteError(err error, msg string) error {
	if db.IsUniqueViolation(err, nameConstraint, nameColumn) {
		return pkgerrors.New(pkgerrors.CodeConflict, errDuplicateName)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
