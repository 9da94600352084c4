package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/polly-storefront/pkg/db/models"
	dbtypes "github.com/angelmondragon/polly-storefront/pkg/db/types"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes the public catalog and admin product management.
type Service interface {
	Browse(ctx context.Context, input BrowseInput) (*BrowseResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListMine(ctx context.Context, adminID uuid.UUID) ([]ProductDTO, error)
	Create(ctx context.Context, adminID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, adminID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, adminID, productID uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs a product service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Browse(ctx context.Context, input BrowseInput) (*BrowseResult, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	all := toDTOs(rows)
	return &BrowseResult{
		Products:   Browse(all, input),
		Categories: Categories(all),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	dto := FromModel(*row)
	return &dto, nil
}

func (s *service) ListMine(ctx context.Context, adminID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list admin products")
	}
	return toDTOs(rows), nil
}

func (s *service) Create(ctx context.Context, adminID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	category := strings.TrimSpace(input.Category)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if category == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}
	if err := validateStock(input.Stock); err != nil {
		return nil, err
	}

	product := &models.Product{
		AdminID:     adminID,
		Name:        name,
		Description: input.Description,
		Price:       input.Price.Round(2),
		Category:    category,
		Stock:       input.Stock,
		Tags:        dbtypes.ParseStringList(input.Tags),
		Images:      cleanImages(input.Images),
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	dto := FromModel(*created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, adminID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindOwned(ctx, adminID, productID)
	if err != nil {
		return nil, mapLookupError(err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
		product.Price = input.Price.Round(2)
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be empty")
		}
		product.Category = category
	}
	if input.Stock != nil {
		if err := validateStock(*input.Stock); err != nil {
			return nil, err
		}
		product.Stock = *input.Stock
	}
	if input.Tags != nil {
		product.Tags = dbtypes.ParseStringList(*input.Tags)
	}
	if input.Images != nil {
		product.Images = cleanImages(*input.Images)
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	dto := FromModel(*updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, adminID, productID uuid.UUID) error {
	deleted, err := s.repo.DeleteOwned(ctx, adminID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return nil
}

func validateStock(stock int) error {
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return nil
}

func cleanImages(images []string) dbtypes.StringList {
	out := dbtypes.StringList{}
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
}

func toDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
}
