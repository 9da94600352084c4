package product

import (
	"context"

	"github.com/angelmondragon/polly-storefront/internal/cart"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
	"github.com/angelmondragon/polly-storefront/pkg/types"
	"github.com/google/uuid"
)

// CartCatalog resolves catalog products for the cart.
type CartCatalog struct {
	repo *Repository
}

func NewCartCatalog(repo *Repository) *CartCatalog {
	return &CartCatalog{repo: repo}
}

// GetByID loads a product by its string id.
func (c *CartCatalog) GetByID(ctx context.Context, id string) (*ProductDTO, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	row, err := c.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, mapLookupError(err)
	}
	dto := FromModel(*row)
	return &dto, nil
}

func (c *CartCatalog) CartProduct(ctx context.Context, productID string) (cart.Product, error) {
	dto, err := c.GetByID(ctx, productID)
	if err != nil {
		return cart.Product{}, err
	}
	return ToCartProduct(*dto), nil
}

// ToCartProduct converts a catalog record into what the cart snapshots.
// The first image, if any, becomes the cart thumbnail.
func ToCartProduct(p ProductDTO) cart.Product {
	out := cart.Product{
		ID:       p.ID.String(),
		Name:     p.Name,
		Price:    types.NumberPrice(p.Price),
		Category: p.Category,
	}
	if len(p.Images) > 0 {
		out.Image = p.Images[0]
	}
	return out
}
