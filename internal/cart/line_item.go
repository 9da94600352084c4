package cart

import (
	"github.com/angelmondragon/polly-storefront/pkg/types"
	"github.com/shopspring/decimal"
)

// Product is what the catalog hands to the cart when a shopper adds an item.
type Product struct {
	ID       string
	Name     string
	Price    types.Price
	Category string
	Image    string
}

// Snapshot holds the display fields captured when a product is first added.
// It is never refreshed from the catalog afterwards.
type Snapshot struct {
	Name     string
	Price    types.Price
	Category string
	Image    string
}

// LineItem is one product and its quantity in the cart.
type LineItem struct {
	ProductID string
	Snapshot  Snapshot
	Quantity  int
}

func newLineItem(p Product, qty int) LineItem {
	return LineItem{
		ProductID: p.ID,
		Snapshot: Snapshot{
			Name:     p.Name,
			Price:    p.Price,
			Category: p.Category,
			Image:    p.Image,
		},
		Quantity: qty,
	}
}

// Subtotal is the unit price times the quantity.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Snapshot.Price.Amount().Mul(decimal.NewFromInt(int64(l.Quantity)))
}
