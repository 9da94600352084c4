package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/angelmondragon/polly-storefront/pkg/types"
)

var errMalformedCart = errors.New("malformed cart payload")

type wireItem struct {
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	Price     types.Price `json:"price"`
	Category  string      `json:"category,omitempty"`
	Image     string      `json:"image,omitempty"`
	Quantity  int         `json:"quantity"`
}

func encodeItems(items []LineItem) (string, error) {
	wire := make([]wireItem, 0, len(items))
	for _, item := range items {
		wire = append(wire, wireItem{
			ProductID: item.ProductID,
			Name:      item.Snapshot.Name,
			Price:     item.Snapshot.Price,
			Category:  item.Snapshot.Category,
			Image:     item.Snapshot.Image,
			Quantity:  item.Quantity,
		})
	}
	raw, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(raw), nil
}

// decodeItems parses a stored cart. Payloads that break the cart invariants
// (missing id, quantity below one, repeated id) are rejected as malformed.
func decodeItems(raw string) ([]LineItem, error) {
	var wire []wireItem
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedCart, err)
	}

	items := make([]LineItem, 0, len(wire))
	seen := make(map[string]struct{}, len(wire))
	for i, w := range wire {
		if w.ProductID == "" {
			return nil, fmt.Errorf("%w: item %d has no product id", errMalformedCart, i)
		}
		if w.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %s has quantity %d", errMalformedCart, w.ProductID, w.Quantity)
		}
		if _, dup := seen[w.ProductID]; dup {
			return nil, fmt.Errorf("%w: product %s appears twice", errMalformedCart, w.ProductID)
		}
		seen[w.ProductID] = struct{}{}

		items = append(items, LineItem{
			ProductID: w.ProductID,
			Snapshot: Snapshot{
				Name:     w.Name,
				Price:    w.Price,
				Category: w.Category,
				Image:    w.Image,
			},
			Quantity: w.Quantity,
		})
	}
	return items, nil
}
