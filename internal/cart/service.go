package cart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/polly-storefront/internal/notifications"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
	"github.com/angelmondragon/polly-storefront/pkg/kvstore"
	"github.com/angelmondragon/polly-storefront/pkg/logger"
	"github.com/angelmondragon/polly-storefront/pkg/metrics"
	"github.com/angelmondragon/polly-storefront/pkg/types"
)

// Catalog resolves a product id into the fields the cart snapshots.
type Catalog interface {
	CartProduct(ctx context.Context, productID string) (Product, error)
}

// Service runs cart operations for the HTTP layer. Each call opens the
// session's Store, applies one operation and returns the resulting view.
type Service interface {
	View(ctx context.Context, sessionID string) (*View, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*View, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, qty int) (*View, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (*View, error)
	Clear(ctx context.Context, sessionID string) (*View, error)
}

// AddItemInput is a request to add a catalog product.
type AddItemInput struct {
	ProductID string
	Quantity  int
}

// ServiceParams configures NewService.
type ServiceParams struct {
	KV                   kvstore.Store
	Catalog              Catalog
	Sink                 notifications.Sink
	Logger               *logger.Logger
	Metrics              *metrics.CartMetrics
	Namespace            string
	NotificationDuration time.Duration
}

type service struct {
	params ServiceParams
}

// NewService builds the cart service.
func NewService(p ServiceParams) (Service, error) {
	if p.KV == nil {
		return nil, fmt.Errorf("cart key-value store required")
	}
	if p.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if p.Sink == nil {
		return nil, fmt.Errorf("notification sink required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{params: p}, nil
}

func (s *service) open(ctx context.Context, sessionID string) (*Store, error) {
	return New(ctx, Params{
		SessionID:            sessionID,
		KV:                   s.params.KV,
		Sink:                 s.params.Sink,
		Logger:               s.params.Logger,
		Metrics:              s.params.Metrics,
		Namespace:            s.params.Namespace,
		NotificationDuration: s.params.NotificationDuration,
	})
}

// openForWrite opens the session's Store for a mutation. A degraded load is
// retried once so a single failed read does not turn into a refused write.
func (s *service) openForWrite(ctx context.Context, sessionID string) (*Store, error) {
	store, err := s.open(ctx, sessionID)
	if err != nil || !store.Degraded() {
		return store, err
	}
	return s.open(ctx, sessionID)
}

// mutate applies op to the session's cart. When the write fails the change is
// still in memory, so one Flush is attempted before the error is returned.
func (s *service) mutate(ctx context.Context, sessionID string, op func(*Store) error) (*View, error) {
	store, err := s.openForWrite(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	err = op(store)
	if err != nil && pkgerrors.IsCode(err, pkgerrors.CodeDependency) && !store.Degraded() {
		if flushErr := store.Flush(ctx); flushErr == nil {
			s.params.Logger.Info(s.params.Logger.WithField(ctx, "cart_key", store.Key()), "cart write recovered by flush")
			err = nil
		}
	}
	if err != nil {
		return nil, err
	}
	return NewView(store), nil
}

func (s *service) View(ctx context.Context, sessionID string) (*View, error) {
	store, err := s.open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return NewView(store), nil
}

func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*View, error) {
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	product, err := s.params.Catalog.CartProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(store *Store) error {
		return store.AddItem(ctx, product, input.Quantity)
	})
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID, productID string, qty int) (*View, error) {
	return s.mutate(ctx, sessionID, func(store *Store) error {
		return store.UpdateQuantity(ctx, productID, qty)
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID, productID string) (*View, error) {
	return s.mutate(ctx, sessionID, func(store *Store) error {
		return store.RemoveItem(ctx, productID)
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) (*View, error) {
	return s.mutate(ctx, sessionID, func(store *Store) error {
		return store.Clear(ctx)
	})
}

// View is the cart as returned to clients.
type View struct {
	Items     []ItemView `json:"items"`
	ItemCount int        `json:"item_count"`
	ItemLabel string     `json:"item_label"`
	Total     string     `json:"total"`
}

// ItemView is one cart line as returned to clients.
type ItemView struct {
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	Price     types.Price `json:"price"`
	Category  string      `json:"category,omitempty"`
	Image     string      `json:"image,omitempty"`
	Quantity  int         `json:"quantity"`
	Subtotal  string      `json:"subtotal"`
}

// NewView renders the store's current state.
func NewView(store *Store) *View {
	items := store.Items()
	out := make([]ItemView, 0, len(items))
	for _, item := range items {
		out = append(out, ItemView{
			ProductID: item.ProductID,
			Name:      item.Snapshot.Name,
			Price:     item.Snapshot.Price,
			Category:  item.Snapshot.Category,
			Image:     item.Snapshot.Image,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal().StringFixed(2),
		})
	}
	count := store.ItemCount()
	return &View{
		Items:     out,
		ItemCount: count,
		ItemLabel: ItemLabel(count),
		Total:     store.Total().StringFixed(2),
	}
}
