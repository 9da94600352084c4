// Package cart keeps a shopper's cart in memory, writes it through to a
// key-value store on every mutation and emits a toast for each visible change.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/polly-storefront/internal/notifications"
	"github.com/angelmondragon/polly-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
	"github.com/angelmondragon/polly-storefront/pkg/kvstore"
	"github.com/angelmondragon/polly-storefront/pkg/logger"
	"github.com/angelmondragon/polly-storefront/pkg/metrics"
	"github.com/shopspring/decimal"
)

const (
	defaultNamespace = "polly"
	keyScope         = "cart"
)

// MaxQuantity caps the units of a single product in one cart.
const MaxQuantity = 9999

// Params wires a Store to its collaborators.
type Params struct {
	SessionID            string
	KV                   kvstore.Store
	Sink                 notifications.Sink
	Logger               *logger.Logger
	Metrics              *metrics.CartMetrics
	Namespace            string
	NotificationDuration time.Duration
}

// Store owns the cart of one session. It is not safe for concurrent use; the
// key-value store is the only state shared between Stores of the same session
// and the last write wins.
type Store struct {
	key      string
	kv       kvstore.Store
	sink     notifications.Sink
	logg     *logger.Logger
	metrics  *metrics.CartMetrics
	duration time.Duration
	items    []LineItem
	// degraded is set when the stored cart could not be read. The empty
	// in-memory cart must not overwrite it, so every mutation is refused.
	degraded bool
	// pending is the toast of the last mutation whose write failed. Flush
	// delivers it once the change is durable.
	pending *notifications.Notification
}

// Key returns the key-value store key holding a session's cart.
func Key(namespace, sessionID string) string {
	if strings.TrimSpace(namespace) == "" {
		namespace = defaultNamespace
	}
	return kvstore.Key(namespace, keyScope, sessionID)
}

// New loads the session's cart. A missing, unreadable or malformed stored cart
// yields an empty cart; only missing dependencies are reported as errors. An
// unreadable cart leaves the Store degraded (see Degraded).
func New(ctx context.Context, p Params) (*Store, error) {
	if strings.TrimSpace(p.SessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session id is required")
	}
	if p.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart key-value store required")
	}
	if p.Sink == nil {
		p.Sink = notifications.Discard
	}
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	if p.NotificationDuration <= 0 {
		p.NotificationDuration = defaultNotificationDuration
	}

	s := &Store{
		key:      Key(p.Namespace, p.SessionID),
		kv:       p.KV,
		sink:     p.Sink,
		logg:     p.Logger,
		metrics:  p.Metrics,
		duration: p.NotificationDuration,
		items:    []LineItem{},
	}
	s.load(ctx)
	return s, nil
}

func (s *Store) load(ctx context.Context) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return
	}
	if err != nil {
		s.logg.Warn(s.logCtx(ctx, "load", err), "cart read failed, starting empty")
		s.metrics.IncRestoreFallback("read_error")
		s.degraded = true
		return
	}

	items, err := decodeItems(raw)
	if err != nil {
		s.logg.Warn(s.logCtx(ctx, "load", err), "stored cart is malformed, starting empty")
		s.metrics.IncRestoreFallback("malformed")
		// drop the payload so later loads of this session start clean
		if delErr := s.kv.Delete(ctx, s.key); delErr != nil {
			s.logg.Warn(s.logCtx(ctx, "load", delErr), "malformed cart could not be discarded")
		}
		return
	}
	s.items = items
}

// Degraded reports whether the stored cart could not be read. A degraded
// Store serves an empty cart and rejects every mutation with a dependency
// error rather than overwrite the stored one.
func (s *Store) Degraded() bool {
	return s.degraded
}

func (s *Store) writable() error {
	if s.degraded {
		return pkgerrors.New(pkgerrors.CodeDependency, "cart could not be loaded")
	}
	return nil
}

// AddItem adds qty units of p. A product already in the cart keeps its
// original snapshot and only its quantity grows.
func (s *Store) AddItem(ctx context.Context, p Product, qty int) error {
	if qty < 1 || qty > MaxQuantity {
		return invalidQuantity(qty)
	}
	if strings.TrimSpace(p.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.writable(); err != nil {
		return err
	}

	idx := s.indexOf(p.ID)
	if idx >= 0 {
		if s.items[idx].Quantity > MaxQuantity-qty {
			return invalidQuantity(s.items[idx].Quantity + qty)
		}
		s.items[idx].Quantity += qty
	} else {
		s.items = append(s.items, newLineItem(p, qty))
	}

	return s.commit(ctx, enums.CartOperationAdd, addedNotification(p.Name, s.duration))
}

func invalidQuantity(qty int) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be between 1 and %d", MaxQuantity)).
		WithDetails(map[string]any{"quantity": qty, "max": MaxQuantity})
}

// RemoveItem drops the line for productID. Unknown ids are ignored.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	if err := s.writable(); err != nil {
		return err
	}
	idx := s.indexOf(productID)
	if idx < 0 {
		return nil
	}

	name := s.items[idx].Snapshot.Name
	s.items = append(s.items[:idx], s.items[idx+1:]...)

	return s.commit(ctx, enums.CartOperationRemove, removedNotification(name, s.duration))
}

// UpdateQuantity sets the quantity of productID. Zero or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return s.RemoveItem(ctx, productID)
	}
	if qty > MaxQuantity {
		return invalidQuantity(qty)
	}
	if err := s.writable(); err != nil {
		return err
	}

	idx := s.indexOf(productID)
	if idx < 0 || s.items[idx].Quantity == qty {
		return nil
	}
	s.items[idx].Quantity = qty
	return s.persist(ctx, enums.CartOperationUpdate)
}

// Clear empties the cart. It notifies even when the cart was already empty.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.writable(); err != nil {
		return err
	}
	s.items = []LineItem{}
	return s.commit(ctx, enums.CartOperationClear, clearedNotification(s.duration))
}

// Flush writes the in-memory cart again after a failed write. On success the
// toast held back by that write is delivered.
func (s *Store) Flush(ctx context.Context) error {
	if err := s.writable(); err != nil {
		return err
	}
	if err := s.persist(ctx, enums.CartOperationFlush); err != nil {
		return err
	}
	if s.pending != nil {
		s.sink.Notify(ctx, *s.pending)
		s.pending = nil
	}
	return nil
}

// commit persists a mutation and emits its toast, or holds the toast back
// for Flush when the write fails.
func (s *Store) commit(ctx context.Context, op enums.CartOperation, n notifications.Notification) error {
	if err := s.persist(ctx, op); err != nil {
		s.pending = &n
		return err
	}
	s.pending = nil
	s.sink.Notify(ctx, n)
	return nil
}

// Items returns a copy of the cart lines in display order.
func (s *Store) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total sums unit price times quantity. Unparseable prices contribute zero.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount sums the quantities.
func (s *Store) ItemCount() int {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Key returns the key this cart is persisted under.
func (s *Store) Key() string {
	return s.key
}

func (s *Store) indexOf(productID string) int {
	for i, item := range s.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// persist writes the whole cart. On failure the in-memory change is kept and
// the caller gets a dependency error.
func (s *Store) persist(ctx context.Context, op enums.CartOperation) error {
	raw, err := encodeItems(s.items)
	if err == nil {
		err = s.kv.Set(ctx, s.key, raw)
	}
	if err != nil {
		s.logg.Warn(s.logCtx(ctx, op.String(), err), "cart write failed")
		s.metrics.IncPersistFailure(op.String())
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart could not be saved")
	}
	s.metrics.IncMutation(op.String())
	return nil
}

func (s *Store) logCtx(ctx context.Context, op string, err error) context.Context {
	fields := map[string]any{
		"cart_key": s.key,
		"cart_op":  op,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	return s.logg.WithFields(ctx, fields)
}
