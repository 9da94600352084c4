// Package notifications delivers user-facing toast messages emitted by cart
// mutations.
package notifications

import (
	"context"
	"encoding/json"
	"time"

	"github.com/angelmondragon/polly-storefront/pkg/enums"
)

// Notification is a human-readable event shown to the shopper.
type Notification struct {
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Variant     enums.NotificationVariant `json:"variant"`
	Duration    time.Duration             `json:"-"`
}

// DurationMS exposes the display duration in milliseconds for clients.
func (n Notification) DurationMS() int64 {
	return n.Duration.Milliseconds()
}

func (n Notification) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title       string                    `json:"title"`
		Description string                    `json:"description"`
		Variant     enums.NotificationVariant `json:"variant"`
		DurationMS  int64                     `json:"duration_ms"`
	}{n.Title, n.Description, n.Variant, n.DurationMS()})
}

// Sink receives notifications. Delivery is fire-and-forget.
type Sink interface {
	Notify(ctx context.Context, n Notification)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, n Notification)

func (f SinkFunc) Notify(ctx context.Context, n Notification) {
	f(ctx, n)
}

// Fanout delivers each notification to every sink in order.
type Fanout []Sink

func (f Fanout) Notify(ctx context.Context, n Notification) {
	for _, sink := range f {
		if sink != nil {
			sink.Notify(ctx, n)
		}
	}
}

// Discard drops every notification.
var Discard Sink = SinkFunc(func(context.Context, Notification) {})
