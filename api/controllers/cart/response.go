package cart

import (
	"context"

	cartsvc "github.com/angelmondragon/polly-storefront/internal/cart"
	"github.com/angelmondragon/polly-storefront/internal/notifications"
)

type cartResponse struct {
	Cart   *cartsvc.View                `json:"cart"`
	Toasts []notifications.Notification `json:"toasts"`
}

func newCartResponse(ctx context.Context, view *cartsvc.View) cartResponse {
	toasts := []notifications.Notification{}
	if buf, ok := notifications.BufferFromContext(ctx); ok {
		if drained := buf.Drain(); len(drained) > 0 {
			toasts = drained
		}
	}
	return cartResponse{Cart: view, Toasts: toasts}
}
