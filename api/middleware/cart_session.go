package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/polly-storefront/internal/notifications"
	"github.com/angelmondragon/polly-storefront/pkg/logger"
)

// CartSessionHeader carries the anonymous cart session between client and API.
const CartSessionHeader = "X-Cart-Session"

// CartSession resolves the cart session for the request, minting a new one when the
// header is missing or malformed, and attaches a notification buffer so handlers can
// return the toasts emitted while serving the request.
func CartSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(CartSessionHeader))
			if parsed, err := uuid.Parse(sessionID); err == nil {
				sessionID = parsed.String()
			} else {
				sessionID = uuid.NewString()
			}

			w.Header().Set(CartSessionHeader, sessionID)

			ctx := WithCartSession(r.Context(), sessionID)
			ctx = notifications.WithBuffer(ctx, notifications.NewBuffer())
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
