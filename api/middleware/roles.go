package middleware

import (
	"net/http"
	"slices"

	"github.com/angelmondragon/polly-storefront/api/responses"
	"github.com/angelmondragon/polly-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/polly-storefront/pkg/errors"
	"github.com/angelmondragon/polly-storefront/pkg/logger"
)

// RequireRole admits requests whose access token carries one of roles. It
// must run after Auth.
func RequireRole(logg *logger.Logger, roles ...enums.AdminRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := enums.AdminRole(RoleFromContext(r.Context()))
			if !role.IsValid() || !slices.Contains(roles, role) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
