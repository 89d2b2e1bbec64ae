// Package authz provides role-gated route middleware. Roles live in the
// roles collection, not the session cookie, so a role change takes effect
// on the next request rather than the next login.
package authz

import (
	"context"
	"net/http"

	rolestore "github.com/placementhub/placementhub/internal/app/store/roles"
	"github.com/placementhub/placementhub/internal/app/system/auth"
	"github.com/placementhub/placementhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// RequireRole rejects requests whose session user does not hold the given
// role. Missing sessions get 401, wrong roles get 403, and a role lookup
// failure fails closed with 503.
func RequireRole(roles *rolestore.Store, role string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.CurrentUser(r)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short)
			defer cancel()
			got, err := roles.RoleForUser(ctx, u.ID)
			if err != nil {
				logger.Error("role lookup failed", zap.String("user_id", u.ID), zap.Error(err))
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}
			if got != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is RequireRole for the ADMIN role.
func RequireAdmin(roles *rolestore.Store, logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole(roles, "ADMIN", logger)
}
