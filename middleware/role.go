package middleware

import (
	"net/http"

	"github.com/akinalp/fireshield/handlers"
	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
)

// RequireRole, AuthMiddleware'den SONRA çalışır. Context'teki kimliğin
// rolü verilenlerden biri değilse 403 döner.
//
// Kullanım (chi):
//
//	r.With(middleware.RequireRole(models.RoleAdmin)).Get("/stats", h.Stats)
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := r.Context().Value(handlers.IdentityContextKey).(*models.Identity)
			if !ok || identity == nil {
				pkg.ErrorWithMessage(w, r, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if !identity.HasRole(roles...) {
				pkg.ErrorWithMessage(w, r, http.StatusForbidden, "Forbidden resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
