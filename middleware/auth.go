// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Go'da middleware bir fonksiyondur:
//
//	func(next http.Handler) http.Handler
//
// Middleware kendi işini yapar (ör: token doğrula), sonra next'i çağırır.
// Hata varsa next çağrılmaz, request burada durur.
// Zincir: RequestID → Logger → Recover → Auth → RequireRole → Handler
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/akinalp/fireshield/handlers"
	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
)

// TokenValidator, access token doğrulayan bileşen (services.AuthService).
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*models.Identity, error)
}

// AuthMiddleware, JWT access token doğrulama middleware'ı.
//
// Access token stateless'tır: imza ve süre doğrulanır, DB'ye gidilmez.
// Kimlik claim'lerden okunur ve context'e konur.
type AuthMiddleware struct {
	validator TokenValidator
}

// NewAuthMiddleware, constructor.
func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Require, geçerli bir Bearer token zorunlu kılar. Yoksa veya geçersizse 401.
//
// HTTP header formatı: Authorization: Bearer <token>
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			pkg.ErrorWithMessage(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			pkg.ErrorWithMessage(w, r, http.StatusUnauthorized, "Unauthorized")
			return
		}

		identity, err := m.validator.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			pkg.Error(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), handlers.IdentityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
