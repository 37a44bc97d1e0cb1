package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/fireshield/handlers"
	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
)

type stubValidator struct {
	identity *models.Identity
}

func (s stubValidator) ValidateAccessToken(token string) (*models.Identity, error) {
	if token != "good" {
		return nil, fmt.Errorf("%w: Invalid or expired token", pkg.ErrUnauthorized)
	}
	return s.identity, nil
}

func contextWithIdentity(r *http.Request, identity *models.Identity) context.Context {
	return context.WithValue(r.Context(), handlers.IdentityContextKey, identity)
}

func identityEcho(t *testing.T, want *models.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := r.Context().Value(handlers.IdentityContextKey).(*models.Identity)
		require.True(t, ok)
		assert.Equal(t, want, got)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware_Require(t *testing.T) {
	identity := &models.Identity{UserID: 3, Role: models.RoleTrainer}
	handler := NewAuthMiddleware(stubValidator{identity: identity}).Require(identityEcho(t, identity))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusNoContent},
		{"lowercase scheme", "bearer good", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	adminOnly := RequireRole(models.RoleAdmin, models.RoleTrainer)(ok)

	serve := func(identity *models.Identity) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		if identity != nil {
			req = req.WithContext(contextWithIdentity(req, identity))
		}
		rec := httptest.NewRecorder()
		adminOnly.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil))
	assert.Equal(t, http.StatusForbidden, serve(&models.Identity{UserID: 1, Role: models.RoleLearner}))
	assert.Equal(t, http.StatusNoContent, serve(&models.Identity{UserID: 1, Role: models.RoleTrainer}))
	assert.Equal(t, http.StatusNoContent, serve(&models.Identity{UserID: 1, Role: models.RoleAdmin}))
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chimw.GetReqID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id-1")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "client-id-1", seen)
	assert.Equal(t, "client-id-1", rec.Header().Get(RequestIDHeader))
}

func TestRecover(t *testing.T) {
	handler := Logger(Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Internal server error"`)
}
