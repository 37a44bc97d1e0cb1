package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/pkg/ratelimit"
)

// fakeAuthService, sadece testin ihtiyaç duyduğu metotları doldurur.
type fakeAuthService struct {
	loginErr      error
	loginCalls    int
	logoutUserID  int64
	logoutToken   string
	refreshCalled bool
}

func (f *fakeAuthService) Register(_ context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &models.AuthResponse{
		User:         &models.User{ID: 1, Email: req.Email, Role: models.RoleLearner},
		AccessToken:  "access",
		RefreshToken: "refresh",
	}, nil
}

func (f *fakeAuthService) Login(_ context.Context, _ *models.LoginRequest) (*models.AuthResponse, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.AuthResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (f *fakeAuthService) Refresh(_ context.Context, _ string) (*models.AccessTokenResponse, error) {
	f.refreshCalled = true
	return &models.AccessTokenResponse{AccessToken: "new"}, nil
}

func (f *fakeAuthService) ForgotPassword(_ context.Context, _ *models.ForgotPasswordRequest) (string, error) {
	return "If the email exists, a reset code has been sent", nil
}

func (f *fakeAuthService) ResetPassword(_ context.Context, _ *models.ResetPasswordRequest) (string, error) {
	return "Password has been reset successfully", nil
}

func (f *fakeAuthService) Logout(_ context.Context, userID int64, refreshToken string) (string, error) {
	f.logoutUserID = userID
	f.logoutToken = refreshToken
	return "Logged out successfully", nil
}

func (f *fakeAuthService) ChangePassword(_ context.Context, _ int64, _ *models.ChangePasswordRequest) error {
	return nil
}

func (f *fakeAuthService) ValidateAccessToken(_ string) (*models.Identity, error) {
	return nil, fmt.Errorf("%w: Invalid token", pkg.ErrUnauthorized)
}

func withIdentity(r *http.Request, identity *models.Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), IdentityContextKey, identity))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) pkg.ErrorResponse {
	t.Helper()
	var body pkg.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthHandler_Register(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{}, nil)

	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"Secret123!"}`
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool                `json:"success"`
		Data    models.AuthResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "access", resp.Data.AccessToken)
	assert.Equal(t, "ada@example.com", resp.Data.User.Email)
}

func TestAuthHandler_RegisterInvalidBody(t *testing.T) {
	h := NewAuthHandler(&fakeAuthService{}, nil)

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Invalid request body", body.Message)
	assert.Equal(t, "/api/v1/auth/register", body.Path)
	assert.Equal(t, http.MethodPost, body.Method)
}

func TestAuthHandler_LoginRateLimited(t *testing.T) {
	svc := &fakeAuthService{loginErr: fmt.Errorf("%w: Invalid credentials", pkg.ErrUnauthorized)}
	limiter := ratelimit.NewAttemptLimiter(2, time.Minute)
	t.Cleanup(limiter.Stop)
	h := NewAuthHandler(svc, limiter)

	login := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"a@b.co","password":"wrong"}`))
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		h.Login(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, login().Code)
	assert.Equal(t, http.StatusUnauthorized, login().Code)

	rec := login()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, decodeError(t, rec).Message, "Too many attempts")
	assert.Equal(t, 2, svc.loginCalls)
}

func TestAuthHandler_LoginSuccessResetsCounter(t *testing.T) {
	svc := &fakeAuthService{}
	limiter := ratelimit.NewAttemptLimiter(1, time.Minute)
	t.Cleanup(limiter.Stop)
	h := NewAuthHandler(svc, limiter)

	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
			strings.NewReader(`{"email":"a@b.co","password":"right"}`))
		req.RemoteAddr = "203.0.113.8:5555"
		rec := httptest.NewRecorder()
		h.Login(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestAuthHandler_RefreshRequiresToken(t *testing.T) {
	svc := &fakeAuthService{}
	h := NewAuthHandler(svc, nil)

	rec := httptest.NewRecorder()
	h.Refresh(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(`{"refreshToken":"  "}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "refreshToken is required", decodeError(t, rec).Message)
	assert.False(t, svc.refreshCalled)
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("without identity", func(t *testing.T) {
		h := NewAuthHandler(&fakeAuthService{}, nil)
		rec := httptest.NewRecorder()
		h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty body logs out every session", func(t *testing.T) {
		svc := &fakeAuthService{}
		h := NewAuthHandler(svc, nil)
		req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil), &models.Identity{UserID: 42})
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(42), svc.logoutUserID)
		assert.Empty(t, svc.logoutToken)
	})

	t.Run("single refresh token", func(t *testing.T) {
		svc := &fakeAuthService{}
		h := NewAuthHandler(svc, nil)
		req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout",
			strings.NewReader(`{"refreshToken":"abc"}`)), &models.Identity{UserID: 7})
		rec := httptest.NewRecorder()
		h.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "abc", svc.logoutToken)
	})
}
