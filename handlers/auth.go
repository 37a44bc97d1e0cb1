package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/pkg/ratelimit"
	"github.com/akinalp/fireshield/services"
)

// AuthHandler, auth endpoint'lerini yöneten struct.
type AuthHandler struct {
	authService services.AuthService
	limiter     *ratelimit.AttemptLimiter
}

// NewAuthHandler, constructor.
// limiter: login, forgot-password ve reset-password için IP bazlı deneme sınırı.
// nil ise rate limiting devre dışı kalır.
func NewAuthHandler(authService services.AuthService, limiter *ratelimit.AttemptLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter}
}

// Register godoc
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, resp)
}

// Login godoc
// POST /auth/login
//
// Başarılı login IP sayacını sıfırlar; meşru kullanıcı bloke kalmaz.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip, ok := h.allow(w, r, "login")
	if !ok {
		return
	}

	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	if h.limiter != nil {
		h.limiter.Reset("login:" + ip)
	}
	pkg.JSON(w, http.StatusOK, resp)
}

// Refresh godoc
// POST /auth/refresh
// Body: { "refreshToken": "..." }
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		pkg.Error(w, r, err)
		return
	}

	resp, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, resp)
}

// ForgotPassword godoc
// POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, "forgot"); !ok {
		return
	}

	var req models.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.authService.ForgotPassword(r.Context(), &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.Message(w, http.StatusOK, msg)
}

// ResetPassword godoc
// POST /auth/reset-password
// Body: { "email": "...", "otp": 123456, "newPassword": "..." }
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, "reset"); !ok {
		return
	}

	var req models.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.authService.ResetPassword(r.Context(), &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.Message(w, http.StatusOK, msg)
}

// Logout godoc
// POST /auth/logout
// Body opsiyoneldir: { "refreshToken": "..." } verilmezse tüm oturumlar kapanır.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req models.LogoutRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.authService.Logout(r.Context(), identity.UserID, req.RefreshToken)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.Message(w, http.StatusOK, msg)
}

// ChangePassword godoc
// POST /users/me/password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.ChangePassword(r.Context(), identity.UserID, &req); err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.Message(w, http.StatusOK, "Password changed successfully")
}

// allow, IP + endpoint bazlı deneme sınırını uygular. Limit aşıldıysa
// Retry-After header'ı ile 429 yazar ve false döner.
func (h *AuthHandler) allow(w http.ResponseWriter, r *http.Request, scope string) (string, bool) {
	ip := ratelimit.ExtractIP(r)
	if h.limiter == nil {
		return ip, true
	}

	key := scope + ":" + ip
	if h.limiter.Allow(key) {
		return ip, true
	}

	retryAfter := h.limiter.RetryAfterSeconds(key)
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	pkg.ErrorWithMessage(w, r, http.StatusTooManyRequests,
		fmt.Sprintf("Too many attempts, please try again in %s", ratelimit.FormatRetryMessage(retryAfter)))
	return ip, false
}
