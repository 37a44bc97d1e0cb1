package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims, access ve refresh token'ın ortak payload'ı.
//
// Subject (sub) hesap ID'sinin string halidir; jti (RegisteredClaims.ID)
// her token için benzersiz bir uuid'dir. Aynı saniyede aynı kullanıcıya
// basılan iki refresh token'ın birebir aynı string olup refresh_tokens
// tablosundaki UNIQUE index'e takılmasını jti engeller.
type TokenClaims struct {
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	jwt.RegisteredClaims
}

// RefreshToken, refresh_tokens tablosundaki bir kayıt.
type RefreshToken struct {
	ID        int64     `json:"id"`
	Token     string    `json:"-"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired, kaydın verilen anda süresinin dolup dolmadığını döner.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// Identity, doğrulanmış bir access token'dan çıkarılan kimlik.
// Middleware tarafından request context'ine konur ve handler'lara taşınır.
type Identity struct {
	UserID    int64
	Email     string
	Role      Role
	FirstName string
	LastName  string
}

// HasRole, kimliğin verilen rollerden birine sahip olup olmadığını döner.
func (i *Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// AuthResponse, register/login sonrası dönen yanıt.
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AccessTokenResponse, refresh sonrası dönen yanıt: sadece yeni access token.
type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// RefreshTokenRequest, refresh endpoint'inin body'si.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Validate, RefreshTokenRequest geçerlilik kontrolü.
func (r *RefreshTokenRequest) Validate() error {
	r.RefreshToken = strings.TrimSpace(r.RefreshToken)
	if r.RefreshToken == "" {
		return invalid("refreshToken is required")
	}
	return nil
}

// LogoutRequest, logout body'si. RefreshToken boşsa tüm cihazlardan çıkış yapılır.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ForgotPasswordRequest, "şifremi unuttum" isteği.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Validate, ForgotPasswordRequest geçerlilik kontrolü.
func (r *ForgotPasswordRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	return validateEmail(r.Email)
}

// OTP aralığı: 6 haneli sayısal kod.
const (
	OTPMin = 100000
	OTPMax = 999999
)

// ResetPasswordRequest, email'e gelen 6 haneli kod ile şifre sıfırlama.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         int    `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// Validate, ResetPasswordRequest geçerlilik kontrolü.
func (r *ResetPasswordRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.OTP < OTPMin || r.OTP > OTPMax {
		return invalid("otp must be a 6 digit code")
	}
	return ValidatePassword("newPassword", r.NewPassword)
}
