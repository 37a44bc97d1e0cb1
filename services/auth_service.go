// Package services, business logic katmanını barındırır.
//
// Handler (HTTP) ile Repository (DB) arasında oturan katmandır.
// Tüm iş kuralları burada yaşar:
//   - Şifre hash'leme ve token üretimi
//   - Rol/sahiplik kontrolleri
//   - Bildirim ve email yan etkileri
//
// Service http.Request/Response bilmez; sadece domain modelleri alır/verir.
// Doğrudan SQL çalıştırmaz; Repository interface'lerini kullanır.
package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/pkg/email"
	"github.com/akinalp/fireshield/pkg/metrics"
	"github.com/akinalp/fireshield/repository"
)

// bcryptCost, tüm şifre hash'lerinde kullanılan maliyet.
const bcryptCost = 12

const (
	msgForgotPassword = "If the email exists, a reset link has been sent"
	msgPasswordReset  = "Password has been reset successfully"
	msgLoggedOut      = "Logged out successfully"
)

var (
	errInvalidCredentials = fmt.Errorf("%w: Invalid credentials", pkg.ErrUnauthorized)
	errInvalidRefresh     = fmt.Errorf("%w: Invalid refresh token", pkg.ErrUnauthorized)
	errInvalidResetCode   = fmt.Errorf("%w: Invalid reset code", pkg.ErrBadRequest)
)

// AuthService interface'i. Handler ve middleware bu interface'e bağımlıdır.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AccessTokenResponse, error)
	// ForgotPassword, hesap olsun olmasın aynı mesajı döner.
	ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) (string, error)
	ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) (string, error)
	// Logout, refreshToken verilirse sadece onu, verilmezse hesabın tüm token'larını siler.
	Logout(ctx context.Context, userID int64, refreshToken string) (string, error)
	ChangePassword(ctx context.Context, userID int64, req *models.ChangePasswordRequest) error
	ValidateAccessToken(tokenString string) (*models.Identity, error)
}

// TokenConfig, iki ayrı secret ile imzalanan token ayarları.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type authService struct {
	userRepo    repository.UserRepository
	tokenRepo   repository.RefreshTokenRepository
	mailer      email.Mailer
	accessKey   []byte
	refreshKey  []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	now         func() time.Time
	generateOTP func() (int, error)
}

// NewAuthService, constructor.
func NewAuthService(
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	mailer email.Mailer,
	cfg TokenConfig,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		mailer:      mailer,
		accessKey:   []byte(cfg.AccessSecret),
		refreshKey:  []byte(cfg.RefreshSecret),
		accessTTL:   cfg.AccessTTL,
		refreshTTL:  cfg.RefreshTTL,
		now:         time.Now,
		generateOTP: randomOTP,
	}
}

// Register, yeni learner hesabı açar ve token çifti döner.
//
// Email çakışması UNIQUE index'ten gelir (eşzamanlı iki kayıt da 409 alır).
// Hoş geldin email'i best-effort'tur: hesap ve token'lar önce yazılır.
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleLearner,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, pkg.ErrAlreadyExists) {
			metrics.AuthEvent("register", "conflict")
		}
		return nil, err
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.AuthEvent("register", "success")

	sendBestEffort(ctx, "welcome", func(ctx context.Context) error {
		return s.mailer.SendWelcome(ctx, user.Email, user.FirstName)
	})

	return resp, nil
}

// Login, email + şifre doğrular. Bilinmeyen email ve yanlış şifre aynı hatayı verir.
// Önceki refresh token'lar geçerli kalır (çoklu cihaz).
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			metrics.AuthEvent("login", "failure")
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		metrics.AuthEvent("login", "failure")
		return nil, errInvalidCredentials
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	metrics.AuthEvent("login", "success")
	return resp, nil
}

// Refresh, refresh token'ı doğrular ve sadece yeni bir access token döner.
// Refresh token döndürülmez (rotation yok). Her hata aynı mesaja indirgenir.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.AccessTokenResponse, error) {
	if _, err := s.parse(refreshToken, s.refreshKey); err != nil {
		metrics.AuthEvent("refresh", "failure")
		return nil, errInvalidRefresh
	}

	stored, err := s.tokenRepo.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			metrics.AuthEvent("refresh", "failure")
			return nil, errInvalidRefresh
		}
		return nil, err
	}
	if stored.Expired(s.now()) {
		metrics.AuthEvent("refresh", "failure")
		return nil, errInvalidRefresh
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, errInvalidRefresh
		}
		return nil, err
	}

	access, _, err := s.sign(user, s.accessKey, s.accessTTL)
	if err != nil {
		return nil, err
	}
	metrics.AuthEvent("refresh", "success")
	return &models.AccessTokenResponse{AccessToken: access}, nil
}

// ForgotPassword, hesap varsa 6 haneli kodu kaydeder ve email'ler.
// Hesabın varlığı yanıttan anlaşılamaz; email hatası da yutulur.
func (s *authService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return msgForgotPassword, nil
		}
		return "", err
	}

	otp, err := s.generateOTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	if err := s.userRepo.SetOTP(ctx, user.ID, &otp); err != nil {
		return "", err
	}
	metrics.AuthEvent("forgot_password", "issued")

	sendBestEffort(ctx, "password_reset", func(ctx context.Context) error {
		return s.mailer.SendPasswordReset(ctx, user.Email, user.FirstName, otp)
	})

	return msgForgotPassword, nil
}

// ResetPassword, kod eşleşirse yeni şifreyi yazar, kodu temizler ve hesabın
// tüm refresh token'larını siler. Üçü tek transaction'dadır.
func (s *authService) ResetPassword(ctx context.Context, req *models.ResetPasswordRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			metrics.AuthEvent("reset_password", "failure")
			return "", errInvalidResetCode
		}
		return "", err
	}
	if user.OTP == nil || *user.OTP != req.OTP {
		metrics.AuthEvent("reset_password", "failure")
		return "", errInvalidResetCode
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return "", err
	}
	if err := s.userRepo.ReplacePassword(ctx, user.ID, hash); err != nil {
		return "", err
	}

	metrics.AuthEvent("reset_password", "success")
	return msgPasswordReset, nil
}

func (s *authService) Logout(ctx context.Context, userID int64, refreshToken string) (string, error) {
	var err error
	if refreshToken != "" {
		err = s.tokenRepo.DeleteByToken(ctx, userID, refreshToken)
	} else {
		err = s.tokenRepo.DeleteByUserID(ctx, userID)
	}
	if err != nil {
		return "", err
	}
	metrics.AuthEvent("logout", "success")
	return msgLoggedOut, nil
}

// ChangePassword, mevcut şifreyi doğrular, yenisini yazar ve tüm oturumları kapatır.
func (s *authService) ChangePassword(ctx context.Context, userID int64, req *models.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return fmt.Errorf("%w: Current password is incorrect", pkg.ErrUnauthorized)
	}
	if req.CurrentPassword == req.NewPassword {
		return fmt.Errorf("%w: New password must be different from current password", pkg.ErrBadRequest)
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.ReplacePassword(ctx, userID, hash)
}

// ValidateAccessToken, access token'ı doğrular ve kimliği döner.
// Refresh secret ile imzalanmış token burada reddedilir.
func (s *authService) ValidateAccessToken(tokenString string) (*models.Identity, error) {
	claims, err := s.parse(tokenString, s.accessKey)
	if err != nil {
		return nil, fmt.Errorf("%w: Unauthorized", pkg.ErrUnauthorized)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: Unauthorized", pkg.ErrUnauthorized)
	}

	return &models.Identity{
		UserID:    userID,
		Email:     claims.Email,
		Role:      claims.Role,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}

// ─── Private Helpers ───

// issueTokens, token çiftini üretir ve refresh yarısını DÖNMEDEN ÖNCE kaydeder.
// Kaydın expires_at'i refresh JWT'nin exp'ine eşittir.
func (s *authService) issueTokens(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	access, _, err := s.sign(user, s.accessKey, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.sign(user, s.refreshKey, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.Create(ctx, &models.RefreshToken{
		Token:     refresh,
		UserID:    user.ID,
		ExpiresAt: refreshExp,
	}); err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// sign, kullanıcı claim'leriyle HS256 JWT imzalar; token ve exp zamanını döner.
func (s *authService) sign(user *models.User, key []byte, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(ttl).Truncate(time.Second)

	claims := &models.TokenClaims{
		Email:     user.Email,
		Role:      user.Role,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

func (s *authService) parse(tokenString string, key []byte) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// hashPassword, bcrypt (cost 12) hash'i üretir.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// randomOTP, [OTPMin, OTPMax] aralığında kriptografik olarak rastgele, uniform bir kod üretir.
func randomOTP() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(models.OTPMax-models.OTPMin+1))
	if err != nil {
		return 0, err
	}
	return models.OTPMin + int(n.Int64()), nil
}
