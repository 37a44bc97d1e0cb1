package repository

import (
	"context"

	"github.com/akinalp/fireshield/models"
)

// UserRepository, kullanıcı veritabanı işlemleri için interface.
type UserRepository interface {
	// Create, yeni hesabı ekler. Email çakışması pkg.ErrAlreadyExists döner.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByEmail, birebir (case-sensitive) email eşleşmesiyle arar.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	// Update, profil alanlarını ve rolü yazar. Şifre ve OTP'ye dokunmaz.
	Update(ctx context.Context, user *models.User) error
	UpdateAvatar(ctx context.Context, id int64, avatarURL string) error
	// SetOTP, sıfırlama kodunu yazar (nil → temizler).
	SetOTP(ctx context.Context, id int64, otp *int) error
	// ReplacePassword, tek transaction içinde: yeni hash'i yazar, OTP'yi
	// temizler ve hesabın tüm refresh token'larını siler.
	ReplacePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.UserStats, error)
}
