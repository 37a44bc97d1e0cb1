package repository

import (
	"context"
	"time"

	"github.com/akinalp/fireshield/models"
)

// RefreshTokenRepository, verilmiş refresh token kayıtları için interface.
// Bir hesabın birden fazla aktif kaydı olabilir (çoklu cihaz).
type RefreshTokenRepository interface {
	// Create, kaydı ekler ve aynı hesabın süresi dolmuş kayıtlarını temizler.
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	// DeleteByToken, token'ı sadece verilen hesaba aitse siler.
	DeleteByToken(ctx context.Context, userID int64, token string) error
	DeleteByUserID(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
