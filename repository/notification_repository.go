package repository

import (
	"context"

	"github.com/akinalp/fireshield/models"
)

// NotificationRepository, uygulama içi bildirimler için interface.
//
// Kullanıcıya ait sorgular user_id'yi WHERE'de taşır; başkasının bildirimi
// "bulunamadı" olarak görünür.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetForUser(ctx context.Context, id, userID int64) (*models.Notification, error)
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, id, userID int64) error
}
