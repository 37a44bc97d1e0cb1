package repository

import (
	"context"

	"github.com/akinalp/fireshield/models"
)

// MessageRepository, kullanıcılar arası mesajlar için interface.
//
// Mesajlar offset-based sayfalanır (page/limit), en yeni önce.
type MessageRepository interface {
	// Create, alıcı yoksa "Receiver not found" döner.
	Create(ctx context.Context, message *models.Message) error
	// GetByID, mesajı gönderen ve alıcı özetleriyle döner.
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	// ListForUser, kullanıcının gönderdiği veya aldığı mesajlar.
	// filter.ConversationWith > 0 ise sadece o kullanıcıyla olanlar.
	ListForUser(ctx context.Context, userID int64, filter models.MessageFilter) ([]models.Message, error)
	// Conversations, her karşı taraf için son mesaj ve okunmamış sayısı.
	Conversations(ctx context.Context, userID int64) ([]models.Conversation, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkAsRead(ctx context.Context, id int64) error
	// MarkConversationAsRead, peerID'den userID'ye gelen tüm okunmamış mesajları okundu yapar.
	MarkConversationAsRead(ctx context.Context, userID, peerID int64) (int64, error)
}
