package services

import (
	"context"

	"github.com/akinalp/fireshield/repository"
	"github.com/akinalp/fireshield/ws"
)

// readyService, WebSocket bağlantısı kurulunca gönderilen okunmamış sayıları üretir.
type readyService struct {
	notificationRepo repository.NotificationRepository
	messageRepo      repository.MessageRepository
}

// NewReadyService, ws.ReadyProvider implementasyonu döner.
func NewReadyService(notificationRepo repository.NotificationRepository, messageRepo repository.MessageRepository) ws.ReadyProvider {
	return &readyService{notificationRepo: notificationRepo, messageRepo: messageRepo}
}

func (s *readyService) ReadyState(ctx context.Context, userID int64) (ws.ReadyData, error) {
	data := ws.ReadyData{UserID: userID}

	var err error
	if data.UnreadNotifications, err = s.notificationRepo.UnreadCount(ctx, userID); err != nil {
		return data, err
	}
	if data.UnreadMessages, err = s.messageRepo.UnreadCount(ctx, userID); err != nil {
		return data, err
	}
	return data, nil
}
