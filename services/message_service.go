package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/pkg/ratelimit"
	"github.com/akinalp/fireshield/repository"
	"github.com/akinalp/fireshield/ws"
)

var (
	errReceiverNotFound = fmt.Errorf("%w: Receiver not found", pkg.ErrNotFound)
	errNotReceiver      = fmt.Errorf("%w: Only receiver can mark message as read", pkg.ErrForbidden)
)

// MessageService, kullanıcılar arası özel mesajlaşma.
type MessageService interface {
	// Send, alıcıya mesaj gönderir; alıcıya bildirim ve WebSocket push'u yapılır.
	Send(ctx context.Context, senderID int64, req *models.CreateMessageRequest) (*models.Message, error)
	List(ctx context.Context, userID int64, filter models.MessageFilter) ([]models.Message, error)
	Conversations(ctx context.Context, userID int64) ([]models.Conversation, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	// Get, mesajı sadece göndereni veya alıcısı görebilir.
	Get(ctx context.Context, id, userID int64) (*models.Message, error)
	MarkAsRead(ctx context.Context, id, userID int64) (*models.Message, error)
	MarkConversationAsRead(ctx context.Context, userID, peerID int64) (int64, error)
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	notifier    NotificationService
	hub         ws.EventPublisher
	limiter     *ratelimit.MessageRateLimiter
}

// NewMessageService, constructor. limiter nil ise gönderim sınırlanmaz.
func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
	hub ws.EventPublisher,
	limiter *ratelimit.MessageRateLimiter,
) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		hub:         hub,
		limiter:     limiter,
	}
}

func (s *messageService) Send(ctx context.Context, senderID int64, req *models.CreateMessageRequest) (*models.Message, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if s.limiter != nil && !s.limiter.Allow(senderID) {
		wait := s.limiter.CooldownSeconds(senderID)
		return nil, fmt.Errorf("%w: You are sending messages too fast. Please wait %s",
			pkg.ErrTooManyRequests, ratelimit.FormatRetryMessage(wait))
	}

	if _, err := s.userRepo.GetByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, errReceiverNotFound
		}
		return nil, err
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	full, err := s.messageRepo.GetByID(ctx, msg.ID)
	if err != nil {
		log.Warn().Err(err).Int64("message_id", msg.ID).Msg("[message] failed to reload message")
		full = msg
	}

	s.hub.BroadcastToUser(req.ReceiverID, ws.Event{Op: ws.OpMessageCreate, Data: full})

	senderName := "a user"
	if full.Sender != nil {
		senderName = full.Sender.FirstName + " " + full.Sender.LastName
	}
	s.notifier.NotifyNewMessage(ctx, req.ReceiverID, senderName)

	return full, nil
}

func (s *messageService) List(ctx context.Context, userID int64, filter models.MessageFilter) ([]models.Message, error) {
	return s.messageRepo.ListForUser(ctx, userID, filter)
}

func (s *messageService) Conversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	return s.messageRepo.Conversations(ctx, userID)
}

func (s *messageService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.messageRepo.UnreadCount(ctx, userID)
}

func (s *messageService) Get(ctx context.Context, id, userID int64) (*models.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != userID && msg.ReceiverID != userID {
		return nil, errAccessDenied
	}
	return msg, nil
}

func (s *messageService) MarkAsRead(ctx context.Context, id, userID int64) (*models.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg.ReceiverID != userID {
		return nil, errNotReceiver
	}
	if msg.IsRead {
		return msg, nil
	}

	if err := s.messageRepo.MarkAsRead(ctx, id); err != nil {
		return nil, err
	}
	msg.IsRead = true
	return msg, nil
}

func (s *messageService) MarkConversationAsRead(ctx context.Context, userID, peerID int64) (int64, error) {
	return s.messageRepo.MarkConversationAsRead(ctx, userID, peerID)
}
