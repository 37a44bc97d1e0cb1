package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/repository"
	"github.com/akinalp/fireshield/ws"
)

// emailTimeout, best-effort email gönderimlerinin üst süresi.
const emailTimeout = 15 * time.Second

// NotificationService, uygulama içi bildirimleri yönetir. Oluşturulan her
// bildirim hedef kullanıcıya WebSocket ile de push edilir.
type NotificationService interface {
	Create(ctx context.Context, req *models.CreateNotificationRequest) (*models.Notification, error)
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	Get(ctx context.Context, id, userID int64) (*models.Notification, error)
	MarkRead(ctx context.Context, id, userID int64) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, id, userID int64) error

	NotifyEnrollmentConfirmed(ctx context.Context, userID int64, courseTitle string)
	NotifyNewMessage(ctx context.Context, userID int64, senderName string)
	NotifyCourseStarting(ctx context.Context, userID int64, courseTitle string, startDate time.Time)
	NotifyCertificateEarned(ctx context.Context, userID int64, courseTitle string)
	NotifyContentCompleted(ctx context.Context, userID int64, contentTitle, courseTitle string)
}

type notificationService struct {
	repo repository.NotificationRepository
	hub  ws.EventPublisher
}

// NewNotificationService, constructor.
func NewNotificationService(repo repository.NotificationRepository, hub ws.EventPublisher) NotificationService {
	return &notificationService{repo: repo, hub: hub}
}

func (s *notificationService) Create(ctx context.Context, req *models.CreateNotificationRequest) (*models.Notification, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.createForUser(ctx, req.UserID, req.Title, req.Message)
}

func (s *notificationService) createForUser(ctx context.Context, userID int64, title, message string) (*models.Notification, error) {
	n := &models.Notification{UserID: userID, Title: title, Message: message}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	s.hub.BroadcastToUser(userID, ws.Event{Op: ws.OpNotificationCreate, Data: n})
	return n, nil
}

func (s *notificationService) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error) {
	return s.repo.List(ctx, filter)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// Get, bildirimi sadece sahibine döner; başkasınınki NotFound görünür.
func (s *notificationService) Get(ctx context.Context, id, userID int64) (*models.Notification, error) {
	return s.repo.GetForUser(ctx, id, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID int64) (*models.Notification, error) {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.repo.GetForUser(ctx, id, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, id, userID int64) error {
	return s.repo.Delete(ctx, id, userID)
}

// ─── Domain bildirimleri ───
//
// Bu yardımcılar ana işlemin yan etkisidir: hata loglanır, çağırana dönmez.

func (s *notificationService) NotifyEnrollmentConfirmed(ctx context.Context, userID int64, courseTitle string) {
	s.notify(ctx, userID, "Enrollment Confirmed",
		fmt.Sprintf("Your enrollment in %q has been confirmed!", courseTitle))
}

func (s *notificationService) NotifyNewMessage(ctx context.Context, userID int64, senderName string) {
	s.notify(ctx, userID, "New Message", "You have a new message from "+senderName)
}

func (s *notificationService) NotifyCourseStarting(ctx context.Context, userID int64, courseTitle string, startDate time.Time) {
	s.notify(ctx, userID, "Course Starting Soon",
		fmt.Sprintf("Your course %q starts on %s", courseTitle, startDate.Format("January 2, 2006")))
}

func (s *notificationService) NotifyCertificateEarned(ctx context.Context, userID int64, courseTitle string) {
	s.notify(ctx, userID, "Certificate Earned!",
		fmt.Sprintf("Congratulations! You've earned a certificate for %q", courseTitle))
}

func (s *notificationService) NotifyContentCompleted(ctx context.Context, userID int64, contentTitle, courseTitle string) {
	s.notify(ctx, userID, "Content Completed",
		fmt.Sprintf("You have completed %q in %s", contentTitle, courseTitle))
}

func (s *notificationService) notify(ctx context.Context, userID int64, title, message string) {
	if _, err := s.createForUser(ctx, userID, title, message); err != nil {
		log.Warn().Err(err).
			Int64("user_id", userID).
			Str("title", title).
			Msg("[notification] failed to create notification")
	}
}

// sendBestEffort, transactional email'i gönderir; hata loglanır ve yutulur.
// İstek iptal edilse bile gönderim emailTimeout kadar sürebilir.
func sendBestEffort(ctx context.Context, template string, send func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emailTimeout)
	defer cancel()

	if err := send(ctx); err != nil {
		log.Warn().Err(err).Str("template", template).Msg("[email] delivery failed")
	}
}
