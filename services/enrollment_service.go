package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/pkg/email"
	"github.com/akinalp/fireshield/repository"
	"github.com/akinalp/fireshield/ws"
)

var (
	errSessionMissing = fmt.Errorf("%w: Session not found", pkg.ErrNotFound)
	errAccessDenied   = fmt.Errorf("%w: Access denied", pkg.ErrForbidden)
)

// EnrollmentService, oturum kayıt iş akışı: pending → confirmed / canceled.
type EnrollmentService interface {
	// Create, oturum açmış kullanıcıyı oturuma pending olarak kaydeder.
	Create(ctx context.Context, userID int64, req *models.CreateEnrollmentRequest) (*models.Enrollment, error)
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error)
	Stats(ctx context.Context) (*models.EnrollmentStats, error)
	// Get, kaydı sahibine veya admin/trainer'a döner.
	Get(ctx context.Context, id int64, caller *models.Identity) (*models.EnrollmentDetail, error)
	Confirm(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	// Cancel, sahibi veya admin/trainer iptal edebilir.
	Cancel(ctx context.Context, id int64, caller *models.Identity) (*models.EnrollmentDetail, error)
	UpdateStatus(ctx context.Context, id int64, req *models.UpdateEnrollmentRequest) (*models.EnrollmentDetail, error)
	Delete(ctx context.Context, id int64) error
}

type enrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	sessionRepo    repository.CourseSessionRepository
	userRepo       repository.UserRepository
	notifier       NotificationService
	mailer         email.Mailer
	hub            ws.EventPublisher
}

// NewEnrollmentService, constructor.
func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	sessionRepo repository.CourseSessionRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
	mailer email.Mailer,
	hub ws.EventPublisher,
) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		sessionRepo:    sessionRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		mailer:         mailer,
		hub:            hub,
	}
}

// Create, çift kaydı UNIQUE(user_id, session_id) index'i reddeder.
// Kayıt onay email'i best-effort'tur.
func (s *enrollmentService) Create(ctx context.Context, userID int64, req *models.CreateEnrollmentRequest) (*models.Enrollment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetDetail(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, errSessionMissing
		}
		return nil, err
	}

	enrollment := &models.Enrollment{
		UserID:    userID,
		SessionID: req.SessionID,
		Status:    models.EnrollmentPending,
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("[enrollment] failed to load user for confirmation email")
		return enrollment, nil
	}

	details := email.EnrollmentDetails{
		CourseTitle: session.CourseTitle,
		StartDate:   session.StartDate,
		EndDate:     session.EndDate,
	}
	if session.Location != nil {
		details.Location = *session.Location
	}
	sendBestEffort(ctx, "enrollment_confirmation", func(ctx context.Context) error {
		return s.mailer.SendEnrollmentConfirmation(ctx, user.Email, user.FirstName, details)
	})

	return enrollment, nil
}

func (s *enrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	return s.enrollmentRepo.List(ctx, filter)
}

func (s *enrollmentService) Stats(ctx context.Context) (*models.EnrollmentStats, error) {
	return s.enrollmentRepo.Stats(ctx)
}

func (s *enrollmentService) Get(ctx context.Context, id int64, caller *models.Identity) (*models.EnrollmentDetail, error) {
	detail, err := s.enrollmentRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if detail.UserID != caller.UserID && !caller.HasRole(models.RoleAdmin, models.RoleTrainer) {
		return nil, errAccessDenied
	}
	return detail, nil
}

func (s *enrollmentService) Confirm(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	return s.setStatus(ctx, id, models.EnrollmentConfirmed)
}

func (s *enrollmentService) Cancel(ctx context.Context, id int64, caller *models.Identity) (*models.EnrollmentDetail, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if enrollment.UserID != caller.UserID && !caller.HasRole(models.RoleAdmin, models.RoleTrainer) {
		return nil, errAccessDenied
	}
	return s.setStatus(ctx, id, models.EnrollmentCanceled)
}

func (s *enrollmentService) UpdateStatus(ctx context.Context, id int64, req *models.UpdateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.setStatus(ctx, id, req.Status)
}

func (s *enrollmentService) Delete(ctx context.Context, id int64) error {
	return s.enrollmentRepo.Delete(ctx, id)
}

// setStatus, durumu yazar ve kullanıcıya enrollment_update push eder.
// confirmed'a geçişte "Enrollment Confirmed" bildirimi oluşturulur.
func (s *enrollmentService) setStatus(ctx context.Context, id int64, status models.EnrollmentStatus) (*models.EnrollmentDetail, error) {
	current, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.enrollmentRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	detail, err := s.enrollmentRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToUser(detail.UserID, ws.Event{Op: ws.OpEnrollmentUpdate, Data: detail})
	if status == models.EnrollmentConfirmed && current.Status != models.EnrollmentConfirmed {
		s.notifier.NotifyEnrollmentConfirmed(ctx, detail.UserID, detail.Session.CourseTitle)
	}
	return detail, nil
}
