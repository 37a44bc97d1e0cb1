package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/repository"
)

var (
	errInvalidTrainer = fmt.Errorf("%w: Invalid trainer", pkg.ErrBadRequest)
	errSessionDates   = fmt.Errorf("%w: Start date must be before end date", pkg.ErrBadRequest)
)

// SessionService, kurs oturumlarının planlanması ve durum yönetimi.
type SessionService interface {
	Create(ctx context.Context, req *models.CreateSessionRequest) (*models.CourseSession, error)
	List(ctx context.Context, filter models.SessionFilter) ([]models.CourseSessionDetail, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.CourseSession, error)
	Stats(ctx context.Context) (*models.SessionStats, error)
	Get(ctx context.Context, id int64) (*models.CourseSessionDetail, error)
	Update(ctx context.Context, id int64, req *models.UpdateSessionRequest) (*models.CourseSession, error)
	// UpdateStatus, durumu değiştirir. ongoing'e geçişte onaylı katılımcılar bilgilendirilir.
	UpdateStatus(ctx context.Context, id int64, status models.SessionStatus) (*models.CourseSession, error)
	Delete(ctx context.Context, id int64) error
	// NotifyUpcoming, within süresi içinde başlayacak planned oturumların onaylı
	// katılımcılarına "Course Starting Soon" bildirimi gönderir; gönderilen sayıyı döner.
	NotifyUpcoming(ctx context.Context, within time.Duration) (int, error)
}

type sessionService struct {
	sessionRepo    repository.CourseSessionRepository
	courseRepo     repository.CourseRepository
	userRepo       repository.UserRepository
	enrollmentRepo repository.EnrollmentRepository
	notifier       NotificationService
	now            func() time.Time
}

// NewSessionService, constructor.
func NewSessionService(
	sessionRepo repository.CourseSessionRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	enrollmentRepo repository.EnrollmentRepository,
	notifier NotificationService,
) SessionService {
	return &sessionService{
		sessionRepo:    sessionRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
		notifier:       notifier,
		now:            time.Now,
	}
}

func (s *sessionService) Create(ctx context.Context, req *models.CreateSessionRequest) (*models.CourseSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		return nil, err
	}
	if err := s.checkTrainer(ctx, req.TrainerID); err != nil {
		return nil, err
	}

	session := &models.CourseSession{
		CourseID:  req.CourseID,
		TrainerID: req.TrainerID,
		StartDate: req.Start(),
		EndDate:   req.End(),
		Location:  req.Location,
		Status:    models.SessionPlanned,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) List(ctx context.Context, filter models.SessionFilter) ([]models.CourseSessionDetail, error) {
	return s.sessionRepo.List(ctx, filter)
}

func (s *sessionService) ListByCourse(ctx context.Context, courseID int64) ([]models.CourseSession, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.sessionRepo.ListByCourse(ctx, courseID)
}

func (s *sessionService) Stats(ctx context.Context) (*models.SessionStats, error) {
	return s.sessionRepo.Stats(ctx)
}

func (s *sessionService) Get(ctx context.Context, id int64) (*models.CourseSessionDetail, error) {
	return s.sessionRepo.GetDetail(ctx, id)
}

// Update, PATCH semantiği. Tarih sırası birleştirilmiş değerler üzerinden kontrol edilir.
func (s *sessionService) Update(ctx context.Context, id int64, req *models.UpdateSessionRequest) (*models.CourseSession, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := session.Status

	if req.TrainerID != nil && *req.TrainerID != session.TrainerID {
		if err := s.checkTrainer(ctx, *req.TrainerID); err != nil {
			return nil, err
		}
		session.TrainerID = *req.TrainerID
	}
	if start := req.Start(); start != nil {
		session.StartDate = *start
	}
	if end := req.End(); end != nil {
		session.EndDate = *end
	}
	if !session.StartDate.Before(session.EndDate) {
		return nil, errSessionDates
	}
	if req.Location != nil {
		session.Location = req.Location
	}
	if req.Status != nil {
		session.Status = *req.Status
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	if session.Status == models.SessionOngoing && previous != models.SessionOngoing {
		s.notifyStarting(ctx, session.ID)
	}
	return session, nil
}

func (s *sessionService) UpdateStatus(ctx context.Context, id int64, status models.SessionStatus) (*models.CourseSession, error) {
	req := models.UpdateSessionStatusRequest{Status: status}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := session.Status

	if err := s.sessionRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	session.Status = status

	if status == models.SessionOngoing && previous != models.SessionOngoing {
		s.notifyStarting(ctx, id)
	}
	return session, nil
}

func (s *sessionService) Delete(ctx context.Context, id int64) error {
	return s.sessionRepo.Delete(ctx, id)
}

func (s *sessionService) NotifyUpcoming(ctx context.Context, within time.Duration) (int, error) {
	if within <= 0 {
		return 0, fmt.Errorf("%w: within must be positive", pkg.ErrBadRequest)
	}

	now := s.now().UTC()
	sessions, err := s.sessionRepo.ListStartingBetween(ctx, models.SessionPlanned, now, now.Add(within))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, session := range sessions {
		userIDs, err := s.enrollmentRepo.ListUserIDsBySession(ctx, session.ID, models.EnrollmentConfirmed)
		if err != nil {
			return sent, err
		}
		for _, userID := range userIDs {
			s.notifier.NotifyCourseStarting(ctx, userID, session.CourseTitle, session.StartDate)
			sent++
		}
	}
	return sent, nil
}

// checkTrainer, ID'nin trainer rolündeki bir kullanıcıya ait olduğunu doğrular.
func (s *sessionService) checkTrainer(ctx context.Context, trainerID int64) error {
	trainer, err := s.userRepo.GetByID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return errInvalidTrainer
		}
		return err
	}
	if trainer.Role != models.RoleTrainer {
		return errInvalidTrainer
	}
	return nil
}

// notifyStarting, oturumun onaylı katılımcılarına başlama bildirimi gönderir.
// Ana işlemin yan etkisidir; hata loglanır.
func (s *sessionService) notifyStarting(ctx context.Context, sessionID int64) {
	detail, err := s.sessionRepo.GetDetail(ctx, sessionID)
	if err != nil {
		log.Warn().Err(err).Int64("session_id", sessionID).Msg("[session] failed to load session for notifications")
		return
	}

	userIDs, err := s.enrollmentRepo.ListUserIDsBySession(ctx, sessionID, models.EnrollmentConfirmed)
	if err != nil {
		log.Warn().Err(err).Int64("session_id", sessionID).Msg("[session] failed to list confirmed enrollments")
		return
	}
	for _, userID := range userIDs {
		s.notifier.NotifyCourseStarting(ctx, userID, detail.CourseTitle, detail.StartDate)
	}
}
