package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/pkg/email"
	"github.com/akinalp/fireshield/repository"
)

// ProgressService, öğrenci ilerleme takibi ve sertifika tetikleme.
type ProgressService interface {
	// Create, req.UserID boşsa callerID adına kayıt açar.
	Create(ctx context.Context, callerID int64, req *models.CreateProgressRequest) (*models.LearnerProgress, error)
	List(ctx context.Context, filter models.ProgressFilter) ([]models.LearnerProgress, error)
	Stats(ctx context.Context) (*models.ProgressStats, error)
	Get(ctx context.Context, id int64, caller *models.Identity) (*models.LearnerProgress, error)
	CourseProgress(ctx context.Context, userID, courseID int64) (*models.CourseProgress, error)
	// MarkContentCompleted, upsert: kayıt yoksa tamamlanmış olarak açar.
	MarkContentCompleted(ctx context.Context, userID, contentID int64) (*models.LearnerProgress, error)
	Update(ctx context.Context, id int64, req *models.UpdateProgressRequest) (*models.LearnerProgress, error)
	Delete(ctx context.Context, id int64) error
}

type progressService struct {
	progressRepo repository.ProgressRepository
	contentRepo  repository.ContentRepository
	courseRepo   repository.CourseRepository
	userRepo     repository.UserRepository
	notifier     NotificationService
	mailer       email.Mailer
	frontendURL  string
	now          func() time.Time
}

// NewProgressService, constructor. frontendURL sertifika linkinin önekidir.
func NewProgressService(
	progressRepo repository.ProgressRepository,
	contentRepo repository.ContentRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
	mailer email.Mailer,
	frontendURL string,
) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		contentRepo:  contentRepo,
		courseRepo:   courseRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		mailer:       mailer,
		frontendURL:  strings.TrimSuffix(frontendURL, "/"),
		now:          time.Now,
	}
}

func (s *progressService) Create(ctx context.Context, callerID int64, req *models.CreateProgressRequest) (*models.LearnerProgress, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	userID := req.UserID
	if userID == 0 {
		userID = callerID
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	content, err := s.contentRepo.GetWithCourse(ctx, req.ContentID)
	if err != nil {
		return nil, err
	}

	progress := &models.LearnerProgress{
		UserID:    userID,
		ContentID: req.ContentID,
		Completed: req.Completed,
	}
	if req.Completed {
		at := s.now().UTC()
		progress.CompletedAt = &at
	}
	if err := s.progressRepo.Create(ctx, progress); err != nil {
		return nil, err
	}

	if progress.Completed {
		s.onCompleted(ctx, userID, content)
	}
	return progress, nil
}

func (s *progressService) List(ctx context.Context, filter models.ProgressFilter) ([]models.LearnerProgress, error) {
	return s.progressRepo.List(ctx, filter)
}

func (s *progressService) Stats(ctx context.Context) (*models.ProgressStats, error) {
	return s.progressRepo.Stats(ctx)
}

func (s *progressService) Get(ctx context.Context, id int64, caller *models.Identity) (*models.LearnerProgress, error) {
	progress, err := s.progressRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if progress.UserID != caller.UserID && !caller.HasRole(models.RoleAdmin, models.RoleTrainer) {
		return nil, errAccessDenied
	}
	return progress, nil
}

// CourseProgress, kursun her içeriği için durum ve yuvarlanmış tamamlanma yüzdesi.
func (s *progressService) CourseProgress(ctx context.Context, userID, courseID int64) (*models.CourseProgress, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	contents, err := s.progressRepo.CourseProgress(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	completed := 0
	for _, c := range contents {
		if c.Completed {
			completed++
		}
	}

	return &models.CourseProgress{
		CourseID:          courseID,
		TotalContents:     len(contents),
		CompletedContents: completed,
		Percentage:        models.Percent(completed, len(contents)),
		Contents:          contents,
	}, nil
}

func (s *progressService) MarkContentCompleted(ctx context.Context, userID, contentID int64) (*models.LearnerProgress, error) {
	content, err := s.contentRepo.GetWithCourse(ctx, contentID)
	if err != nil {
		return nil, err
	}

	wasCompleted := false
	existing, err := s.progressRepo.GetByUserAndContent(ctx, userID, contentID)
	switch {
	case err == nil:
		wasCompleted = existing.Completed
	case !errors.Is(err, pkg.ErrNotFound):
		return nil, err
	}

	progress, err := s.progressRepo.MarkCompleted(ctx, userID, contentID, s.now())
	if err != nil {
		return nil, err
	}

	if !wasCompleted {
		s.onCompleted(ctx, userID, content)
	}
	return progress, nil
}

// Update, false → true geçişinde completedAt yazılır ve bildirim gider;
// true → false geçişinde completedAt temizlenir.
func (s *progressService) Update(ctx context.Context, id int64, req *models.UpdateProgressRequest) (*models.LearnerProgress, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	completed := *req.Completed
	if completed == progress.Completed {
		return progress, nil
	}

	var completedAt *time.Time
	if completed {
		at := s.now().UTC()
		completedAt = &at
	}
	if err := s.progressRepo.SetCompleted(ctx, id, completed, completedAt); err != nil {
		return nil, err
	}

	if completed {
		content, err := s.contentRepo.GetWithCourse(ctx, progress.ContentID)
		if err != nil {
			log.Warn().Err(err).Int64("content_id", progress.ContentID).Msg("[progress] failed to load content for notification")
		} else {
			s.onCompleted(ctx, progress.UserID, content)
		}
	}
	return s.progressRepo.GetByID(ctx, id)
}

func (s *progressService) Delete(ctx context.Context, id int64) error {
	return s.progressRepo.Delete(ctx, id)
}

// onCompleted, içerik tamamlanınca bildirim üretir; kurs %100 olduysa
// sertifika bildirimi ve email'i gönderir.
func (s *progressService) onCompleted(ctx context.Context, userID int64, content *models.CourseContentWithCourse) {
	s.notifier.NotifyContentCompleted(ctx, userID, content.Title, content.CourseTitle)

	report, err := s.CourseProgress(ctx, userID, content.CourseID)
	if err != nil {
		log.Warn().Err(err).Int64("course_id", content.CourseID).Msg("[progress] failed to compute course progress")
		return
	}
	if report.TotalContents == 0 || report.CompletedContents < report.TotalContents {
		return
	}

	s.notifier.NotifyCertificateEarned(ctx, userID, content.CourseTitle)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("[progress] failed to load user for certificate email")
		return
	}
	link := fmt.Sprintf("%s/certificates/%d", s.frontendURL, content.CourseID)
	sendBestEffort(ctx, "certificate", func(ctx context.Context) error {
		return s.mailer.SendCertificate(ctx, user.Email, user.FirstName, content.CourseTitle, link)
	})
}
