package repository

import (
	"context"
	"time"

	"github.com/akinalp/fireshield/models"
)

// ProgressRepository, öğrenci ilerleme kayıtları için interface.
type ProgressRepository interface {
	// Create, (user_id, content_id) çakışmasında BadRequest döner.
	Create(ctx context.Context, progress *models.LearnerProgress) error
	GetByID(ctx context.Context, id int64) (*models.LearnerProgress, error)
	// GetByUserAndContent, kayıt yoksa pkg.ErrNotFound döner.
	GetByUserAndContent(ctx context.Context, userID, contentID int64) (*models.LearnerProgress, error)
	List(ctx context.Context, filter models.ProgressFilter) ([]models.LearnerProgress, error)
	// MarkCompleted, kaydı yoksa tamamlanmış olarak oluşturur, varsa tamamlandı
	// olarak işaretler. Önceden tamamlanmışsa completed_at korunur.
	MarkCompleted(ctx context.Context, userID, contentID int64, at time.Time) (*models.LearnerProgress, error)
	// SetCompleted, tamamlanma durumunu ve completed_at'i yazar.
	SetCompleted(ctx context.Context, id int64, completed bool, completedAt *time.Time) error
	// CourseProgress, kursun her içeriği için kullanıcının durumu (orderIndex sırasıyla).
	CourseProgress(ctx context.Context, userID, courseID int64) ([]models.ContentProgress, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.ProgressStats, error)
}
