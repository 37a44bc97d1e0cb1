package repository

import (
	"context"
	"time"

	"github.com/akinalp/fireshield/models"
)

// CourseSessionRepository, kurs oturumları için interface.
type CourseSessionRepository interface {
	Create(ctx context.Context, session *models.CourseSession) error
	GetByID(ctx context.Context, id int64) (*models.CourseSession, error)
	// GetDetail, oturum + kurs başlığı + eğitmen özeti.
	GetDetail(ctx context.Context, id int64) (*models.CourseSessionDetail, error)
	List(ctx context.Context, filter models.SessionFilter) ([]models.CourseSessionDetail, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.CourseSession, error)
	// ListStartingBetween, [from, to) aralığında başlayan, verilen durumdaki oturumlar.
	ListStartingBetween(ctx context.Context, status models.SessionStatus, from, to time.Time) ([]models.CourseSessionDetail, error)
	Update(ctx context.Context, session *models.CourseSession) error
	UpdateStatus(ctx context.Context, id int64, status models.SessionStatus) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.SessionStats, error)
}
