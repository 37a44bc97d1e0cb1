package repository

import (
	"context"

	"github.com/akinalp/fireshield/models"
)

// EnrollmentRepository, oturum kayıtları için interface.
type EnrollmentRepository interface {
	// Create, (user_id, session_id) çakışmasında "Already enrolled in this session" döner.
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	GetDetail(ctx context.Context, id int64) (*models.EnrollmentDetail, error)
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error)
	// ListUserIDsBySession, oturumda verilen durumdaki kayıtların kullanıcı ID'leri.
	ListUserIDsBySession(ctx context.Context, sessionID int64, status models.EnrollmentStatus) ([]int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.EnrollmentStats, error)
}
