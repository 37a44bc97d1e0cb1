package repository

import (
	"context"

	"github.com/akinalp/fireshield/models"
)

// ContentRepository, kurs içerikleri için interface.
type ContentRepository interface {
	// Create, (course_id, order_index) çakışmasında BadRequest döner.
	Create(ctx context.Context, content *models.CourseContent) error
	GetByID(ctx context.Context, id int64) (*models.CourseContent, error)
	// GetWithCourse, içerik + kurs başlığı (bildirim metinleri için).
	GetWithCourse(ctx context.Context, id int64) (*models.CourseContentWithCourse, error)
	List(ctx context.Context, filter models.ContentFilter) ([]models.CourseContent, error)
	// ListByCourse, kursun tüm içerikleri, orderIndex artan sırada.
	ListByCourse(ctx context.Context, courseID int64) ([]models.CourseContent, error)
	CountByCourse(ctx context.Context, courseID int64) (int, error)
	Update(ctx context.Context, content *models.CourseContent) error
	// Reorder, verilen içeriklerin orderIndex'lerini tek transaction'da değiştirir.
	Reorder(ctx context.Context, courseID int64, items []models.ReorderItem) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.ContentStats, error)
}
