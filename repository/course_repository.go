package repository

import (
	"context"

	"github.com/akinalp/fireshield/models"
)

// CourseRepository, kurs kataloğu için interface.
type CourseRepository interface {
	// Create, slug çakışmasında "A course with this title already exists" döner.
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	UpdateThumbnail(ctx context.Context, id int64, thumbnailURL string) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*models.CourseStats, error)
}
