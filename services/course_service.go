package services

import (
	"context"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg/cache"
	"github.com/akinalp/fireshield/repository"
)

// CourseService, kurs kataloğu işlemleri.
type CourseService interface {
	Create(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error)
	Stats(ctx context.Context) (*models.CourseStats, error)
	// Get, kursu oturumları ve orderIndex sıralı içerikleriyle döner.
	Get(ctx context.Context, id int64) (*models.CourseDetail, error)
	GetBySlug(ctx context.Context, slug string) (*models.CourseDetail, error)
	Update(ctx context.Context, id int64, req *models.UpdateCourseRequest) (*models.Course, error)
	UpdateThumbnail(ctx context.Context, id int64, thumbnailURL string) error
	Delete(ctx context.Context, id int64) error
}

type courseService struct {
	courseRepo  repository.CourseRepository
	sessionRepo repository.CourseSessionRepository
	contentRepo repository.ContentRepository
	bySlug      *cache.TTLCache[string, *models.Course]
}

// NewCourseService, constructor. bySlug cache'i slug → kurs okumalarını tutar;
// kurs değiştiğinde ilgili kayıt silinir.
func NewCourseService(
	courseRepo repository.CourseRepository,
	sessionRepo repository.CourseSessionRepository,
	contentRepo repository.ContentRepository,
	bySlug *cache.TTLCache[string, *models.Course],
) CourseService {
	return &courseService{
		courseRepo:  courseRepo,
		sessionRepo: sessionRepo,
		contentRepo: contentRepo,
		bySlug:      bySlug,
	}
}

// Create, başlıktan slug üretir. Aynı slug'lı kurs varsa BadRequest döner
// (UNIQUE index son sözü söyler).
func (s *courseService) Create(ctx context.Context, req *models.CreateCourseRequest) (*models.Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:        req.Title,
		Slug:         models.Slugify(req.Title),
		Description:  req.Description,
		Level:        req.Level,
		Price:        req.Price,
		Duration:     req.Duration,
		ThumbnailURL: req.ThumbnailURL,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	return s.courseRepo.List(ctx, filter)
}

func (s *courseService) Stats(ctx context.Context) (*models.CourseStats, error) {
	return s.courseRepo.Stats(ctx)
}

func (s *courseService) Get(ctx context.Context, id int64) (*models.CourseDetail, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, course)
}

func (s *courseService) GetBySlug(ctx context.Context, slug string) (*models.CourseDetail, error) {
	course, err := s.bySlug.GetOrLoad(slug, func() (*models.Course, error) {
		return s.courseRepo.GetBySlug(ctx, slug)
	})
	if err != nil {
		return nil, err
	}

	// Cache'teki pointer paylaşımlıdır, kopyası üzerinden çalışılır.
	c := *course
	return s.detail(ctx, &c)
}

func (s *courseService) detail(ctx context.Context, course *models.Course) (*models.CourseDetail, error) {
	sessions, err := s.sessionRepo.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	contents, err := s.contentRepo.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	return &models.CourseDetail{Course: *course, Sessions: sessions, Contents: contents}, nil
}

// Update, PATCH semantiği. Başlık değişirse slug yeniden üretilir.
func (s *courseService) Update(ctx context.Context, id int64, req *models.UpdateCourseRequest) (*models.Course, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		course.Title = *req.Title
		course.Slug = models.Slugify(*req.Title)
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Duration != nil {
		course.Duration = req.Duration
	}
	if req.ThumbnailURL != nil {
		course.ThumbnailURL = req.ThumbnailURL
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	s.invalidate(id)
	return course, nil
}

func (s *courseService) UpdateThumbnail(ctx context.Context, id int64, thumbnailURL string) error {
	if err := s.courseRepo.UpdateThumbnail(ctx, id, thumbnailURL); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

func (s *courseService) Delete(ctx context.Context, id int64) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

func (s *courseService) invalidate(id int64) {
	s.bySlug.DeleteFunc(func(_ string, c *models.Course) bool { return c.ID == id })
}
