package services

import (
	"context"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/repository"
)

// ContentService, kurs içeriklerinin yönetimi.
type ContentService interface {
	Create(ctx context.Context, req *models.CreateContentRequest) (*models.CourseContent, error)
	List(ctx context.Context, filter models.ContentFilter) ([]models.CourseContent, error)
	ListByCourse(ctx context.Context, courseID int64) ([]models.CourseContent, error)
	Stats(ctx context.Context) (*models.ContentStats, error)
	Get(ctx context.Context, id int64) (*models.CourseContent, error)
	Update(ctx context.Context, id int64, req *models.UpdateContentRequest) (*models.CourseContent, error)
	// Reorder, içeriklerin sırasını tek transaction'da değiştirir ve yeni sırayı döner.
	Reorder(ctx context.Context, courseID int64, req *models.ReorderContentsRequest) ([]models.CourseContent, error)
	Delete(ctx context.Context, id int64) error
}

type contentService struct {
	contentRepo repository.ContentRepository
	courseRepo  repository.CourseRepository
}

// NewContentService, constructor.
func NewContentService(contentRepo repository.ContentRepository, courseRepo repository.CourseRepository) ContentService {
	return &contentService{contentRepo: contentRepo, courseRepo: courseRepo}
}

// Create, kursun varlığını kontrol eder; aynı orderIndex'i UNIQUE index reddeder.
func (s *contentService) Create(ctx context.Context, req *models.CreateContentRequest) (*models.CourseContent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.courseRepo.GetByID(ctx, req.CourseID); err != nil {
		return nil, err
	}

	content := &models.CourseContent{
		CourseID:   req.CourseID,
		Type:       req.Type,
		Title:      req.Title,
		ContentURL: req.ContentURL,
		OrderIndex: req.OrderIndex,
	}
	if err := s.contentRepo.Create(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *contentService) List(ctx context.Context, filter models.ContentFilter) ([]models.CourseContent, error) {
	return s.contentRepo.List(ctx, filter)
}

func (s *contentService) ListByCourse(ctx context.Context, courseID int64) ([]models.CourseContent, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.contentRepo.ListByCourse(ctx, courseID)
}

func (s *contentService) Stats(ctx context.Context) (*models.ContentStats, error) {
	return s.contentRepo.Stats(ctx)
}

func (s *contentService) Get(ctx context.Context, id int64) (*models.CourseContent, error) {
	return s.contentRepo.GetByID(ctx, id)
}

func (s *contentService) Update(ctx context.Context, id int64, req *models.UpdateContentRequest) (*models.CourseContent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	content, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		content.Type = *req.Type
	}
	if req.Title != nil {
		content.Title = *req.Title
	}
	if req.ContentURL != nil {
		content.ContentURL = req.ContentURL
	}
	if req.OrderIndex != nil {
		content.OrderIndex = *req.OrderIndex
	}

	if err := s.contentRepo.Update(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *contentService) Reorder(ctx context.Context, courseID int64, req *models.ReorderContentsRequest) ([]models.CourseContent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	if err := s.contentRepo.Reorder(ctx, courseID, req.Contents); err != nil {
		return nil, err
	}
	return s.contentRepo.ListByCourse(ctx, courseID)
}

func (s *contentService) Delete(ctx context.Context, id int64) error {
	return s.contentRepo.Delete(ctx, id)
}
