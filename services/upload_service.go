package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/pkg/storage"
	"github.com/akinalp/fireshield/repository"
)

// UploadService, avatar ve kurs kapağı yükleme iş mantığı.
type UploadService interface {
	UploadAvatar(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (*models.User, error)
	UploadCourseThumbnail(ctx context.Context, courseID int64, file multipart.File, header *multipart.FileHeader) (*models.Course, error)
}

type uploadService struct {
	store      storage.Storage
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
	courses    CourseService
	maxSize    int64
}

// NewUploadService, constructor. Kapak güncellemesi CourseService üzerinden
// yapılır ki slug cache'i geçersiz kılınsın.
func NewUploadService(
	store storage.Storage,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	courses CourseService,
	maxSize int64,
) UploadService {
	return &uploadService{
		store:      store,
		userRepo:   userRepo,
		courseRepo: courseRepo,
		courses:    courses,
		maxSize:    maxSize,
	}
}

// allowedImageTypes, yüklenebilen MIME türleri ve dosya uzantıları.
var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

func (s *uploadService) UploadAvatar(ctx context.Context, userID int64, file multipart.File, header *multipart.FileHeader) (*models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	key, url, err := s.put(ctx, fmt.Sprintf("avatars/%d", userID), file, header)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateAvatar(ctx, userID, url); err != nil {
		s.discard(key)
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

func (s *uploadService) UploadCourseThumbnail(ctx context.Context, courseID int64, file multipart.File, header *multipart.FileHeader) (*models.Course, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	key, url, err := s.put(ctx, fmt.Sprintf("thumbnails/%d", courseID), file, header)
	if err != nil {
		return nil, err
	}

	if err := s.courses.UpdateThumbnail(ctx, courseID, url); err != nil {
		s.discard(key)
		return nil, err
	}
	return s.courseRepo.GetByID(ctx, courseID)
}

// put, dosyayı doğrular ve prefix/<uuid><ext> key'i ile depoya yazar.
//
// Tür, client'ın gönderdiği Content-Type'a değil dosyanın ilk 512 byte'ına
// bakılarak belirlenir.
func (s *uploadService) put(ctx context.Context, prefix string, file multipart.File, header *multipart.FileHeader) (string, string, error) {
	if header.Size > s.maxSize {
		return "", "", fmt.Errorf("%w: File too large (max %dMB)", pkg.ErrBadRequest, s.maxSize/(1024*1024))
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", "", fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return "", "", fmt.Errorf("%w: File is empty", pkg.ErrBadRequest)
	}

	contentType := strings.TrimSpace(strings.Split(http.DetectContentType(head), ";")[0])
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", "", fmt.Errorf("%w: File type not allowed: %s", pkg.ErrBadRequest, contentType)
	}

	key := prefix + "/" + uuid.NewString() + ext
	body := io.MultiReader(bytes.NewReader(head), file)

	url, err := s.store.Put(ctx, key, contentType, body, header.Size)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

// discard, DB güncellemesi başarısız olursa yüklenen nesneyi siler.
func (s *uploadService) discard(key string) {
	if err := s.store.Delete(context.Background(), key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[upload] failed to remove orphaned object")
	}
}
