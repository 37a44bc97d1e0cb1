// Package main, Service katmanı başlatma.
//
// initServices, tüm service implementasyonlarını oluşturur.
// Her service, ihtiyaç duyduğu repository interface'lerini ve diğer
// dependency'leri constructor injection ile alır.
//
// Sıralama kuralı: NotificationService, onu kullanan session/enrollment/
// progress/message service'lerinden ÖNCE oluşturulur.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/akinalp/fireshield/config"
	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg/cache"
	"github.com/akinalp/fireshield/pkg/email"
	"github.com/akinalp/fireshield/pkg/ratelimit"
	"github.com/akinalp/fireshield/pkg/storage"
	"github.com/akinalp/fireshield/services"
	"github.com/akinalp/fireshield/ws"
)

// courseCacheTTL, slug → kurs cache'inin kayıt ömrü.
const courseCacheTTL = 5 * time.Minute

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Course       services.CourseService
	Content      services.ContentService
	Session      services.SessionService
	Enrollment   services.EnrollmentService
	Progress     services.ProgressService
	Message      services.MessageService
	Notification services.NotificationService
	AuthProvider services.AuthProviderService
	Upload       services.UploadService
	Ready        ws.ReadyProvider

	courseCache *cache.TTLCache[string, *models.Course]
}

// RateLimiters, tüm rate limiter instance'larını tutan container.
type RateLimiters struct {
	Auth    *ratelimit.AttemptLimiter
	Message *ratelimit.MessageRateLimiter
}

// Stop, arka plan temizlik goroutine'lerini durdurur.
func (l *RateLimiters) Stop() {
	l.Auth.Stop()
	l.Message.Stop()
}

// Close, service'lerin sahip olduğu arka plan kaynaklarını bırakır.
func (s *Services) Close() {
	s.courseCache.Close()
}

// newMailer, RESEND_API_KEY varsa Resend transport'u, yoksa sadece loglayan
// transport'u seçer. Development'ta e-postalar log'da görünür.
func newMailer(cfg *config.Config) email.Mailer {
	var transport email.Transport
	if cfg.Email.ResendAPIKey != "" {
		transport = email.NewResendTransport(cfg.Email.ResendAPIKey)
		log.Info().Str("from", cfg.Email.FromEmail).Msg("[main] email service enabled (resend)")
	} else {
		transport = email.NewLogTransport()
		log.Warn().Msg("[main] RESEND_API_KEY not set, emails will only be logged")
	}

	return email.NewMailer(transport, email.Config{
		FromName:    cfg.Email.FromName,
		FromEmail:   cfg.Email.FromEmail,
		FrontendURL: cfg.Server.FrontendURL,
	})
}

// newStorage, STORAGE_DRIVER'a göre local veya S3 backend'ini kurar.
func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	return storage.New(ctx, storage.Options{
		Driver:       cfg.Storage.Driver,
		LocalDir:     cfg.Upload.Dir,
		LocalBaseURL: "/uploads",
		S3Bucket:     cfg.Storage.S3Bucket,
		S3Region:     cfg.Storage.S3Region,
		S3Endpoint:   cfg.Storage.S3Endpoint,
		S3AccessKey:  cfg.Storage.S3AccessKey,
		S3SecretKey:  cfg.Storage.S3SecretKey,
		S3PublicURL:  cfg.Storage.S3PublicURL,
	})
}

// initServices, tüm service'leri ve rate limiter'ları oluşturur.
func initServices(ctx context.Context, repos *Repositories, hub ws.EventPublisher, cfg *config.Config) (*Services, *RateLimiters, error) {
	mailer := newMailer(cfg)

	store, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to init storage: %w", err)
	}

	// ─── Rate Limiters ───
	limiters := &RateLimiters{
		Auth:    ratelimit.NewAttemptLimiter(cfg.RateLimit.AuthAttempts, cfg.RateLimit.AuthWindow),
		Message: ratelimit.NewMessageRateLimiter(5, 5*time.Second, 15*time.Second),
	}

	// ─── Sıralama-kritik service'ler ───
	notificationService := services.NewNotificationService(repos.Notification, hub)

	// ─── Diğer service'ler ───
	authService := services.NewAuthService(repos.User, repos.RefreshToken, mailer, services.TokenConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessExpiration,
		RefreshTTL:    cfg.JWT.RefreshExpiration,
	})

	courseCache := cache.New[string, *models.Course](courseCacheTTL, time.Minute)
	courseService := services.NewCourseService(repos.Course, repos.Session, repos.Content, courseCache)

	svcs := &Services{
		Auth:         authService,
		User:         services.NewUserService(repos.User),
		Course:       courseService,
		Content:      services.NewContentService(repos.Content, repos.Course),
		Session:      services.NewSessionService(repos.Session, repos.Course, repos.User, repos.Enrollment, notificationService),
		Enrollment:   services.NewEnrollmentService(repos.Enrollment, repos.Session, repos.User, notificationService, mailer, hub),
		Progress:     services.NewProgressService(repos.Progress, repos.Content, repos.Course, repos.User, notificationService, mailer, cfg.Server.FrontendURL),
		Message:      services.NewMessageService(repos.Message, repos.User, notificationService, hub, limiters.Message),
		Notification: notificationService,
		AuthProvider: services.NewAuthProviderService(repos.AuthProvider, repos.User),
		Upload:       services.NewUploadService(store, repos.User, repos.Course, courseService, cfg.Upload.MaxSize),
		Ready:        services.NewReadyService(repos.Notification, repos.Message),
		courseCache:  courseCache,
	}

	return svcs, limiters, nil
}
