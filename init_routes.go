// Package main, HTTP route registration.
//
// initRoutes, chi router'ı kurar ve tüm API endpoint'lerini bağlar.
//
// Global zincir: RequestID → Logger → Recover → tracing → metrics → CORS.
// API prefix'i altında ayrıca gzip ve IP bazlı global istek limiti çalışır.
// /ws bu iki katmanın dışındadır; WebSocket upgrade gzip writer ile çalışmaz.
package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/akinalp/fireshield/config"
	"github.com/akinalp/fireshield/middleware"
	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/pkg/metrics"
	"github.com/akinalp/fireshield/pkg/telemetry"
	"github.com/akinalp/fireshield/services"
)

const (
	admin   = models.RoleAdmin
	trainer = models.RoleTrainer
)

// initRoutes, middleware zincirini kurar ve tüm endpoint'leri router'a bağlar.
func initRoutes(h *Handlers, authService services.AuthService, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(telemetry.Middleware(cfg.Telemetry.ServiceName))
	r.Use(metrics.Middleware)
	r.Use(corsHandler(cfg))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		pkg.ErrorWithMessage(w, r, http.StatusNotFound, "Cannot "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		pkg.ErrorWithMessage(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// ─── Operasyonel ───
	r.Get("/healthz", h.Health.Live)
	r.Get("/readyz", h.Health.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// WebSocket: token query parametresi ile doğrulanır (/ws?token=JWT).
	r.Get("/ws", h.WS.HandleConnection)

	// Yüklenen dosyalar (sadece local storage driver'ında).
	if cfg.Storage.Driver == "local" {
		r.Get("/uploads/*", uploadsHandler(cfg.Upload.Dir))
	}

	authMw := middleware.NewAuthMiddleware(authService)

	prefix := cfg.Server.Prefix()
	if prefix == "" {
		prefix = "/"
	}

	r.Route(prefix, func(api chi.Router) {
		api.Use(gzipMiddleware)
		api.Use(httprate.Limit(
			cfg.RateLimit.Limit,
			cfg.RateLimit.TTL,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				pkg.ErrorWithMessage(w, r, http.StatusTooManyRequests, "ThrottlerException: Too Many Requests")
			}),
		))

		// ─── Public ───
		api.Post("/auth/register", h.Auth.Register)
		api.Post("/auth/login", h.Auth.Login)
		api.Post("/auth/refresh", h.Auth.Refresh)
		api.Post("/auth/forgot-password", h.Auth.ForgotPassword)
		api.Post("/auth/reset-password", h.Auth.ResetPassword)

		// ─── Authenticated ───
		api.Group(func(p chi.Router) {
			p.Use(authMw.Require)

			p.Post("/auth/logout", h.Auth.Logout)

			p.Route("/users", func(u chi.Router) {
				u.With(middleware.RequireRole(admin)).Post("/", h.User.Create)
				u.With(middleware.RequireRole(admin, trainer)).Get("/", h.User.List)
				u.Get("/me", h.User.Me)
				u.Patch("/me", h.User.UpdateMe)
				u.Post("/me/password", h.Auth.ChangePassword)
				u.Post("/me/avatar", h.User.UploadAvatar)
				u.With(middleware.RequireRole(admin)).Get("/stats", h.User.Stats)
				u.Get("/{id}", h.User.Get)
				u.With(middleware.RequireRole(admin)).Patch("/{id}", h.User.Update)
				u.With(middleware.RequireRole(admin)).Delete("/{id}", h.User.Delete)
			})

			p.Route("/courses", func(c chi.Router) {
				c.With(middleware.RequireRole(admin, trainer)).Post("/", h.Course.Create)
				c.Get("/", h.Course.List)
				c.With(middleware.RequireRole(admin)).Get("/stats", h.Course.Stats)
				c.Get("/slug/{slug}", h.Course.GetBySlug)
				c.Get("/{id}", h.Course.Get)
				c.With(middleware.RequireRole(admin, trainer)).Patch("/{id}", h.Course.Update)
				c.With(middleware.RequireRole(admin, trainer)).Post("/{id}/thumbnail", h.Course.UploadThumbnail)
				c.With(middleware.RequireRole(admin)).Delete("/{id}", h.Course.Delete)
			})

			p.Route("/course-contents", func(c chi.Router) {
				c.With(middleware.RequireRole(admin, trainer)).Post("/", h.Content.Create)
				c.Get("/", h.Content.List)
				c.Get("/course/{courseId}", h.Content.ListByCourse)
				c.With(middleware.RequireRole(admin)).Get("/stats", h.Content.Stats)
				c.Get("/{id}", h.Content.Get)
				c.With(middleware.RequireRole(admin, trainer)).Patch("/reorder/{courseId}", h.Content.Reorder)
				c.With(middleware.RequireRole(admin, trainer)).Patch("/{id}", h.Content.Update)
				c.With(middleware.RequireRole(admin, trainer)).Delete("/{id}", h.Content.Delete)
			})

			p.Route("/course-sessions", func(s chi.Router) {
				s.With(middleware.RequireRole(admin, trainer)).Post("/", h.Session.Create)
				s.Get("/", h.Session.List)
				s.With(middleware.RequireRole(trainer)).Get("/my-sessions", h.Session.MySessions)
				s.Get("/course/{courseId}", h.Session.ListByCourse)
				s.With(middleware.RequireRole(admin)).Get("/stats", h.Session.Stats)
				s.Get("/{id}", h.Session.Get)
				s.With(middleware.RequireRole(admin, trainer)).Patch("/{id}", h.Session.Update)
				s.With(middleware.RequireRole(admin, trainer)).Patch("/{id}/status", h.Session.UpdateStatus)
				s.With(middleware.RequireRole(admin)).Delete("/{id}", h.Session.Delete)
			})

			p.Route("/enrollments", func(e chi.Router) {
				e.Post("/", h.Enrollment.Create)
				e.With(middleware.RequireRole(admin, trainer)).Get("/", h.Enrollment.List)
				e.Get("/my-enrollments", h.Enrollment.MyEnrollments)
				e.With(middleware.RequireRole(admin)).Get("/stats", h.Enrollment.Stats)
				e.Get("/{id}", h.Enrollment.Get)
				e.With(middleware.RequireRole(admin, trainer)).Patch("/{id}/confirm", h.Enrollment.Confirm)
				e.Patch("/{id}/cancel", h.Enrollment.Cancel)
				e.With(middleware.RequireRole(admin, trainer)).Patch("/{id}", h.Enrollment.Update)
				e.With(middleware.RequireRole(admin)).Delete("/{id}", h.Enrollment.Delete)
			})

			p.Route("/learner-progress", func(lp chi.Router) {
				lp.Post("/", h.Progress.Create)
				lp.With(middleware.RequireRole(admin, trainer)).Get("/", h.Progress.List)
				lp.Get("/my-progress", h.Progress.MyProgress)
				lp.Get("/course/{courseId}/progress", h.Progress.CourseProgress)
				lp.With(middleware.RequireRole(admin)).Get("/stats", h.Progress.Stats)
				lp.Get("/{id}", h.Progress.Get)
				lp.Post("/complete/{contentId}", h.Progress.Complete)
				lp.With(middleware.RequireRole(admin, trainer)).Patch("/{id}", h.Progress.Update)
				lp.With(middleware.RequireRole(admin)).Delete("/{id}", h.Progress.Delete)
			})

			p.Route("/messages", func(m chi.Router) {
				m.Post("/", h.Message.Send)
				m.Get("/", h.Message.List)
				m.Get("/conversations", h.Message.Conversations)
				m.Get("/unread-count", h.Message.UnreadCount)
				m.Get("/{id}", h.Message.Get)
				m.Patch("/{id}/read", h.Message.MarkAsRead)
				m.Patch("/conversation/{userId}/read", h.Message.MarkConversationAsRead)
			})

			p.Route("/notifications", func(n chi.Router) {
				n.With(middleware.RequireRole(admin)).Post("/", h.Notification.Create)
				n.Get("/", h.Notification.List)
				n.Get("/unread-count", h.Notification.UnreadCount)
				n.Patch("/mark-all-read", h.Notification.MarkAllRead)
				n.Get("/{id}", h.Notification.Get)
				n.Patch("/{id}/read", h.Notification.MarkRead)
				n.Delete("/{id}", h.Notification.Delete)
			})

			p.Route("/auth-providers", func(a chi.Router) {
				a.With(middleware.RequireRole(admin)).Post("/", h.AuthProvider.Create)
				a.Get("/my-providers", h.AuthProvider.MyProviders)
				a.With(middleware.RequireRole(admin)).Delete("/{id}", h.AuthProvider.Delete)
			})
		})
	})

	return r
}

// corsHandler, CORS_ORIGINS boşsa FRONTEND_URL'e izin verir.
func corsHandler(cfg *config.Config) func(http.Handler) http.Handler {
	origins := cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{cfg.Server.FrontendURL}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Retry-After", middleware.RequestIDHeader},
		AllowCredentials: true,
	}).Handler
}

// gzipMiddleware, gzhttp.GzipHandler'ı chi middleware imzasına uyarlar.
func gzipMiddleware(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}

// uploadsHandler, upload dizinini /uploads/ altında sunar.
// Dizin listeleme kapalıdır; http.FileServer ".." path'lerini zaten reddeder.
func uploadsHandler(dir string) http.HandlerFunc {
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") || strings.Contains(r.URL.Path, "\\") {
			pkg.ErrorWithMessage(w, r, http.StatusNotFound, "Not found")
			return
		}
		fs.ServeHTTP(w, r)
	}
}
