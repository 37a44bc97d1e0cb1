// Package main, Handler katmanı başlatma.
//
// initHandlers, tüm HTTP handler'larını oluşturur.
// Handler'lar "thin" dir: sadece HTTP parse + service call + response write.
package main

import (
	"github.com/akinalp/fireshield/config"
	"github.com/akinalp/fireshield/database"
	"github.com/akinalp/fireshield/handlers"
	"github.com/akinalp/fireshield/ws"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Course       *handlers.CourseHandler
	Content      *handlers.ContentHandler
	Session      *handlers.SessionHandler
	Enrollment   *handlers.EnrollmentHandler
	Progress     *handlers.ProgressHandler
	Message      *handlers.MessageHandler
	Notification *handlers.NotificationHandler
	AuthProvider *handlers.AuthProviderHandler
	Health       *handlers.HealthHandler
	WS           *ws.Handler
}

// initHandlers, tüm handler'ları oluşturur.
func initHandlers(svcs *Services, limiters *RateLimiters, hub *ws.Hub, db *database.DB, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:         handlers.NewAuthHandler(svcs.Auth, limiters.Auth),
		User:         handlers.NewUserHandler(svcs.User, svcs.Upload, cfg.Upload.MaxSize),
		Course:       handlers.NewCourseHandler(svcs.Course, svcs.Upload, cfg.Upload.MaxSize),
		Content:      handlers.NewContentHandler(svcs.Content),
		Session:      handlers.NewSessionHandler(svcs.Session),
		Enrollment:   handlers.NewEnrollmentHandler(svcs.Enrollment),
		Progress:     handlers.NewProgressHandler(svcs.Progress),
		Message:      handlers.NewMessageHandler(svcs.Message),
		Notification: handlers.NewNotificationHandler(svcs.Notification),
		AuthProvider: handlers.NewAuthProviderHandler(svcs.AuthProvider),
		Health:       handlers.NewHealthHandler(db),
		WS:           ws.NewHandler(hub, svcs.Auth, svcs.Ready, cfg.Server.CORSOrigins),
	}
}
