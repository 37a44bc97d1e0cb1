// Package main, Repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Her repository bir SQL bağlantısı alır ve interface döner.
package main

import (
	"database/sql"

	"github.com/akinalp/fireshield/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
type Repositories struct {
	User         repository.UserRepository
	RefreshToken repository.RefreshTokenRepository
	Course       repository.CourseRepository
	Content      repository.ContentRepository
	Session      repository.CourseSessionRepository
	Enrollment   repository.EnrollmentRepository
	Progress     repository.ProgressRepository
	Message      repository.MessageRepository
	Notification repository.NotificationRepository
	AuthProvider repository.AuthProviderRepository
}

// initRepositories, tüm repository'leri oluşturur.
func initRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		User:         repository.NewSQLiteUserRepo(db),
		RefreshToken: repository.NewSQLiteRefreshTokenRepo(db),
		Course:       repository.NewSQLiteCourseRepo(db),
		Content:      repository.NewSQLiteContentRepo(db),
		Session:      repository.NewSQLiteCourseSessionRepo(db),
		Enrollment:   repository.NewSQLiteEnrollmentRepo(db),
		Progress:     repository.NewSQLiteProgressRepo(db),
		Message:      repository.NewSQLiteMessageRepo(db),
		Notification: repository.NewSQLiteNotificationRepo(db),
		AuthProvider: repository.NewSQLiteAuthProviderRepo(db),
	}
}
