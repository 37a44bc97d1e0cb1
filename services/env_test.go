package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/fireshield/database"
	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg/cache"
	"github.com/akinalp/fireshield/pkg/email"
	"github.com/akinalp/fireshield/repository"
	"github.com/akinalp/fireshield/ws"
)

// sentEmail, fakeMailer'ın kaydettiği tek gönderim.
type sentEmail struct {
	Template string
	To       string
	OTP      int
	Course   string
	Link     string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *fakeMailer) record(e sentEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, e)
	return m.err
}

func (m *fakeMailer) SendWelcome(_ context.Context, to, _ string) error {
	return m.record(sentEmail{Template: "welcome", To: to})
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, to, _ string, otp int) error {
	return m.record(sentEmail{Template: "password_reset", To: to, OTP: otp})
}

func (m *fakeMailer) SendEnrollmentConfirmation(_ context.Context, to, _ string, d email.EnrollmentDetails) error {
	return m.record(sentEmail{Template: "enrollment_confirmation", To: to, Course: d.CourseTitle})
}

func (m *fakeMailer) SendCertificate(_ context.Context, to, _, courseTitle, link string) error {
	return m.record(sentEmail{Template: "certificate", To: to, Course: courseTitle, Link: link})
}

func (m *fakeMailer) byTemplate(template string) []sentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentEmail
	for _, e := range m.sent {
		if e.Template == template {
			out = append(out, e)
		}
	}
	return out
}

type publishedEvent struct {
	UserID int64
	Event  ws.Event
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) BroadcastToUser(userID int64, event ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{UserID: userID, Event: event})
}

func (p *fakePublisher) IsOnline(int64) bool { return false }

func (p *fakePublisher) ops(userID int64) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		if e.UserID == userID {
			out = append(out, e.Event.Op)
		}
	}
	return out
}

// testEnv, gerçek SQLite repository'leri ve sahte yan etkilerle kurulmuş service seti.
type testEnv struct {
	db *sql.DB

	users         repository.UserRepository
	tokens        repository.RefreshTokenRepository
	courses       repository.CourseRepository
	contents      repository.ContentRepository
	sessions      repository.CourseSessionRepository
	enrollments   repository.EnrollmentRepository
	progress      repository.ProgressRepository
	messages      repository.MessageRepository
	notifications repository.NotificationRepository
	providers     repository.AuthProviderRepository

	mailer *fakeMailer
	hub    *fakePublisher

	notifier NotificationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	env := &testEnv{
		db:            db.Conn,
		users:         repository.NewSQLiteUserRepo(db.Conn),
		tokens:        repository.NewSQLiteRefreshTokenRepo(db.Conn),
		courses:       repository.NewSQLiteCourseRepo(db.Conn),
		contents:      repository.NewSQLiteContentRepo(db.Conn),
		sessions:      repository.NewSQLiteCourseSessionRepo(db.Conn),
		enrollments:   repository.NewSQLiteEnrollmentRepo(db.Conn),
		progress:      repository.NewSQLiteProgressRepo(db.Conn),
		messages:      repository.NewSQLiteMessageRepo(db.Conn),
		notifications: repository.NewSQLiteNotificationRepo(db.Conn),
		providers:     repository.NewSQLiteAuthProviderRepo(db.Conn),
		mailer:        &fakeMailer{},
		hub:           &fakePublisher{},
	}
	env.notifier = NewNotificationService(env.notifications, env.hub)
	return env
}

func (e *testEnv) courseService(t *testing.T) CourseService {
	c := cache.New[string, *models.Course](time.Minute, time.Minute)
	t.Cleanup(c.Close)
	return NewCourseService(e.courses, e.sessions, e.contents, c)
}

// seedUser, bcrypt.MinCost ile hash'lenmiş şifreli bir hesap ekler.
func (e *testEnv) seedUser(t *testing.T, email, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{FirstName: "Test", LastName: "User", Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *testEnv) seedCourse(t *testing.T, title string) *models.Course {
	t.Helper()
	c := &models.Course{Title: title, Slug: models.Slugify(title), Level: models.LevelBeginner}
	require.NoError(t, e.courses.Create(context.Background(), c))
	return c
}

func (e *testEnv) seedSession(t *testing.T, courseID, trainerID int64, start time.Time) *models.CourseSession {
	t.Helper()
	s := &models.CourseSession{
		CourseID:  courseID,
		TrainerID: trainerID,
		StartDate: start,
		EndDate:   start.Add(8 * time.Hour),
		Status:    models.SessionPlanned,
	}
	require.NoError(t, e.sessions.Create(context.Background(), s))
	return s
}

func (e *testEnv) notificationTitles(t *testing.T, userID int64) []string {
	t.Helper()
	list, err := e.notifications.List(context.Background(), models.NotificationFilter{
		Page:   models.Page{Page: 1, Limit: 100},
		UserID: userID,
	})
	require.NoError(t, err)
	titles := make([]string, 0, len(list))
	for _, n := range list {
		titles = append(titles, n.Title)
	}
	return titles
}
