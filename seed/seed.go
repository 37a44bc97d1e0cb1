// Package seed, development ortamı için örnek veriyi yükler.
//
// Veri gömülü fixture.yaml'dan okunur. Seed idempotent'tir: mevcut satırlar
// (email, slug, sıra numarası, eğitmen + kurs oturumu, kullanıcı + oturum
// kaydı ile eşleşenler) atlanır, tekrar çalıştırmak kopya üretmez.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/repository"
)

//go:embed fixture.yaml
var defaultFixture []byte

// Fixture, fixture.yaml'ın şekli.
type Fixture struct {
	Users       []UserFixture       `yaml:"users"`
	Courses     []CourseFixture     `yaml:"courses"`
	Sessions    []SessionFixture    `yaml:"sessions"`
	Enrollments []EnrollmentFixture `yaml:"enrollments"`
}

type UserFixture struct {
	Email     string      `yaml:"email"`
	Password  string      `yaml:"password"`
	FirstName string      `yaml:"firstName"`
	LastName  string      `yaml:"lastName"`
	Role      models.Role `yaml:"role"`
	Bio       string      `yaml:"bio"`
}

type CourseFixture struct {
	Title       string             `yaml:"title"`
	Description string             `yaml:"description"`
	Level       models.CourseLevel `yaml:"level"`
	Price       float64            `yaml:"price"`
	Duration    string             `yaml:"duration"`
	Contents    []ContentFixture   `yaml:"contents"`
}

type ContentFixture struct {
	Type  models.ContentType `yaml:"type"`
	Title string             `yaml:"title"`
	URL   string             `yaml:"url"`
}

// SessionFixture, başlangıcı seed anına göre göreli verilir (startsIn),
// böylece notify-upcoming her ortamda gösterilebilir.
type SessionFixture struct {
	Course   string        `yaml:"course"`
	Trainer  string        `yaml:"trainer"`
	StartsIn time.Duration `yaml:"startsIn"`
	Length   time.Duration `yaml:"length"`
	Location string        `yaml:"location"`
}

type EnrollmentFixture struct {
	User   string                  `yaml:"user"`
	Course string                  `yaml:"course"`
	Status models.EnrollmentStatus `yaml:"status"`
}

// Result, eklenen satır sayıları.
type Result struct {
	Users       int
	Courses     int
	Contents    int
	Sessions    int
	Enrollments int
}

// Repositories, seed'in yazdığı store'lar.
type Repositories struct {
	Users       repository.UserRepository
	Courses     repository.CourseRepository
	Contents    repository.ContentRepository
	Sessions    repository.CourseSessionRepository
	Enrollments repository.EnrollmentRepository
}

// Seeder, fixture'ı repository'lere yazar.
type Seeder struct {
	repos      Repositories
	bcryptCost int
	now        func() time.Time
}

func NewSeeder(repos Repositories) *Seeder {
	return &Seeder{repos: repos, bcryptCost: bcrypt.DefaultCost, now: time.Now}
}

// Parse, YAML fixture'ı çözer ve temel tutarlılığı kontrol eder.
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	for _, u := range f.Users {
		if u.Email == "" || u.Password == "" || !u.Role.Valid() {
			return nil, fmt.Errorf("invalid user fixture %q", u.Email)
		}
	}
	for _, c := range f.Courses {
		if c.Title == "" || !c.Level.Valid() {
			return nil, fmt.Errorf("invalid course fixture %q", c.Title)
		}
		for _, ct := range c.Contents {
			if !ct.Type.Valid() {
				return nil, fmt.Errorf("invalid content type %q in course %q", ct.Type, c.Title)
			}
		}
	}
	for _, s := range f.Sessions {
		if s.Length <= 0 {
			return nil, fmt.Errorf("session for %q needs a positive length", s.Course)
		}
	}
	for i := range f.Enrollments {
		e := &f.Enrollments[i]
		if e.Status == "" {
			e.Status = models.EnrollmentPending
		}
		if !e.Status.Valid() {
			return nil, fmt.Errorf("invalid enrollment status %q", e.Status)
		}
	}
	return &f, nil
}

// RunDefault, gömülü fixture'ı yükler.
func (s *Seeder) RunDefault(ctx context.Context) (*Result, error) {
	f, err := Parse(defaultFixture)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, f)
}

// Run, fixture'ı sırayla yazar: kullanıcılar → kurslar ve içerikleri →
// oturumlar → kayıtlar.
func (s *Seeder) Run(ctx context.Context, f *Fixture) (*Result, error) {
	res := &Result{}

	users := make(map[string]*models.User, len(f.Users))
	for _, uf := range f.Users {
		user, created, err := s.ensureUser(ctx, uf)
		if err != nil {
			return nil, err
		}
		users[uf.Email] = user
		if created {
			res.Users++
		}
	}

	courses := make(map[string]*models.Course, len(f.Courses))
	for _, cf := range f.Courses {
		course, created, err := s.ensureCourse(ctx, cf)
		if err != nil {
			return nil, err
		}
		courses[cf.Title] = course
		if created {
			res.Courses++
		}

		n, err := s.ensureContents(ctx, course.ID, cf.Contents)
		if err != nil {
			return nil, err
		}
		res.Contents += n
	}

	// kurs başlığı → o kursun seed oturumu
	sessions := make(map[string]*models.CourseSession, len(f.Sessions))
	for _, sf := range f.Sessions {
		course, ok := courses[sf.Course]
		if !ok {
			return nil, fmt.Errorf("session references unknown course %q", sf.Course)
		}
		trainer, ok := users[sf.Trainer]
		if !ok {
			return nil, fmt.Errorf("session references unknown trainer %q", sf.Trainer)
		}

		session, created, err := s.ensureSession(ctx, course.ID, trainer.ID, sf)
		if err != nil {
			return nil, err
		}
		sessions[sf.Course] = session
		if created {
			res.Sessions++
		}
	}

	for _, ef := range f.Enrollments {
		user, ok := users[ef.User]
		if !ok {
			return nil, fmt.Errorf("enrollment references unknown user %q", ef.User)
		}
		session, ok := sessions[ef.Course]
		if !ok {
			return nil, fmt.Errorf("enrollment references course %q without a session", ef.Course)
		}

		created, err := s.ensureEnrollment(ctx, user.ID, session.ID, ef.Status)
		if err != nil {
			return nil, err
		}
		if created {
			res.Enrollments++
		}
	}

	log.Info().
		Int("users", res.Users).
		Int("courses", res.Courses).
		Int("contents", res.Contents).
		Int("sessions", res.Sessions).
		Int("enrollments", res.Enrollments).
		Msg("[seed] completed")

	return res, nil
}

func (s *Seeder) ensureUser(ctx context.Context, uf UserFixture) (*models.User, bool, error) {
	existing, err := s.repos.Users.GetByEmail(ctx, uf.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pkg.ErrNotFound) {
		return nil, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(uf.Password), s.bcryptCost)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash seed password: %w", err)
	}

	user := &models.User{
		FirstName:    uf.FirstName,
		LastName:     uf.LastName,
		Email:        uf.Email,
		PasswordHash: string(hash),
		Role:         uf.Role,
		Bio:          optional(uf.Bio),
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *Seeder) ensureCourse(ctx context.Context, cf CourseFixture) (*models.Course, bool, error) {
	slug := models.Slugify(cf.Title)
	existing, err := s.repos.Courses.GetBySlug(ctx, slug)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, pkg.ErrNotFound) {
		return nil, false, err
	}

	course := &models.Course{
		Title:       cf.Title,
		Slug:        slug,
		Description: optional(cf.Description),
		Level:       cf.Level,
		Price:       cf.Price,
		Duration:    optional(cf.Duration),
	}
	if err := s.repos.Courses.Create(ctx, course); err != nil {
		return nil, false, err
	}
	return course, true, nil
}

// ensureContents, fixture sırasını orderIndex olarak kullanır (1'den başlar).
func (s *Seeder) ensureContents(ctx context.Context, courseID int64, contents []ContentFixture) (int, error) {
	existing, err := s.repos.Contents.ListByCourse(ctx, courseID)
	if err != nil {
		return 0, err
	}
	taken := make(map[int]bool, len(existing))
	for _, c := range existing {
		taken[c.OrderIndex] = true
	}

	created := 0
	for i, cf := range contents {
		order := i + 1
		if taken[order] {
			continue
		}
		content := &models.CourseContent{
			CourseID:   courseID,
			Type:       cf.Type,
			Title:      cf.Title,
			ContentURL: optional(cf.URL),
			OrderIndex: order,
		}
		if err := s.repos.Contents.Create(ctx, content); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *Seeder) ensureSession(ctx context.Context, courseID, trainerID int64, sf SessionFixture) (*models.CourseSession, bool, error) {
	existing, err := s.repos.Sessions.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, false, err
	}
	for i := range existing {
		if existing[i].TrainerID == trainerID {
			return &existing[i], false, nil
		}
	}

	start := s.now().UTC().Add(sf.StartsIn).Truncate(time.Hour)
	session := &models.CourseSession{
		CourseID:  courseID,
		TrainerID: trainerID,
		StartDate: start,
		EndDate:   start.Add(sf.Length),
		Location:  optional(sf.Location),
		Status:    models.SessionPlanned,
	}
	if err := s.repos.Sessions.Create(ctx, session); err != nil {
		return nil, false, err
	}
	return session, true, nil
}

func (s *Seeder) ensureEnrollment(ctx context.Context, userID, sessionID int64, status models.EnrollmentStatus) (bool, error) {
	existing, err := s.repos.Enrollments.List(ctx, models.EnrollmentFilter{
		Page:      models.Page{Page: 1, Limit: 1},
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	enrollment := &models.Enrollment{UserID: userID, SessionID: sessionID, Status: status}
	if err := s.repos.Enrollments.Create(ctx, enrollment); err != nil {
		return false, err
	}
	return true, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
