package seed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/fireshield/database"
	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/repository"
)

func newTestSeeder(t *testing.T) (*Seeder, Repositories) {
	t.Helper()
	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := Repositories{
		Users:       repository.NewSQLiteUserRepo(db.Conn),
		Courses:     repository.NewSQLiteCourseRepo(db.Conn),
		Contents:    repository.NewSQLiteContentRepo(db.Conn),
		Sessions:    repository.NewSQLiteCourseSessionRepo(db.Conn),
		Enrollments: repository.NewSQLiteEnrollmentRepo(db.Conn),
	}
	s := NewSeeder(repos)
	s.bcryptCost = bcrypt.MinCost
	s.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }
	return s, repos
}

func TestSeeder_DefaultFixtureIsIdempotent(t *testing.T) {
	s, repos := newTestSeeder(t)
	ctx := context.Background()

	first, err := s.RunDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Result{Users: 3, Courses: 2, Contents: 3, Sessions: 1, Enrollments: 1}, first)

	second, err := s.RunDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Result{}, second)

	admin, err := repos.Users.GetByEmail(ctx, "admin@fireshield.local")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("Admin123!")))

	course, err := repos.Courses.GetBySlug(ctx, "fire-safety-fundamentals")
	require.NoError(t, err)
	contents, err := repos.Contents.ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, contents, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{contents[0].OrderIndex, contents[1].OrderIndex, contents[2].OrderIndex})

	sessions, err := repos.Sessions.ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), sessions[0].StartDate.UTC())
	assert.Equal(t, 48*time.Hour, sessions[0].EndDate.Sub(sessions[0].StartDate))

	enrollments, err := repos.Enrollments.List(ctx, models.EnrollmentFilter{
		Page:      models.Page{Page: 1, Limit: 10},
		SessionID: sessions[0].ID,
	})
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, models.EnrollmentConfirmed, enrollments[0].Status)
}

func TestParse(t *testing.T) {
	f, err := Parse([]byte(`
users:
  - {email: a@b.c, password: Secret1!, firstName: A, lastName: B, role: learner}
enrollments:
  - {user: a@b.c, course: X}
`))
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentPending, f.Enrollments[0].Status)

	_, err = Parse([]byte(`users: [{email: a@b.c, password: x, role: owner}]`))
	assert.Error(t, err)

	_, err = Parse([]byte(`courses: [{title: X, level: expert}]`))
	assert.Error(t, err)

	_, err = Parse([]byte(`sessions: [{course: X, trainer: t, startsIn: 1h}]`))
	assert.Error(t, err)

	_, err = Parse([]byte(`users: [`))
	assert.Error(t, err)
}

func TestSeeder_UnknownReferences(t *testing.T) {
	s, _ := newTestSeeder(t)

	_, err := s.Run(context.Background(), &Fixture{
		Sessions: []SessionFixture{{Course: "Missing", Trainer: "t@x.y", Length: time.Hour}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown course")
}
