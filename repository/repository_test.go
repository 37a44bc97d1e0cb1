package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinalp/fireshield/database"
	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.Conn
}

func createUser(t *testing.T, repo UserRepository, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{FirstName: "Test", LastName: "User", Email: email, PasswordHash: "hash", Role: role}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func createCourse(t *testing.T, repo CourseRepository, title string) *models.Course {
	t.Helper()
	c := &models.Course{Title: title, Slug: models.Slugify(title), Level: models.LevelBeginner, Price: 10}
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}

func TestUserRepo_CreateDuplicateEmail(t *testing.T) {
	repo := NewSQLiteUserRepo(newTestDB(t))
	createUser(t, repo, "dup@example.com", models.RoleLearner)

	err := repo.Create(context.Background(), &models.User{
		FirstName: "Other", LastName: "User", Email: "dup@example.com", PasswordHash: "x", Role: models.RoleLearner,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkg.ErrAlreadyExists))

	// Email eşleşmesi birebir: büyük harfli varyant ayrı bir hesaptır.
	createUser(t, repo, "DUP@example.com", models.RoleLearner)
}

func TestUserRepo_ReplacePasswordClearsOTPAndTokens(t *testing.T) {
	db := newTestDB(t)
	users := NewSQLiteUserRepo(db)
	tokens := NewSQLiteRefreshTokenRepo(db)
	ctx := context.Background()

	u := createUser(t, users, "reset@example.com", models.RoleLearner)
	otp := 123456
	require.NoError(t, users.SetOTP(ctx, u.ID, &otp))
	for _, tok := range []string{"a", "b"} {
		require.NoError(t, tokens.Create(ctx, &models.RefreshToken{Token: tok, UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}))
	}

	require.NoError(t, users.ReplacePassword(ctx, u.ID, "new-hash"))

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.Nil(t, got.OTP)

	_, err = tokens.GetByToken(ctx, "a")
	assert.True(t, errors.Is(err, pkg.ErrNotFound))

	assert.True(t, errors.Is(users.ReplacePassword(ctx, 9999, "x"), pkg.ErrNotFound))
}

func TestUserRepo_Stats(t *testing.T) {
	repo := NewSQLiteUserRepo(newTestDB(t))
	createUser(t, repo, "a@example.com", models.RoleAdmin)
	createUser(t, repo, "b@example.com", models.RoleLearner)
	createUser(t, repo, "c@example.com", models.RoleLearner)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByRole[models.RoleLearner])
	assert.Equal(t, 0, stats.ByRole[models.RoleTrainer])
}

func TestRefreshTokenRepo_ScopedDeleteAndLazyGC(t *testing.T) {
	db := newTestDB(t)
	users := NewSQLiteUserRepo(db)
	tokens := NewSQLiteRefreshTokenRepo(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice@example.com", models.RoleLearner)
	bob := createUser(t, users, "bob@example.com", models.RoleLearner)

	require.NoError(t, tokens.Create(ctx, &models.RefreshToken{Token: "bob", UserID: bob.ID, ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, tokens.Create(ctx, &models.RefreshToken{Token: "old", UserID: alice.ID, ExpiresAt: time.Now().Add(-time.Hour)}))
	require.NoError(t, tokens.Create(ctx, &models.RefreshToken{Token: "fresh", UserID: alice.ID, ExpiresAt: time.Now().Add(time.Hour)}))

	// Alice'in süresi dolmuş token'ı temizlendi, Bob'unki dokunulmadı.
	_, err := tokens.GetByToken(ctx, "old")
	assert.True(t, errors.Is(err, pkg.ErrNotFound))
	_, err = tokens.GetByToken(ctx, "bob")
	assert.NoError(t, err)

	// Bob'un kendi süresi dolmuş kaydı, Bob'un bir sonraki Create'inde silinir.
	_, err = db.ExecContext(ctx, `UPDATE refresh_tokens SET expires_at = ? WHERE token = 'bob'`, time.Now().Add(-time.Hour).UTC())
	require.NoError(t, err)
	_, err = tokens.GetByToken(ctx, "bob")
	require.NoError(t, err)
	require.NoError(t, tokens.Create(ctx, &models.RefreshToken{Token: "bob-2", UserID: bob.ID, ExpiresAt: time.Now().Add(time.Hour)}))
	_, err = tokens.GetByToken(ctx, "bob")
	assert.True(t, errors.Is(err, pkg.ErrNotFound))
	_, err = tokens.GetByToken(ctx, "bob-2")
	assert.NoError(t, err)

	// Başkasının token'ını silmek etkisizdir.
	require.NoError(t, tokens.DeleteByToken(ctx, bob.ID, "fresh"))
	_, err = tokens.GetByToken(ctx, "fresh")
	assert.NoError(t, err)

	require.NoError(t, tokens.DeleteByToken(ctx, alice.ID, "fresh"))
	_, err = tokens.GetByToken(ctx, "fresh")
	assert.True(t, errors.Is(err, pkg.ErrNotFound))
}

func TestCourseRepo_DuplicateSlugAndSearch(t *testing.T) {
	repo := NewSQLiteCourseRepo(newTestDB(t))
	ctx := context.Background()

	createCourse(t, repo, "Go Fundamentals")
	err := repo.Create(ctx, &models.Course{Title: "Go fundamentals!", Slug: "go-fundamentals", Level: models.LevelBeginner})
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkg.ErrBadRequest))

	createCourse(t, repo, "Advanced Rust")

	got, err := repo.List(ctx, models.CourseFilter{Page: models.Page{Page: 1, Limit: 10}, Search: "FUNDA"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "go-fundamentals", got[0].Slug)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.InDelta(t, 20.0, stats.TotalRevenue, 0.001)
}

func TestContentRepo_ReorderSwapsWithinTransaction(t *testing.T) {
	db := newTestDB(t)
	courses := NewSQLiteCourseRepo(db)
	contents := NewSQLiteContentRepo(db)
	ctx := context.Background()

	course := createCourse(t, courses, "Reorder Course")
	first := &models.CourseContent{CourseID: course.ID, Type: models.ContentVideo, Title: "One", OrderIndex: 1}
	second := &models.CourseContent{CourseID: course.ID, Type: models.ContentPDF, Title: "Two", OrderIndex: 2}
	require.NoError(t, contents.Create(ctx, first))
	require.NoError(t, contents.Create(ctx, second))

	dup := &models.CourseContent{CourseID: course.ID, Type: models.ContentText, Title: "Dup", OrderIndex: 2}
	assert.True(t, errors.Is(contents.Create(ctx, dup), pkg.ErrBadRequest))

	require.NoError(t, contents.Reorder(ctx, course.ID, []models.ReorderItem{
		{ID: first.ID, OrderIndex: 2},
		{ID: second.ID, OrderIndex: 1},
	}))

	list, err := contents.ListByCourse(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Two", list[0].Title)
	assert.Equal(t, "One", list[1].Title)

	// Başka kursa ait ID ile reorder geri alınır.
	err = contents.Reorder(ctx, course.ID, []models.ReorderItem{{ID: first.ID, OrderIndex: 5}, {ID: 999, OrderIndex: 6}})
	assert.True(t, errors.Is(err, pkg.ErrNotFound))
	got, err := contents.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.OrderIndex)
}

func TestEnrollmentAndProgressRepos(t *testing.T) {
	db := newTestDB(t)
	users := NewSQLiteUserRepo(db)
	courses := NewSQLiteCourseRepo(db)
	contents := NewSQLiteContentRepo(db)
	sessions := NewSQLiteCourseSessionRepo(db)
	enrollments := NewSQLiteEnrollmentRepo(db)
	progress := NewSQLiteProgressRepo(db)
	ctx := context.Background()

	trainer := createUser(t, users, "trainer@example.com", models.RoleTrainer)
	learner := createUser(t, users, "learner@example.com", models.RoleLearner)
	course := createCourse(t, courses, "Enrollment Course")

	session := &models.CourseSession{
		CourseID:  course.ID,
		TrainerID: trainer.ID,
		StartDate: time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2030, 1, 31, 17, 0, 0, 0, time.UTC),
		Status:    models.SessionPlanned,
	}
	require.NoError(t, sessions.Create(ctx, session))

	e := &models.Enrollment{UserID: learner.ID, SessionID: session.ID, Status: models.EnrollmentPending}
	require.NoError(t, enrollments.Create(ctx, e))
	err := enrollments.Create(ctx, &models.Enrollment{UserID: learner.ID, SessionID: session.ID, Status: models.EnrollmentPending})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Already enrolled in this session")

	err = enrollments.Create(ctx, &models.Enrollment{UserID: learner.ID, SessionID: 999, Status: models.EnrollmentPending})
	assert.True(t, errors.Is(err, pkg.ErrNotFound))

	require.NoError(t, enrollments.UpdateStatus(ctx, e.ID, models.EnrollmentConfirmed))
	ids, err := enrollments.ListUserIDsBySession(ctx, session.ID, models.EnrollmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, []int64{learner.ID}, ids)

	detail, err := enrollments.GetDetail(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Enrollment Course", detail.Session.CourseTitle)
	assert.Equal(t, trainer.ID, detail.Session.Trainer.ID)

	content := &models.CourseContent{CourseID: course.ID, Type: models.ContentQuiz, Title: "Quiz", OrderIndex: 1}
	require.NoError(t, contents.Create(ctx, content))

	first := time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC)
	p, err := progress.MarkCompleted(ctx, learner.ID, content.ID, first)
	require.NoError(t, err)
	assert.True(t, p.Completed)
	require.NotNil(t, p.CompletedAt)

	// İkinci işaretleme ilk tamamlanma zamanını korur.
	p2, err := progress.MarkCompleted(ctx, learner.ID, content.ID, first.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, p.ID, p2.ID)
	assert.True(t, first.Equal(*p2.CompletedAt))

	report, err := progress.CourseProgress(ctx, learner.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.True(t, report[0].Completed)
}

func TestMessageRepo_Conversations(t *testing.T) {
	db := newTestDB(t)
	users := NewSQLiteUserRepo(db)
	messages := NewSQLiteMessageRepo(db)
	ctx := context.Background()

	me := createUser(t, users, "me@example.com", models.RoleLearner)
	ann := createUser(t, users, "ann@example.com", models.RoleTrainer)
	bob := createUser(t, users, "bob@example.com", models.RoleLearner)

	send := func(from, to int64, content string) {
		require.NoError(t, messages.Create(ctx, &models.Message{SenderID: from, ReceiverID: to, Content: content}))
	}
	send(ann.ID, me.ID, "hi from ann")
	send(me.ID, ann.ID, "hi ann")
	send(bob.ID, me.ID, "hi from bob")
	send(bob.ID, me.ID, "again from bob")

	err := messages.Create(ctx, &models.Message{SenderID: me.ID, ReceiverID: 999, Content: "nobody"})
	assert.True(t, errors.Is(err, pkg.ErrNotFound))

	convs, err := messages.Conversations(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	byPeer := map[int64]models.Conversation{}
	for _, c := range convs {
		byPeer[c.User.ID] = c
	}
	assert.Equal(t, "hi ann", byPeer[ann.ID].LastMessage.Content)
	assert.Equal(t, 1, byPeer[ann.ID].UnreadCount)
	assert.Equal(t, "again from bob", byPeer[bob.ID].LastMessage.Content)
	assert.Equal(t, 2, byPeer[bob.ID].UnreadCount)

	n, err := messages.MarkConversationAsRead(ctx, me.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	unread, err := messages.UnreadCount(ctx, me.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}

func TestNotificationRepo_OwnerScoped(t *testing.T) {
	db := newTestDB(t)
	users := NewSQLiteUserRepo(db)
	notifications := NewSQLiteNotificationRepo(db)
	ctx := context.Background()

	owner := createUser(t, users, "owner@example.com", models.RoleLearner)
	other := createUser(t, users, "other@example.com", models.RoleLearner)

	n := &models.Notification{UserID: owner.ID, Title: "Hello", Message: "World"}
	require.NoError(t, notifications.Create(ctx, n))

	_, err := notifications.GetForUser(ctx, n.ID, other.ID)
	assert.True(t, errors.Is(err, pkg.ErrNotFound))
	assert.True(t, errors.Is(notifications.MarkRead(ctx, n.ID, other.ID), pkg.ErrNotFound))

	require.NoError(t, notifications.MarkRead(ctx, n.ID, owner.ID))
	count, err := notifications.UnreadCount(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestUserRepo_GetByIDWrapsDriverErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
		WithArgs(int64(1)).
		WillReturnError(errors.New("disk I/O error"))

	_, err = NewSQLiteUserRepo(db).GetByID(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get user by id")
	assert.False(t, errors.Is(err, pkg.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewSQLiteUserRepo(db).GetByID(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkg.ErrNotFound))
	assert.Contains(t, err.Error(), "User not found")
}
