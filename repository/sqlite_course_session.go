package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akinalp/fireshield/database"
	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
)

var errSessionNotFound = fmt.Errorf("%w: Course session not found", pkg.ErrNotFound)

const sessionColumns = `id, course_id, trainer_id, start_date, end_date, location, status, created_at, updated_at`

// sessionDetailSelect, oturumu kurs başlığı ve eğitmen özetiyle birlikte seçer.
const sessionDetailSelect = `
	SELECT s.id, s.course_id, s.trainer_id, s.start_date, s.end_date, s.location, s.status, s.created_at, s.updated_at,
		c.title, u.id, u.first_name, u.last_name, u.email, u.avatar_url
	FROM course_sessions s
	JOIN courses c ON c.id = s.course_id
	JOIN users u ON u.id = s.trainer_id`

type sqliteCourseSessionRepo struct {
	db database.TxQuerier
}

// NewSQLiteCourseSessionRepo, constructor.
func NewSQLiteCourseSessionRepo(db database.TxQuerier) CourseSessionRepository {
	return &sqliteCourseSessionRepo{db: db}
}

func scanSession(s rowScanner) (*models.CourseSession, error) {
	cs := &models.CourseSession{}
	err := s.Scan(&cs.ID, &cs.CourseID, &cs.TrainerID, &cs.StartDate, &cs.EndDate,
		&cs.Location, &cs.Status, &cs.CreatedAt, &cs.UpdatedAt)
	return cs, err
}

func scanSessionDetail(s rowScanner) (*models.CourseSessionDetail, error) {
	d := &models.CourseSessionDetail{}
	err := s.Scan(&d.ID, &d.CourseID, &d.TrainerID, &d.StartDate, &d.EndDate,
		&d.Location, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.CourseTitle, &d.Trainer.ID, &d.Trainer.FirstName, &d.Trainer.LastName, &d.Trainer.Email, &d.Trainer.AvatarURL)
	return d, err
}

func (r *sqliteCourseSessionRepo) Create(ctx context.Context, session *models.CourseSession) error {
	if session.Status == "" {
		session.Status = models.SessionPlanned
	}
	query := `
		INSERT INTO course_sessions (course_id, trainer_id, start_date, end_date, location, status)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		session.CourseID, session.TrainerID, session.StartDate.UTC(), session.EndDate.UTC(),
		session.Location, session.Status,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create course session: %w", err)
	}
	return nil
}

func (r *sqliteCourseSessionRepo) GetByID(ctx context.Context, id int64) (*models.CourseSession, error) {
	session, err := scanSession(r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM course_sessions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course session: %w", err)
	}
	return session, nil
}

func (r *sqliteCourseSessionRepo) GetDetail(ctx context.Context, id int64) (*models.CourseSessionDetail, error) {
	detail, err := scanSessionDetail(r.db.QueryRowContext(ctx, sessionDetailSelect+` WHERE s.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course session detail: %w", err)
	}
	return detail, nil
}

func (r *sqliteCourseSessionRepo) List(ctx context.Context, filter models.SessionFilter) ([]models.CourseSessionDetail, error) {
	var where whereBuilder
	if filter.Status != "" {
		where.add("s.status = ?", filter.Status)
	}
	if filter.CourseID > 0 {
		where.add("s.course_id = ?", filter.CourseID)
	}
	if filter.TrainerID > 0 {
		where.add("s.trainer_id = ?", filter.TrainerID)
	}

	query := sessionDetailSelect + where.String() + ` ORDER BY s.start_date DESC, s.id DESC LIMIT ? OFFSET ?`
	args := append(where.args, filter.Limit, filter.Offset())
	return r.queryDetails(ctx, query, args...)
}

func (r *sqliteCourseSessionRepo) ListStartingBetween(ctx context.Context, status models.SessionStatus, from, to time.Time) ([]models.CourseSessionDetail, error) {
	query := sessionDetailSelect + ` WHERE s.status = ? AND s.start_date >= ? AND s.start_date < ? ORDER BY s.start_date`
	return r.queryDetails(ctx, query, status, from.UTC(), to.UTC())
}

func (r *sqliteCourseSessionRepo) queryDetails(ctx context.Context, query string, args ...any) ([]models.CourseSessionDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list course sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]models.CourseSessionDetail, 0)
	for rows.Next() {
		d, err := scanSessionDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course session row: %w", err)
		}
		sessions = append(sessions, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course session rows: %w", err)
	}
	return sessions, nil
}

func (r *sqliteCourseSessionRepo) ListByCourse(ctx context.Context, courseID int64) ([]models.CourseSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM course_sessions WHERE course_id = ? ORDER BY start_date`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list course sessions by course: %w", err)
	}
	defer rows.Close()

	sessions := make([]models.CourseSession, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course session row: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course session rows: %w", err)
	}
	return sessions, nil
}

func (r *sqliteCourseSessionRepo) Update(ctx context.Context, session *models.CourseSession) error {
	query := `
		UPDATE course_sessions
		SET trainer_id = ?, start_date = ?, end_date = ?, location = ?, status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		session.TrainerID, session.StartDate.UTC(), session.EndDate.UTC(), session.Location, session.Status, session.ID,
	).Scan(&session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return errSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update course session: %w", err)
	}
	return nil
}

func (r *sqliteCourseSessionRepo) UpdateStatus(ctx context.Context, id int64, status models.SessionStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE course_sessions SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update course session status: %w", err)
	}
	return expectAffected(result, errSessionNotFound)
}

func (r *sqliteCourseSessionRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM course_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course session: %w", err)
	}
	return expectAffected(result, errSessionNotFound)
}

func (r *sqliteCourseSessionRepo) Stats(ctx context.Context) (*models.SessionStats, error) {
	stats := &models.SessionStats{ByStatus: models.CountByKey(models.SessionStatuses)}
	total, err := countGrouped(ctx, r.db, `SELECT status, COUNT(*) FROM course_sessions GROUP BY status`, stats.ByStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions by status: %w", err)
	}
	stats.Total = total
	return stats, nil
}
