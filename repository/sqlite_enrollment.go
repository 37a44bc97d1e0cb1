package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akinalp/fireshield/database"
	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
)

var (
	errEnrollmentNotFound = fmt.Errorf("%w: Enrollment not found", pkg.ErrNotFound)
	errAlreadyEnrolled    = fmt.Errorf("%w: Already enrolled in this session", pkg.ErrBadRequest)
)

const enrollmentDetailSelect = `
	SELECT e.id, e.user_id, e.session_id, e.status, e.created_at, e.updated_at,
		lu.id, lu.first_name, lu.last_name, lu.email, lu.avatar_url,
		s.id, s.course_id, s.trainer_id, s.start_date, s.end_date, s.location, s.status, s.created_at, s.updated_at,
		c.title, tu.id, tu.first_name, tu.last_name, tu.email, tu.avatar_url
	FROM enrollments e
	JOIN users lu ON lu.id = e.user_id
	JOIN course_sessions s ON s.id = e.session_id
	JOIN courses c ON c.id = s.course_id
	JOIN users tu ON tu.id = s.trainer_id`

type sqliteEnrollmentRepo struct {
	db database.TxQuerier
}

// NewSQLiteEnrollmentRepo, constructor.
func NewSQLiteEnrollmentRepo(db database.TxQuerier) EnrollmentRepository {
	return &sqliteEnrollmentRepo{db: db}
}

func scanEnrollmentDetail(s rowScanner) (*models.EnrollmentDetail, error) {
	d := &models.EnrollmentDetail{}
	ss := &d.Session
	err := s.Scan(
		&d.ID, &d.UserID, &d.SessionID, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.User.ID, &d.User.FirstName, &d.User.LastName, &d.User.Email, &d.User.AvatarURL,
		&ss.ID, &ss.CourseID, &ss.TrainerID, &ss.StartDate, &ss.EndDate, &ss.Location, &ss.Status, &ss.CreatedAt, &ss.UpdatedAt,
		&ss.CourseTitle, &ss.Trainer.ID, &ss.Trainer.FirstName, &ss.Trainer.LastName, &ss.Trainer.Email, &ss.Trainer.AvatarURL,
	)
	return d, err
}

func (r *sqliteEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentPending
	}
	query := `
		INSERT INTO enrollments (user_id, session_id, status)
		VALUES (?, ?, ?)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, enrollment.UserID, enrollment.SessionID, enrollment.Status).
		Scan(&enrollment.ID, &enrollment.CreatedAt, &enrollment.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errAlreadyEnrolled
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: Session not found", pkg.ErrNotFound)
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (r *sqliteEnrollmentRepo) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	query := `SELECT id, user_id, session_id, status, created_at, updated_at FROM enrollments WHERE id = ?`

	e := &models.Enrollment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.UserID, &e.SessionID, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errEnrollmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return e, nil
}

func (r *sqliteEnrollmentRepo) GetDetail(ctx context.Context, id int64) (*models.EnrollmentDetail, error) {
	detail, err := scanEnrollmentDetail(r.db.QueryRowContext(ctx, enrollmentDetailSelect+` WHERE e.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errEnrollmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment detail: %w", err)
	}
	return detail, nil
}

func (r *sqliteEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	var where whereBuilder
	if filter.Status != "" {
		where.add("e.status = ?", filter.Status)
	}
	if filter.SessionID > 0 {
		where.add("e.session_id = ?", filter.SessionID)
	}
	if filter.UserID > 0 {
		where.add("e.user_id = ?", filter.UserID)
	}

	query := enrollmentDetailSelect + where.String() + ` ORDER BY e.created_at DESC, e.id DESC LIMIT ? OFFSET ?`
	args := append(where.args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := make([]models.EnrollmentDetail, 0)
	for rows.Next() {
		d, err := scanEnrollmentDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment row: %w", err)
		}
		enrollments = append(enrollments, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}
	return enrollments, nil
}

func (r *sqliteEnrollmentRepo) ListUserIDsBySession(ctx context.Context, sessionID int64, status models.EnrollmentStatus) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM enrollments WHERE session_id = ? AND status = ? ORDER BY id`, sessionID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrolled users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan enrolled user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *sqliteEnrollmentRepo) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE enrollments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update enrollment status: %w", err)
	}
	return expectAffected(result, errEnrollmentNotFound)
}

func (r *sqliteEnrollmentRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	return expectAffected(result, errEnrollmentNotFound)
}

func (r *sqliteEnrollmentRepo) Stats(ctx context.Context) (*models.EnrollmentStats, error) {
	stats := &models.EnrollmentStats{ByStatus: models.CountByKey(models.EnrollmentStatuses)}
	total, err := countGrouped(ctx, r.db, `SELECT status, COUNT(*) FROM enrollments GROUP BY status`, stats.ByStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to count enrollments by status: %w", err)
	}
	stats.Total = total
	return stats, nil
}
