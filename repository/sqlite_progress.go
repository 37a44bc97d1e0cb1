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

var (
	errProgressNotFound = fmt.Errorf("%w: Progress not found", pkg.ErrNotFound)
	errProgressExists   = fmt.Errorf("%w: Progress already exists for this content", pkg.ErrBadRequest)
)

const progressColumns = `id, user_id, content_id, completed, completed_at, created_at, updated_at`

type sqliteProgressRepo struct {
	db database.TxQuerier
}

// NewSQLiteProgressRepo, constructor.
func NewSQLiteProgressRepo(db database.TxQuerier) ProgressRepository {
	return &sqliteProgressRepo{db: db}
}

func scanProgress(s rowScanner) (*models.LearnerProgress, error) {
	p := &models.LearnerProgress{}
	err := s.Scan(&p.ID, &p.UserID, &p.ContentID, &p.Completed, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *sqliteProgressRepo) Create(ctx context.Context, progress *models.LearnerProgress) error {
	query := `
		INSERT INTO learner_progress (user_id, content_id, completed, completed_at)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		progress.UserID, progress.ContentID, progress.Completed, utcPtr(progress.CompletedAt),
	).Scan(&progress.ID, &progress.CreatedAt, &progress.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errProgressExists
		}
		return fmt.Errorf("failed to create progress: %w", err)
	}
	return nil
}

func (r *sqliteProgressRepo) GetByID(ctx context.Context, id int64) (*models.LearnerProgress, error) {
	p, err := scanProgress(r.db.QueryRowContext(ctx, `SELECT `+progressColumns+` FROM learner_progress WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errProgressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return p, nil
}

func (r *sqliteProgressRepo) GetByUserAndContent(ctx context.Context, userID, contentID int64) (*models.LearnerProgress, error) {
	p, err := scanProgress(r.db.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM learner_progress WHERE user_id = ? AND content_id = ?`, userID, contentID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errProgressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress by content: %w", err)
	}
	return p, nil
}

func (r *sqliteProgressRepo) List(ctx context.Context, filter models.ProgressFilter) ([]models.LearnerProgress, error) {
	var where whereBuilder
	if filter.UserID > 0 {
		where.add("user_id = ?", filter.UserID)
	}
	if filter.ContentID > 0 {
		where.add("content_id = ?", filter.ContentID)
	}
	if filter.Completed != nil {
		where.add("completed = ?", *filter.Completed)
	}

	query := `SELECT ` + progressColumns + ` FROM learner_progress` + where.String() + ` ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?`
	args := append(where.args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	items := make([]models.LearnerProgress, 0)
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress row: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress rows: %w", err)
	}
	return items, nil
}

func (r *sqliteProgressRepo) MarkCompleted(ctx context.Context, userID, contentID int64, at time.Time) (*models.LearnerProgress, error) {
	query := `
		INSERT INTO learner_progress (user_id, content_id, completed, completed_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (user_id, content_id) DO UPDATE SET
			completed = 1,
			completed_at = COALESCE(learner_progress.completed_at, excluded.completed_at),
			updated_at = CURRENT_TIMESTAMP
		RETURNING ` + progressColumns

	p, err := scanProgress(r.db.QueryRowContext(ctx, query, userID, contentID, at.UTC()))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, errContentNotFound
		}
		return nil, fmt.Errorf("failed to mark content completed: %w", err)
	}
	return p, nil
}

func (r *sqliteProgressRepo) SetCompleted(ctx context.Context, id int64, completed bool, completedAt *time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE learner_progress SET completed = ?, completed_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		completed, utcPtr(completedAt), id)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	return expectAffected(result, errProgressNotFound)
}

func (r *sqliteProgressRepo) CourseProgress(ctx context.Context, userID, courseID int64) ([]models.ContentProgress, error) {
	query := `
		SELECT cc.id, cc.title, cc.type, cc.order_index, COALESCE(lp.completed, 0), lp.completed_at
		FROM course_contents cc
		LEFT JOIN learner_progress lp ON lp.content_id = cc.id AND lp.user_id = ?
		WHERE cc.course_id = ?
		ORDER BY cc.order_index`

	rows, err := r.db.QueryContext(ctx, query, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course progress: %w", err)
	}
	defer rows.Close()

	items := make([]models.ContentProgress, 0)
	for rows.Next() {
		var cp models.ContentProgress
		if err := rows.Scan(&cp.ContentID, &cp.Title, &cp.Type, &cp.OrderIndex, &cp.Completed, &cp.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan course progress row: %w", err)
		}
		items = append(items, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course progress rows: %w", err)
	}
	return items, nil
}

func (r *sqliteProgressRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM learner_progress WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	return expectAffected(result, errProgressNotFound)
}

func (r *sqliteProgressRepo) Stats(ctx context.Context) (*models.ProgressStats, error) {
	stats := &models.ProgressStats{}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(completed), 0) FROM learner_progress`,
	).Scan(&stats.Total, &stats.Completed)
	if err != nil {
		return nil, fmt.Errorf("failed to compute progress stats: %w", err)
	}
	stats.CompletionRate = models.Percent(stats.Completed, stats.Total)
	return stats, nil
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
