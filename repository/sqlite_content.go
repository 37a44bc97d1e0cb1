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
	errContentNotFound   = fmt.Errorf("%w: Course content not found", pkg.ErrNotFound)
	errDuplicateOrderIdx = fmt.Errorf("%w: Content with this order index already exists for this course", pkg.ErrBadRequest)
)

const contentColumns = `id, course_id, type, title, content_url, order_index, created_at, updated_at`

// sqliteContentRepo, Reorder transaction açtığı için *sql.DB tutar.
type sqliteContentRepo struct {
	db *sql.DB
}

// NewSQLiteContentRepo, constructor.
func NewSQLiteContentRepo(db *sql.DB) ContentRepository {
	return &sqliteContentRepo{db: db}
}

func scanContent(s rowScanner) (*models.CourseContent, error) {
	c := &models.CourseContent{}
	err := s.Scan(&c.ID, &c.CourseID, &c.Type, &c.Title, &c.ContentURL, &c.OrderIndex, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *sqliteContentRepo) Create(ctx context.Context, content *models.CourseContent) error {
	query := `
		INSERT INTO course_contents (course_id, type, title, content_url, order_index)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		content.CourseID, content.Type, content.Title, content.ContentURL, content.OrderIndex,
	).Scan(&content.ID, &content.CreatedAt, &content.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errDuplicateOrderIdx
		}
		if isForeignKeyViolation(err) {
			return errCourseNotFound
		}
		return fmt.Errorf("failed to create course content: %w", err)
	}
	return nil
}

func (r *sqliteContentRepo) GetByID(ctx context.Context, id int64) (*models.CourseContent, error) {
	content, err := scanContent(r.db.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM course_contents WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course content: %w", err)
	}
	return content, nil
}

func (r *sqliteContentRepo) GetWithCourse(ctx context.Context, id int64) (*models.CourseContentWithCourse, error) {
	query := `
		SELECT cc.id, cc.course_id, cc.type, cc.title, cc.content_url, cc.order_index, cc.created_at, cc.updated_at, c.title
		FROM course_contents cc
		JOIN courses c ON c.id = cc.course_id
		WHERE cc.id = ?`

	var out models.CourseContentWithCourse
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&out.ID, &out.CourseID, &out.Type, &out.Title, &out.ContentURL, &out.OrderIndex,
		&out.CreatedAt, &out.UpdatedAt, &out.CourseTitle,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errContentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course content with course: %w", err)
	}
	return &out, nil
}

func (r *sqliteContentRepo) List(ctx context.Context, filter models.ContentFilter) ([]models.CourseContent, error) {
	var where whereBuilder
	if filter.CourseID > 0 {
		where.add("course_id = ?", filter.CourseID)
	}
	if filter.Type != "" {
		where.add("type = ?", filter.Type)
	}

	query := `SELECT ` + contentColumns + ` FROM course_contents` + where.String() +
		` ORDER BY course_id, order_index LIMIT ? OFFSET ?`
	args := append(where.args, filter.Limit, filter.Offset())
	return r.query(ctx, query, args...)
}

func (r *sqliteContentRepo) ListByCourse(ctx context.Context, courseID int64) ([]models.CourseContent, error) {
	return r.query(ctx, `SELECT `+contentColumns+` FROM course_contents WHERE course_id = ? ORDER BY order_index`, courseID)
}

func (r *sqliteContentRepo) query(ctx context.Context, query string, args ...any) ([]models.CourseContent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list course contents: %w", err)
	}
	defer rows.Close()

	contents := make([]models.CourseContent, 0)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course content row: %w", err)
		}
		contents = append(contents, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course content rows: %w", err)
	}
	return contents, nil
}

func (r *sqliteContentRepo) CountByCourse(ctx context.Context, courseID int64) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM course_contents WHERE course_id = ?`, courseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count course contents: %w", err)
	}
	return n, nil
}

func (r *sqliteContentRepo) Update(ctx context.Context, content *models.CourseContent) error {
	query := `
		UPDATE course_contents
		SET type = ?, title = ?, content_url = ?, order_index = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		content.Type, content.Title, content.ContentURL, content.OrderIndex, content.ID,
	).Scan(&content.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return errContentNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return errDuplicateOrderIdx
		}
		return fmt.Errorf("failed to update course content: %w", err)
	}
	return nil
}

// Reorder, iki fazlı yeniden numaralandırma yapar:
//  1. Taşınan her içerik geçici olarak negatif bir index'e alınır (-id).
//  2. Sonra hedef index'lerine yazılır.
//
// Böylece ara adımlarda (course_id, order_index) UNIQUE index'i hiç ihlal
// edilmez. Listede olmayan bir içeriğin index'ine denk gelirse 2. adım
// UNIQUE hatası verir ve tüm transaction geri alınır.
func (r *sqliteContentRepo) Reorder(ctx context.Context, courseID int64, items []models.ReorderItem) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, item := range items {
			result, err := tx.ExecContext(ctx,
				`UPDATE course_contents SET order_index = ? WHERE id = ? AND course_id = ?`,
				-item.ID, item.ID, courseID)
			if err != nil {
				return fmt.Errorf("failed to stage content order: %w", err)
			}
			if err := expectAffected(result, errContentNotFound); err != nil {
				return err
			}
		}

		for _, item := range items {
			if _, err := tx.ExecContext(ctx,
				`UPDATE course_contents SET order_index = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
				item.OrderIndex, item.ID,
			); err != nil {
				if isUniqueViolation(err) {
					return errDuplicateOrderIdx
				}
				return fmt.Errorf("failed to apply content order: %w", err)
			}
		}
		return nil
	})
}

func (r *sqliteContentRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM course_contents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course content: %w", err)
	}
	return expectAffected(result, errContentNotFound)
}

func (r *sqliteContentRepo) Stats(ctx context.Context) (*models.ContentStats, error) {
	stats := &models.ContentStats{ByType: models.CountByKey(models.ContentTypes)}
	total, err := countGrouped(ctx, r.db, `SELECT type, COUNT(*) FROM course_contents GROUP BY type`, stats.ByType)
	if err != nil {
		return nil, fmt.Errorf("failed to count contents by type: %w", err)
	}
	stats.Total = total
	return stats, nil
}
