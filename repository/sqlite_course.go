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
	errCourseNotFound  = fmt.Errorf("%w: Course not found", pkg.ErrNotFound)
	errDuplicateCourse = fmt.Errorf("%w: A course with this title already exists", pkg.ErrBadRequest)
)

const courseColumns = `id, title, slug, description, level, price, duration, thumbnail_url, created_at, updated_at`

type sqliteCourseRepo struct {
	db database.TxQuerier
}

// NewSQLiteCourseRepo, constructor.
func NewSQLiteCourseRepo(db database.TxQuerier) CourseRepository {
	return &sqliteCourseRepo{db: db}
}

func scanCourse(s rowScanner) (*models.Course, error) {
	c := &models.Course{}
	err := s.Scan(
		&c.ID, &c.Title, &c.Slug, &c.Description, &c.Level, &c.Price,
		&c.Duration, &c.ThumbnailURL, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *sqliteCourseRepo) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (title, slug, description, level, price, duration, thumbnail_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		course.Title, course.Slug, course.Description, course.Level,
		course.Price, course.Duration, course.ThumbnailURL,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errDuplicateCourse
		}
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (r *sqliteCourseRepo) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := scanCourse(r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

func (r *sqliteCourseRepo) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	course, err := scanCourse(r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses WHERE slug = ?`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by slug: %w", err)
	}
	return course, nil
}

// List, seviye ve arama filtreli kurs listesi. Arama, başlık ve açıklamada
// büyük/küçük harf duyarsız LIKE ile yapılır.
func (r *sqliteCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	var where whereBuilder
	if filter.Level != "" {
		where.add("level = ?", filter.Level)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where.add("(title LIKE ? COLLATE NOCASE OR description LIKE ? COLLATE NOCASE)", pattern, pattern)
	}

	query := `SELECT ` + courseColumns + ` FROM courses` + where.String() + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args := append(where.args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	courses := make([]models.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}

func (r *sqliteCourseRepo) Update(ctx context.Context, course *models.Course) error {
	query := `
		UPDATE courses
		SET title = ?, slug = ?, description = ?, level = ?, price = ?, duration = ?, thumbnail_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		course.Title, course.Slug, course.Description, course.Level,
		course.Price, course.Duration, course.ThumbnailURL, course.ID,
	).Scan(&course.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return errCourseNotFound
	}
	if err != nil {
		if isUniqueViolation(err) {
			return errDuplicateCourse
		}
		return fmt.Errorf("failed to update course: %w", err)
	}
	return nil
}

func (r *sqliteCourseRepo) UpdateThumbnail(ctx context.Context, id int64, thumbnailURL string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE courses SET thumbnail_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, thumbnailURL, id)
	if err != nil {
		return fmt.Errorf("failed to update thumbnail: %w", err)
	}
	return expectAffected(result, errCourseNotFound)
}

func (r *sqliteCourseRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return expectAffected(result, errCourseNotFound)
}

func (r *sqliteCourseRepo) Stats(ctx context.Context) (*models.CourseStats, error) {
	stats := &models.CourseStats{ByLevel: models.CountByKey(models.CourseLevels)}
	total, err := countGrouped(ctx, r.db, `SELECT level, COUNT(*) FROM courses GROUP BY level`, stats.ByLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to count courses by level: %w", err)
	}
	stats.Total = total

	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(price), 0) FROM courses`).Scan(&stats.TotalRevenue); err != nil {
		return nil, fmt.Errorf("failed to sum course prices: %w", err)
	}
	return stats, nil
}
