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

var errNotificationNotFound = fmt.Errorf("%w: Notification not found", pkg.ErrNotFound)

const notificationColumns = `id, user_id, title, message, is_read, sent_at`

type sqliteNotificationRepo struct {
	db database.TxQuerier
}

// NewSQLiteNotificationRepo, constructor.
func NewSQLiteNotificationRepo(db database.TxQuerier) NotificationRepository {
	return &sqliteNotificationRepo{db: db}
}

func scanNotification(s rowScanner) (*models.Notification, error) {
	n := &models.Notification{}
	err := s.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &n.SentAt)
	return n, err
}

func (r *sqliteNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message)
		VALUES (?, ?, ?)
		RETURNING id, is_read, sent_at`

	err := r.db.QueryRowContext(ctx, query, n.UserID, n.Title, n.Message).Scan(&n.ID, &n.IsRead, &n.SentAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errUserNotFound
		}
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *sqliteNotificationRepo) GetForUser(ctx context.Context, id, userID int64) (*models.Notification, error) {
	n, err := scanNotification(r.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = ? AND user_id = ?`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

func (r *sqliteNotificationRepo) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error) {
	var where whereBuilder
	where.add("user_id = ?", filter.UserID)
	if filter.UnreadOnly {
		where.add("is_read = 0")
	}

	query := `SELECT ` + notificationColumns + ` FROM notifications` + where.String() + ` ORDER BY sent_at DESC, id DESC LIMIT ? OFFSET ?`
	args := append(where.args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	items := make([]models.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return items, nil
}

func (r *sqliteNotificationRepo) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return n, nil
}

func (r *sqliteNotificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return expectAffected(result, errNotificationNotFound)
}

func (r *sqliteNotificationRepo) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return result.RowsAffected()
}

func (r *sqliteNotificationRepo) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return expectAffected(result, errNotificationNotFound)
}
