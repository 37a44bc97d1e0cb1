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

var errMessageNotFound = fmt.Errorf("%w: Message not found", pkg.ErrNotFound)

// messageSelect, mesajı gönderen (su) ve alıcı (ru) özetleriyle seçer.
const messageSelect = `
	SELECT m.id, m.sender_id, m.receiver_id, m.content, m.is_read, m.sent_at,
		su.id, su.first_name, su.last_name, su.email, su.avatar_url,
		ru.id, ru.first_name, ru.last_name, ru.email, ru.avatar_url
	FROM messages m
	JOIN users su ON su.id = m.sender_id
	JOIN users ru ON ru.id = m.receiver_id`

type sqliteMessageRepo struct {
	db database.TxQuerier
}

// NewSQLiteMessageRepo, constructor.
func NewSQLiteMessageRepo(db database.TxQuerier) MessageRepository {
	return &sqliteMessageRepo{db: db}
}

func scanMessage(s rowScanner) (*models.Message, error) {
	m := &models.Message{Sender: &models.UserSummary{}, Receiver: &models.UserSummary{}}
	err := s.Scan(
		&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.SentAt,
		&m.Sender.ID, &m.Sender.FirstName, &m.Sender.LastName, &m.Sender.Email, &m.Sender.AvatarURL,
		&m.Receiver.ID, &m.Receiver.FirstName, &m.Receiver.LastName, &m.Receiver.Email, &m.Receiver.AvatarURL,
	)
	return m, err
}

func (r *sqliteMessageRepo) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content)
		VALUES (?, ?, ?)
		RETURNING id, is_read, sent_at`

	err := r.db.QueryRowContext(ctx, query, message.SenderID, message.ReceiverID, message.Content).
		Scan(&message.ID, &message.IsRead, &message.SentAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: Receiver not found", pkg.ErrNotFound)
		}
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *sqliteMessageRepo) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	m, err := scanMessage(r.db.QueryRowContext(ctx, messageSelect+` WHERE m.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return m, nil
}

func (r *sqliteMessageRepo) ListForUser(ctx context.Context, userID int64, filter models.MessageFilter) ([]models.Message, error) {
	var where whereBuilder
	if filter.ConversationWith > 0 {
		where.add("((m.sender_id = ? AND m.receiver_id = ?) OR (m.sender_id = ? AND m.receiver_id = ?))",
			userID, filter.ConversationWith, filter.ConversationWith, userID)
	} else {
		where.add("(m.sender_id = ? OR m.receiver_id = ?)", userID, userID)
	}

	query := messageSelect + where.String() + ` ORDER BY m.sent_at DESC, m.id DESC LIMIT ? OFFSET ?`
	args := append(where.args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		messages = append(messages, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return messages, nil
}

// Conversations, karşı taraf başına en yüksek ID'li mesajı (en son mesaj) bulur.
//
// CASE ifadesi karşı tarafı seçer: kullanıcı gönderen ise alıcı, değilse gönderen.
// Okunmamış sayısı sadece karşı taraftan kullanıcıya gelen mesajları sayar.
func (r *sqliteMessageRepo) Conversations(ctx context.Context, userID int64) ([]models.Conversation, error) {
	query := `
		SELECT m.id, m.sender_id, m.receiver_id, m.content, m.is_read, m.sent_at,
			u.id, u.first_name, u.last_name, u.email, u.avatar_url,
			(SELECT COUNT(*) FROM messages x WHERE x.sender_id = u.id AND x.receiver_id = ? AND x.is_read = 0)
		FROM messages m
		JOIN users u ON u.id = CASE WHEN m.sender_id = ? THEN m.receiver_id ELSE m.sender_id END
		WHERE m.id IN (
			SELECT MAX(id) FROM messages
			WHERE sender_id = ? OR receiver_id = ?
			GROUP BY CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END
		)
		ORDER BY m.sent_at DESC, m.id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, userID, userID, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		var c models.Conversation
		m := &c.LastMessage
		if err := rows.Scan(
			&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.IsRead, &m.SentAt,
			&c.User.ID, &c.User.FirstName, &c.User.LastName, &c.User.Email, &c.User.AvatarURL,
			&c.UnreadCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		c.LastMessageAt = m.SentAt
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}
	return conversations, nil
}

func (r *sqliteMessageRepo) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = ? AND is_read = 0`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return n, nil
}

func (r *sqliteMessageRepo) MarkAsRead(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark message as read: %w", err)
	}
	return expectAffected(result, errMessageNotFound)
}

func (r *sqliteMessageRepo) MarkConversationAsRead(ctx context.Context, userID, peerID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE messages SET is_read = 1 WHERE receiver_id = ? AND sender_id = ? AND is_read = 0`, userID, peerID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark conversation as read: %w", err)
	}
	return result.RowsAffected()
}
