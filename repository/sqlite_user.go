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

// errUserNotFound, tüm kullanıcı sorgularının ortak NotFound hatası.
var errUserNotFound = fmt.Errorf("%w: User not found", pkg.ErrNotFound)

const userColumns = `id, first_name, last_name, email, password, role, bio, avatar_url, certifications, otp, created_at, updated_at`

// sqliteUserRepo, UserRepository interface'inin SQLite implementasyonu.
// ReplacePassword transaction açtığı için *sql.DB tutar.
type sqliteUserRepo struct {
	db *sql.DB
}

// NewSQLiteUserRepo, constructor. UserRepository interface'i döner.
func NewSQLiteUserRepo(db *sql.DB) UserRepository {
	return &sqliteUserRepo{db: db}
}

func scanUser(s rowScanner) (*models.User, error) {
	u := &models.User{}
	err := s.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role,
		&u.Bio, &u.AvatarURL, &u.Certifications, &u.OTP, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (r *sqliteUserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (first_name, last_name, email, password, role, bio, avatar_url, certifications)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.FirstName,
		user.LastName,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Bio,
		user.AvatarURL,
		user.Certifications,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: User with this email already exists", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqliteUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (r *sqliteUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *sqliteUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	var where whereBuilder
	if filter.Role != "" {
		where.add("role = ?", filter.Role)
	}

	query := `SELECT ` + userColumns + ` FROM users` + where.String() + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	args := append(where.args, filter.Limit, filter.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (r *sqliteUserRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET first_name = ?, last_name = ?, role = ?, bio = ?, avatar_url = ?, certifications = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.Role, user.Bio, user.AvatarURL, user.Certifications, user.ID,
	).Scan(&user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return errUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *sqliteUserRepo) UpdateAvatar(ctx context.Context, id int64, avatarURL string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET avatar_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, avatarURL, id)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	return expectAffected(result, errUserNotFound)
}

func (r *sqliteUserRepo) SetOTP(ctx context.Context, id int64, otp *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET otp = ? WHERE id = ?`, otp, id)
	if err != nil {
		return fmt.Errorf("failed to set otp: %w", err)
	}
	return expectAffected(result, errUserNotFound)
}

func (r *sqliteUserRepo) ReplacePassword(ctx context.Context, id int64, passwordHash string) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE users SET password = ?, otp = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			passwordHash, id)
		if err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if err := expectAffected(result, errUserNotFound); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = ?`, id); err != nil {
			return fmt.Errorf("failed to revoke refresh tokens: %w", err)
		}
		return nil
	})
}

func (r *sqliteUserRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return expectAffected(result, errUserNotFound)
}

func (r *sqliteUserRepo) Stats(ctx context.Context) (*models.UserStats, error) {
	stats := &models.UserStats{ByRole: models.CountByKey(models.Roles)}
	total, err := countGrouped(ctx, r.db, `SELECT role, COUNT(*) FROM users GROUP BY role`, stats.ByRole)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	stats.Total = total
	return stats, nil
}
