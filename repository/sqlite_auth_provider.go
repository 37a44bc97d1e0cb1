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

var errAuthProviderNotFound = fmt.Errorf("%w: Auth provider not found", pkg.ErrNotFound)

type sqliteAuthProviderRepo struct {
	db database.TxQuerier
}

// NewSQLiteAuthProviderRepo, constructor.
func NewSQLiteAuthProviderRepo(db database.TxQuerier) AuthProviderRepository {
	return &sqliteAuthProviderRepo{db: db}
}

func (r *sqliteAuthProviderRepo) Create(ctx context.Context, p *models.AuthProvider) error {
	query := `
		INSERT INTO auth_providers (user_id, provider, provider_id)
		VALUES (?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, p.UserID, p.Provider, p.ProviderID).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: This provider account is already linked", pkg.ErrAlreadyExists)
		}
		if isForeignKeyViolation(err) {
			return errUserNotFound
		}
		return fmt.Errorf("failed to create auth provider: %w", err)
	}
	return nil
}

func (r *sqliteAuthProviderRepo) GetByID(ctx context.Context, id int64) (*models.AuthProvider, error) {
	p := &models.AuthProvider{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, provider, provider_id, created_at FROM auth_providers WHERE id = ?`, id,
	).Scan(&p.ID, &p.UserID, &p.Provider, &p.ProviderID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errAuthProviderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get auth provider: %w", err)
	}
	return p, nil
}

func (r *sqliteAuthProviderRepo) ListByUser(ctx context.Context, userID int64) ([]models.AuthProvider, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, provider, provider_id, created_at FROM auth_providers WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list auth providers: %w", err)
	}
	defer rows.Close()

	providers := make([]models.AuthProvider, 0)
	for rows.Next() {
		var p models.AuthProvider
		if err := rows.Scan(&p.ID, &p.UserID, &p.Provider, &p.ProviderID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan auth provider row: %w", err)
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating auth provider rows: %w", err)
	}
	return providers, nil
}

func (r *sqliteAuthProviderRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM auth_providers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete auth provider: %w", err)
	}
	return expectAffected(result, errAuthProviderNotFound)
}
