package repository

import (
	"context"

	"github.com/akinalp/fireshield/models"
)

// AuthProviderRepository, hesaplara bağlı harici kimlikler için interface.
type AuthProviderRepository interface {
	// Create, (provider, provider_id) çakışmasında pkg.ErrAlreadyExists döner.
	Create(ctx context.Context, provider *models.AuthProvider) error
	GetByID(ctx context.Context, id int64) (*models.AuthProvider, error)
	ListByUser(ctx context.Context, userID int64) ([]models.AuthProvider, error)
	Delete(ctx context.Context, id int64) error
}
