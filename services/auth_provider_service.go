package services

import (
	"context"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/repository"
)

// AuthProviderService, hesaplara bağlı harici kimlikler (google, facebook, github).
type AuthProviderService interface {
	// Create, hesabın varlığını kontrol eder; (provider, providerId) çakışması 409 döner.
	Create(ctx context.Context, req *models.CreateAuthProviderRequest) (*models.AuthProvider, error)
	ListByUser(ctx context.Context, userID int64) ([]models.AuthProvider, error)
	Delete(ctx context.Context, id int64) error
}

type authProviderService struct {
	providerRepo repository.AuthProviderRepository
	userRepo     repository.UserRepository
}

// NewAuthProviderService, constructor.
func NewAuthProviderService(providerRepo repository.AuthProviderRepository, userRepo repository.UserRepository) AuthProviderService {
	return &authProviderService{providerRepo: providerRepo, userRepo: userRepo}
}

func (s *authProviderService) Create(ctx context.Context, req *models.CreateAuthProviderRequest) (*models.AuthProvider, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	provider := &models.AuthProvider{
		UserID:     req.UserID,
		Provider:   req.Provider,
		ProviderID: req.ProviderID,
	}
	if err := s.providerRepo.Create(ctx, provider); err != nil {
		return nil, err
	}
	return provider, nil
}

func (s *authProviderService) ListByUser(ctx context.Context, userID int64) ([]models.AuthProvider, error) {
	return s.providerRepo.ListByUser(ctx, userID)
}

func (s *authProviderService) Delete(ctx context.Context, id int64) error {
	return s.providerRepo.Delete(ctx, id)
}
