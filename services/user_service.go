package services

import (
	"context"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/repository"
)

// UserService, hesap yönetimi (admin) ve profil işlemleri.
type UserService interface {
	Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Stats(ctx context.Context) (*models.UserStats, error)
	UpdateProfile(ctx context.Context, id int64, req *models.UpdateProfileRequest) (*models.User, error)
	Update(ctx context.Context, id int64, req *models.AdminUpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService, constructor.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Create, admin'in herhangi bir rolde hesap açması. Email çakışması 409 döner.
func (s *userService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PasswordHash:   hash,
		Role:           req.Role,
		Bio:            req.Bio,
		AvatarURL:      req.AvatarURL,
		Certifications: req.Certifications,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	return s.userRepo.List(ctx, filter)
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *userService) Stats(ctx context.Context) (*models.UserStats, error) {
	return s.userRepo.Stats(ctx)
}

// UpdateProfile, kullanıcının kendi profilini günceller. Rol değiştirilemez.
func (s *userService) UpdateProfile(ctx context.Context, id int64, req *models.UpdateProfileRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyProfile(user, req)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update, admin'in herhangi bir hesabı (rol dahil) güncellemesi.
func (s *userService) Update(ctx context.Context, id int64, req *models.AdminUpdateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyProfile(user, &req.UpdateProfileRequest)
	if req.Role != nil {
		user.Role = *req.Role
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.userRepo.Delete(ctx, id)
}

// applyProfile, nil olmayan alanları kullanıcıya yazar (PATCH).
func applyProfile(user *models.User, req *models.UpdateProfileRequest) {
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if req.Certifications != nil {
		user.Certifications = req.Certifications
	}
}
