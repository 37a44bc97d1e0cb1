package models

import (
	"strings"
	"time"
)

// Role, kullanıcının platformdaki rolü.
// Go'da enum yoktur; typed constant'lar ile kapalı bir küme tanımlanır.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleLearner Role = "learner"
)

// Roles, geçerli tüm roller (stats ve validation için sıralı liste).
var Roles = []Role{RoleAdmin, RoleTrainer, RoleLearner}

// Valid, rolün kapalı kümede olup olmadığını döner.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTrainer, RoleLearner:
		return true
	}
	return false
}

// User, bir hesabı temsil eder.
//
// PasswordHash ve OTP `json:"-"` ile işaretlidir: hangi endpoint dönerse
// dönsün bu iki alan API response'una asla yazılmaz.
type User struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	Role           Role      `json:"role"`
	Bio            *string   `json:"bio"`
	AvatarURL      *string   `json:"avatarUrl"`
	Certifications *string   `json:"certifications"`
	OTP            *int      `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FullName, "Ad Soyad".
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// UserSummary, ilişkili kayıtlarda (mesaj göndereni, oturum eğitmeni vb.)
// gömülen kısa kullanıcı bilgisi.
type UserSummary struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

// Summary, User'dan UserSummary üretir.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
	}
}

// RegisterRequest, public kayıt endpoint'inin body'si.
// Rol seçilemez; yeni hesaplar her zaman learner olarak açılır.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Validate, RegisterRequest geçerlilik kontrolü.
func (r *RegisterRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)

	if err := validateLength("firstName", r.FirstName, 2, 50); err != nil {
		return err
	}
	if err := validateLength("lastName", r.LastName, 2, 50); err != nil {
		return err
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return ValidatePassword("password", r.Password)
}

// CreateUserRequest, admin'in hesap açma isteği. Rol ve profil alanları seçilebilir.
type CreateUserRequest struct {
	RegisterRequest
	Role           Role    `json:"role"`
	Bio            *string `json:"bio"`
	AvatarURL      *string `json:"avatarUrl"`
	Certifications *string `json:"certifications"`
}

// Validate, CreateUserRequest geçerlilik kontrolü. Rol boşsa learner atanır.
func (r *CreateUserRequest) Validate() error {
	if err := r.RegisterRequest.Validate(); err != nil {
		return err
	}
	if r.Role == "" {
		r.Role = RoleLearner
	}
	if !r.Role.Valid() {
		return invalid("role must be one of the following values: admin, trainer, learner")
	}
	trimPtr(r.Bio)
	if r.Bio != nil {
		if err := validateLength("bio", *r.Bio, 0, 500); err != nil {
			return err
		}
	}
	return nil
}

// LoginRequest, giriş isteği.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate, LoginRequest geçerlilik kontrolü.
func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return invalid("password is required")
	}
	return nil
}

// UpdateProfileRequest, kullanıcının kendi profilini güncellemesi.
// Nil alanlar değiştirilmez (PATCH semantiği).
type UpdateProfileRequest struct {
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	Bio            *string `json:"bio"`
	AvatarURL      *string `json:"avatarUrl"`
	Certifications *string `json:"certifications"`
}

// Validate, UpdateProfileRequest geçerlilik kontrolü.
func (r *UpdateProfileRequest) Validate() error {
	trimPtr(r.FirstName)
	trimPtr(r.LastName)
	trimPtr(r.Bio)

	if r.FirstName != nil {
		if err := validateLength("firstName", *r.FirstName, 2, 50); err != nil {
			return err
		}
	}
	if r.LastName != nil {
		if err := validateLength("lastName", *r.LastName, 2, 50); err != nil {
			return err
		}
	}
	if r.Bio != nil {
		if err := validateLength("bio", *r.Bio, 0, 500); err != nil {
			return err
		}
	}
	return nil
}

// AdminUpdateUserRequest, admin'in herhangi bir hesabı güncellemesi (rol dahil).
type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	Role *Role `json:"role"`
}

// Validate, AdminUpdateUserRequest geçerlilik kontrolü.
func (r *AdminUpdateUserRequest) Validate() error {
	if err := r.UpdateProfileRequest.Validate(); err != nil {
		return err
	}
	if r.Role != nil && !r.Role.Valid() {
		return invalid("role must be one of the following values: admin, trainer, learner")
	}
	return nil
}

// ChangePasswordRequest, oturum açmış kullanıcının şifre değişikliği.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Validate, ChangePasswordRequest geçerlilik kontrolü.
func (r *ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" {
		return invalid("currentPassword is required")
	}
	return ValidatePassword("newPassword", r.NewPassword)
}

// UserFilter, kullanıcı listesi filtreleri.
type UserFilter struct {
	Page
	Role Role
}

// UserStats, rol bazında kullanıcı sayıları.
type UserStats struct {
	Total  int          `json:"total"`
	ByRole map[Role]int `json:"byRole"`
}
