package models

import (
	"strings"
	"time"
)

// AuthProviderKind, harici kimlik sağlayıcı.
type AuthProviderKind string

const (
	ProviderGoogle   AuthProviderKind = "google"
	ProviderFacebook AuthProviderKind = "facebook"
	ProviderGitHub   AuthProviderKind = "github"
)

// Valid, sağlayıcının desteklenip desteklenmediğini döner.
func (p AuthProviderKind) Valid() bool {
	switch p {
	case ProviderGoogle, ProviderFacebook, ProviderGitHub:
		return true
	}
	return false
}

// AuthProvider, bir hesaba bağlanmış harici kimlik.
// (Provider, ProviderID) çifti benzersizdir.
type AuthProvider struct {
	ID         int64            `json:"id"`
	UserID     int64            `json:"userId"`
	Provider   AuthProviderKind `json:"provider"`
	ProviderID string           `json:"providerId"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// CreateAuthProviderRequest, admin'in bir hesaba harici kimlik bağlaması.
type CreateAuthProviderRequest struct {
	UserID     int64            `json:"userId"`
	Provider   AuthProviderKind `json:"provider"`
	ProviderID string           `json:"providerId"`
}

// Validate, CreateAuthProviderRequest geçerlilik kontrolü.
func (r *CreateAuthProviderRequest) Validate() error {
	r.ProviderID = strings.TrimSpace(r.ProviderID)
	if r.UserID <= 0 {
		return invalid("userId must be a positive number")
	}
	if !r.Provider.Valid() {
		return invalid("provider must be one of the following values: google, facebook, github")
	}
	if r.ProviderID == "" {
		return invalid("providerId is required")
	}
	return nil
}
