package handlers

import (
	"net/http"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/services"
)

// AuthProviderHandler, kullanıcıya bağlı dış kimlik sağlayıcı kayıtları.
type AuthProviderHandler struct {
	providerService services.AuthProviderService
}

func NewAuthProviderHandler(providerService services.AuthProviderService) *AuthProviderHandler {
	return &AuthProviderHandler{providerService: providerService}
}

// Create godoc
// POST /auth-providers (admin)
func (h *AuthProviderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAuthProviderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	provider, err := h.providerService.Create(r.Context(), &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, provider)
}

// MyProviders godoc
// GET /auth-providers/my-providers
func (h *AuthProviderHandler) MyProviders(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	providers, err := h.providerService.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, providers)
}

// Delete godoc
// DELETE /auth-providers/{id} (admin)
func (h *AuthProviderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.providerService.Delete(r.Context(), id); err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.Message(w, http.StatusOK, "Auth provider deleted successfully")
}
