package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/services"
)

// UserHandler, kullanıcı yönetimi ve profil endpoint'leri.
type UserHandler struct {
	userService   services.UserService
	uploadService services.UploadService
	maxUploadSize int64
}

func NewUserHandler(userService services.UserService, uploadService services.UploadService, maxUploadSize int64) *UserHandler {
	return &UserHandler{userService: userService, uploadService: uploadService, maxUploadSize: maxUploadSize}
}

// Create godoc
// POST /users (admin)
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Create(r.Context(), &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, user)
}

// List godoc
// GET /users?role=&page=&limit= (admin, trainer)
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.UserFilter{
		Page: page(r),
		Role: models.Role(r.URL.Query().Get("role")),
	}
	if filter.Role != "" && !filter.Role.Valid() {
		pkg.ErrorWithMessage(w, r, http.StatusBadRequest, "role must be one of the following values: admin, trainer, learner")
		return
	}

	users, err := h.userService.List(r.Context(), filter)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, users)
}

// Me godoc
// GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	user, err := h.userService.Get(r.Context(), identity.UserID)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// Stats godoc
// GET /users/stats (admin)
func (h *UserHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.userService.Stats(r.Context())
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, stats)
}

// Get godoc
// GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// UpdateMe godoc
// PATCH /users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), identity.UserID, &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// Update godoc
// PATCH /users/{id} (admin)
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.AdminUpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.Update(r.Context(), id, &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// Delete godoc
// DELETE /users/{id} (admin)
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.Message(w, http.StatusOK, "User deleted successfully")
}

// UploadAvatar godoc
// POST /users/me/avatar
// Content-Type: multipart/form-data, alan adı "file".
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	file, header, ok := formFile(w, r, h.maxUploadSize)
	if !ok {
		return
	}
	defer file.Close()

	user, err := h.uploadService.UploadAvatar(r.Context(), identity.UserID, file, header)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, user)
}

// formFile, multipart body'den "file" alanını okur. Body boyutu
// maxSize + 1MB form payı ile sınırlanır; boyut kontrolünün asıl yeri service'tir.
func formFile(w http.ResponseWriter, r *http.Request, maxSize int64) (multipart.File, *multipart.FileHeader, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+1<<20)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		pkg.Error(w, r, fmt.Errorf("%w: File too large or malformed form", pkg.ErrBadRequest))
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		pkg.Error(w, r, fmt.Errorf("%w: file field is required", pkg.ErrBadRequest))
		return nil, nil, false
	}
	return file, header, true
}
