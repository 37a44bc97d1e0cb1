package handlers

import (
	"net/http"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/services"
)

// EnrollmentHandler, oturum kayıt endpoint'leri.
type EnrollmentHandler struct {
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// Create godoc
// POST /enrollments
// Body: { "sessionId": 1 }. Kayıt her zaman çağıranın kendisi adına açılır.
func (h *EnrollmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req models.CreateEnrollmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	enrollment, err := h.enrollmentService.Create(r.Context(), identity.UserID, &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, enrollment)
}

// List godoc
// GET /enrollments?status=&sessionId=&userId=&page=&limit= (admin, trainer)
func (h *EnrollmentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.EnrollmentFilter{
		Page:      page(r),
		Status:    models.EnrollmentStatus(r.URL.Query().Get("status")),
		SessionID: queryInt64(r, "sessionId"),
		UserID:    queryInt64(r, "userId"),
	}
	if !h.validStatus(w, r, filter.Status) {
		return
	}

	h.list(w, r, filter)
}

// MyEnrollments godoc
// GET /enrollments/my-enrollments
func (h *EnrollmentHandler) MyEnrollments(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	filter := models.EnrollmentFilter{
		Page:   page(r),
		Status: models.EnrollmentStatus(r.URL.Query().Get("status")),
		UserID: identity.UserID,
	}
	if !h.validStatus(w, r, filter.Status) {
		return
	}

	h.list(w, r, filter)
}

// Stats godoc
// GET /enrollments/stats (admin)
func (h *EnrollmentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.enrollmentService.Stats(r.Context())
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, stats)
}

// Get godoc
// GET /enrollments/{id}
// Learner sadece kendi kaydını görebilir (service kontrol eder).
func (h *EnrollmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.Get(r.Context(), id, identity)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, enrollment)
}

// Confirm godoc
// PATCH /enrollments/{id}/confirm (admin, trainer)
func (h *EnrollmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.Confirm(r.Context(), id)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, enrollment)
}

// Cancel godoc
// PATCH /enrollments/{id}/cancel
func (h *EnrollmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.Cancel(r.Context(), id, identity)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, enrollment)
}

// Update godoc
// PATCH /enrollments/{id} (admin, trainer)
func (h *EnrollmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateEnrollmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	enrollment, err := h.enrollmentService.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, enrollment)
}

// Delete godoc
// DELETE /enrollments/{id} (admin)
func (h *EnrollmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.enrollmentService.Delete(r.Context(), id); err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.Message(w, http.StatusOK, "Enrollment deleted successfully")
}

func (h *EnrollmentHandler) list(w http.ResponseWriter, r *http.Request, filter models.EnrollmentFilter) {
	enrollments, err := h.enrollmentService.List(r.Context(), filter)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, enrollments)
}

func (h *EnrollmentHandler) validStatus(w http.ResponseWriter, r *http.Request, status models.EnrollmentStatus) bool {
	if status != "" && !status.Valid() {
		pkg.ErrorWithMessage(w, r, http.StatusBadRequest, "status must be one of the following values: pending, confirmed, canceled")
		return false
	}
	return true
}
