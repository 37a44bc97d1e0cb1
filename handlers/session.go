package handlers

import (
	"net/http"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/services"
)

// SessionHandler, kurs oturumu endpoint'leri.
type SessionHandler struct {
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Create godoc
// POST /course-sessions (admin, trainer)
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.sessionService.Create(r.Context(), &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, session)
}

// List godoc
// GET /course-sessions?status=&courseId=&trainerId=&page=&limit=
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.SessionFilter{
		Page:      page(r),
		Status:    models.SessionStatus(r.URL.Query().Get("status")),
		CourseID:  queryInt64(r, "courseId"),
		TrainerID: queryInt64(r, "trainerId"),
	}
	if !h.validStatus(w, r, filter.Status) {
		return
	}

	h.list(w, r, filter)
}

// MySessions godoc
// GET /course-sessions/my-sessions (trainer)
// Trainer'ın kendi oturumları; trainerId query'si yok sayılır.
func (h *SessionHandler) MySessions(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	filter := models.SessionFilter{
		Page:      page(r),
		Status:    models.SessionStatus(r.URL.Query().Get("status")),
		TrainerID: identity.UserID,
	}
	if !h.validStatus(w, r, filter.Status) {
		return
	}

	h.list(w, r, filter)
}

// ListByCourse godoc
// GET /course-sessions/course/{courseId}
func (h *SessionHandler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}

	sessions, err := h.sessionService.ListByCourse(r.Context(), courseID)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, sessions)
}

// Stats godoc
// GET /course-sessions/stats (admin)
func (h *SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sessionService.Stats(r.Context())
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, stats)
}

// Get godoc
// GET /course-sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	session, err := h.sessionService.Get(r.Context(), id)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, session)
}

// Update godoc
// PATCH /course-sessions/{id} (admin, trainer)
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.sessionService.Update(r.Context(), id, &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, session)
}

// UpdateStatus godoc
// PATCH /course-sessions/{id}/status (admin, trainer)
// Body: { "status": "ongoing" }
func (h *SessionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateSessionStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.sessionService.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, session)
}

// Delete godoc
// DELETE /course-sessions/{id} (admin)
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.sessionService.Delete(r.Context(), id); err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.Message(w, http.StatusOK, "Session deleted successfully")
}

func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request, filter models.SessionFilter) {
	sessions, err := h.sessionService.List(r.Context(), filter)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, sessions)
}

func (h *SessionHandler) validStatus(w http.ResponseWriter, r *http.Request, status models.SessionStatus) bool {
	if status != "" && !status.Valid() {
		pkg.ErrorWithMessage(w, r, http.StatusBadRequest, "status must be one of the following values: planned, ongoing, completed, canceled")
		return false
	}
	return true
}
