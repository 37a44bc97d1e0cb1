package handlers

import (
	"net/http"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/services"
)

// ProgressHandler, öğrenen ilerleme endpoint'leri.
type ProgressHandler struct {
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// Create godoc
// POST /learner-progress
// userId verilmezse çağıranın kendisi; başkası için sadece admin/trainer.
func (h *ProgressHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req models.CreateProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.UserID != 0 && req.UserID != identity.UserID && !identity.HasRole(models.RoleAdmin, models.RoleTrainer) {
		pkg.ErrorWithMessage(w, r, http.StatusForbidden, "You can only record your own progress")
		return
	}

	progress, err := h.progressService.Create(r.Context(), identity.UserID, &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, progress)
}

// List godoc
// GET /learner-progress?userId=&contentId=&completed=&page=&limit= (admin, trainer)
func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.ProgressFilter{
		Page:      page(r),
		UserID:    queryInt64(r, "userId"),
		ContentID: queryInt64(r, "contentId"),
		Completed: queryBool(r, "completed"),
	})
}

// MyProgress godoc
// GET /learner-progress/my-progress
func (h *ProgressHandler) MyProgress(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	h.list(w, r, models.ProgressFilter{
		Page:      page(r),
		UserID:    identity.UserID,
		ContentID: queryInt64(r, "contentId"),
		Completed: queryBool(r, "completed"),
	})
}

// CourseProgress godoc
// GET /learner-progress/course/{courseId}/progress
// Çağıranın kurs bazında tamamlanma raporu.
func (h *ProgressHandler) CourseProgress(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}

	report, err := h.progressService.CourseProgress(r.Context(), identity.UserID, courseID)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, report)
}

// Stats godoc
// GET /learner-progress/stats (admin)
func (h *ProgressHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.progressService.Stats(r.Context())
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, stats)
}

// Get godoc
// GET /learner-progress/{id}
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	progress, err := h.progressService.Get(r.Context(), id, identity)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, progress)
}

// Complete godoc
// POST /learner-progress/complete/{contentId}
func (h *ProgressHandler) Complete(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	contentID, ok := pathID(w, r, "contentId")
	if !ok {
		return
	}

	progress, err := h.progressService.MarkContentCompleted(r.Context(), identity.UserID, contentID)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, progress)
}

// Update godoc
// PATCH /learner-progress/{id} (admin, trainer)
func (h *ProgressHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateProgressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	progress, err := h.progressService.Update(r.Context(), id, &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, progress)
}

// Delete godoc
// DELETE /learner-progress/{id} (admin)
func (h *ProgressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.progressService.Delete(r.Context(), id); err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.Message(w, http.StatusOK, "Progress deleted successfully")
}

func (h *ProgressHandler) list(w http.ResponseWriter, r *http.Request, filter models.ProgressFilter) {
	progress, err := h.progressService.List(r.Context(), filter)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, progress)
}
