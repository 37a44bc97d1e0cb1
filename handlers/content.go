package handlers

import (
	"net/http"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/services"
)

// ContentHandler, kurs içeriği endpoint'leri.
// Yazma işlemleri admin veya trainer rolü ister (route seviyesinde).
type ContentHandler struct {
	contentService services.ContentService
}

func NewContentHandler(contentService services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// Create godoc
// POST /course-contents
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	content, err := h.contentService.Create(r.Context(), &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, content)
}

// List godoc
// GET /course-contents?courseId=&type=&page=&limit=
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := models.ContentFilter{
		Page:     page(r),
		CourseID: queryInt64(r, "courseId"),
		Type:     models.ContentType(r.URL.Query().Get("type")),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		pkg.ErrorWithMessage(w, r, http.StatusBadRequest, "type must be one of the following values: pdf, video, quiz, url, text")
		return
	}

	contents, err := h.contentService.List(r.Context(), filter)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, contents)
}

// ListByCourse godoc
// GET /course-contents/course/{courseId}
func (h *ContentHandler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}

	contents, err := h.contentService.ListByCourse(r.Context(), courseID)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, contents)
}

// Stats godoc
// GET /course-contents/stats
func (h *ContentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.contentService.Stats(r.Context())
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, stats)
}

// Get godoc
// GET /course-contents/{id}
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	content, err := h.contentService.Get(r.Context(), id)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, content)
}

// Reorder godoc
// PATCH /course-contents/reorder/{courseId}
// Body: { "contents": [{ "id": 3, "orderIndex": 1 }, ...] }
func (h *ContentHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	courseID, ok := pathID(w, r, "courseId")
	if !ok {
		return
	}

	var req models.ReorderContentsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	contents, err := h.contentService.Reorder(r.Context(), courseID, &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, contents)
}

// Update godoc
// PATCH /course-contents/{id}
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	content, err := h.contentService.Update(r.Context(), id, &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, content)
}

// Delete godoc
// DELETE /course-contents/{id}
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.contentService.Delete(r.Context(), id); err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.Message(w, http.StatusOK, "Content deleted successfully")
}
