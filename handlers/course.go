package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/akinalp/fireshield/models"
	"github.com/akinalp/fireshield/pkg"
	"github.com/akinalp/fireshield/services"
)

// CourseHandler, kurs kataloğu endpoint'leri.
type CourseHandler struct {
	courseService services.CourseService
	uploadService services.UploadService
	maxUploadSize int64
}

func NewCourseHandler(courseService services.CourseService, uploadService services.UploadService, maxUploadSize int64) *CourseHandler {
	return &CourseHandler{courseService: courseService, uploadService: uploadService, maxUploadSize: maxUploadSize}
}

// Create godoc
// POST /courses (admin, trainer)
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.courseService.Create(r.Context(), &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, course)
}

// List godoc
// GET /courses?level=&search=&page=&limit=
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.CourseFilter{
		Page:   page(r),
		Level:  models.CourseLevel(q.Get("level")),
		Search: strings.TrimSpace(q.Get("search")),
	}
	if filter.Level != "" && !filter.Level.Valid() {
		pkg.ErrorWithMessage(w, r, http.StatusBadRequest, "level must be one of the following values: beginner, intermediate, advanced")
		return
	}

	courses, err := h.courseService.List(r.Context(), filter)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, courses)
}

// Stats godoc
// GET /courses/stats (admin)
func (h *CourseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.courseService.Stats(r.Context())
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, stats)
}

// Get godoc
// GET /courses/{id}
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	course, err := h.courseService.Get(r.Context(), id)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, course)
}

// GetBySlug godoc
// GET /courses/slug/{slug}
func (h *CourseHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseService.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, course)
}

// Update godoc
// PATCH /courses/{id} (admin, trainer)
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateCourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	course, err := h.courseService.Update(r.Context(), id, &req)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, course)
}

// UploadThumbnail godoc
// POST /courses/{id}/thumbnail (admin, trainer)
// Content-Type: multipart/form-data, alan adı "file".
func (h *CourseHandler) UploadThumbnail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	file, header, ok := formFile(w, r, h.maxUploadSize)
	if !ok {
		return
	}
	defer file.Close()

	course, err := h.uploadService.UploadCourseThumbnail(r.Context(), id, file, header)
	if err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.JSON(w, http.StatusOK, course)
}

// Delete godoc
// DELETE /courses/{id} (admin)
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.courseService.Delete(r.Context(), id); err != nil {
		pkg.Error(w, r, err)
		return
	}

	pkg.Message(w, http.StatusOK, "Course deleted successfully")
}
