package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// APIResponse, başarılı yanıtlar için standart JSON zarfı.
//
//	{"success": true, "data": {...}}
type APIResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorResponse, tüm hata yanıtlarının tek tip gövdesi.
// Hangi katmanda oluşursa oluşsun (validation, service, store, panic)
// client her zaman bu şekli görür.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Method     string `json:"method"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// MessageResponse, sadece bilgi mesajı dönen endpoint'ler için (logout, reset vb.).
type MessageResponse struct {
	Message string `json:"message"`
}

// JSON, başarılı bir yanıtı APIResponse zarfı içinde yazar.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Success: true,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("[response] failed to encode response")
	}
}

// Message, {"success":true,"data":{"message":"..."}} yazar.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageResponse{Message: message})
}

// Error, hata boundary'sidir: error'ı status koduna ve güvenli mesaja çevirir,
// orijinal hatayı server tarafında loglar, client'a sadece güvenli mesajı döner.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, kind, message := classify(err)

	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("[http] request failed")

	writeError(w, r, status, kind, message)
}

// ErrorWithMessage, service katmanına gitmeden oluşan hatalar için
// (geçersiz JSON body, eksik path parametresi vb.) doğrudan status + mesaj yazar.
func ErrorWithMessage(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeError(w, r, status, statusKind(status), message)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := ErrorResponse{
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		Path:       r.URL.RequestURI(),
		Method:     r.Method,
		Error:      kind,
		Message:    message,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("[response] failed to encode error response")
	}
}

// classify, bir error'ı (status, tür, güvenli mesaj) üçlüsüne çevirir.
//
// Sentinel ile sarılmış hatalarda mesaj, sentinel'den sonraki kısımdır:
// fmt.Errorf("%w: Course not found", ErrNotFound) → "Course not found".
// Sarılmamış store hataları (UNIQUE / FOREIGN KEY) ayrıca yakalanır;
// geri kalan her şey 500 "Internal server error" olur, detay sızdırılmaz.
func classify(err error) (int, string, string) {
	var status int
	var sentinel error

	switch {
	case errors.Is(err, ErrNotFound):
		status, sentinel = http.StatusNotFound, ErrNotFound
	case errors.Is(err, ErrUnauthorized):
		status, sentinel = http.StatusUnauthorized, ErrUnauthorized
	case errors.Is(err, ErrForbidden):
		status, sentinel = http.StatusForbidden, ErrForbidden
	case errors.Is(err, ErrAlreadyExists):
		status, sentinel = http.StatusConflict, ErrAlreadyExists
	case errors.Is(err, ErrBadRequest):
		status, sentinel = http.StatusBadRequest, ErrBadRequest
	case errors.Is(err, ErrTooManyRequests):
		status, sentinel = http.StatusTooManyRequests, ErrTooManyRequests
	case IsUniqueViolation(err):
		return http.StatusConflict, "DatabaseError", "A record with this information already exists"
	case IsForeignKeyViolation(err):
		return http.StatusBadRequest, "DatabaseError", "Foreign key constraint failed"
	default:
		return http.StatusInternalServerError, statusKind(http.StatusInternalServerError), "Internal server error"
	}

	return status, statusKind(status), safeMessage(err, sentinel)
}

// safeMessage, "<sentinel>: <mesaj>" formatındaki error'dan mesaj kısmını çıkarır.
// Mesaj yoksa sentinel'in kendisi döner ("not found").
func safeMessage(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if idx := strings.Index(msg, prefix); idx >= 0 {
		return msg[idx+len(prefix):]
	}
	return sentinel.Error()
}

func statusKind(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BadRequest"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "NotFound"
	case http.StatusConflict:
		return "Conflict"
	case http.StatusRequestEntityTooLarge:
		return "PayloadTooLarge"
	case http.StatusTooManyRequests:
		return "TooManyRequests"
	default:
		if status >= http.StatusInternalServerError {
			return "InternalServerError"
		}
		return http.StatusText(status)
	}
}

// IsUniqueViolation, SQLite'ın UNIQUE (veya PRIMARY KEY) constraint hatası mı?
// modernc.org/sqlite extended result code'una bakılır.
func IsUniqueViolation(err error) bool {
	code, ok := sqliteCode(err)
	return ok && (code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY)
}

// IsForeignKeyViolation, SQLite'ın FOREIGN KEY constraint hatası mı?
func IsForeignKeyViolation(err error) bool {
	code, ok := sqliteCode(err)
	return ok && code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

func sqliteCode(err error) (int, bool) {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return 0, false
	}
	return sqliteErr.Code(), true
}
