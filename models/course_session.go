package models

import (
	"strings"
	"time"
)

// SessionStatus, bir kurs oturumunun yaşam döngüsü durumu.
// planned → ongoing → completed; her durumdan canceled'a geçilebilir.
type SessionStatus string

const (
	SessionPlanned   SessionStatus = "planned"
	SessionOngoing   SessionStatus = "ongoing"
	SessionCompleted SessionStatus = "completed"
	SessionCanceled  SessionStatus = "canceled"
)

// SessionStatuses, tüm oturum durumları.
var SessionStatuses = []SessionStatus{SessionPlanned, SessionOngoing, SessionCompleted, SessionCanceled}

// Valid, durumun geçerli olup olmadığını döner.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionPlanned, SessionOngoing, SessionCompleted, SessionCanceled:
		return true
	}
	return false
}

// CourseSession, bir kursun tarihli, eğitmenli oturumu.
type CourseSession struct {
	ID        int64         `json:"id"`
	CourseID  int64         `json:"courseId"`
	TrainerID int64         `json:"trainerId"`
	StartDate time.Time     `json:"startDate"`
	EndDate   time.Time     `json:"endDate"`
	Location  *string       `json:"location"`
	Status    SessionStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// CourseSessionDetail, oturum + kurs başlığı + eğitmen özeti.
type CourseSessionDetail struct {
	CourseSession
	CourseTitle string      `json:"courseTitle"`
	Trainer     UserSummary `json:"trainer"`
}

// dateLayouts, tarih alanlarında kabul edilen formatlar (ISO 8601 tam veya sadece tarih).
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate, ISO 8601 tarih string'ini UTC time.Time'a çevirir.
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, invalid("%s must be a valid ISO 8601 date string", field)
}

// CreateSessionRequest, oturum oluşturma isteği.
type CreateSessionRequest struct {
	CourseID  int64   `json:"courseId"`
	TrainerID int64   `json:"trainerId"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Location  *string `json:"location"`

	start time.Time
	end   time.Time
}

// Validate, CreateSessionRequest geçerlilik kontrolü ve tarih parse'ı.
// Başlangıç < bitiş kuralı da burada kontrol edilir.
func (r *CreateSessionRequest) Validate() error {
	if r.CourseID <= 0 {
		return invalid("courseId must be a positive number")
	}
	if r.TrainerID <= 0 {
		return invalid("trainerId must be a positive number")
	}

	var err error
	if r.start, err = ParseDate("startDate", r.StartDate); err != nil {
		return err
	}
	if r.end, err = ParseDate("endDate", r.EndDate); err != nil {
		return err
	}
	if !r.start.Before(r.end) {
		return invalid("Start date must be before end date")
	}
	trimPtr(r.Location)
	return nil
}

// Start, Validate sonrası parse edilmiş başlangıç tarihi.
func (r *CreateSessionRequest) Start() time.Time { return r.start }

// End, Validate sonrası parse edilmiş bitiş tarihi.
func (r *CreateSessionRequest) End() time.Time { return r.end }

// UpdateSessionRequest, oturum güncelleme (PATCH).
// Tarih sıralaması, mevcut değerlerle birleştirildikten sonra service'te kontrol edilir.
type UpdateSessionRequest struct {
	TrainerID *int64         `json:"trainerId"`
	StartDate *string        `json:"startDate"`
	EndDate   *string        `json:"endDate"`
	Location  *string        `json:"location"`
	Status    *SessionStatus `json:"status"`

	start *time.Time
	end   *time.Time
}

// Validate, UpdateSessionRequest geçerlilik kontrolü.
func (r *UpdateSessionRequest) Validate() error {
	if r.TrainerID != nil && *r.TrainerID <= 0 {
		return invalid("trainerId must be a positive number")
	}
	if r.StartDate != nil {
		t, err := ParseDate("startDate", *r.StartDate)
		if err != nil {
			return err
		}
		r.start = &t
	}
	if r.EndDate != nil {
		t, err := ParseDate("endDate", *r.EndDate)
		if err != nil {
			return err
		}
		r.end = &t
	}
	if r.Status != nil && !r.Status.Valid() {
		return invalid("status must be one of the following values: planned, ongoing, completed, canceled")
	}
	trimPtr(r.Location)
	return nil
}

// Start, Validate sonrası parse edilmiş başlangıç (verilmediyse nil).
func (r *UpdateSessionRequest) Start() *time.Time { return r.start }

// End, Validate sonrası parse edilmiş bitiş (verilmediyse nil).
func (r *UpdateSessionRequest) End() *time.Time { return r.end }

// UpdateSessionStatusRequest, sadece durum değişikliği.
type UpdateSessionStatusRequest struct {
	Status SessionStatus `json:"status"`
}

// Validate, UpdateSessionStatusRequest geçerlilik kontrolü.
func (r *UpdateSessionStatusRequest) Validate() error {
	if !r.Status.Valid() {
		return invalid("status must be one of the following values: planned, ongoing, completed, canceled")
	}
	return nil
}

// SessionFilter, oturum listesi filtreleri.
type SessionFilter struct {
	Page
	Status    SessionStatus
	CourseID  int64
	TrainerID int64
}

// SessionStats, duruma göre oturum sayıları.
type SessionStats struct {
	Total    int                   `json:"total"`
	ByStatus map[SessionStatus]int `json:"byStatus"`
}
