package models

import "time"

// EnrollmentStatus, kayıt iş akışı durumu: pending → confirmed / canceled.
type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentConfirmed EnrollmentStatus = "confirmed"
	EnrollmentCanceled  EnrollmentStatus = "canceled"
)

// EnrollmentStatuses, tüm kayıt durumları.
var EnrollmentStatuses = []EnrollmentStatus{EnrollmentPending, EnrollmentConfirmed, EnrollmentCanceled}

// Valid, durumun geçerli olup olmadığını döner.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentPending, EnrollmentConfirmed, EnrollmentCanceled:
		return true
	}
	return false
}

// Enrollment, bir kullanıcının bir oturuma kaydı. (UserID, SessionID) benzersizdir.
type Enrollment struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"userId"`
	SessionID int64            `json:"sessionId"`
	Status    EnrollmentStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// EnrollmentDetail, kayıt + kullanıcı özeti + oturum bilgisi.
type EnrollmentDetail struct {
	Enrollment
	User    UserSummary         `json:"user"`
	Session CourseSessionDetail `json:"session"`
}

// CreateEnrollmentRequest, oturum açmış kullanıcının bir oturuma kaydolması.
type CreateEnrollmentRequest struct {
	SessionID int64 `json:"sessionId"`
}

// Validate, CreateEnrollmentRequest geçerlilik kontrolü.
func (r *CreateEnrollmentRequest) Validate() error {
	if r.SessionID <= 0 {
		return invalid("sessionId must be a positive number")
	}
	return nil
}

// UpdateEnrollmentRequest, kayıt durumunu günceller.
type UpdateEnrollmentRequest struct {
	Status EnrollmentStatus `json:"status"`
}

// Validate, UpdateEnrollmentRequest geçerlilik kontrolü.
func (r *UpdateEnrollmentRequest) Validate() error {
	if !r.Status.Valid() {
		return invalid("status must be one of the following values: pending, confirmed, canceled")
	}
	return nil
}

// EnrollmentFilter, kayıt listesi filtreleri.
type EnrollmentFilter struct {
	Page
	Status    EnrollmentStatus
	SessionID int64
	UserID    int64
}

// EnrollmentStats, duruma göre kayıt sayıları.
type EnrollmentStats struct {
	Total    int                      `json:"total"`
	ByStatus map[EnrollmentStatus]int `json:"byStatus"`
}
