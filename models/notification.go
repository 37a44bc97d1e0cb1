package models

import (
	"strings"
	"time"
)

// Notification, bir kullanıcıya gösterilen uygulama içi bildirim.
type Notification struct {
	ID      int64     `json:"id"`
	UserID  int64     `json:"userId"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	IsRead  bool      `json:"isRead"`
	SentAt  time.Time `json:"sentAt"`
}

// CreateNotificationRequest, admin'in manuel bildirim göndermesi.
type CreateNotificationRequest struct {
	UserID  int64  `json:"userId"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Validate, CreateNotificationRequest geçerlilik kontrolü.
func (r *CreateNotificationRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Message = strings.TrimSpace(r.Message)
	if r.UserID <= 0 {
		return invalid("userId must be a positive number")
	}
	if err := validateLength("title", r.Title, 1, 255); err != nil {
		return err
	}
	return validateLength("message", r.Message, 1, 2000)
}

// NotificationFilter, bildirim listesi filtreleri.
type NotificationFilter struct {
	Page
	UserID     int64
	UnreadOnly bool
}
