package models

import (
	"strings"
	"time"
)

// ContentType, kurs içeriğinin türü.
type ContentType string

const (
	ContentPDF   ContentType = "pdf"
	ContentVideo ContentType = "video"
	ContentQuiz  ContentType = "quiz"
	ContentURL   ContentType = "url"
	ContentText  ContentType = "text"
)

// ContentTypes, tüm içerik türleri.
var ContentTypes = []ContentType{ContentPDF, ContentVideo, ContentQuiz, ContentURL, ContentText}

// Valid, türün geçerli olup olmadığını döner.
func (t ContentType) Valid() bool {
	switch t {
	case ContentPDF, ContentVideo, ContentQuiz, ContentURL, ContentText:
		return true
	}
	return false
}

// CourseContent, bir kursun sıralı içerik öğesi.
// (CourseID, OrderIndex) çifti benzersizdir.
type CourseContent struct {
	ID         int64       `json:"id"`
	CourseID   int64       `json:"courseId"`
	Type       ContentType `json:"type"`
	Title      string      `json:"title"`
	ContentURL *string     `json:"contentUrl"`
	OrderIndex int         `json:"orderIndex"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// CourseContentWithCourse, içerik + ait olduğu kursun başlığı (bildirim metinleri için).
type CourseContentWithCourse struct {
	CourseContent
	CourseTitle string `json:"courseTitle"`
}

// CreateContentRequest, içerik oluşturma isteği.
type CreateContentRequest struct {
	CourseID   int64       `json:"courseId"`
	Type       ContentType `json:"type"`
	Title      string      `json:"title"`
	ContentURL *string     `json:"contentUrl"`
	OrderIndex int         `json:"orderIndex"`
}

// Validate, CreateContentRequest geçerlilik kontrolü.
func (r *CreateContentRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.CourseID <= 0 {
		return invalid("courseId must be a positive number")
	}
	if !r.Type.Valid() {
		return invalid("type must be one of the following values: pdf, video, quiz, url, text")
	}
	if err := validateLength("title", r.Title, 1, 255); err != nil {
		return err
	}
	if r.OrderIndex <= 0 {
		return invalid("orderIndex must be a positive number")
	}
	trimPtr(r.ContentURL)
	return nil
}

// UpdateContentRequest, içerik güncelleme (PATCH).
type UpdateContentRequest struct {
	Type       *ContentType `json:"type"`
	Title      *string      `json:"title"`
	ContentURL *string      `json:"contentUrl"`
	OrderIndex *int         `json:"orderIndex"`
}

// Validate, UpdateContentRequest geçerlilik kontrolü.
func (r *UpdateContentRequest) Validate() error {
	trimPtr(r.Title)
	trimPtr(r.ContentURL)
	if r.Type != nil && !r.Type.Valid() {
		return invalid("type must be one of the following values: pdf, video, quiz, url, text")
	}
	if r.Title != nil {
		if err := validateLength("title", *r.Title, 1, 255); err != nil {
			return err
		}
	}
	if r.OrderIndex != nil && *r.OrderIndex <= 0 {
		return invalid("orderIndex must be a positive number")
	}
	return nil
}

// ReorderItem, yeniden sıralamada tek bir içeriğin yeni pozisyonu.
type ReorderItem struct {
	ID         int64 `json:"id"`
	OrderIndex int   `json:"orderIndex"`
}

// ReorderContentsRequest, bir kursun içeriklerini topluca yeniden sıralar.
type ReorderContentsRequest struct {
	Contents []ReorderItem `json:"contents"`
}

// Validate, ReorderContentsRequest geçerlilik kontrolü.
// Aynı ID veya aynı orderIndex iki kez verilemez.
func (r *ReorderContentsRequest) Validate() error {
	if len(r.Contents) == 0 {
		return invalid("contents must not be empty")
	}
	ids := make(map[int64]bool, len(r.Contents))
	indexes := make(map[int]bool, len(r.Contents))
	for _, item := range r.Contents {
		if item.ID <= 0 || item.OrderIndex <= 0 {
			return invalid("each item needs a positive id and orderIndex")
		}
		if ids[item.ID] {
			return invalid("duplicate content id %d", item.ID)
		}
		if indexes[item.OrderIndex] {
			return invalid("duplicate orderIndex %d", item.OrderIndex)
		}
		ids[item.ID] = true
		indexes[item.OrderIndex] = true
	}
	return nil
}

// ContentFilter, içerik listesi filtreleri.
type ContentFilter struct {
	Page
	CourseID int64
	Type     ContentType
}

// ContentStats, türe göre içerik sayıları.
type ContentStats struct {
	Total  int                 `json:"total"`
	ByType map[ContentType]int `json:"byType"`
}
