package models

import (
	"regexp"
	"strings"
	"time"
)

// CourseLevel, kursun seviyesi.
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

// CourseLevels, tüm seviyeler.
var CourseLevels = []CourseLevel{LevelBeginner, LevelIntermediate, LevelAdvanced}

// Valid, seviyenin geçerli olup olmadığını döner.
func (l CourseLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Course, katalogdaki bir kurs.
type Course struct {
	ID           int64       `json:"id"`
	Title        string      `json:"title"`
	Slug         string      `json:"slug"`
	Description  *string     `json:"description"`
	Level        CourseLevel `json:"level"`
	Price        float64     `json:"price"`
	Duration     *string     `json:"duration"`
	ThumbnailURL *string     `json:"thumbnailUrl"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// CourseDetail, tek kurs görünümü: oturumları ve sıralı içerikleriyle birlikte.
type CourseDetail struct {
	Course
	Sessions []CourseSession `json:"sessions"`
	Contents []CourseContent `json:"contents"`
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify, başlıktan URL-dostu slug üretir:
// küçük harfe çevir, [a-z0-9] dışındaki her diziyi "-" yap, baş/son "-"leri kırp.
//
//	"Fire Safety Basics!" → "fire-safety-basics"
func Slugify(title string) string {
	s := slugInvalid.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// CreateCourseRequest, kurs oluşturma isteği.
type CreateCourseRequest struct {
	Title        string      `json:"title"`
	Description  *string     `json:"description"`
	Level        CourseLevel `json:"level"`
	Price        float64     `json:"price"`
	Duration     *string     `json:"duration"`
	ThumbnailURL *string     `json:"thumbnailUrl"`
}

// Validate, CreateCourseRequest geçerlilik kontrolü. Seviye boşsa beginner atanır.
func (r *CreateCourseRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if err := validateLength("title", r.Title, 5, 255); err != nil {
		return err
	}
	if Slugify(r.Title) == "" {
		return invalid("title must contain at least one letter or digit")
	}
	if r.Level == "" {
		r.Level = LevelBeginner
	}
	if !r.Level.Valid() {
		return invalid("level must be one of the following values: beginner, intermediate, advanced")
	}
	if r.Price < 0 {
		return invalid("price must not be less than 0")
	}
	trimPtr(r.Description)
	trimPtr(r.Duration)
	return nil
}

// UpdateCourseRequest, kurs güncelleme (PATCH). Nil alanlar değişmez.
type UpdateCourseRequest struct {
	Title        *string      `json:"title"`
	Description  *string      `json:"description"`
	Level        *CourseLevel `json:"level"`
	Price        *float64     `json:"price"`
	Duration     *string      `json:"duration"`
	ThumbnailURL *string      `json:"thumbnailUrl"`
}

// Validate, UpdateCourseRequest geçerlilik kontrolü.
func (r *UpdateCourseRequest) Validate() error {
	trimPtr(r.Title)
	if r.Title != nil {
		if err := validateLength("title", *r.Title, 5, 255); err != nil {
			return err
		}
		if Slugify(*r.Title) == "" {
			return invalid("title must contain at least one letter or digit")
		}
	}
	if r.Level != nil && !r.Level.Valid() {
		return invalid("level must be one of the following values: beginner, intermediate, advanced")
	}
	if r.Price != nil && *r.Price < 0 {
		return invalid("price must not be less than 0")
	}
	trimPtr(r.Description)
	trimPtr(r.Duration)
	return nil
}

// CourseFilter, kurs listesi filtreleri. Search başlık ve açıklamada aranır.
type CourseFilter struct {
	Page
	Level  CourseLevel
	Search string
}

// CourseStats, seviye bazında kurs sayıları ve toplam fiyat.
type CourseStats struct {
	Total        int                 `json:"total"`
	ByLevel      map[CourseLevel]int `json:"byLevel"`
	TotalRevenue float64             `json:"totalRevenue"`
}
