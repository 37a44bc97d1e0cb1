package models

import "time"

// LearnerProgress, bir kullanıcının bir içerik üzerindeki ilerlemesi.
// CompletedAt sadece Completed true iken doludur.
type LearnerProgress struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	ContentID   int64      `json:"contentId"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateProgressRequest, ilerleme kaydı oluşturma.
// UserID boşsa (0) oturum açmış kullanıcı kullanılır; başkası adına kayıt
// oluşturmak sadece admin/trainer'a açıktır (handler kontrol eder).
type CreateProgressRequest struct {
	UserID    int64 `json:"userId"`
	ContentID int64 `json:"contentId"`
	Completed bool  `json:"completed"`
}

// Validate, CreateProgressRequest geçerlilik kontrolü.
func (r *CreateProgressRequest) Validate() error {
	if r.UserID < 0 {
		return invalid("userId must be a positive number")
	}
	if r.ContentID <= 0 {
		return invalid("contentId must be a positive number")
	}
	return nil
}

// UpdateProgressRequest, tamamlanma durumunu değiştirir.
type UpdateProgressRequest struct {
	Completed *bool `json:"completed"`
}

// Validate, UpdateProgressRequest geçerlilik kontrolü.
func (r *UpdateProgressRequest) Validate() error {
	if r.Completed == nil {
		return invalid("completed is required")
	}
	return nil
}

// ProgressFilter, ilerleme listesi filtreleri. Completed nil ise filtrelenmez.
type ProgressFilter struct {
	Page
	UserID    int64
	ContentID int64
	Completed *bool
}

// ContentProgress, kurs ilerleme raporunda tek bir içeriğin durumu.
type ContentProgress struct {
	ContentID   int64       `json:"contentId"`
	Title       string      `json:"title"`
	Type        ContentType `json:"type"`
	OrderIndex  int         `json:"orderIndex"`
	Completed   bool        `json:"completed"`
	CompletedAt *time.Time  `json:"completedAt"`
}

// CourseProgress, bir kullanıcının bir kurstaki toplam ilerlemesi.
type CourseProgress struct {
	CourseID          int64             `json:"courseId"`
	TotalContents     int               `json:"totalContents"`
	CompletedContents int               `json:"completedContents"`
	Percentage        int               `json:"percentage"`
	Contents          []ContentProgress `json:"contents"`
}

// ProgressStats, platform geneli ilerleme istatistiği.
type ProgressStats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	CompletionRate int `json:"completionRate"`
}

// Percent, a/b oranını en yakın tam sayı yüzdeye yuvarlar; b sıfırsa 0.
func Percent(a, b int) int {
	if b <= 0 {
		return 0
	}
	return int((float64(a)*100)/float64(b) + 0.5)
}
