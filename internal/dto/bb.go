package dto

import "time"

type BbCreateRequest struct {
	RubricID uint    `json:"rubricId"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Price    float64 `json:"price"`
	Contacts string  `json:"contacts"`
}

type BbUpdateRequest struct {
	RubricID uint    `json:"rubricId"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Price    float64 `json:"price"`
	Contacts string  `json:"contacts"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// BbSummary is the read-only feed projection. Field names are part of the
// external contract, hence the snake_case.
type BbSummary struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

type BbDetail struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Price     float64   `json:"price"`
	Contacts  string    `json:"contacts"`
	Image     string    `json:"image,omitempty"`
	Rubric    string    `json:"rubric"`
	RubricID  uint      `json:"rubric_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`

	AdditionalImages []ImageResponse `json:"additional_images"`
}

type ImageResponse struct {
	ID    uint   `json:"id"`
	BbID  uint   `json:"bbId"`
	Image string `json:"image"`
}
