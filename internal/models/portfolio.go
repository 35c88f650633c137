package models

import "time"

// PortfolioItem is a completed engagement shown as a case study.
type PortfolioItem struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Client      string     `json:"client" db:"client"`
	Industry    string     `json:"industry" db:"industry"`
	Description string     `json:"description" db:"description"`
	Outcome     string     `json:"outcome" db:"outcome"`
	ImageURL    string     `json:"image_url" db:"image_url"`
	DealValue   string     `json:"deal_value" db:"deal_value"`
	Featured    bool       `json:"featured" db:"featured"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
