package models

import "time"

// Service is an advisory offering shown on the services pages.
type Service struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Slug        string    `json:"slug" db:"slug"`
	Summary     string    `json:"summary" db:"summary"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon" db:"icon"`
	Category    string    `json:"category" db:"category"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
