package models

import "time"

type TeamMember struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Position    string    `json:"position" db:"position"`
	Bio         string    `json:"bio" db:"bio"`
	PhotoURL    string    `json:"photo_url" db:"photo_url"`
	Email       string    `json:"email" db:"email"`
	LinkedInURL string    `json:"linkedin_url" db:"linkedin_url"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
