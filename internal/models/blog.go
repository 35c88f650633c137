package models

import "time"

// BlogPost content is markdown; ContentHTML is filled only when a single post
// is rendered for reading.
type BlogPost struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Slug        string     `json:"slug" db:"slug"`
	Excerpt     string     `json:"excerpt" db:"excerpt"`
	Content     string     `json:"content" db:"content"`
	ContentHTML string     `json:"content_html,omitempty" db:"-"`
	Author      string     `json:"author" db:"author"`
	Tags        StringList `json:"tags" db:"tags"`
	Published   bool       `json:"published" db:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty" db:"published_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type BlogFilter struct {
	PublishedOnly bool
	Tag           string
}
