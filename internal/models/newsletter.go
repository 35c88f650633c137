package models

import "time"

type SubscriptionStatus string

const (
	SubscriptionActive       SubscriptionStatus = "subscribed"
	SubscriptionUnsubscribed SubscriptionStatus = "unsubscribed"
)

type Subscription struct {
	ID             int64              `json:"id" db:"id"`
	Email          string             `json:"email" db:"email"`
	Name           string             `json:"name" db:"name"`
	Status         SubscriptionStatus `json:"status" db:"status"`
	Token          string             `json:"-" db:"token"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UnsubscribedAt *time.Time         `json:"unsubscribed_at,omitempty" db:"unsubscribed_at"`
}
