package domain

import "time"

type Favorite struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	PropertyID string    `json:"property_id"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}
