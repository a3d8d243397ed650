package domain

import "time"

// Post is immutable once created.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Caption   string    `json:"caption"`
	MediaURL  string    `json:"mediaUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
