package model

import "time"

// FavoriteBook joins a user to a catalog book id. The (UserID, BookID)
// pair is unique, enforced by the database.
type FavoriteBook struct {
	ID       string     `json:"id"`
	UserID   string     `json:"user_id"`
	BookID   int        `json:"book_id"`
	Notes    string     `json:"notes,omitempty"`
	Rating   int        `json:"rating,omitempty"` // 1-5, 0 = unrated
	LastRead *time.Time `json:"last_read,omitempty"`
	AddedAt  time.Time  `json:"added_at"`
}
