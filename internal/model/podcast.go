package model

import "time"

// Podcast generation lifecycle. Transitions:
//
//	pending → processing → completed
//	                     → failed
//	pending|processing   → cancelled (user-initiated)
//
// A failed, completed or cancelled podcast never changes status again;
// the only recovery path is delete and re-create.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

// Podcast is a generated audio artifact plus its metadata record. It is
// owned by exactly one user and snapshots the catalog book's title and
// author at creation time.
type Podcast struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	BookID     int    `json:"book_id"`
	BookTitle  string `json:"book_title"`
	BookAuthor string `json:"book_author"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	AudioURL string `json:"audio_url,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
	Duration string `json:"duration"` // label, e.g. "5 min"
	Format   string `json:"format"`

	Script   string  `json:"script,omitempty"`
	Language string  `json:"language"`
	Tone     string  `json:"tone"`
	Speed    float64 `json:"speed"`

	Status       string `json:"status"`
	Progress     int    `json:"progress"` // 0-100
	ErrorMessage string `json:"error_message,omitempty"`

	PlayCount     int `json:"play_count"`
	LikeCount     int `json:"like_count"`
	DownloadCount int `json:"download_count"`

	Tags     string `json:"tags"` // comma-separated
	IsPublic bool   `json:"is_public"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Terminal reports whether the podcast has reached a final status.
func (p *Podcast) Terminal() bool {
	switch p.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}
