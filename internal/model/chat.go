package model

import "time"

// ChatMessage is one entry in a user's conversation log. IsUser
// distinguishes user-authored messages from assistant replies; SessionID
// groups the messages of one conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	IsUser    bool      `json:"is_user"`
	SessionID string    `json:"session_id"`
	IsHelpful *bool     `json:"is_helpful,omitempty"`
	Feedback  string    `json:"feedback,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
