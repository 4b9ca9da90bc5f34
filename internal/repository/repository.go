// Package repository declares the storage interfaces the service layer
// programs against. The sqlite subpackage provides the implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"
	"time"

	"github.com/educast/studio/internal/model"
)

// ListOptions is shared pagination input. Offset/limit are pre-clamped
// by the service layer.
type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	// Delete removes the user; podcasts, favorites and chat history
	// cascade at the database level.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]model.User, error)
	Count(ctx context.Context) (int, error)
	CountActiveSince(ctx context.Context, since time.Time) (int, error)
}

// PodcastFilter narrows podcast listings. Empty fields match everything.
type PodcastFilter struct {
	UserID string
	Status string
}

type PodcastRepository interface {
	Create(ctx context.Context, p *model.Podcast) error
	GetByID(ctx context.Context, id string) (*model.Podcast, error)
	// GetByUserAndBook backs the create-idempotency check: at most one
	// podcast per (user, book) pair.
	GetByUserAndBook(ctx context.Context, userID string, bookID int) (*model.Podcast, error)
	List(ctx context.Context, filter PodcastFilter, opts ListOptions) ([]model.Podcast, error)
	Count(ctx context.Context, filter PodcastFilter) (int, error)
	Update(ctx context.Context, p *model.Podcast) error
	Delete(ctx context.Context, id string) error
	IncrementPlayCount(ctx context.Context, id string) error
	IncrementLikeCount(ctx context.Context, id string) (int, error)
}

type FavoriteRepository interface {
	Add(ctx context.Context, fav *model.FavoriteBook) error
	Get(ctx context.Context, userID string, bookID int) (*model.FavoriteBook, error)
	Remove(ctx context.Context, userID string, bookID int) error
	ListByUser(ctx context.Context, userID string) ([]model.FavoriteBook, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type ChatRepository interface {
	Append(ctx context.Context, msg *model.ChatMessage) error
	// History returns messages ascending by time; sessionID == "" means
	// all of the user's sessions.
	History(ctx context.Context, userID, sessionID string, limit int) ([]model.ChatMessage, error)
	// ClearSession reports how many messages it removed.
	ClearSession(ctx context.Context, userID, sessionID string) (int, error)
}
