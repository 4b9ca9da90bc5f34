package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/catalog"
	"github.com/educast/studio/internal/model"
	"github.com/educast/studio/internal/repository"
)

// FavoriteService manages a user's saved books.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	logger    *slog.Logger
}

// NewFavoriteService wires the favorites business logic.
func NewFavoriteService(favorites repository.FavoriteRepository, logger *slog.Logger) *FavoriteService {
	return &FavoriteService{favorites: favorites, logger: logger}
}

// Add saves a catalog book to the user's favorites. Adding the same
// book twice is a no-op; added reports whether anything changed.
func (s *FavoriteService) Add(ctx context.Context, user *model.User, bookID int, notes string, rating int) (added bool, err error) {
	if !catalog.Exists(bookID) {
		return false, apperror.NotFound("book", strconv.Itoa(bookID))
	}
	// Rating 0 means unrated; anything else must be 1-5.
	if rating < 0 || rating > 5 {
		return false, apperror.ValidationFailed("rating", "rating must be between 1 and 5, or omitted")
	}

	err = s.favorites.Add(ctx, &model.FavoriteBook{
		UserID: user.ID,
		BookID: bookID,
		Notes:  notes,
		Rating: rating,
	})
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Remove drops a book from the user's favorites.
func (s *FavoriteService) Remove(ctx context.Context, user *model.User, bookID int) error {
	if !catalog.Exists(bookID) {
		return apperror.NotFound("book", strconv.Itoa(bookID))
	}
	return s.favorites.Remove(ctx, user.ID, bookID)
}

// List returns the user's favorite books as full catalog entries with
// IsFavorite set, most recently added first.
func (s *FavoriteService) List(ctx context.Context, user *model.User) ([]catalog.Book, error) {
	favs, err := s.favorites.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	books := make([]catalog.Book, 0, len(favs))
	for _, fav := range favs {
		book, ok := catalog.Get(fav.BookID)
		if !ok {
			// Row predates a catalog change; skip rather than 500.
			s.logger.Warn("favorite references unknown book",
				slog.String("userID", user.ID),
				slog.Int("bookID", fav.BookID))
			continue
		}
		book.IsFavorite = true
		books = append(books, book)
	}
	return books, nil
}
