package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/model"
	"github.com/educast/studio/internal/repository"
)

var _ repository.FavoriteRepository = (*FavoriteRepo)(nil)

// FavoriteRepo implements repository.FavoriteRepository on SQLite.
type FavoriteRepo struct {
	db *DB
}

const favoriteColumns = `id, user_id, book_id, notes, rating, last_read, added_at`

// Add records a favorite. The UNIQUE(user_id, book_id) constraint
// turns a repeat into apperror.ErrConflict.
func (r *FavoriteRepo) Add(ctx context.Context, fav *model.FavoriteBook) error {
	fav.ID = xid.New().String()
	fav.AddedAt = time.Now().UTC()

	_, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO favorite_books (`+favoriteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fav.ID, fav.UserID, fav.BookID, fav.Notes, fav.Rating, fav.LastRead, fav.AddedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("book is already in favorites")
		}
		return fmt.Errorf("sqlite: adding favorite (book=%d): %w", fav.BookID, err)
	}
	return nil
}

// Get returns the favorite entry for a user and book, if any.
func (r *FavoriteRepo) Get(ctx context.Context, userID string, bookID int) (*model.FavoriteBook, error) {
	var fav model.FavoriteBook
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorite_books WHERE user_id = ? AND book_id = ?`,
		userID, bookID,
	).Scan(&fav.ID, &fav.UserID, &fav.BookID, &fav.Notes, &fav.Rating, &fav.LastRead, &fav.AddedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("favorite", fmt.Sprintf("book %d", bookID))
		}
		return nil, fmt.Errorf("sqlite: getting favorite: %w", err)
	}
	return &fav, nil
}

// Remove deletes the favorite for a user and book.
func (r *FavoriteRepo) Remove(ctx context.Context, userID string, bookID int) error {
	res, err := r.db.conn.ExecContext(ctx,
		`DELETE FROM favorite_books WHERE user_id = ? AND book_id = ?`, userID, bookID)
	if err != nil {
		return fmt.Errorf("sqlite: removing favorite (book=%d): %w", bookID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: removing favorite (book=%d): %w", bookID, err)
	}
	if affected == 0 {
		return apperror.NotFound("favorite", fmt.Sprintf("book %d", bookID))
	}
	return nil
}

// ListByUser returns a user's favorites, most recently added first.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID string) ([]model.FavoriteBook, error) {
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorite_books
		 WHERE user_id = ? ORDER BY added_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing favorites: %w", err)
	}
	defer rows.Close()

	favs := []model.FavoriteBook{}
	for rows.Next() {
		var fav model.FavoriteBook
		err := rows.Scan(&fav.ID, &fav.UserID, &fav.BookID, &fav.Notes, &fav.Rating, &fav.LastRead, &fav.AddedAt)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning favorite row: %w", err)
		}
		favs = append(favs, fav)
	}
	return favs, rows.Err()
}

// CountByUser returns how many books a user has favorited.
func (r *FavoriteRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorite_books WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting favorites: %w", err)
	}
	return n, nil
}
