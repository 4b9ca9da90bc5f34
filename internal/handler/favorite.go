package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/auth"
	"github.com/educast/studio/internal/service"
)

// FavoriteHandler exposes the favorites endpoints.
type FavoriteHandler struct {
	favorites *service.FavoriteService
}

// NewFavoriteHandler creates a FavoriteHandler.
func NewFavoriteHandler(favorites *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// HandleList returns the user's favorite books.
//
// GET /api/favorites/books
func (h *FavoriteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	books, err := h.favorites.List(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Favorites retrieved successfully", map[string]any{
		"books": books,
		"count": len(books),
	})
}

// HandleAdd saves a book to favorites. Re-adding is a no-op.
//
// POST /api/favorites/books/{id} {"notes"?, "rating"?}
func (h *FavoriteHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	bookID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperror.ValidationFailed("id", "book id must be a number"))
		return
	}

	// The body is optional; notes and rating are extras.
	var req struct {
		Notes  string `json:"notes"`
		Rating int    `json:"rating"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	added, err := h.favorites.Add(r.Context(), user, bookID, req.Notes, req.Rating)
	if err != nil {
		writeError(w, err)
		return
	}

	if !added {
		writeSuccess(w, http.StatusOK, "Book is already in favorites", nil)
		return
	}
	writeSuccess(w, http.StatusCreated, "Book added to favorites", nil)
}

// HandleRemove drops a book from favorites.
//
// DELETE /api/favorites/books/{id}
func (h *FavoriteHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	bookID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperror.ValidationFailed("id", "book id must be a number"))
		return
	}

	if err := h.favorites.Remove(r.Context(), user, bookID); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Book removed from favorites", nil)
}
