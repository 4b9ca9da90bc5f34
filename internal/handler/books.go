package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/educast/studio/internal/apperror"
	"github.com/educast/studio/internal/auth"
	"github.com/educast/studio/internal/catalog"
	"github.com/educast/studio/internal/service"
)

// BookHandler serves the static catalog. The favorites service is
// only used to mark isFavorite on results.
type BookHandler struct {
	favorites *service.FavoriteService
}

// NewBookHandler creates a BookHandler.
func NewBookHandler(favorites *service.FavoriteService) *BookHandler {
	return &BookHandler{favorites: favorites}
}

// HandleList filters, sorts and paginates the catalog.
//
// GET /api/books?genre=&search=&sort_by=&sort_order=&page=&per_page=
func (h *BookHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := catalog.Query{
		Genre:     q.Get("genre"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		query.Page = page
	}
	if perPage, err := strconv.Atoi(q.Get("per_page")); err == nil {
		query.PerPage = perPage
	}

	result := catalog.List(query)
	h.markFavorites(r, result.Books)

	writeSuccess(w, http.StatusOK, "Books retrieved successfully", map[string]any{
		"books":        result.Books,
		"total_books":  result.Total,
		"total_pages":  result.TotalPages,
		"current_page": result.Current,
		"per_page":     result.PerPage,
		"has_next":     result.HasNext,
		"has_prev":     result.HasPrev,
		"genres":       catalog.Genres(),
		"filters": map[string]string{
			"genre":      query.Genre,
			"search":     query.Search,
			"sort_by":    query.SortBy,
			"sort_order": query.SortOrder,
		},
	})
}

// HandleGet returns one book by id.
//
// GET /api/books/{id}
func (h *BookHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, apperror.ValidationFailed("id", "book id must be a number"))
		return
	}

	book, ok := catalog.Get(id)
	if !ok {
		writeError(w, apperror.NotFound("book", strconv.Itoa(id)))
		return
	}

	books := []catalog.Book{book}
	h.markFavorites(r, books)
	writeSuccess(w, http.StatusOK, "Book retrieved successfully", map[string]any{"book": books[0]})
}

// HandleGenres returns the sorted distinct genre list.
//
// GET /api/books/genres
func (h *BookHandler) HandleGenres(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "Genres retrieved successfully", map[string]any{
		"genres": catalog.Genres(),
	})
}

// markFavorites sets IsFavorite on catalog entries for the
// authenticated user, if any. Catalog endpoints also work without a
// token; then nothing is marked.
func (h *BookHandler) markFavorites(r *http.Request, books []catalog.Book) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		return
	}
	favs, err := h.favorites.List(r.Context(), user)
	if err != nil {
		return
	}
	favored := make(map[int]bool, len(favs))
	for _, b := range favs {
		favored[b.ID] = true
	}
	for i := range books {
		books[i].IsFavorite = favored[books[i].ID]
	}
}
