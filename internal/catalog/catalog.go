// Package catalog holds the fixed book collection available for podcast
// generation and favoriting, along with its filter/sort/paginate logic.
//
// The catalog is static by design — there is no book CRUD anywhere in the
// product. Keeping it as one package-level slice (instead of a database
// table) means every consumer sees the same twelve entries and the query
// logic is trivially testable.
package catalog

import (
	"sort"
	"strings"
)

// Book is one catalog entry. JSON field names match the public API shape.
type Book struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Year        int     `json:"year"`
	Genre       string  `json:"genre"`
	Description string  `json:"description"`
	Source      string  `json:"source"`
	Popularity  int     `json:"popularity"`
	CoverURL    string  `json:"coverUrl"`
	PDFURL      string  `json:"pdfUrl,omitempty"`
	Summary     string  `json:"summary"`
	Language    string  `json:"language"`
	Pages       int     `json:"pages"`
	Rating      float64 `json:"rating"`
	IsFavorite  bool    `json:"isFavorite"`
}

// Query describes one catalog listing request.
type Query struct {
	Genre     string // case-insensitive exact match; "" or "all" = no filter
	Search    string // case-insensitive substring across title/author/genre/description
	SortBy    string // title|author|year|popularity|rating (default popularity)
	SortOrder string // asc|desc (default desc)
	Page      int    // 1-based
	PerPage   int
}

// Page is a paginated, filtered view of the catalog.
type Page struct {
	Books      []Book `json:"books"`
	Total      int    `json:"total_books"`
	TotalPages int    `json:"total_pages"`
	Current    int    `json:"current_page"`
	PerPage    int    `json:"per_page"`
	HasNext    bool   `json:"has_next"`
	HasPrev    bool   `json:"has_prev"`
}

const defaultPerPage = 12

// All returns a copy of the full catalog. Callers may mutate the copy
// (e.g. to set IsFavorite) without affecting other requests.
func All() []Book {
	out := make([]Book, len(books))
	copy(out, books)
	return out
}

// Get returns the book with the given id, or false if the id is outside
// the catalog.
func Get(id int) (Book, bool) {
	for _, b := range books {
		if b.ID == id {
			return b, true
		}
	}
	return Book{}, false
}

// Exists reports whether id names a catalog book.
func Exists(id int) bool {
	_, ok := Get(id)
	return ok
}

// Genres returns the sorted distinct genres across the catalog.
func Genres() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, b := range books {
		if _, ok := seen[b.Genre]; !ok {
			seen[b.Genre] = struct{}{}
			out = append(out, b.Genre)
		}
	}
	sort.Strings(out)
	return out
}

// List applies the query's filter, sort and pagination, in that order.
func List(q Query) Page {
	filtered := filter(q.Genre, q.Search)
	sortBooks(filtered, q.SortBy, q.SortOrder)

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	total := len(filtered)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Books:      filtered[start:end],
		Total:      total,
		TotalPages: totalPages,
		Current:    page,
		PerPage:    perPage,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

func filter(genre, search string) []Book {
	genre = strings.ToLower(strings.TrimSpace(genre))
	search = strings.ToLower(strings.TrimSpace(search))

	out := make([]Book, 0, len(books))
	for _, b := range books {
		if genre != "" && genre != "all" && strings.ToLower(b.Genre) != genre {
			continue
		}
		if search != "" && !matches(b, search) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matches(b Book, search string) bool {
	return strings.Contains(strings.ToLower(b.Title), search) ||
		strings.Contains(strings.ToLower(b.Author), search) ||
		strings.Contains(strings.ToLower(b.Genre), search) ||
		strings.Contains(strings.ToLower(b.Description), search)
}

func sortBooks(bs []Book, by, order string) {
	desc := order != "asc"

	var less func(a, b Book) bool
	switch by {
	case "title":
		less = func(a, b Book) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	case "author":
		less = func(a, b Book) bool {
			return strings.ToLower(a.Author) < strings.ToLower(b.Author)
		}
	case "year":
		less = func(a, b Book) bool { return a.Year < b.Year }
	case "rating":
		less = func(a, b Book) bool { return a.Rating < b.Rating }
	default: // popularity
		less = func(a, b Book) bool { return a.Popularity < b.Popularity }
	}

	sort.SliceStable(bs, func(i, j int) bool {
		if desc {
			return less(bs[j], bs[i])
		}
		return less(bs[i], bs[j])
	})
}
