package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllReturnsCopy(t *testing.T) {
	first := All()
	first[0].Title = "mutated"

	second := All()
	assert.Equal(t, "Pride and Prejudice", second[0].Title,
		"mutating a returned slice must not affect the catalog")
}

func TestGet(t *testing.T) {
	b, ok := Get(4)
	require.True(t, ok)
	assert.Equal(t, "1984", b.Title)

	_, ok = Get(13)
	assert.False(t, ok, "id outside the catalog should not resolve")

	_, ok = Get(0)
	assert.False(t, ok)
}

func TestGenres(t *testing.T) {
	genres := Genres()

	assert.Equal(t, []string{
		"Adventure", "Fantasy", "Fiction", "Gothic Fiction", "Horror",
		"Philosophical Fiction", "Romance", "Science Fiction",
	}, genres)
}

func TestListGenreFilterSortedByYearAsc(t *testing.T) {
	page := List(Query{Genre: "Romance", SortBy: "year", SortOrder: "asc"})

	require.Len(t, page.Books, 2)
	assert.Equal(t, "Pride and Prejudice", page.Books[0].Title) // 1813
	assert.Equal(t, "Jane Eyre", page.Books[1].Title)           // 1847
	for _, b := range page.Books {
		assert.Equal(t, "Romance", b.Genre)
	}
}

func TestListGenreFilterIsCaseInsensitive(t *testing.T) {
	page := List(Query{Genre: "rOmAnCe"})
	assert.Equal(t, 2, page.Total)
}

func TestListSearch(t *testing.T) {
	// "bront" matches both Brontë sisters via the author field.
	page := List(Query{Search: "bront", SortBy: "title", SortOrder: "asc"})

	require.Len(t, page.Books, 2)
	assert.Equal(t, "Jane Eyre", page.Books[0].Title)
	assert.Equal(t, "Wuthering Heights", page.Books[1].Title)
}

func TestListSearchDescription(t *testing.T) {
	page := List(Query{Search: "whaling"})

	require.Len(t, page.Books, 1)
	assert.Equal(t, "Moby Dick", page.Books[0].Title)
}

func TestListDefaultSortIsPopularityDesc(t *testing.T) {
	page := List(Query{})

	require.NotEmpty(t, page.Books)
	assert.Equal(t, "Pride and Prejudice", page.Books[0].Title) // popularity 98
	for i := 1; i < len(page.Books); i++ {
		assert.GreaterOrEqual(t, page.Books[i-1].Popularity, page.Books[i].Popularity)
	}
}

func TestListPagination(t *testing.T) {
	// 12 books, 5 per page → 3 pages: 5, 5, 2.
	page2 := List(Query{Page: 2, PerPage: 5})

	assert.Len(t, page2.Books, 5)
	assert.Equal(t, 12, page2.Total)
	assert.Equal(t, 3, page2.TotalPages)
	assert.True(t, page2.HasPrev)
	assert.True(t, page2.HasNext)

	page3 := List(Query{Page: 3, PerPage: 5})
	assert.Len(t, page3.Books, 2)
	assert.True(t, page3.HasPrev)
	assert.False(t, page3.HasNext)

	// Past the end: empty page, no panic.
	page9 := List(Query{Page: 9, PerPage: 5})
	assert.Empty(t, page9.Books)
	assert.False(t, page9.HasNext)
}

func TestListPaginationDefaults(t *testing.T) {
	page := List(Query{Page: 0, PerPage: 0})

	assert.Equal(t, 1, page.Current)
	assert.Len(t, page.Books, 12, "default per_page should cover the whole catalog")
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrev)
}

func TestLookupFallback(t *testing.T) {
	k := Lookup("Some Unknown Book")
	assert.NotEmpty(t, k.Themes)
	assert.NotEmpty(t, k.Characters)

	known := Lookup("1984")
	assert.Contains(t, known.Themes, "Surveillance")
}
