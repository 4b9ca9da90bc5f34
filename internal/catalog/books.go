package catalog

// The twelve books. IDs are contiguous starting at 1 and referenced by
// podcasts and favorites, so never renumber an existing entry.
var books = []Book{
	{
		ID:          1,
		Title:       "Pride and Prejudice",
		Author:      "Jane Austen",
		Year:        1813,
		Genre:       "Romance",
		Description: "A romantic novel of manners that depicts the emotional development of protagonist Elizabeth Bennet.",
		Source:      "Standard Ebooks",
		Popularity:  98,
		CoverURL:    "https://covers.openlibrary.org/b/id/8312261-M.jpg",
		PDFURL:      "https://standardebooks.org/ebooks/jane-austen/pride-and-prejudice/downloads/jane-austen_pride-and-prejudice.epub",
		Summary:     "A classic novel exploring themes of love, reputation, and class in early 19th-century England.",
		Language:    "English",
		Pages:       432,
		Rating:      4.7,
	},
	{
		ID:          2,
		Title:       "The Great Gatsby",
		Author:      "F. Scott Fitzgerald",
		Year:        1925,
		Genre:       "Fiction",
		Description: "A story of the mysteriously wealthy Jay Gatsby and his love for the beautiful Daisy Buchanan.",
		Source:      "Public Domain",
		Popularity:  93,
		CoverURL:    "https://covers.openlibrary.org/b/id/8226451-M.jpg",
		Summary:     "An exploration of the American Dream, wealth, and social status during the Jazz Age.",
		Language:    "English",
		Pages:       218,
		Rating:      4.5,
	},
	{
		ID:          3,
		Title:       "Frankenstein",
		Author:      "Mary Shelley",
		Year:        1818,
		Genre:       "Horror",
		Description: "A story about Victor Frankenstein, a young scientist who creates a sapient creature in an unorthodox scientific experiment.",
		Source:      "Standard Ebooks",
		Popularity:  92,
		CoverURL:    "https://covers.openlibrary.org/b/id/8231789-M.jpg",
		PDFURL:      "https://standardebooks.org/ebooks/mary-shelley/frankenstein/downloads/mary-shelley_frankenstein.epub",
		Summary:     "A Gothic novel that examines themes of creation, responsibility, and the consequences of playing God.",
		Language:    "English",
		Pages:       280,
		Rating:      4.6,
	},
	{
		ID:          4,
		Title:       "1984",
		Author:      "George Orwell",
		Year:        1949,
		Genre:       "Science Fiction",
		Description: "A dystopian social science fiction novel about totalitarian control and thought control.",
		Source:      "Public Domain",
		Popularity:  96,
		CoverURL:    "https://covers.openlibrary.org/b/id/7222246-M.jpg",
		Summary:     "A chilling depiction of a totalitarian future society under constant surveillance.",
		Language:    "English",
		Pages:       328,
		Rating:      4.8,
	},
	{
		ID:          5,
		Title:       "To Kill a Mockingbird",
		Author:      "Harper Lee",
		Year:        1960,
		Genre:       "Fiction",
		Description: "A novel about racial inequality and moral growth in the American South.",
		Source:      "Public Domain",
		Popularity:  94,
		CoverURL:    "https://covers.openlibrary.org/b/id/8305837-M.jpg",
		Summary:     "A powerful exploration of racial injustice and moral growth in the American South.",
		Language:    "English",
		Pages:       324,
		Rating:      4.8,
	},
	{
		ID:          6,
		Title:       "Wuthering Heights",
		Author:      "Emily Brontë",
		Year:        1847,
		Genre:       "Gothic Fiction",
		Description: "A story of the intense, almost demonic love between Catherine Earnshaw and Heathcliff.",
		Source:      "Public Domain",
		Popularity:  88,
		CoverURL:    "https://covers.openlibrary.org/b/id/8041460-M.jpg",
		Summary:     "A tale of obsessive love and revenge set on the Yorkshire moors.",
		Language:    "English",
		Pages:       416,
		Rating:      4.4,
	},
	{
		ID:          7,
		Title:       "Jane Eyre",
		Author:      "Charlotte Brontë",
		Year:        1847,
		Genre:       "Romance",
		Description: "A novel about an orphan girl's growth to adulthood and her love for Mr. Rochester.",
		Source:      "Public Domain",
		Popularity:  91,
		CoverURL:    "https://covers.openlibrary.org/b/id/8226512-M.jpg",
		Summary:     "A coming-of-age story exploring love, independence, and morality.",
		Language:    "English",
		Pages:       532,
		Rating:      4.6,
	},
	{
		ID:          8,
		Title:       "Brave New World",
		Author:      "Aldous Huxley",
		Year:        1932,
		Genre:       "Science Fiction",
		Description: "A dystopian novel about a technologically advanced future society.",
		Source:      "Public Domain",
		Popularity:  89,
		CoverURL:    "https://covers.openlibrary.org/b/id/8181921-M.jpg",
		Summary:     "A vision of a future where technology and conditioning control human society.",
		Language:    "English",
		Pages:       268,
		Rating:      4.5,
	},
	{
		ID:          9,
		Title:       "Moby Dick",
		Author:      "Herman Melville",
		Year:        1851,
		Genre:       "Adventure",
		Description: "The voyage of the whaling ship Pequod, commanded by Captain Ahab in search of the white whale.",
		Source:      "Public Domain",
		Popularity:  87,
		CoverURL:    "https://covers.openlibrary.org/b/id/8226458-M.jpg",
		Summary:     "An epic tale of obsession, revenge, and man's struggle against nature.",
		Language:    "English",
		Pages:       635,
		Rating:      4.3,
	},
	{
		ID:          10,
		Title:       "The Catcher in the Rye",
		Author:      "J.D. Salinger",
		Year:        1951,
		Genre:       "Fiction",
		Description: "Story of Holden Caulfield's experiences in New York City after being expelled from prep school.",
		Source:      "Public Domain",
		Popularity:  90,
		CoverURL:    "https://covers.openlibrary.org/b/id/8226486-M.jpg",
		Summary:     "A novel about teenage alienation and loss of innocence.",
		Language:    "English",
		Pages:       277,
		Rating:      4.1,
	},
	{
		ID:          11,
		Title:       "The Hobbit",
		Author:      "J.R.R. Tolkien",
		Year:        1937,
		Genre:       "Fantasy",
		Description: "The adventure of Bilbo Baggins as he travels with a group of dwarves to reclaim their mountain home.",
		Source:      "Public Domain",
		Popularity:  95,
		CoverURL:    "https://covers.openlibrary.org/b/id/8226534-M.jpg",
		Summary:     "A fantasy novel that serves as a prelude to The Lord of the Rings.",
		Language:    "English",
		Pages:       310,
		Rating:      4.8,
	},
	{
		ID:          12,
		Title:       "The Picture of Dorian Gray",
		Author:      "Oscar Wilde",
		Year:        1890,
		Genre:       "Philosophical Fiction",
		Description: "A novel about a handsome young man who sells his soul for eternal youth and beauty.",
		Source:      "Public Domain",
		Popularity:  86,
		CoverURL:    "https://covers.openlibrary.org/b/id/8226548-M.jpg",
		Summary:     "An exploration of aestheticism, morality, and the nature of beauty.",
		Language:    "English",
		Pages:       254,
		Rating:      4.4,
	},
}
