package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/educast/studio/internal/catalog"
)

// ScriptWriter produces podcast scripts in a two-voice HOST/GUEST
// format. It holds its own rand source so tests can seed it. One
// instance is shared between the HTTP layer and the pool workers, and
// rand.Rand is not safe for concurrent use, so every draw goes
// through the mutex-guarded intn.
type ScriptWriter struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewScriptWriter returns a writer seeded from the given source.
func NewScriptWriter(seed int64) *ScriptWriter {
	return &ScriptWriter{rng: rand.New(rand.NewSource(seed))}
}

func (w *ScriptWriter) intn(n int) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rng.Intn(n)
}

func (w *ScriptWriter) pick(options []string) string {
	return options[w.intn(len(options))]
}

// Write builds the full script for a book. Each section is drawn at
// random from a template set, so repeated generations read differently.
func (w *ScriptWriter) Write(book catalog.Book, durationMinutes int) string {
	know := catalog.Lookup(book.Title)
	theme := know.Themes[w.intn(len(know.Themes))]
	theme2 := know.Themes[w.intn(len(know.Themes))]
	character := know.Characters[w.intn(len(know.Characters))]

	intro := w.pick([]string{
		fmt.Sprintf("Welcome to EduCast Studio's Literary Corner! Today, we're diving into '%s' by %s.", book.Title, book.Author),
		fmt.Sprintf("Greetings, literature lovers! In this %d-minute podcast, we explore the timeless classic '%s'.", durationMinutes, book.Title),
		fmt.Sprintf("Hello and welcome! Join us as we unpack the themes and significance of '%s' in this educational podcast.", book.Title),
		fmt.Sprintf("Welcome back to EduCast! Today's episode focuses on the literary masterpiece '%s'.", book.Title),
	})

	summary := w.pick([]string{
		fmt.Sprintf("Published in %d, this %s work tells a compelling story that continues to resonate with readers today.", book.Year, book.Genre),
		fmt.Sprintf("This %s novel from %d explores themes that remain relevant in our modern world.", book.Genre, book.Year),
		fmt.Sprintf("Set against the backdrop of its historical context, '%s' offers insights into human nature and society.", book.Title),
		fmt.Sprintf("As a significant work in %s literature, this book has influenced countless writers and thinkers.", book.Genre),
	})

	themes := w.pick([]string{
		fmt.Sprintf("One of the central themes is the exploration of %s, which the author examines with remarkable depth.", theme),
		fmt.Sprintf("The novel grapples with questions of %s, inviting readers to reflect on their own experiences.", theme),
		fmt.Sprintf("Through its narrative, the book addresses important issues of %s, making it particularly thought-provoking.", theme),
		fmt.Sprintf("The author skillfully weaves together themes of %s, creating a rich tapestry of meaning.", theme),
	})

	characters := w.pick([]string{
		fmt.Sprintf("The characters, particularly %s, are crafted with such complexity that they feel like real people.", character),
		fmt.Sprintf("Readers often find themselves deeply invested in characters like %s, whose struggles mirror our own.", character),
		fmt.Sprintf("The character development in '%s' is exceptional, with each personality serving to illuminate different aspects of the human condition.", book.Title),
		fmt.Sprintf("From %s to the supporting cast, every character contributes meaningfully to the story's impact.", character),
	})

	significance := w.pick([]string{
		fmt.Sprintf("What makes '%s' particularly significant is its enduring relevance. The issues it raises continue to spark discussion and debate.", book.Title),
		fmt.Sprintf("This book's lasting impact on literature cannot be overstated. It has shaped how we think about %s writing.", book.Genre),
		fmt.Sprintf("Beyond its literary merits, '%s' offers valuable insights into the historical and cultural context of its time.", book.Title),
		"The novel's innovative approach to storytelling has inspired generations of writers and continues to captivate new readers.",
	})

	educational := w.pick([]string{
		fmt.Sprintf("For students and educators, '%s' provides excellent material for exploring literary analysis and critical thinking skills.", book.Title),
		fmt.Sprintf("The book serves as a powerful tool for discussions about %s in educational settings.", theme2),
		fmt.Sprintf("Reading '%s' can enhance understanding of literary techniques like symbolism, characterization, and narrative structure.", book.Title),
		"This work offers rich opportunities for interdisciplinary study, connecting literature with history, philosophy, and social sciences.",
	})

	recommendation := w.pick([]string{
		"If you enjoyed this podcast, I encourage you to read the complete work. The full text offers even deeper insights and appreciation.",
		fmt.Sprintf("For those interested in learning more, consider exploring critical analyses or joining a book club discussion about '%s'.", book.Title),
		"After listening to this overview, you might want to create your own podcast episode or written analysis of the book's themes.",
		fmt.Sprintf("I recommend pairing your reading of '%s' with historical context to better understand the author's perspective.", book.Title),
	})

	conclusion := w.pick([]string{
		"Thank you for joining us on this literary exploration. Remember, every great book offers new discoveries with each reading.",
		fmt.Sprintf("That concludes our discussion of '%s'. Keep exploring, keep reading, and keep learning with EduCast Studio!", book.Title),
		fmt.Sprintf("We hope this podcast has inspired you to discover or revisit '%s'. Until next time, happy reading!", book.Title),
		"As we wrap up, remember that literature helps us understand ourselves and our world better. Thank you for listening!",
	})

	sections := []string{
		"HOST: " + intro,
		"HOST: " + summary,
		"GUEST: " + themes,
		"HOST: " + characters,
		"GUEST: " + significance,
		"HOST: " + educational,
		"GUEST: " + recommendation,
		"HOST: " + conclusion,
	}
	return strings.Join(sections, "\n\n")
}

// Tags derives the comma-separated tag list stored with a podcast.
func Tags(book catalog.Book) string {
	return strings.Join([]string{
		strings.ToLower(book.Genre),
		"literature",
		"education",
		"audiobook",
	}, ",")
}
