// Package chat implements the scripted study assistant. Replies come
// from keyword matching against the catalog plus canned template
// sets; there is no model behind it.
package chat

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/educast/studio/internal/catalog"
)

// bookKeywords maps message fragments to catalog titles. Longer
// fragments are not needed; the first hit wins in iteration order, so
// the slice keeps matching deterministic.
var bookKeywords = []struct {
	keyword string
	title   string
}{
	{"pride", "Pride and Prejudice"},
	{"prejudice", "Pride and Prejudice"},
	{"gatsby", "The Great Gatsby"},
	{"frankenstein", "Frankenstein"},
	{"1984", "1984"},
	{"mockingbird", "To Kill a Mockingbird"},
	{"wuthering", "Wuthering Heights"},
	{"jane eyre", "Jane Eyre"},
	{"brave new world", "Brave New World"},
	{"moby", "Moby Dick"},
	{"catcher", "The Catcher in the Rye"},
	{"hobbit", "The Hobbit"},
	{"dorian gray", "The Picture of Dorian Gray"},
}

var podcastKeywords = []string{"podcast", "audio", "generate", "create", "record", "listen"}

// Responder produces assistant replies. It owns a rand source so
// tests can pin the choice of template. One responder serves every
// request, and rand.Rand is not safe for concurrent use, so draws go
// through the mutex-guarded intn.
type Responder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewResponder returns a responder seeded from the given source.
func NewResponder(seed int64) *Responder {
	return &Responder{rng: rand.New(rand.NewSource(seed))}
}

func (r *Responder) intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

func (r *Responder) pick(options []string) string {
	return options[r.intn(len(options))]
}

// Reply builds the assistant's answer to one user message.
func (r *Responder) Reply(message string) string {
	lower := strings.ToLower(message)

	for _, bk := range bookKeywords {
		if strings.Contains(lower, bk.keyword) {
			return r.bookReply(bk.title)
		}
	}

	for _, kw := range podcastKeywords {
		if strings.Contains(lower, kw) {
			return r.pick([]string{
				"I can help you generate podcasts from books in our collection! Just select a book and choose 'Generate Podcast'.",
				"To create a podcast, go to the Collections page, select a book, and click the Generate Podcast button. I'll help you create a 5-minute educational episode!",
				"Podcast generation is one of my specialties! Choose any book from our collection, and I'll help you create an engaging audio episode about it.",
				"I'd love to help you create a podcast! Browse our book collection, pick one that interests you, and use the podcast generation feature.",
			})
		}
	}

	return r.pick([]string{
		fmt.Sprintf("I understand you're asking about: '%s'. As your EduCast assistant, I can help you with:\n"+
			"• Book recommendations and summaries\n"+
			"• Podcast generation from books\n"+
			"• Literary analysis and discussions\n"+
			"• Finding books by genre or author\n\n"+
			"What would you like to explore today?", message),
		fmt.Sprintf("Interesting question about: '%s'. Have you checked our book collections? "+
			"I can help you find related titles or generate a podcast episode about this topic.", message),
		fmt.Sprintf("Regarding '%s', this relates to many classic works in our collection. "+
			"Would you like me to suggest some books or help you create educational content about it?", message),
		fmt.Sprintf("Great question! '%s' is an excellent topic for discussion. "+
			"I can help you explore this through our book collection or by generating a podcast episode. "+
			"What specifically interests you about this topic?", message),
	})
}

func (r *Responder) bookReply(title string) string {
	summary := r.summarize(title)
	return r.pick([]string{
		fmt.Sprintf("I see you're asking about '%s'. %s\n\nWould you like me to help you generate a podcast episode about this book?", title, summary),
		fmt.Sprintf("Ah, '%s' is a fascinating work! %s\n\nI can help you create an educational podcast about it if you're interested.", title, summary),
		fmt.Sprintf("That's an excellent choice! '%s' has so much to explore. %s\n\nWould you like to discuss specific themes or generate a podcast?", title, summary),
		fmt.Sprintf("I'm glad you mentioned '%s'! %s\n\nThis would make a great topic for an EduCast podcast episode.", title, summary),
	})
}

// summarize builds a one-paragraph blurb from the catalog entry and
// its theme knowledge.
func (r *Responder) summarize(title string) string {
	know := catalog.Lookup(title)
	theme := know.Themes[r.intn(len(know.Themes))]

	var book catalog.Book
	for _, b := range catalog.All() {
		if b.Title == title {
			book = b
			break
		}
	}

	return r.pick([]string{
		fmt.Sprintf("'%s' by %s is a %s work that explores themes of %s. Published in %d, it remains relevant for its insights into society and human nature.",
			title, book.Author, book.Genre, strings.Join(know.Themes, ", "), book.Year),
		fmt.Sprintf("In '%s', readers encounter a narrative that delves into %s. The novel's enduring appeal lies in its ability to connect with universal human experiences across generations.",
			title, theme),
		fmt.Sprintf("This %s work offers a compelling examination of %s. The author's skillful storytelling creates a world that continues to resonate with contemporary audiences.",
			book.Genre, theme),
		fmt.Sprintf("'%s' stands as a significant contribution to literature, particularly in its treatment of %s. Its characters and themes have become part of our cultural conversation.",
			title, theme),
	})
}
