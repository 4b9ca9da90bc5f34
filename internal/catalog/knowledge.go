package catalog

// Knowledge is the richer editorial material we keep for well-known
// titles. Script and chatbot generation fall back to generic phrasing
// for books without an entry.
type Knowledge struct {
	Themes     []string
	Characters []string
}

var knowledge = map[string]Knowledge{
	"Pride and Prejudice": {
		Themes:     []string{"Love", "Social Class", "Reputation", "Marriage"},
		Characters: []string{"Elizabeth Bennet", "Mr. Darcy", "Jane Bennet", "Mr. Bingley"},
	},
	"The Great Gatsby": {
		Themes:     []string{"American Dream", "Wealth", "Love", "Social Status"},
		Characters: []string{"Jay Gatsby", "Daisy Buchanan", "Nick Carraway", "Tom Buchanan"},
	},
	"Frankenstein": {
		Themes:     []string{"Creation", "Responsibility", "Isolation", "Prejudice"},
		Characters: []string{"Victor Frankenstein", "The Creature", "Elizabeth Lavenza", "Henry Clerval"},
	},
	"1984": {
		Themes:     []string{"Totalitarianism", "Surveillance", "Truth", "Freedom"},
		Characters: []string{"Winston Smith", "Julia", "Big Brother", "O'Brien"},
	},
	"To Kill a Mockingbird": {
		Themes:     []string{"Racism", "Justice", "Morality", "Childhood"},
		Characters: []string{"Scout Finch", "Atticus Finch", "Jem Finch", "Boo Radley"},
	},
}

// Lookup returns the editorial knowledge for a title, falling back to
// generic themes and characters so callers never deal with empty slices.
func Lookup(title string) Knowledge {
	if k, ok := knowledge[title]; ok {
		return k
	}
	return Knowledge{
		Themes:     []string{"human relationships", "morality", "identity", "society"},
		Characters: []string{"the protagonist", "the main character"},
	}
}
