// Package mood defines the mood vocabulary and maps moods to catalog categories.
package mood

import "strings"

// Canonical mood labels.
const (
	Happy     = "Happy"
	Sad       = "Sad"
	Calm      = "Calm"
	Energetic = "Energetic"
	Angry     = "Angry"
	Focused   = "Focused"
	Romantic  = "Romantic"
)

// Category identifies a catalog section that matches a mood.
type Category struct {
	DeezerGenreID int    // Deezer chart genre id
	Genre         string // Genre name used for search-based catalogs
}

// Info describes a mood for display.
type Info struct {
	Name     string   `json:"name"`
	Emoji    string   `json:"emoji"`
	Category Category `json:"-"`
}

// Label returns the emoji-prefixed display label, e.g. "😊 Happy".
func (i Info) Label() string {
	return i.Emoji + " " + i.Name
}

// defaultCategory is used for any label outside the vocabulary.
var defaultCategory = Category{DeezerGenreID: 132, Genre: "pop"}

var vocabulary = []Info{
	{Name: Happy, Emoji: "😊", Category: Category{DeezerGenreID: 132, Genre: "pop"}},
	{Name: Sad, Emoji: "😢", Category: Category{DeezerGenreID: 85, Genre: "new age"}},
	{Name: Calm, Emoji: "😌", Category: Category{DeezerGenreID: 84, Genre: "lo-fi"}},
	{Name: Energetic, Emoji: "⚡", Category: Category{DeezerGenreID: 169, Genre: "disco"}},
	{Name: Focused, Emoji: "🎯", Category: Category{DeezerGenreID: 129, Genre: "classical"}},
	{Name: Angry, Emoji: "😠", Category: Category{DeezerGenreID: 152, Genre: "rock"}},
	{Name: Romantic, Emoji: "💖", Category: Category{DeezerGenreID: 144, Genre: "r&b"}},
}

// All returns the mood vocabulary in display order.
func All() []Info {
	out := make([]Info, len(vocabulary))
	copy(out, vocabulary)
	return out
}

// Lookup finds a mood by label, case-insensitively.
func Lookup(label string) (Info, bool) {
	for _, info := range vocabulary {
		if Equal(info.Name, label) {
			return info, true
		}
	}
	return Info{}, false
}

// Canonical returns the vocabulary spelling of label, or label unchanged
// if it is not a known mood.
func Canonical(label string) string {
	if info, ok := Lookup(strings.TrimSpace(label)); ok {
		return info.Name
	}
	return label
}

// CategoryFor maps a mood label to its catalog category.
// Unknown labels fall back to the pop category.
func CategoryFor(label string) Category {
	if info, ok := Lookup(label); ok {
		return info.Category
	}
	return defaultCategory
}

// Equal reports whether two mood labels are the same mood.
// All case-insensitive mood comparisons go through here.
func Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Key returns the lowercase lookup key for a label.
func Key(label string) string {
	return strings.ToLower(label)
}
