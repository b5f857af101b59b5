// Package history filters, searches and sorts mood-log entries for display.
package history

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/justestif/moodtunes/internal/mood"
	"github.com/justestif/moodtunes/internal/moodlog"
)

// SortMode selects the ordering of a history view.
type SortMode string

const (
	SortNewest    SortMode = "newest"
	SortOldest    SortMode = "oldest"
	SortByMood    SortMode = "mood"
	SortFavorites SortMode = "favorites"
)

// ParseSortMode parses a sort mode name. The empty string means newest.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "newest":
		return SortNewest, nil
	case "oldest":
		return SortOldest, nil
	case "mood", "bymood", "by_mood":
		return SortByMood, nil
	case "favorites", "favourites":
		return SortFavorites, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q", s)
	}
}

// Params is the user-controlled state of a history view.
type Params struct {
	Search string   // Case-insensitive substring over title, artist and note
	Sort   SortMode // Ordering; zero value sorts newest first
	Mood   string   // Mood filter, only applied when Sort is SortByMood
}

// moodFilter returns the trimmed mood filter, or "" when it does not apply.
func (p Params) moodFilter() string {
	if p.Sort != SortByMood {
		return ""
	}
	return strings.TrimSpace(p.Mood)
}

// moodFilterActive reports whether the mood filter narrows the view.
func (p Params) moodFilterActive() bool {
	return p.moodFilter() != ""
}

// Query returns the entries visible under p, in display order.
// The input slice is never modified; ties keep their input order.
func Query(entries []moodlog.Entry, p Params) []moodlog.Entry {
	result := make([]moodlog.Entry, 0, len(entries))

	search := ""
	if strings.TrimSpace(p.Search) != "" {
		search = strings.ToLower(p.Search)
	}

	filter := p.moodFilter()
	for _, e := range entries {
		if filter != "" && !mood.Equal(e.Mood, filter) {
			continue
		}
		if search != "" && !matches(e, search) {
			continue
		}
		result = append(result, e)
	}

	switch {
	case p.Sort == SortOldest:
		slices.SortStableFunc(result, func(a, b moodlog.Entry) int {
			return cmp.Compare(a.Timestamp, b.Timestamp)
		})
	case p.Sort == SortFavorites:
		slices.SortStableFunc(result, func(a, b moodlog.Entry) int {
			return cmp.Compare(favoriteRank(a), favoriteRank(b))
		})
	case p.Sort == SortByMood && filter == "":
		// Unreachable from the original mood picker, which always sets a mood.
		slices.SortStableFunc(result, func(a, b moodlog.Entry) int {
			return cmp.Compare(mood.Key(a.Mood), mood.Key(b.Mood))
		})
	default:
		slices.SortStableFunc(result, func(a, b moodlog.Entry) int {
			return cmp.Compare(b.Timestamp, a.Timestamp)
		})
	}

	return result
}

// matches reports whether the lowercased search term occurs in the entry text.
func matches(e moodlog.Entry, search string) bool {
	return strings.Contains(strings.ToLower(e.SongTitle), search) ||
		strings.Contains(strings.ToLower(e.Artist), search) ||
		strings.Contains(strings.ToLower(e.Note), search)
}

func favoriteRank(e moodlog.Entry) int {
	if e.IsFavorite {
		return 0
	}
	return 1
}
