package history

import (
	"fmt"
	"strings"

	"github.com/justestif/moodtunes/internal/mood"
	"github.com/justestif/moodtunes/internal/moodlog"
)

// MoodCount is one bucket of a mood distribution.
type MoodCount struct {
	Mood  string `json:"mood"`
	Count int    `json:"count"`
}

// Stats counts entries per mood label as stored. Buckets are returned in
// order of first appearance.
func Stats(entries []moodlog.Entry) []MoodCount {
	index := make(map[string]int)
	var counts []MoodCount
	for _, e := range entries {
		i, ok := index[e.Mood]
		if !ok {
			i = len(counts)
			index[e.Mood] = i
			counts = append(counts, MoodCount{Mood: e.Mood})
		}
		counts[i].Count++
	}
	return counts
}

// DisplayLabel describes the active ordering, e.g. "Newest First".
func DisplayLabel(p Params) string {
	switch p.Sort {
	case SortOldest:
		return "Oldest First"
	case SortFavorites:
		return "Favorites First"
	case SortByMood:
		if p.moodFilterActive() {
			return mood.Canonical(p.moodFilter()) + " Mood"
		}
		return "By Mood"
	default:
		return "Newest First"
	}
}

// EmptyMessage is shown when a view has no entries.
func EmptyMessage(p Params) string {
	switch {
	case strings.TrimSpace(p.Search) != "":
		return fmt.Sprintf("No songs found for %q", p.Search)
	case p.moodFilterActive():
		return fmt.Sprintf("No songs found for %s mood", mood.Canonical(p.moodFilter()))
	default:
		return "No mood entries yet.\nSelect a mood to get started!"
	}
}
