package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	got := Stats(sampleEntries())
	assert.Equal(t, []MoodCount{
		{Mood: "Happy", Count: 1},
		{Mood: "Sad", Count: 1},
		{Mood: "happy", Count: 1},
		{Mood: "Calm", Count: 1},
		{Mood: "Angry", Count: 1},
	}, got)

	assert.Empty(t, Stats(nil))
}

func TestDisplayLabel(t *testing.T) {
	tests := []struct {
		params Params
		want   string
	}{
		{Params{}, "Newest First"},
		{Params{Sort: SortOldest}, "Oldest First"},
		{Params{Sort: SortFavorites}, "Favorites First"},
		{Params{Sort: SortByMood, Mood: "calm"}, "Calm Mood"},
		{Params{Sort: SortByMood}, "By Mood"},
		{Params{Sort: SortByMood, Mood: " \t"}, "By Mood"},
		{Params{Sort: SortByMood, Mood: " angry "}, "Angry Mood"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayLabel(tt.params))
		})
	}
}

func TestEmptyMessage(t *testing.T) {
	assert.Equal(t, `No songs found for "lizzo"`, EmptyMessage(Params{Search: "lizzo", Sort: SortByMood, Mood: "Sad"}))
	assert.Equal(t, "No songs found for Sad mood", EmptyMessage(Params{Sort: SortByMood, Mood: "sad"}))
	assert.Equal(t, "No mood entries yet.\nSelect a mood to get started!", EmptyMessage(Params{}))
	assert.Equal(t, "No mood entries yet.\nSelect a mood to get started!", EmptyMessage(Params{Sort: SortByMood, Mood: "  "}))
}
