package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/justestif/moodtunes/internal/moodlog"
)

func TestFormatReport(t *testing.T) {
	a := Analyze(entriesOf("Sad", "Happy", "Happy", "Sad", "Happy", "Sad", "Happy", "Happy", "Sad", "Happy"))

	got := FormatReport(a)

	assert.Contains(t, got, "Dominant mood: Happy\n")
	assert.Contains(t, got, "Confidence: 60% (medium)\n")
	assert.Contains(t, got, "Based on 10 logged songs\n")
	assert.Contains(t, got, "  Mood Diversity: 2 different moods logged (2)\n")
	assert.Contains(t, got, "  • Happy is your dominant mood, appearing in 60% of your logs.\n")
	assert.Contains(t, got, "  ✨ "+moodRecommendations["happy"][0]+"\n")
}

func TestFormatReportEmpty(t *testing.T) {
	got := FormatReport(Analyze(nil))

	assert.Contains(t, got, "Dominant mood: No data yet\n")
	assert.Contains(t, got, "Confidence: 0% (low)\n")
	assert.NotContains(t, got, "Patterns")
	assert.Contains(t, got, emptyInsight)
}

func TestFormatEraSummary(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }
	entry := func(id int64, title string, d int) moodlog.Entry {
		return moodlog.Entry{ID: id, Mood: "Happy", SongTitle: title, Artist: "Band", Timestamp: day(d).UnixMilli()}
	}

	eras := []Era{{
		Tone:         "Upbeat Party",
		DominantMood: "Happy",
		Entries:      []moodlog.Entry{entry(1, "One", 1), entry(2, "Two", 2), entry(3, "Three", 3), entry(4, "Four", 4)},
		StartDate:    day(1),
		EndDate:      day(4),
	}}
	outliers := []moodlog.Entry{entry(5, "Five", 5)}

	got := FormatEraSummary(eras, outliers)

	assert.True(t, strings.HasPrefix(got, "Found 1 era from 5 logs (1 outliers skipped)\n"), got)
	assert.Contains(t, got, "Era 1: Upbeat Party, mostly Happy, 2024-03-01 to 2024-03-04 (4 logs)\n")
	assert.Contains(t, got, "  • \"One\" - Band\n")
	assert.Contains(t, got, "  • \"Three\" - Band\n")
	assert.NotContains(t, got, "\"Four\"")
	assert.Contains(t, got, "  ... and 1 more\n")
}

func TestFormatEraSummaryNoEras(t *testing.T) {
	got := FormatEraSummary(nil, entriesOf("Happy", "Sad"))

	assert.Equal(t, "No eras found from 2 logs (2 outliers skipped)\n", got)
}
