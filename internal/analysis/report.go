package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/justestif/moodtunes/internal/moodlog"
)

const (
	sampleEntryCount = 3
	dateFormat       = "2006-01-02"
)

// FormatReport renders an analysis as plain text.
func FormatReport(a MoodAnalysis) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Dominant mood: %s\n", a.DominantMood))
	sb.WriteString(fmt.Sprintf("Confidence: %d%% (%s)\n", int(math.Round(a.Confidence*100)), a.Level()))

	logWord := "song"
	if a.TotalLogs != 1 {
		logWord = "songs"
	}
	sb.WriteString(fmt.Sprintf("Based on %d logged %s\n", a.TotalLogs, logWord))

	if len(a.Patterns) > 0 {
		sb.WriteString("\nPatterns\n")
		for _, p := range a.Patterns {
			sb.WriteString(fmt.Sprintf("  %s: %s (%d)\n", p.Type, p.Description, p.Frequency))
		}
	}

	sb.WriteString("\nInsights\n")
	for _, line := range a.Insights {
		sb.WriteString("  • " + line + "\n")
	}

	sb.WriteString("\nRecommendations\n")
	for _, line := range a.Recommendations {
		sb.WriteString("  ✨ " + line + "\n")
	}

	return sb.String()
}

// FormatEraSummary returns a human-readable summary of detected eras.
// Shows date range, entry count, and the first 3 songs for each era.
// Outliers are summarized by count only.
func FormatEraSummary(eras []Era, outliers []moodlog.Entry) string {
	var sb strings.Builder

	total := len(outliers)
	for _, era := range eras {
		total += len(era.Entries)
	}

	if len(eras) == 0 {
		sb.WriteString(fmt.Sprintf("No eras found from %d logs", total))
		if len(outliers) > 0 {
			sb.WriteString(fmt.Sprintf(" (%d outliers skipped)", len(outliers)))
		}
		sb.WriteString("\n")
		return sb.String()
	}

	eraWord := "era"
	if len(eras) > 1 {
		eraWord = "eras"
	}

	sb.WriteString(fmt.Sprintf("Found %d %s from %d logs", len(eras), eraWord, total))
	if len(outliers) > 0 {
		sb.WriteString(fmt.Sprintf(" (%d outliers skipped)", len(outliers)))
	}
	sb.WriteString("\n")

	for i, era := range eras {
		sb.WriteString("\n")
		sb.WriteString(formatEra(i+1, era))
	}

	return sb.String()
}

func formatEra(num int, era Era) string {
	var sb strings.Builder

	logWord := "log"
	if len(era.Entries) > 1 {
		logWord = "logs"
	}

	sb.WriteString(fmt.Sprintf("Era %d: %s, mostly %s, %s to %s (%d %s)\n",
		num, era.Tone, era.DominantMood,
		era.StartDate.Format(dateFormat), era.EndDate.Format(dateFormat),
		len(era.Entries), logWord))

	for _, e := range era.Entries[:min(sampleEntryCount, len(era.Entries))] {
		sb.WriteString(fmt.Sprintf("  • \"%s\" - %s\n", e.SongTitle, e.Artist))
	}

	if remaining := len(era.Entries) - sampleEntryCount; remaining > 0 {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", remaining))
	}

	return sb.String()
}
