// Package analysis derives mood insights from a snapshot of mood logs.
package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/justestif/moodtunes/internal/mood"
	"github.com/justestif/moodtunes/internal/moodlog"
)

// NoData is the dominant mood reported for an empty history.
const NoData = "No data yet"

// Pattern types.
const (
	PatternDiversity  = "Mood Diversity"
	PatternTransition = "Common Transition"
	PatternTrend      = "Recent Trend"
)

const (
	minEntriesForTransition = 3
	recentWindow            = 5
)

// MoodAnalysis is the report produced by Analyze.
type MoodAnalysis struct {
	DominantMood    string         `json:"dominant_mood"`
	Confidence      float64        `json:"confidence"` // dominant count / total, 0-1
	Patterns        []Pattern      `json:"patterns"`
	Insights        []string       `json:"insights"`
	Recommendations []string       `json:"recommendations"`
	TotalLogs       int            `json:"total_logs"`
	Distribution    map[string]int `json:"distribution"`
}

// Pattern is a short observation about the shape of the history.
type Pattern struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Frequency   int    `json:"frequency"`
}

// bucket is a mood count, kept in first-seen order so ties resolve
// deterministically.
type bucket struct {
	mood  string
	count int
}

// Analyze builds a MoodAnalysis from entries ordered newest first, as the
// store hands them out. Ties (dominant mood, least-used mood, most common
// transition) go to whichever candidate appears first in that order.
func Analyze(entries []moodlog.Entry) MoodAnalysis {
	if len(entries) == 0 {
		return MoodAnalysis{
			DominantMood:    NoData,
			Confidence:      0,
			Patterns:        []Pattern{},
			Insights:        []string{emptyInsight},
			Recommendations: []string{emptyRecommendation},
			TotalLogs:       0,
			Distribution:    map[string]int{},
		}
	}

	buckets := countMoods(entries)
	total := len(entries)

	dominant := buckets[0]
	for _, b := range buckets[1:] {
		if b.count > dominant.count {
			dominant = b
		}
	}
	confidence := float64(dominant.count) / float64(total)

	distribution := make(map[string]int, len(buckets))
	for _, b := range buckets {
		distribution[b.mood] = b.count
	}

	patterns := detectPatterns(entries, len(buckets))

	return MoodAnalysis{
		DominantMood:    dominant.mood,
		Confidence:      confidence,
		Patterns:        patterns,
		Insights:        buildInsights(dominant.mood, confidence, buckets),
		Recommendations: buildRecommendations(dominant.mood, buckets, patterns, total),
		TotalLogs:       total,
		Distribution:    distribution,
	}
}

// countMoods buckets entries by mood label exactly as stored.
func countMoods(entries []moodlog.Entry) []bucket {
	index := make(map[string]int)
	var buckets []bucket
	for _, e := range entries {
		i, ok := index[e.Mood]
		if !ok {
			i = len(buckets)
			index[e.Mood] = i
			buckets = append(buckets, bucket{mood: e.Mood})
		}
		buckets[i].count++
	}
	return buckets
}

func detectPatterns(entries []moodlog.Entry, distinct int) []Pattern {
	diversity := fmt.Sprintf("%d different moods logged", distinct)
	if distinct == 1 {
		diversity = "1 mood logged"
	}
	patterns := []Pattern{{
		Type:        PatternDiversity,
		Description: diversity,
		Frequency:   distinct,
	}}

	if len(entries) >= minEntriesForTransition {
		if transition, count := mostCommonTransition(entries); count > 0 {
			patterns = append(patterns, Pattern{
				Type:        PatternTransition,
				Description: transition,
				Frequency:   count,
			})
		}
	}

	if len(entries) >= recentWindow {
		patterns = append(patterns, Pattern{
			Type:        PatternTrend,
			Description: recentTrend(entries[:recentWindow]),
			Frequency:   recentWindow,
		})
	}

	return patterns
}

// mostCommonTransition counts "A → B" pairs between neighbouring entries.
func mostCommonTransition(entries []moodlog.Entry) (string, int) {
	index := make(map[string]int)
	var transitions []bucket
	for i := 0; i+1 < len(entries); i++ {
		key := entries[i].Mood + " → " + entries[i+1].Mood
		j, ok := index[key]
		if !ok {
			j = len(transitions)
			index[key] = j
			transitions = append(transitions, bucket{mood: key})
		}
		transitions[j].count++
	}
	if len(transitions) == 0 {
		return "", 0
	}
	best := transitions[0]
	for _, t := range transitions[1:] {
		if t.count > best.count {
			best = t
		}
	}
	return best.mood, best.count
}

// recentTrend reads the newest-first window in chronological order.
func recentTrend(window []moodlog.Entry) string {
	oldest := window[len(window)-1].Mood
	for i := len(window) - 2; i >= 0; i-- {
		if window[i].Mood != oldest {
			return "Varied recently"
		}
	}
	return "Consistently " + oldest
}

func buildInsights(dominant string, confidence float64, buckets []bucket) []string {
	insights := []string{
		fmt.Sprintf("%s is your dominant mood, appearing in %d%% of your logs.",
			dominant, int(math.Round(confidence*100))),
	}
	insights = append(insights, lookup(moodInsights, dominant)...)
	insights = append(insights, diversityRemark(len(buckets)))
	insights = append(insights, balanceRemark(buckets))
	return insights
}

func diversityRemark(distinct int) string {
	switch {
	case distinct == 1:
		return "Your mood has been very focused on a single feeling."
	case distinct <= 3:
		return "You experience a balanced range of moods."
	default:
		return "You experience a wide spectrum of emotions."
	}
}

func balanceRemark(buckets []bucket) string {
	var positive, negative int
	for _, b := range buckets {
		switch {
		case positiveMoods[mood.Key(b.mood)]:
			positive += b.count
		case negativeMoods[mood.Key(b.mood)]:
			negative += b.count
		}
	}

	switch {
	case positive > negative*2:
		return "Your logs lean strongly positive. Great emotional balance!"
	case negative > positive*2:
		return "Your logs lean toward heavier emotions. Consider some uplifting music."
	case positive > negative:
		return "You have slightly more positive moods than challenging ones."
	case negative > positive:
		return "You've had slightly more challenging moods than positive ones."
	default:
		return "Your moods are evenly mixed between positive and challenging feelings."
	}
}

func buildRecommendations(dominant string, buckets []bucket, patterns []Pattern, total int) []string {
	recs := append([]string(nil), lookup(moodRecommendations, dominant)...)

	if len(buckets) == 1 {
		recs = append(recs, exploreRecommendation)
	}

	if mentionsIntenseMood(patterns) {
		recs = append(recs, transitionRecommendation)
	}

	if len(buckets) < 3 && total >= recentWindow {
		least := buckets[0]
		for _, b := range buckets[1:] {
			if b.count < least.count {
				least = b
			}
		}
		recs = append(recs, fmt.Sprintf(
			"%s is your least logged mood. Try a %s playlist to mix things up.",
			least.mood, strings.ToLower(least.mood)))
	}

	return recs
}

func mentionsIntenseMood(patterns []Pattern) bool {
	for _, p := range patterns {
		desc := strings.ToLower(p.Description)
		for m := range intenseMoods {
			if strings.Contains(desc, m) {
				return true
			}
		}
	}
	return false
}

func lookup(table map[string][]string, label string) []string {
	if lines, ok := table[mood.Key(label)]; ok {
		return lines
	}
	return table[""]
}
