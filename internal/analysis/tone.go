package analysis

import "github.com/justestif/moodtunes/internal/mood"

// toneName names a point on the energy/valence plane.
//
// Quadrants:
//   - High Energy + High Valence = "Upbeat Party"
//   - High Energy + Low Valence  = "Intense & Dark"
//   - Low Energy  + High Valence = "Chill & Happy"
//   - Low Energy  + Low Valence  = "Reflective & Melancholy"
func toneName(c mood.Coordinates) string {
	highEnergy := c.Energy > 0.6
	highValence := c.Valence > 0.5

	switch {
	case highEnergy && highValence:
		return "Upbeat Party"
	case highEnergy && !highValence:
		return "Intense & Dark"
	case !highEnergy && highValence:
		return "Chill & Happy"
	default:
		return "Reflective & Melancholy"
	}
}

// ConfidenceLevel buckets an analysis confidence for display.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Level returns the display band for the analysis confidence.
func (a MoodAnalysis) Level() ConfidenceLevel {
	switch {
	case a.Confidence > 0.7:
		return ConfidenceHigh
	case a.Confidence > 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
