package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  int
	}{
		{"happy is pop", "Happy", 132},
		{"lowercase sad", "sad", 85},
		{"upper calm", "CALM", 84},
		{"energetic", "Energetic", 169},
		{"angry", "Angry", 152},
		{"focused", "Focused", 129},
		{"romantic", "Romantic", 144},
		{"unknown falls back to pop", "Nostalgic", 132},
		{"empty falls back to pop", "", 132},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryFor(tt.label).DeezerGenreID)
		})
	}
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "Happy", Canonical("happy"))
	assert.Equal(t, "Energetic", Canonical("  ENERGETIC "))
	assert.Equal(t, "Nostalgic", Canonical("Nostalgic"))
}

func TestAllReturnsCopy(t *testing.T) {
	moods := All()
	assert.Len(t, moods, 7)
	moods[0].Name = "changed"
	assert.Equal(t, Happy, All()[0].Name)
}

func TestLabel(t *testing.T) {
	info, ok := Lookup("romantic")
	assert.True(t, ok)
	assert.Equal(t, "💖 Romantic", info.Label())
}

func TestCoordinatesFor(t *testing.T) {
	assert.Equal(t, Coordinates{Energy: 0.9, Valence: 0.1}, CoordinatesFor("ANGRY"))
	assert.Equal(t, Coordinates{Energy: 0.5, Valence: 0.5}, CoordinatesFor("Bored"))
}
