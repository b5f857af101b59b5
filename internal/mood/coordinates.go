package mood

// Coordinates places a mood on the energy/valence plane (both 0-1).
type Coordinates struct {
	Energy  float64 `json:"energy"`
	Valence float64 `json:"valence"`
}

var coordinates = map[string]Coordinates{
	"happy":     {Energy: 0.7, Valence: 0.9},
	"sad":       {Energy: 0.3, Valence: 0.1},
	"calm":      {Energy: 0.2, Valence: 0.6},
	"energetic": {Energy: 0.9, Valence: 0.7},
	"angry":     {Energy: 0.9, Valence: 0.1},
	"focused":   {Energy: 0.5, Valence: 0.5},
	"romantic":  {Energy: 0.4, Valence: 0.8},
}

// CoordinatesFor returns the energy/valence position of a mood.
// Unknown labels sit at the neutral centre.
func CoordinatesFor(label string) Coordinates {
	if c, ok := coordinates[Key(label)]; ok {
		return c
	}
	return Coordinates{Energy: 0.5, Valence: 0.5}
}
