package analysis

import (
	"fmt"
	"slices"
	"time"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/justestif/moodtunes/internal/mood"
	"github.com/justestif/moodtunes/internal/moodlog"
)

// EraConfig holds era clustering parameters.
type EraConfig struct {
	NumClusters    int // Number of clusters to create (default: 3)
	MinClusterSize int // Minimum entries per era (smaller clusters become outliers)
}

// DefaultEraConfig returns the recommended default configuration.
func DefaultEraConfig() EraConfig {
	return EraConfig{
		NumClusters:    3,
		MinClusterSize: 3,
	}
}

// Era is a cluster of mood logs with a similar emotional tone.
type Era struct {
	Name         string           `json:"name"` // "Chill & Happy: Jan 15 - Feb 3, 2024"
	Tone         string           `json:"tone"` // Quadrant name without dates
	DominantMood string           `json:"dominant_mood"`
	Entries      []moodlog.Entry  `json:"entries"`
	Centroid     mood.Coordinates `json:"centroid"`
	StartDate    time.Time        `json:"start_date"`
	EndDate      time.Time        `json:"end_date"`
}

// entryObservation wraps an Entry to implement clusters.Observation.
type entryObservation struct {
	index  int
	entry  *moodlog.Entry
	coords clusters.Coordinates
}

func (o entryObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o entryObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// DetectEras groups entries by the energy/valence position of their mood
// using k-means clustering. Returns eras (most recent first) and outlier
// entries that don't fit into any era.
func DetectEras(entries []moodlog.Entry, cfg EraConfig) ([]Era, []moodlog.Entry) {
	if len(entries) == 0 {
		return nil, nil
	}

	if cfg.NumClusters <= 0 {
		cfg.NumClusters = DefaultEraConfig().NumClusters
	}

	entries = moodlog.Clone(entries)

	// Too few entries to partition: everything is an outlier
	if len(entries) < cfg.NumClusters {
		return nil, entries
	}

	var obs clusters.Observations
	positions := make(map[mood.Coordinates]struct{})
	for i := range entries {
		c := mood.CoordinatesFor(entries[i].Mood)
		positions[c] = struct{}{}
		obs = append(obs, entryObservation{
			index:  i,
			entry:  &entries[i],
			coords: clusters.Coordinates{c.Energy, c.Valence},
		})
	}

	// kmeans refills an empty cluster with a copy of a point from another
	// cluster, so k must not exceed the number of distinct positions.
	cfg.NumClusters = min(cfg.NumClusters, len(positions))

	km := kmeans.New()
	result, err := km.Partition(obs, cfg.NumClusters)
	if err != nil {
		return nil, entries
	}

	var eras []Era
	var outliers []moodlog.Entry

	// Each entry belongs to the first cluster that claims it.
	placed := make([]bool, len(entries))

	for _, cluster := range result {
		var members []moodlog.Entry
		for _, o := range cluster.Observations {
			eo, ok := o.(entryObservation)
			if !ok || placed[eo.index] {
				continue
			}
			placed[eo.index] = true
			members = append(members, *eo.entry)
		}

		if len(members) == 0 {
			continue
		}
		if len(members) < cfg.MinClusterSize {
			outliers = append(outliers, members...)
			continue
		}

		slices.SortFunc(members, func(a, b moodlog.Entry) int {
			return a.Time().Compare(b.Time())
		})

		centroid := meanCoordinates(members)
		start := members[0].Time()
		end := members[len(members)-1].Time()
		tone := toneName(centroid)

		eras = append(eras, Era{
			Name:         formatEraName(tone, start, end),
			Tone:         tone,
			DominantMood: Analyze(members).DominantMood,
			Entries:      members,
			Centroid:     centroid,
			StartDate:    start,
			EndDate:      end,
		})
	}

	// Most recent first
	slices.SortFunc(eras, func(a, b Era) int {
		return b.StartDate.Compare(a.StartDate)
	})

	return eras, outliers
}

// meanCoordinates averages member positions. The partition's own center is
// only recomputed when assignments change, so it can lag the members.
func meanCoordinates(members []moodlog.Entry) mood.Coordinates {
	var sum mood.Coordinates
	for _, e := range members {
		c := mood.CoordinatesFor(e.Mood)
		sum.Energy += c.Energy
		sum.Valence += c.Valence
	}
	n := float64(len(members))
	return mood.Coordinates{Energy: sum.Energy / n, Valence: sum.Valence / n}
}

// formatEraName combines a tone name with a date range.
func formatEraName(tone string, start, end time.Time) string {
	const nameFormat = "Jan 2, 2006"
	startStr := start.Format(nameFormat)
	endStr := end.Format(nameFormat)

	if startStr == endStr {
		return fmt.Sprintf("%s: %s", tone, startStr)
	}
	return fmt.Sprintf("%s: %s - %s", tone, startStr, endStr)
}
