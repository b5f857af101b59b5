package deezer

import (
	"context"
	"strconv"

	"github.com/justestif/moodtunes/internal/catalog"
	"github.com/justestif/moodtunes/internal/mood"
)

// Provider serves catalog requests from Deezer genre charts.
type Provider struct {
	client *Client
}

// NewProvider wraps client as a catalog.Provider.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Name implements catalog.Provider.
func (p *Provider) Name() string {
	return "deezer"
}

// Tracks implements catalog.Provider.
func (p *Provider) Tracks(ctx context.Context, category mood.Category, limit int) ([]catalog.Track, error) {
	chart, err := p.client.ChartTracks(ctx, category.DeezerGenreID, limit)
	if err != nil {
		return nil, err
	}

	tracks := make([]catalog.Track, 0, len(chart))
	for _, t := range chart {
		tracks = append(tracks, convertTrack(t))
	}
	return tracks, nil
}

// convertTrack converts a Deezer chart track to catalog.Track.
func convertTrack(t Track) catalog.Track {
	return catalog.Track{
		ID:          strconv.FormatInt(t.ID, 10),
		Title:       t.Title,
		Artist:      t.Artist.Name,
		CoverURL:    t.Album.CoverMedium,
		PreviewURL:  t.Preview,
		ExternalURL: t.Link,
	}
}
