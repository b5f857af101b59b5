package lastfm

import (
	"context"

	"github.com/justestif/moodtunes/internal/catalog"
	"github.com/justestif/moodtunes/internal/mood"
)

// Provider serves catalog requests from Last.fm tag charts, using the mood
// genre as the tag.
type Provider struct {
	client *Client
}

// NewProvider wraps client as a catalog.Provider.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Name implements catalog.Provider.
func (p *Provider) Name() string {
	return "lastfm"
}

// Tracks implements catalog.Provider.
func (p *Provider) Tracks(ctx context.Context, category mood.Category, limit int) ([]catalog.Track, error) {
	top, err := p.client.TopTracks(ctx, category.Genre, limit)
	if err != nil {
		return nil, err
	}

	tracks := make([]catalog.Track, 0, len(top))
	for _, t := range top {
		tracks = append(tracks, convertTrack(t))
	}
	return tracks, nil
}

func convertTrack(t Track) catalog.Track {
	id := t.MBID
	if id == "" {
		id = t.URL
	}
	return catalog.Track{
		ID:          id,
		Title:       t.Name,
		Artist:      t.Artist.Name,
		CoverURL:    pickImage(t.Image),
		ExternalURL: t.URL,
	}
}

// pickImage prefers the large variant and falls back to the biggest
// non-empty one.
func pickImage(images []Image) string {
	best := ""
	for _, img := range images {
		if img.URL == "" {
			continue
		}
		if img.Size == "large" {
			return img.URL
		}
		best = img.URL
	}
	return best
}
