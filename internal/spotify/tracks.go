package spotify

import (
	"context"
	"strings"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/moodtunes/internal/catalog"
	"github.com/justestif/moodtunes/internal/mood"
)

// Provider serves catalog requests from Spotify genre search.
type Provider struct {
	client *Client
}

// NewProvider wraps client as a catalog.Provider.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Name implements catalog.Provider.
func (p *Provider) Name() string {
	return "spotify"
}

// Tracks implements catalog.Provider.
func (p *Provider) Tracks(ctx context.Context, category mood.Category, limit int) ([]catalog.Track, error) {
	found, err := p.client.SearchGenre(ctx, category.Genre, limit)
	if err != nil {
		return nil, err
	}

	tracks := make([]catalog.Track, 0, len(found))
	for _, t := range found {
		tracks = append(tracks, convertTrack(t))
	}
	return tracks, nil
}

// convertTrack converts a Spotify FullTrack to catalog.Track.
// Artists are joined with ", " and the cover is the image closest to 300px.
func convertTrack(t spotify.FullTrack) catalog.Track {
	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	return catalog.Track{
		ID:          t.ID.String(),
		Title:       t.Name,
		Artist:      strings.Join(artists, ", "),
		CoverURL:    pickCover(t.Album.Images),
		PreviewURL:  t.PreviewURL,
		ExternalURL: t.ExternalURLs["spotify"],
	}
}

// pickCover returns the image nearest to a medium (300px) cover.
func pickCover(images []spotify.Image) string {
	const target = 300

	best := ""
	bestDiff := -1
	for _, img := range images {
		diff := int(img.Width) - target
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best = img.URL
			bestDiff = diff
		}
	}
	return best
}
