// Package spotify provides a Spotify Web API catalog provider that searches
// tracks by genre.
package spotify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/zmb3/spotify/v2"
)

// maxSearchLimit is the largest page the search endpoint returns.
const maxSearchLimit = 50

// Client wraps the Spotify API client with convenience methods.
type Client struct {
	api    *spotify.Client
	market string
}

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated. market is an
// ISO 3166-1 alpha-2 country code and may be empty.
func New(api *spotify.Client, market string) *Client {
	return &Client{api: api, market: market}
}

// SearchGenre returns up to limit tracks tagged with genre.
func (c *Client) SearchGenre(ctx context.Context, genre string, limit int) ([]spotify.FullTrack, error) {
	limit = min(max(limit, 1), maxSearchLimit)

	opts := []spotify.RequestOption{spotify.Limit(limit)}
	if c.market != "" {
		opts = append(opts, spotify.Market(c.market))
	}

	query := "genre:" + strconv.Quote(genre)
	result, err := c.api.Search(ctx, query, spotify.SearchTypeTrack, opts...)
	if err != nil {
		return nil, fmt.Errorf("searching genre %q: %w", genre, err)
	}

	if result.Tracks == nil {
		return []spotify.FullTrack{}, nil
	}
	return result.Tracks.Tracks, nil
}
