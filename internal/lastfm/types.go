package lastfm

import (
	"encoding/json"
	"strconv"
)

// Track is one entry of a tag's top tracks.
type Track struct {
	Name   string  `json:"name"`
	URL    string  `json:"url"`
	MBID   string  `json:"mbid"`
	Artist Artist  `json:"artist"`
	Image  []Image `json:"image"`
	Attr   struct {
		Rank rank `json:"rank"`
	} `json:"@attr"`
}

// Artist is the artist reference embedded in a track.
type Artist struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Image is one size variant of a track's artwork.
type Image struct {
	URL  string `json:"#text"`
	Size string `json:"size"` // small, medium, large, extralarge
}

// rank accepts both the quoted and bare numbers Last.fm sends.
type rank int

func (r *rank) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*r = rank(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*r = rank(n)
	return nil
}

// topTracksResponse is the JSON response for tag.getTopTracks.
type topTracksResponse struct {
	Tracks struct {
		Track []Track `json:"track"`
	} `json:"tracks"`
}

// apiError represents a Last.fm API error response.
type apiError struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}
