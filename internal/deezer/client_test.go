package deezer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justestif/moodtunes/internal/catalog"
	"github.com/justestif/moodtunes/internal/mood"
)

const chartJSON = `{
	"tracks": {
		"data": [
			{
				"id": 3135556,
				"title": "Harder, Better, Faster, Stronger",
				"link": "https://www.deezer.com/track/3135556",
				"preview": "https://cdns-preview-d.dzcdn.net/stream/c-deda7fa9316d9e9e880d2c6207e92260-8.mp3",
				"rank": 956167,
				"artist": {"id": 27, "name": "Daft Punk"},
				"album": {
					"id": 302127,
					"title": "Discovery",
					"cover": "https://api.deezer.com/album/302127/image",
					"cover_medium": "https://e-cdns-images.dzcdn.net/images/cover/2e018122cb56986277102d2041a592c8/250x250-000000-80-0-0.jpg"
				}
			},
			{
				"id": 1109731,
				"title": "Lose Yourself",
				"link": "https://www.deezer.com/track/1109731",
				"preview": "",
				"artist": {"id": 13, "name": "Eminem"},
				"album": {"id": 119606, "title": "Curtain Call"}
			}
		],
		"total": 2
	}
}`

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		httpClient:  server.Client(),
		baseURL:     server.URL,
		retryDelays: []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond},
	}
}

func writeAPIError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"type": "Exception", "message": msg, "code": code},
	})
}

func TestChartTracks(t *testing.T) {
	var gotPath, gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartJSON))
	}))
	defer server.Close()

	tracks, err := newTestClient(server).ChartTracks(context.Background(), 132, 15)
	require.NoError(t, err)

	assert.Equal(t, "/chart/132", gotPath)
	assert.Equal(t, "15", gotLimit)
	require.Len(t, tracks, 2)
	assert.Equal(t, int64(3135556), tracks[0].ID)
	assert.Equal(t, "Daft Punk", tracks[0].Artist.Name)
	assert.Equal(t, "Discovery", tracks[0].Album.Title)
}

func TestChartTracksDefaultsLimit(t *testing.T) {
	var gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"tracks":{"data":[],"total":0}}`))
	}))
	defer server.Close()

	tracks, err := newTestClient(server).ChartTracks(context.Background(), 85, 0)
	require.NoError(t, err)

	assert.Equal(t, "15", gotLimit)
	assert.NotNil(t, tracks)
	assert.Empty(t, tracks)
}

func TestChartTracksMissingDataIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	tracks, err := newTestClient(server).ChartTracks(context.Background(), 85, 5)
	require.NoError(t, err)
	assert.NotNil(t, tracks)
	assert.Empty(t, tracks)
}

func TestChartTracksErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
		wantMsg string
	}{
		{
			name: "data not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeAPIError(w, 800, "no data")
			},
			wantErr: ErrNotFound,
		},
		{
			name: "other api error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeAPIError(w, 300, "Invalid OAuth access token.")
			},
			wantMsg: "API error 300 (Exception): Invalid OAuth access token.",
		},
		{
			name: "http status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantMsg: "unexpected status 502",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"tracks": [`))
			},
			wantMsg: "parsing chart response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := newTestClient(server).ChartTracks(context.Background(), 132, 15)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestChartTracksQuotaRetry(t *testing.T) {
	var requestCount atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Fail first 2 requests with quota, succeed on 3rd
		if requestCount.Add(1) < 3 {
			writeAPIError(w, 4, "Quota limit exceeded")
			return
		}
		w.Write([]byte(chartJSON))
	}))
	defer server.Close()

	tracks, err := newTestClient(server).ChartTracks(context.Background(), 132, 15)
	require.NoError(t, err)

	assert.Len(t, tracks, 2)
	assert.Equal(t, int32(3), requestCount.Load())
}

func TestChartTracksQuotaExhausted(t *testing.T) {
	var requestCount atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
		writeAPIError(w, 4, "Quota limit exceeded")
	}))
	defer server.Close()

	_, err := newTestClient(server).ChartTracks(context.Background(), 132, 15)

	assert.ErrorIs(t, err, ErrQuotaExceeded)
	// 1 initial + 3 retries
	assert.Equal(t, int32(4), requestCount.Load())
}

func TestChartTracksCanceledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, 4, "Quota limit exceeded")
	}))
	defer server.Close()

	client := newTestClient(server)
	client.retryDelays = []time.Duration{time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ChartTracks(ctx, 132, 15)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})

	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
	assert.Len(t, c.retryDelays, 3)
}

func TestProvider(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(chartJSON))
	}))
	defer server.Close()

	p := NewProvider(newTestClient(server))
	tracks, err := p.Tracks(context.Background(), mood.CategoryFor("Sad"), 15)
	require.NoError(t, err)

	assert.Equal(t, "deezer", p.Name())
	assert.Equal(t, "/chart/85", gotPath)
	require.Len(t, tracks, 2)
	assert.Equal(t, catalog.Track{
		ID:          "3135556",
		Title:       "Harder, Better, Faster, Stronger",
		Artist:      "Daft Punk",
		CoverURL:    "https://e-cdns-images.dzcdn.net/images/cover/2e018122cb56986277102d2041a592c8/250x250-000000-80-0-0.jpg",
		PreviewURL:  "https://cdns-preview-d.dzcdn.net/stream/c-deda7fa9316d9e9e880d2c6207e92260-8.mp3",
		ExternalURL: "https://www.deezer.com/track/3135556",
	}, tracks[0])
	assert.Empty(t, tracks[1].CoverURL)
	assert.Empty(t, tracks[1].PreviewURL)
}

func TestProviderWithCatalogServiceSwallowsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, 800, "no data")
	}))
	defer server.Close()

	svc := catalog.NewService(NewProvider(newTestClient(server)))

	tracks := svc.FetchByMood(context.Background(), "Happy")
	assert.NotNil(t, tracks)
	assert.Empty(t, tracks)
}
