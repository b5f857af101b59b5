// Package deezer provides a Deezer API client for chart tracks by genre.
package deezer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultBaseURL = "https://api.deezer.com"
	DefaultTimeout = 10 * time.Second
	DefaultLimit   = 15

	userAgent = "moodtunes/1.0"
)

// Deezer API error codes.
const (
	errCodeQuota        = 4
	errCodeDataNotFound = 800
)

// Sentinel errors.
var (
	// ErrQuotaExceeded is returned when the API quota is exceeded after retries.
	ErrQuotaExceeded = errors.New("deezer quota exceeded")

	// ErrNotFound is returned when the requested chart does not exist.
	ErrNotFound = errors.New("deezer data not found")
)

// Config holds Deezer client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a Deezer API client with retry on quota errors.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	retryDelays []time.Duration
}

// NewClient creates a new Deezer API client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     cfg.BaseURL,
		retryDelays: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// ChartTracks returns the top tracks of a genre chart. Returns an empty
// slice (not nil) if the chart has no tracks.
func (c *Client) ChartTracks(ctx context.Context, genreID, limit int) ([]Track, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := url.Values{
		"limit": {strconv.Itoa(limit)},
	}
	path := "/chart/" + strconv.Itoa(genreID)

	body, err := c.doRequest(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("fetching chart %d: %w", genreID, err)
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing chart response: %w", err)
	}

	tracks := resp.Tracks.Data
	if tracks == nil {
		tracks = []Track{}
	}
	return tracks, nil
}

// doRequest performs an HTTP GET request with retry on quota errors.
// Retries up to 3 times with exponential backoff (1s, 2s, 4s).
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + path + "?" + params.Encode()

	var lastErr error

	for attempt := 0; attempt <= len(c.retryDelays); attempt++ {
		// Wait before retry (skip on first attempt)
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelays[attempt-1]):
			}
		}

		body, err := c.doSingleRequest(ctx, reqURL)
		if err == nil {
			return body, nil
		}

		if errors.Is(err, ErrQuotaExceeded) {
			lastErr = err
			continue
		}

		// Non-retryable error
		return nil, err
	}

	return nil, lastErr
}

// doSingleRequest performs a single HTTP request.
func (c *Client) doSingleRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	// Check for API error in response
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil {
		switch apiErr.Error.Code {
		case errCodeQuota:
			return nil, ErrQuotaExceeded
		case errCodeDataNotFound:
			return nil, ErrNotFound
		default:
			return nil, fmt.Errorf("API error %d (%s): %s", apiErr.Error.Code, apiErr.Error.Type, apiErr.Error.Message)
		}
	}

	return body, nil
}
