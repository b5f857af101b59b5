// Package artwork downloads album covers and scales them to thumbnails.
//
// Each load is bound to a handle (a list row, an HTTP client, a CLI call).
// Starting a new load on a handle cancels the one still in flight there.
package artwork

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // GIF covers
	"image/jpeg"
	_ "image/png" // PNG covers
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"go.uber.org/zap"

	"github.com/justestif/moodtunes/internal/metrics"
)

// Defaults.
const (
	DefaultSize     = 300
	MaxSize         = 1024
	DefaultTimeout  = 10 * time.Second
	DefaultMaxBytes = 10 << 20
	MaxDimension    = 8192
	jpegQuality     = 85
)

var (
	// ErrNoCover is returned when an entry has no cover URL.
	ErrNoCover = errors.New("no cover art")

	// ErrDimensions is returned for images wider or taller than MaxDimension.
	ErrDimensions = errors.New("cover dimensions too large")
)

// Load results reported to metrics.
const (
	resultSuccess  = "success"
	resultError    = "error"
	resultCanceled = "canceled"
)

type job struct {
	id     uuid.UUID
	cancel context.CancelFunc
}

// Loader fetches cover art with per-handle cancellation.
type Loader struct {
	client   *http.Client
	logger   *zap.Logger
	metrics  *metrics.Metrics
	maxBytes int64

	mu   sync.Mutex
	jobs map[string]job
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient sets the HTTP client used for downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Loader) { l.metrics = m }
}

// WithMaxBytes caps the size of a downloaded image.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		client:   &http.Client{Timeout: DefaultTimeout},
		logger:   zap.NewNop(),
		maxBytes: DefaultMaxBytes,
		jobs:     make(map[string]job),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load downloads the image at url and returns it as a JPEG no larger than
// size×size, keeping the aspect ratio. A size of 0 means DefaultSize.
//
// Any load already running for handle is canceled first; the canceled call
// returns an error matching context.Canceled.
func (l *Loader) Load(ctx context.Context, handle, url string, size uint) ([]byte, error) {
	if url == "" {
		return nil, ErrNoCover
	}
	if size == 0 {
		size = DefaultSize
	}
	size = min(size, MaxSize)

	ctx, id := l.begin(ctx, handle)
	defer l.finish(handle, id)

	logger := l.logger.With(
		zap.String("handle", handle),
		zap.String("job", id.String()),
		zap.String("url", url),
	)

	data, err := l.fetch(ctx, url, size)
	switch {
	case err == nil:
		l.metrics.ObserveArtwork(resultSuccess)
		logger.Debug("cover loaded", zap.Int("bytes", len(data)))
	case errors.Is(err, context.Canceled):
		l.metrics.ObserveArtwork(resultCanceled)
		logger.Debug("cover load canceled")
	default:
		l.metrics.ObserveArtwork(resultError)
		logger.Warn("cover load failed", zap.Error(err))
	}
	return data, err
}

// Cancel stops the load running for handle, if any.
func (l *Loader) Cancel(handle string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if j, ok := l.jobs[handle]; ok {
		j.cancel()
		delete(l.jobs, handle)
	}
}

// Close cancels every running load.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for handle, j := range l.jobs {
		j.cancel()
		delete(l.jobs, handle)
	}
}

// Pending returns the number of loads in flight.
func (l *Loader) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.jobs)
}

func (l *Loader) begin(ctx context.Context, handle string) (context.Context, uuid.UUID) {
	ctx, cancel := context.WithCancel(ctx)
	id := uuid.New()

	l.mu.Lock()
	defer l.mu.Unlock()

	if prev, ok := l.jobs[handle]; ok {
		prev.cancel()
	}
	l.jobs[handle] = job{id: id, cancel: cancel}
	return ctx, id
}

// finish releases the job unless a newer load has taken over the handle.
func (l *Loader) finish(handle string, id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if j, ok := l.jobs[handle]; ok && j.id == id {
		j.cancel()
		delete(l.jobs, handle)
	}
}

func (l *Loader) fetch(ctx context.Context, url string, size uint) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching cover: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading cover: %w", err)
	}
	if int64(len(raw)) > l.maxBytes {
		return nil, fmt.Errorf("cover exceeds %d bytes", l.maxBytes)
	}

	return Thumbnail(raw, size)
}

// Thumbnail decodes a JPEG, PNG or GIF image and re-encodes it as a JPEG
// that fits within size×size. The header is checked against MaxDimension
// before the pixels are decoded.
func Thumbnail(raw []byte, size uint) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding cover: %w", err)
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding cover: %w", err)
	}

	scaled := resize.Thumbnail(size, size, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding cover: %w", err)
	}
	return buf.Bytes(), nil
}
