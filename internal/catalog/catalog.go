// Package catalog fetches mood-matched tracks from a remote music catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/justestif/moodtunes/internal/metrics"
	"github.com/justestif/moodtunes/internal/mood"
)

// Defaults.
const (
	DefaultLimit       = 15
	DefaultCacheTTL    = 10 * time.Minute
	DefaultConcurrency = 3
)

// Track is a catalog track, produced fresh per mood query and never persisted.
type Track struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	CoverURL    string `json:"cover_url,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
}

// Provider fetches tracks for a catalog category.
type Provider interface {
	Name() string
	Tracks(ctx context.Context, category mood.Category, limit int) ([]Track, error)
}

type cacheEntry struct {
	tracks    []Track
	fetchedAt time.Time
}

// Service wraps a Provider with a TTL cache and a circuit breaker.
type Service struct {
	provider    Provider
	limit       int
	ttl         time.Duration
	concurrency int
	logger      *zap.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
	breakerCfg  BreakerConfig
	breaker     *gobreaker.CircuitBreaker

	cacheMu sync.RWMutex
	cache   map[string]cacheEntry
}

// Option configures a Service.
type Option func(*Service)

// WithLimit sets the number of tracks requested per mood.
func WithLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithCacheTTL sets how long fetched tracks are reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// WithConcurrency sets the number of concurrent fetches during Prefetch.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics records provider calls and cache lookups.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the clock used for cache expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBreaker replaces the default circuit breaker settings.
func WithBreaker(cfg BreakerConfig) Option {
	return func(s *Service) { s.breakerCfg = cfg }
}

// NewService creates a catalog service over provider.
func NewService(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider:    provider,
		limit:       DefaultLimit,
		ttl:         DefaultCacheTTL,
		concurrency: DefaultConcurrency,
		logger:      zap.NewNop(),
		now:         time.Now,
		breakerCfg:  DefaultBreakerConfig(provider.Name()),
		cache:       make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.breaker = newBreaker(s.breakerCfg, s.logger)
	return s
}

// Provider returns the name of the underlying provider.
func (s *Service) Provider() string {
	return s.provider.Name()
}

// FetchByMood returns tracks for a mood. It never returns nil: provider
// failures are logged and surface as an empty list.
func (s *Service) FetchByMood(ctx context.Context, label string) []Track {
	tracks, err := s.Fetch(ctx, label)
	if err != nil {
		s.logger.Warn("catalog fetch failed",
			zap.String("provider", s.provider.Name()),
			zap.String("mood", label),
			zap.Error(err))
		return []Track{}
	}
	return tracks
}

// Fetch returns tracks for a mood, reporting provider errors.
func (s *Service) Fetch(ctx context.Context, label string) ([]Track, error) {
	key := mood.Key(label)

	if tracks, ok := s.cached(key); ok {
		s.metrics.ObserveCache(true)
		return tracks, nil
	}
	s.metrics.ObserveCache(false)

	category := mood.CategoryFor(label)

	start := time.Now()
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.provider.Tracks(ctx, category, s.limit)
	})
	s.metrics.ObserveCatalog(s.provider.Name(), err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("fetching %s tracks from %s: %w", label, s.provider.Name(), err)
	}

	tracks, _ := result.([]Track)
	if tracks == nil {
		tracks = []Track{}
	}

	s.logger.Debug("catalog fetched",
		zap.String("provider", s.provider.Name()),
		zap.String("mood", label),
		zap.Int("genre_id", category.DeezerGenreID),
		zap.Int("tracks", len(tracks)))

	if s.ttl > 0 {
		s.cacheMu.Lock()
		s.cache[key] = cacheEntry{tracks: tracks, fetchedAt: s.now()}
		s.cacheMu.Unlock()
	}

	return slices.Clone(tracks), nil
}

func (s *Service) cached(key string) ([]Track, bool) {
	if s.ttl <= 0 {
		return nil, false
	}

	s.cacheMu.RLock()
	entry, ok := s.cache[key]
	s.cacheMu.RUnlock()

	if !ok || s.now().Sub(entry.fetchedAt) >= s.ttl {
		return nil, false
	}
	return slices.Clone(entry.tracks), true
}

// Invalidate drops every cached result.
func (s *Service) Invalidate() {
	s.cacheMu.Lock()
	s.cache = make(map[string]cacheEntry)
	s.cacheMu.Unlock()
}

// PrefetchResult reports the outcome of warming one mood.
type PrefetchResult struct {
	Mood   string
	Tracks int
	Error  error
}

// Prefetch warms the cache for labels concurrently. Results are returned in
// the same order as labels. Individual failures are captured in
// PrefetchResult.Error rather than failing the batch.
func (s *Service) Prefetch(ctx context.Context, labels []string) ([]PrefetchResult, error) {
	if len(labels) == 0 {
		return []PrefetchResult{}, nil
	}

	results := make([]PrefetchResult, len(labels))

	type workItem struct {
		index int
		label string
	}
	workCh := make(chan workItem, len(labels))
	for i, label := range labels {
		workCh <- workItem{index: i, label: label}
	}
	close(workCh)

	var wg sync.WaitGroup
	for i := 0; i < s.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for work := range workCh {
				if err := ctx.Err(); err != nil {
					results[work.index] = PrefetchResult{Mood: work.label, Error: err}
					continue
				}

				tracks, err := s.Fetch(ctx, work.label)
				results[work.index] = PrefetchResult{
					Mood:   work.label,
					Tracks: len(tracks),
					Error:  err,
				}
			}
		}()
	}

	wg.Wait()

	if ctx.Err() != nil {
		return results, ctx.Err()
	}
	return results, nil
}

// Warm prefetches every mood in the vocabulary and logs the outcome.
func (s *Service) Warm(ctx context.Context) {
	var labels []string
	for _, info := range mood.All() {
		labels = append(labels, info.Name)
	}

	results, err := s.Prefetch(ctx, labels)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("catalog warm-up interrupted", zap.Error(err))
	}

	var warmed int
	for _, r := range results {
		if r.Error != nil {
			s.logger.Warn("catalog warm-up failed", zap.String("mood", r.Mood), zap.Error(r.Error))
			continue
		}
		warmed++
	}
	s.logger.Info("catalog warmed",
		zap.String("provider", s.provider.Name()),
		zap.Int("moods", warmed),
		zap.Int("failed", len(results)-warmed))
}
