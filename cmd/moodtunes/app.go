package main

import (
	"context"
	"fmt"
	"io"

	"github.com/zmb3/spotify/v2"
	"go.uber.org/zap"

	"github.com/justestif/moodtunes/internal/analysis"
	"github.com/justestif/moodtunes/internal/artwork"
	"github.com/justestif/moodtunes/internal/auth"
	"github.com/justestif/moodtunes/internal/catalog"
	"github.com/justestif/moodtunes/internal/config"
	"github.com/justestif/moodtunes/internal/db"
	"github.com/justestif/moodtunes/internal/deezer"
	"github.com/justestif/moodtunes/internal/eras"
	"github.com/justestif/moodtunes/internal/lastfm"
	"github.com/justestif/moodtunes/internal/logging"
	"github.com/justestif/moodtunes/internal/metrics"
	spotifyprovider "github.com/justestif/moodtunes/internal/spotify"
	"github.com/justestif/moodtunes/internal/sqlite"
	"github.com/justestif/moodtunes/internal/store"
)

// app holds the components shared by every command.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	store   *store.Store

	closers []func()
}

// newApp loads configuration and opens the log store. Logs go to logOut.
func newApp(ctx context.Context, configPath string, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.NewTo(cfg.Log, logOut)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(),
	}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	backend, err := a.openBackend(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = store.New(backend,
		store.WithLogger(logger.Named("store")),
		store.WithMetrics(a.metrics),
	)

	return a, nil
}

// openBackend selects the storage driver named in the config.
func (a *app) openBackend(ctx context.Context) (store.Backend, error) {
	storage := a.cfg.Storage

	switch storage.Driver {
	case "memory":
		return store.NewMemory(), nil
	case "postgres":
		database, err := db.New(ctx, storage.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		a.closers = append(a.closers, database.Close)
		return database.MoodLogs(), nil
	default:
		database, err := sqlite.Open(ctx, storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		a.closers = append(a.closers, func() { _ = database.Close() })
		a.logger.Debug("sqlite opened", zap.String("path", storage.SQLitePath))
		return database, nil
	}
}

// catalog builds the catalog service for the configured provider.
func (a *app) catalog(ctx context.Context) (*catalog.Service, error) {
	provider, err := a.provider(ctx)
	if err != nil {
		return nil, err
	}

	return catalog.NewService(provider,
		catalog.WithLimit(a.cfg.Catalog.Limit),
		catalog.WithCacheTTL(a.cfg.Catalog.CacheTTL),
		catalog.WithLogger(a.logger.Named("catalog")),
		catalog.WithMetrics(a.metrics),
	), nil
}

func (a *app) provider(ctx context.Context) (catalog.Provider, error) {
	cc := a.cfg.Catalog

	switch cc.Provider {
	case "spotify":
		return a.spotifyProvider(ctx)
	case "lastfm":
		client, err := lastfm.NewClient(lastfm.Config{
			APIKey:  a.cfg.LastFM.APIKey,
			BaseURL: a.cfg.LastFM.BaseURL,
			Timeout: cc.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("creating last.fm client: %w", err)
		}
		return lastfm.NewProvider(client), nil
	default:
		return deezer.NewProvider(deezer.NewClient(deezer.Config{
			BaseURL: cc.BaseURL,
			Timeout: cc.Timeout,
		})), nil
	}
}

func (a *app) spotifyProvider(ctx context.Context) (catalog.Provider, error) {
	sc := a.cfg.Spotify
	tokenPath := sc.TokenCache
	if tokenPath == "" {
		p, err := auth.DefaultTokenPath()
		if err != nil {
			return nil, err
		}
		tokenPath = p
	}

	authenticator, err := auth.New(sc.ClientID, sc.ClientSecret, auth.NewTokenCache(tokenPath),
		auth.WithLogger(a.logger.Named("auth")))
	if err != nil {
		return nil, fmt.Errorf("creating spotify authenticator: %w", err)
	}

	httpClient := authenticator.HTTPClient(ctx)
	httpClient.Timeout = a.cfg.Catalog.Timeout
	api := spotify.New(httpClient)

	return spotifyprovider.NewProvider(spotifyprovider.New(api, sc.Market)), nil
}

func (a *app) eras() *eras.Service {
	return eras.New(a.store, analysis.EraConfig{
		NumClusters:    a.cfg.Eras.Clusters,
		MinClusterSize: a.cfg.Eras.MinClusterSize,
	}, a.logger.Named("eras"))
}

func (a *app) artwork() *artwork.Loader {
	return artwork.New(
		artwork.WithLogger(a.logger.Named("artwork")),
		artwork.WithMetrics(a.metrics),
	)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
