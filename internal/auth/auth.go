// Package auth provides Spotify client-credentials authentication with an
// on-disk token cache.
package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrMissingCredentials is returned when the client ID or secret is empty.
var ErrMissingCredentials = errors.New("missing Spotify client ID or secret")

// Authenticator issues app tokens for the Spotify Web API. Catalog search
// needs no user consent, so the client-credentials grant is enough.
type Authenticator struct {
	config *clientcredentials.Config
	cache  *TokenCache
	logger *zap.Logger
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithTokenURL overrides the token endpoint.
func WithTokenURL(url string) Option {
	return func(a *Authenticator) { a.config.TokenURL = url }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Authenticator) { a.logger = logger }
}

// New creates an Authenticator. cache may be nil to skip persistence.
// Returns ErrMissingCredentials if either credential is empty.
func New(clientID, clientSecret string, cache *TokenCache, opts ...Option) (*Authenticator, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}

	a := &Authenticator{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyauth.TokenURL,
		},
		cache:  cache,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// TokenSource returns a token source that starts from the cached token
// while it is valid and persists every newly issued token.
func (a *Authenticator) TokenSource(ctx context.Context) oauth2.TokenSource {
	var cached *oauth2.Token
	if a.cache != nil {
		token, err := a.cache.Load(a.config.ClientID)
		if err != nil {
			a.logger.Warn("ignoring unreadable token cache", zap.String("path", a.cache.Path()), zap.Error(err))
		}
		cached = token
	}

	ts := &persistingTokenSource{
		base:     oauth2.ReuseTokenSource(cached, a.config.TokenSource(ctx)),
		cache:    a.cache,
		clientID: a.config.ClientID,
		logger:   a.logger,
	}
	if cached != nil {
		ts.saved = cached.AccessToken
	}
	return ts
}

// HTTPClient returns an HTTP client that authenticates every request.
func (a *Authenticator) HTTPClient(ctx context.Context) *http.Client {
	return oauth2.NewClient(ctx, a.TokenSource(ctx))
}

// Logout removes the cached token.
func (a *Authenticator) Logout() error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Delete()
}

// persistingTokenSource saves tokens it has not seen before.
type persistingTokenSource struct {
	base     oauth2.TokenSource
	cache    *TokenCache
	clientID string
	logger   *zap.Logger

	mu    sync.Mutex
	saved string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache != nil && token.AccessToken != s.saved {
		if err := s.cache.Save(s.clientID, token); err != nil {
			// Auth succeeded; only persistence failed
			s.logger.Warn("failed to cache token", zap.Error(err))
		} else {
			s.saved = token.AccessToken
		}
	}
	return token, nil
}
