package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

const tokenFileName = "spotify-token.json"

// cacheFile is the on-disk form of a cached app token. Tokens are bound to
// the client ID that requested them.
type cacheFile struct {
	ClientID string        `json:"client_id"`
	SavedAt  time.Time     `json:"saved_at"`
	Token    *oauth2.Token `json:"token"`
}

// TokenCache persists the most recent app token in a single JSON file.
type TokenCache struct {
	path string
	now  func() time.Time
}

// DefaultTokenPath returns ~/.config/moodtunes/spotify-token.json.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "moodtunes", tokenFileName), nil
}

// NewTokenCache returns a cache backed by the file at path.
func NewTokenCache(path string) *TokenCache {
	return &TokenCache{path: path, now: time.Now}
}

func (c *TokenCache) Path() string {
	return c.path
}

// Load returns the cached token for clientID, or nil when there is none,
// it belongs to another client, or it has expired.
func (c *TokenCache) Load(clientID string) (*oauth2.Token, error) {
	raw, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token cache: %w", err)
	}

	var f cacheFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decoding token cache: %w", err)
	}

	switch {
	case f.Token == nil, f.ClientID != clientID:
		return nil, nil
	case !f.Token.Expiry.IsZero() && !f.Token.Expiry.After(c.now()):
		return nil, nil
	}
	return f.Token, nil
}

// Save replaces the cached token. The file is written to a temp file with
// mode 0600 and renamed into place.
func (c *TokenCache) Save(clientID string, token *oauth2.Token) error {
	if token == nil {
		return errors.New("cannot cache nil token")
	}

	raw, err := json.MarshalIndent(cacheFile{
		ClientID: clientID,
		SavedAt:  c.now().UTC(),
		Token:    token,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating token cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	// CreateTemp already uses 0600.
	_, werr := tmp.Write(raw)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		return fmt.Errorf("writing token cache: %w", err)
	}
	return os.Rename(tmpName, c.path)
}

// Delete removes the cache file. A missing file is not an error.
func (c *TokenCache) Delete() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing token cache: %w", err)
	}
	return nil
}
