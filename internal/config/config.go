// Package config loads MoodTunes settings from defaults, TOML files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/justestif/moodtunes/internal/logging"
)

// EnvPrefix prefixes environment overrides, e.g. MOODTUNES_CATALOG__LIMIT.
const EnvPrefix = "MOODTUNES_"

const appName = "moodtunes"

// ErrInvalidConfig is returned when the loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig   `koanf:"server"`
	Storage StorageConfig  `koanf:"storage"`
	Catalog CatalogConfig  `koanf:"catalog"`
	Spotify SpotifyConfig  `koanf:"spotify"`
	LastFM  LastFMConfig   `koanf:"lastfm"`
	Log     logging.Config `koanf:"log"`
	Eras    ErasConfig     `koanf:"eras"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `koanf:"addr" validate:"required"`
}

// StorageConfig selects the log store backend.
type StorageConfig struct {
	Driver      string `koanf:"driver" validate:"oneof=sqlite postgres memory"`
	SQLitePath  string `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
	DatabaseURL string `koanf:"database_url" validate:"required_if=Driver postgres"`
}

// CatalogConfig selects and tunes the music catalog.
type CatalogConfig struct {
	Provider    string        `koanf:"provider" validate:"oneof=deezer spotify lastfm"`
	BaseURL     string        `koanf:"base_url" validate:"omitempty,url"`
	Limit       int           `koanf:"limit" validate:"gte=1,lte=100"`
	CacheTTL    time.Duration `koanf:"cache_ttl" validate:"gte=0"`
	Timeout     time.Duration `koanf:"timeout" validate:"gt=0"`
	WarmOnStart bool          `koanf:"warm_on_start"`
}

// SpotifyConfig holds app credentials for the Spotify provider.
type SpotifyConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	Market       string `koanf:"market" validate:"omitempty,len=2"`
	TokenCache   string `koanf:"token_cache"`
}

// LastFMConfig holds the API key for the Last.fm provider.
type LastFMConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
}

// ErasConfig tunes mood-era clustering.
type ErasConfig struct {
	Clusters       int `koanf:"clusters" validate:"gte=1"`
	MinClusterSize int `koanf:"min_cluster_size" validate:"gte=1"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		Storage: StorageConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(dataDir(), "moodtunes.db"),
		},
		Catalog: CatalogConfig{
			Provider: "deezer",
			BaseURL:  "https://api.deezer.com",
			Limit:    15,
			CacheTTL: 10 * time.Minute,
			Timeout:  10 * time.Second,
		},
		Spotify: SpotifyConfig{Market: "US"},
		Log:     logging.DefaultConfig(),
		Eras:    ErasConfig{Clusters: 3, MinClusterSize: 3},
	}
}

func dataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	return "."
}

// Paths returns the config files consulted when no explicit file is given,
// lowest priority first.
func Paths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}
	return append(paths, "config.toml")
}

// Load reads .env, then the config files, then MOODTUNES_* variables.
// When path is non-empty only that file is read, and it must exist.
func Load(path string) (*Config, error) {
	if err := LoadDotenv(".env"); err != nil {
		return nil, err
	}

	if path != "" {
		return load([]string{path}, true)
	}
	return load(Paths(), false)
}

// LoadDotenv exports variables from the given .env files without overriding
// ones already set. Missing files are skipped.
func LoadDotenv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

func load(paths []string, required bool) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if required || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	applyFallbacks(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps MOODTUNES_CATALOG__CACHE_TTL to catalog.cache_ttl.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func applyFallbacks(cfg *Config) {
	if cfg.Spotify.ClientID == "" {
		cfg.Spotify.ClientID = os.Getenv("SPOTIFY_ID")
	}
	if cfg.Spotify.ClientSecret == "" {
		cfg.Spotify.ClientSecret = os.Getenv("SPOTIFY_SECRET")
	}
	if cfg.LastFM.APIKey == "" {
		cfg.LastFM.APIKey = os.Getenv("LASTFM_API_KEY")
	}
	if cfg.Storage.DatabaseURL == "" {
		cfg.Storage.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	cfg.Storage.SQLitePath = expandPath(cfg.Storage.SQLitePath)
	cfg.Spotify.TokenCache = expandPath(cfg.Spotify.TokenCache)
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Catalog.BaseURL = strings.TrimSuffix(cfg.Catalog.BaseURL, "/")
	cfg.Spotify.Market = strings.ToUpper(cfg.Spotify.Market)
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("koanf")
	})
	return v
}

// Validate checks field constraints and cross-section requirements.
func (c *Config) Validate() error {
	var msgs []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		for _, fe := range verrs {
			msgs = append(msgs, formatFieldError(fe))
		}
	}

	if c.Catalog.Provider == "spotify" && (c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "") {
		msgs = append(msgs, "spotify.client_id and spotify.client_secret are required when catalog.provider is spotify")
	}
	if c.Catalog.Provider == "lastfm" && c.LastFM.APIKey == "" {
		msgs = append(msgs, "lastfm.api_key is required when catalog.provider is lastfm")
	}

	if len(msgs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
	}
	return nil
}

func formatFieldError(fe validator.FieldError) string {
	_, field, _ := strings.Cut(fe.Namespace(), ".")
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "url":
		return field + " must be a valid URL"
	case "len":
		return fmt.Sprintf("%s must be %s characters", field, fe.Param())
	case "gt", "gte", "lte":
		return fmt.Sprintf("%s must be %s %s", field, comparison(fe.Tag()), fe.Param())
	default:
		return field + " is invalid"
	}
}

func comparison(tag string) string {
	switch tag {
	case "gt":
		return "greater than"
	case "gte":
		return "at least"
	default:
		return "at most"
	}
}
