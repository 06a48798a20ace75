// Package config loads setlist's settings.
//
// Settings are resolved in three layers, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. the TOML file at $XDG_CONFIG_HOME/setlist/config.toml
//  3. SETLIST_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// An example file:
//
//	api_url = "http://localhost:8080"
//	locale = "ko-KR"
//	page_size = 12
//
//	[cache]
//	backend = "redis"
//	ttl = "10m"
//	redis_addr = "localhost:6379"
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	serrors "github.com/matzehuels/setlist/pkg/errors"
	"github.com/matzehuels/setlist/pkg/i18n"
)

// Collection sources.
const (
	SourceAPI   = "api"
	SourceMongo = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete set of settings.
type Config struct {
	APIURL   string        `toml:"api_url" env:"SETLIST_API_URL"`
	Locale   string        `toml:"locale" env:"SETLIST_LOCALE"`
	PageSize int           `toml:"page_size" env:"SETLIST_PAGE_SIZE"`
	Timeout  time.Duration `toml:"timeout" env:"SETLIST_TIMEOUT"`
	Source   string        `toml:"source" env:"SETLIST_SOURCE"`

	Cache CacheConfig `toml:"cache" envPrefix:"SETLIST_CACHE_"`
	Mongo MongoConfig `toml:"mongo" envPrefix:"SETLIST_MONGO_"`
	Serve ServeConfig `toml:"serve" envPrefix:"SETLIST_SERVE_"`
}

// CacheConfig selects where fetched pages are cached.
type CacheConfig struct {
	Backend       string        `toml:"backend" env:"BACKEND"`
	TTL           time.Duration `toml:"ttl" env:"TTL"`
	Dir           string        `toml:"dir,omitempty" env:"DIR"`
	RedisAddr     string        `toml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string        `toml:"redis_password,omitempty" env:"REDIS_PASSWORD"`
	RedisDB       int           `toml:"redis_db" env:"REDIS_DB"`
}

// MongoConfig locates the backend database for the mongo source.
type MongoConfig struct {
	URI      string `toml:"uri,omitempty" env:"URI"`
	Database string `toml:"database" env:"DATABASE"`
}

// ServeConfig configures the development backend.
type ServeConfig struct {
	Addr string `toml:"addr" env:"ADDR"`
	Seed string `toml:"seed,omitempty" env:"SEED"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		APIURL:   "http://localhost:8080",
		Locale:   i18n.BaseLocale,
		PageSize: 10,
		Timeout:  10 * time.Second,
		Source:   SourceAPI,
		Cache: CacheConfig{
			Backend:   CacheFile,
			TTL:       5 * time.Minute,
			RedisAddr: "localhost:6379",
		},
		Mongo: MongoConfig{Database: "setlist"},
		Serve: ServeConfig{Addr: "127.0.0.1:8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/setlist/config.toml
// (~/.config/setlist/config.toml when unset).
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "setlist", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "setlist", "config.toml"), nil
}

// Load resolves the settings from defaults, the file at path (DefaultPath
// when empty) and the environment. A missing file is not an error; a file
// with unknown keys is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	md, err := toml.DecodeFile(path, cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, serrors.Wrap(serrors.ErrCodeInvalidConfig, err, "read %s", path)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, serrors.New(serrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, serrors.Wrap(serrors.ErrCodeInvalidConfig, err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if err := serrors.ValidateURL(c.APIURL); err != nil {
		return serrors.Wrap(serrors.ErrCodeInvalidConfig, err, "api_url")
	}
	if _, err := i18n.ParseLocale(c.Locale); err != nil {
		return serrors.Wrap(serrors.ErrCodeInvalidConfig, err, "locale")
	}
	if c.PageSize <= 0 {
		return serrors.New(serrors.ErrCodeInvalidConfig, "page_size must be positive, got %d", c.PageSize)
	}
	if c.Timeout <= 0 {
		return serrors.New(serrors.ErrCodeInvalidConfig, "timeout must be positive, got %s", c.Timeout)
	}
	switch c.Source {
	case SourceAPI:
	case SourceMongo:
		if c.Mongo.URI == "" {
			return serrors.New(serrors.ErrCodeInvalidConfig, "mongo source requires mongo.uri")
		}
	default:
		return serrors.New(serrors.ErrCodeInvalidConfig, "unknown source %q (want %s or %s)", c.Source, SourceAPI, SourceMongo)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return serrors.New(serrors.ErrCodeInvalidConfig, "redis cache requires cache.redis_addr")
		}
	default:
		return serrors.New(serrors.ErrCodeInvalidConfig, "unknown cache backend %q (want %s, %s or %s)", c.Cache.Backend, CacheFile, CacheRedis, CacheNone)
	}
	if c.Cache.TTL < 0 {
		return serrors.New(serrors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	return nil
}

// Write encodes c as TOML. Secrets are left out.
func (c *Config) Write(w io.Writer) error {
	out := *c
	out.Cache.RedisPassword = ""
	out.Mongo.URI = redactURI(out.Mongo.URI)
	return toml.NewEncoder(w).Encode(out)
}

// redactURI hides the credentials of a connection URI.
func redactURI(uri string) string {
	if uri == "" {
		return ""
	}
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return uri
	}
	if _, host, ok := strings.Cut(rest, "@"); ok {
		return scheme + "://***@" + host
	}
	return uri
}
