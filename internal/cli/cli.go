// Package cli implements the setlist command-line interface.
//
// The main command is browse, an interactive card grid of a user's concert
// collection: cards tilt under the mouse, a click selects and elevates a
// card, a second click flips it, and a click anywhere else closes it.
// The remaining commands manage the signed-in user, edit concerts, render
// card previews and diagrams, run a development backend, and manage the
// response cache.
//
// # Configuration
//
// Settings come from pkg/config (defaults, TOML file, SETLIST_* variables)
// and are overridden by the global flags of the root command.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The browse
// TUI owns the terminal, so while it runs log output goes to --log-file or
// is discarded.
package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/setlist/pkg/cache"
	"github.com/matzehuels/setlist/pkg/catalog"
	"github.com/matzehuels/setlist/pkg/config"
	"github.com/matzehuels/setlist/pkg/i18n"
	"github.com/matzehuels/setlist/pkg/observability"
	"github.com/matzehuels/setlist/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "setlist"

	// redisPrefix keeps setlist entries apart in a shared Redis database.
	redisPrefix = "setlist:"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg   *config.Config
	flags globalFlags
}

// globalFlags are the persistent flags of the root command. Zero values
// leave the configured setting alone.
type globalFlags struct {
	configPath string
	apiURL     string
	locale     string
	pageSize   int
	source     string
	noCache    bool
	refresh    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig resolves the settings and applies the flags that were set on
// the command line.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.flags.configPath)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("api-url") {
		cfg.APIURL = c.flags.apiURL
	}
	if f.Changed("locale") {
		cfg.Locale = c.flags.locale
	}
	if f.Changed("page-size") {
		cfg.PageSize = c.flags.pageSize
	}
	if f.Changed("source") {
		cfg.Source = c.flags.source
	}
	if c.flags.noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("config loaded", "api", cfg.APIURL, "source", cfg.Source, "cache", cfg.Cache.Backend, "locale", cfg.Locale)
	return nil
}

// config returns the loaded settings, or the defaults before loading.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// labels returns the user-facing labels for the configured locale.
func (c *CLI) labels() *i18n.Labels {
	return i18n.Default().Labels(c.config().Locale)
}

// installHooks routes observability events to l.
func installHooks(l *log.Logger) {
	h := observability.NewLogHooks(l)
	observability.SetViewHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

// =============================================================================
// Factories
// =============================================================================

// newCache opens the configured response cache.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.config().Cache
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   redisPrefix,
		})
	default:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	}
}

// sessionStore opens the store of the signed-in user.
func sessionStore() (*session.CLIStore, error) {
	return session.NewCLIStore("")
}

// currentSession returns the signed-in user, or nil when signed out.
func currentSession(ctx context.Context) *session.Session {
	store, err := sessionStore()
	if err != nil {
		return nil
	}
	sess, err := store.GetSession(ctx)
	if err != nil {
		return nil
	}
	return sess
}

// newClient creates a backend client that caches reads and identifies the
// signed-in user. The returned cleanup closes the cache.
func (c *CLI) newClient(ctx context.Context, logger *log.Logger) (*catalog.Client, func(), error) {
	cc, err := c.newCache(ctx)
	if err != nil {
		logger.Warn("cache unavailable, continuing without", "err", err)
		cc = cache.NewNullCache()
	}
	cfg := c.config()
	client, err := catalog.NewClient(cfg.APIURL,
		catalog.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		catalog.WithCache(cc, cfg.Cache.TTL),
		catalog.WithRefresh(c.flags.refresh),
		catalog.WithHeaders(currentSession(ctx).Headers()),
		catalog.WithLogger(logger),
	)
	if err != nil {
		cc.Close()
		return nil, nil, err
	}
	return client, func() { cc.Close() }, nil
}

// newSource opens the configured collection source.
func (c *CLI) newSource(ctx context.Context, logger *log.Logger) (catalog.Source, func(), error) {
	cfg := c.config()
	if cfg.Source != config.SourceMongo {
		client, cleanup, err := c.newClient(ctx, logger)
		if err != nil {
			return nil, nil, err
		}
		return client, cleanup, nil
	}
	src, err := catalog.NewMongoSource(ctx, catalog.MongoConfig{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}
	return src, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		if err := src.Close(ctx); err != nil {
			logger.Warn("close mongo", "err", err)
		}
	}, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/setlist/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
