package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/setlist/pkg/cache"
	"github.com/matzehuels/setlist/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	// Verify the expected structure: $HOME/.cache/setlist
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "setlist")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join(xdg, "setlist") {
		t.Errorf("cacheDir() = %q, want under %q", dir, xdg)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestNewCacheBackends(t *testing.T) {
	ctx := context.Background()

	c := New(os.Stderr, LogInfo)
	c.cfg = config.Default()
	c.cfg.Cache.Backend = config.CacheNone
	cc, err := c.newCache(ctx)
	if err != nil {
		t.Fatalf("newCache(none) error: %v", err)
	}
	if _, ok := cc.(cache.NullCache); !ok {
		t.Errorf("newCache(none) = %T, want cache.NullCache", cc)
	}

	dir := t.TempDir()
	c.cfg.Cache.Backend = config.CacheFile
	c.cfg.Cache.Dir = dir
	cc, err = c.newCache(ctx)
	if err != nil {
		t.Fatalf("newCache(file) error: %v", err)
	}
	fc, ok := cc.(*cache.FileCache)
	if !ok {
		t.Fatalf("newCache(file) = %T, want *cache.FileCache", cc)
	}
	if fc.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), dir)
	}

	if err := fc.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	var cl clearer = fc
	n, err := cl.Clear(ctx)
	if err != nil || n != 1 {
		t.Errorf("Clear() = %d, %v; want 1, nil", n, err)
	}
}
