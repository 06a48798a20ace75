// Package observability provides hooks for logging and metrics.
//
// Libraries emit events through the registered hooks; the defaults are
// no-ops so nothing is paid unless a consumer registers an implementation at
// startup. [LogHooks] is the implementation used by the CLI: it writes every
// event to a charmbracelet logger at debug level.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    h := observability.NewLogHooks(logger)
//	    observability.SetCacheHooks(h)
//	    observability.SetHTTPHooks(h)
//	    observability.SetViewHooks(h)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.HTTP().OnRequest(ctx, "GET", host, path)
//	observability.View().OnTransition(ctx, "Idle", "click(2)", "Active{2}")
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// View Hooks
// =============================================================================

// ViewHooks receives events from the collection view.
type ViewHooks interface {
	// OnLoad records a collection page load. err is the collaborator error
	// the view degraded from, if any.
	OnLoad(ctx context.Context, userID string, page, items int, duration time.Duration, err error)

	// OnTransition records a selection change.
	OnTransition(ctx context.Context, from, event, to string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopViewHooks is a no-op implementation of ViewHooks.
type NoopViewHooks struct{}

func (NoopViewHooks) OnLoad(context.Context, string, int, int, time.Duration, error) {}
func (NoopViewHooks) OnTransition(context.Context, string, string, string)           {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	viewHooks  ViewHooks  = NoopViewHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetViewHooks registers custom view hooks.
func SetViewHooks(h ViewHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		viewHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// View returns the registered view hooks.
func View() ViewHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return viewHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	viewHooks = NoopViewHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
