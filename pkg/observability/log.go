package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Errors are logged
// at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnLoad(_ context.Context, userID string, page, items int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("collection load failed", "user", userID, "page", page, "err", err)
		return
	}
	h.logger.Debug("collection loaded", "user", userID, "page", page, "items", items, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnTransition(_ context.Context, from, event, to string) {
	h.logger.Debug("selection", "from", from, "event", event, "to", to)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("request failed", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ ViewHooks  = (*LogHooks)(nil)
	_ CacheHooks = (*LogHooks)(nil)
	_ HTTPHooks  = (*LogHooks)(nil)
)
