package cache

import (
	"context"
	"time"
)

// NullCache backs --no-cache and cache backend "none": every read is a
// miss, so each collection page and profile goes to the backend.
type NullCache struct{}

// NewNullCache returns the disabled cache.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

// Clear reports zero removed entries.
func (NullCache) Clear(context.Context) (int, error) { return 0, nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
