package cache

// ScopedKeyer wraps a Keyer with a prefix, so that responses from different
// backends (or different signed-in users) never share entries.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "api:"+Hash([]byte(baseURL))[:12]+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// CollectionKey generates a prefixed key for a collection page.
func (k *ScopedKeyer) CollectionKey(userID string, page, size int) string {
	return k.prefix + k.inner.CollectionKey(userID, page, size)
}

// UserKey generates a prefixed key for a user profile.
func (k *ScopedKeyer) UserKey(userID string) string {
	return k.prefix + k.inner.UserKey(userID)
}
