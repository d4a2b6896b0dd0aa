package cache

// ScopedKeyer wraps a Keyer with a prefix so that several node hosts can
// share one Redis instance without reading each other's entries.
//
//	hostKeyer := NewScopedKeyer(NewDefaultKeyer(), "host:render-01:")
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// RenderKey generates a prefixed key for rendered bitmaps.
func (k *ScopedKeyer) RenderKey(hash string) string {
	return k.prefix + k.inner.RenderKey(hash)
}
