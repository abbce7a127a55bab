package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The API server uses it so models cached on behalf of different stores
// or tenants never collide with locally built ones.
//
// Example usage:
//
//	// Per-tenant keys on a shared Redis
//	tenantKeyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "tenant:abc123:")
//
//	// Plain keys for local CLI use
//	localKeyer := cache.NewDefaultKeyer()
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

// ModelKey generates a prefixed key for model caching.
func (k *ScopedKeyer) ModelKey(projectHash string, opts ModelKeyOpts) string {
	return k.prefix + k.inner.ModelKey(projectHash, opts)
}

// ShapeKey generates a prefixed key for shape caching.
func (k *ScopedKeyer) ShapeKey(params map[string]string) string {
	return k.prefix + k.inner.ShapeKey(params)
}
