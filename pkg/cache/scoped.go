package cache

// Keyer builds cache keys for layouts.
type Keyer interface {
	// LayoutKey returns the key for the layout of the graph with the given
	// document hash under the given options. opts must be JSON-encodable.
	LayoutKey(graphHash string, opts any) string
}

// DefaultKeyer produces "layout:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey hashes the graph hash together with the options.
func (DefaultKeyer) LayoutKey(graphHash string, opts any) string {
	return hashKey("layout", graphHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix. The CLI and server scope keys by
// build version so that a new engine never serves layouts computed by an
// older one.
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts any) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}
