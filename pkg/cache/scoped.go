package cache

// ScopedKeyer prefixes every key of an inner Keyer. Several projects can
// then share one Redis instance without their entries colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "survey-2024:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. An empty prefix returns inner
// unchanged.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if prefix == "" {
		return inner
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) TreeKey(dataHash string, opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(dataHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(treeHash, opts)
}
