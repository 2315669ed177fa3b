package cache

// ScopedKeyer prefixes every key of an embedded Keyer, so deployments or
// engine versions sharing one Redis or MongoDB never read each other's
// entries.
type ScopedKeyer struct {
	Keyer
	Prefix string
}

// NewScopedKeyer scopes inner, or the default keyer when inner is nil.
//
//	keyer := cache.NewScopedKeyer(nil, "v2:")
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Keyer: inner, Prefix: prefix}
}

func (k ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.Prefix + k.Keyer.LayoutKey(graphHash, opts)
}

func (k ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Keyer.ArtifactKey(layoutHash, opts)
}
