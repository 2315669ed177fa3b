// Package cache provides the storage backends and key scheme for cached
// layouts and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// # Keys
//
// A [Keyer] derives keys from content hashes: a layout key from the hash of
// the input graph plus the layout options, an artifact key from the hash of
// the layout plus the render options. Equal inputs therefore share entries
// across processes. [ScopedKeyer] prefixes every key with a namespace.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	// TTLLayout is how long a computed layout stays cached. Layouts are pure
	// functions of their input, so entries never go stale; the TTL only
	// bounds disk and memory use.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long a rendered artifact stays cached.
	TTLArtifact = 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with found == false and a nil error. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, found bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
// It returns the number of entries removed.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// LayoutKeyOpts are the layout settings that change a layout.
type LayoutKeyOpts struct {
	HorizontalSpacing float64 `json:"hs"`
	VerticalSpacing   float64 `json:"vs"`
	GapRatio          float64 `json:"gap"`
	OutputLabel       string  `json:"output"`
	CyclePolicy       string  `json:"cycles"`
	Collation         string  `json:"collation,omitempty"`
	Diagnostics       bool    `json:"diag,omitempty"`
}

// ArtifactKeyOpts are the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Columns     bool    `json:"columns,omitempty"`
	Labels      bool    `json:"labels,omitempty"`
	Interactive bool    `json:"interactive,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "layout:<sha256>" and
// "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey generates a key for a layout of the graph with the given hash.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for an artifact rendered from a layout.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
