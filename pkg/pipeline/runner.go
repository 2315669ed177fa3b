package pipeline

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dfdlayout/pkg/cache"
	"github.com/matzehuels/dfdlayout/pkg/dfd"
	"github.com/matzehuels/dfdlayout/pkg/graph"
	"github.com/matzehuels/dfdlayout/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means [cache.DefaultKeyer], a nil
// cache disables caching, a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs layout then render with caching.
func (r *Runner) Execute(ctx context.Context, g dfd.Graph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	result := &Result{GraphHash: GraphHash(g)}
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)

	layoutStart := time.Now()
	l, hit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = hit

	logger.Info("computed layout",
		"nodes", len(l.Nodes),
		"levels", l.MaxLevel+1,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GraphHash is the content hash of a graph's canonical JSON encoding.
func GraphHash(g dfd.Graph) string {
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// LayoutWithCacheInfo computes a layout with caching and reports whether
// it came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g dfd.Graph, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	logger := r.logger(opts)
	key := r.Keyer.LayoutKey(GraphHash(g), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if l, ok := r.cachedLayout(ctx, key, logger); ok {
			return l, true, nil
		}
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, len(g.Nodes), len(g.Edges))
	start := time.Now()
	l, err := GenerateLayout(g, opts)
	hooks.OnLayoutComplete(ctx, len(g.Nodes), time.Since(start), err)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if data, err := graph.MarshalLayout(l); err == nil {
		r.store(ctx, key, "layout", data, cache.TTLLayout, logger)
	}
	return l, false, nil
}

// Layout is LayoutWithCacheInfo without the cache hit flag.
func (r *Runner) Layout(ctx context.Context, g dfd.Graph, opts Options) (graph.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return l, err
}

func (r *Runner) cachedLayout(ctx context.Context, key string, logger *log.Logger) (graph.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "key", key, "err", err)
		return graph.Layout{}, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return graph.Layout{}, false
	}
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		logger.Debug("discarding unreadable cached layout", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, "layout")
		return graph.Layout{}, false
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return l, true
}

// RenderWithCacheInfo renders every requested format, reusing cached
// artifacts per format. The flag reports whether all of them were cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	logger := r.logger(opts)

	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if slices.Contains(missing, format) || artifacts[format] != nil {
			continue
		}
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			} else if err != nil {
				logger.Warn("cache read failed", "key", key, "err", err)
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	hooks := observability.Render()
	hooks.OnRenderStart(ctx, missing)
	start := time.Now()
	rendered, err := RenderFromLayout(ctx, l, sub)
	hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, key, "artifact", data, cache.TTLArtifact, logger)
	}
	return artifacts, false, nil
}

// Render is RenderWithCacheInfo without the cache hit flag.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// store writes to the cache. Failures are logged, never returned: the
// result is already computed.
func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration, logger *log.Logger) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
