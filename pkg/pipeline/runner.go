package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tablescope/pkg/cache"
	"github.com/matzehuels/tablescope/pkg/errors"
	"github.com/matzehuels/tablescope/pkg/graph"
	"github.com/matzehuels/tablescope/pkg/hierarchy"
	"github.com/matzehuels/tablescope/pkg/observability"
	"github.com/matzehuels/tablescope/pkg/records"
)

// formatLayout is the pseudo-format under which the layout export of a
// cached render is stored.
const formatLayout = "layout"

// Runner encapsulates pipeline execution with caching.
// Both the CLI commands and the preview host use it.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// Built is the output of the build stage. Exactly one field is set for
// usable input; both are nil when the input can only produce the empty
// state.
type Built struct {
	Hierarchy *hierarchy.Node
	Graph     *graph.Graph
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → build → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Load
	loadStart := time.Now()
	rs, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Records = rs
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.RecordCount = rs.Len()

	result.RecordsHash, err = RecordsHash(rs)
	if err != nil {
		return nil, fmt.Errorf("hash records: %w", err)
	}

	r.Logger.Info("loaded records",
		"records", rs.Len(),
		"fields", len(rs.Fields()),
		"duration", result.Stats.LoadTime)

	// Stages 2-4 are skipped entirely when every artifact is cached.
	if !opts.Refresh {
		if artifacts, l, ok := r.cached(ctx, result.RecordsHash, opts); ok {
			result.Artifacts = artifacts
			result.Layout = l
			result.CacheInfo.RenderHit = true
			r.Logger.Info("rendered outputs", "formats", opts.Formats, "cached", true)
			return result, nil
		}
	}

	// Stage 2: Build
	buildStart := time.Now()
	built, err := r.Build(ctx, rs, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Hierarchy, result.Graph = built.Hierarchy, built.Graph
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount, result.Stats.EdgeCount = built.counts()

	r.Logger.Info("built "+opts.Viz,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.BuildTime)

	// Stage 3: Layout
	layoutStart := time.Now()
	docs, err := r.Draw(ctx, built, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = docs.Layout
	result.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Info("computed layout",
		"empty", docs.Layout.Empty != "",
		"duration", result.Stats.LayoutTime)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, docs, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	r.store(ctx, result.RecordsHash, artifacts, docs.Layout, opts)
	return result, nil
}

// Load reads and filters the input records. Decoded source files are
// cached by content hash, so SQLite queries and large files are parsed
// once per change.
func (r *Runner) Load(ctx context.Context, opts Options) (*records.RecordSet, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Input)
	start := time.Now()

	rs, err := r.loadWithCache(ctx, opts)
	if err == nil {
		rs, err = Filter(rs, opts)
	}
	hooks.OnLoadComplete(ctx, opts.Input, rs.Len(), time.Since(start), err)
	return rs, err
}

func (r *Runner) loadWithCache(ctx context.Context, opts Options) (*records.RecordSet, error) {
	sum, err := hashFile(opts.Input)
	if err != nil {
		// Let the loader report a missing or unreadable file.
		return loadSource(ctx, opts)
	}
	key := r.Keyer.RecordsKey(sum, sourceKey{
		Format:    opts.Format,
		Delimiter: opts.Delimiter,
		Table:     opts.Table,
		Query:     opts.Query,
	})

	hooks := observability.Cache()
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if rs, err := records.ReadJSON(bytes.NewReader(data)); err == nil {
				hooks.OnCacheHit(ctx, "records")
				return rs, nil
			}
		}
		hooks.OnCacheMiss(ctx, "records")
	}

	rs, err := loadSource(ctx, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := rs.WriteJSON(&buf); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLRecords); err == nil {
			hooks.OnCacheSet(ctx, "records", buf.Len())
		}
	}
	return rs, nil
}

// Build constructs the hierarchy or graph for rs. Unusable input yields
// an empty Built and a warning instead of an error.
func (r *Runner) Build(ctx context.Context, rs *records.RecordSet, opts Options) (*Built, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, opts.Viz, rs.Len())
	start := time.Now()

	built := &Built{}
	var err error
	if opts.IsGraph() {
		built.Graph, err = ExtractGraph(rs, opts)
	} else {
		built.Hierarchy, err = BuildHierarchy(rs, opts)
	}
	if errors.Is(err, errors.ErrCodeInvalidInput) {
		r.Logger.Warn("nothing to draw", "viz", opts.Viz, "reason", errors.UserMessage(err))
		built, err = &Built{}, nil
	}

	nodes, _ := built.counts()
	hooks.OnBuildComplete(ctx, opts.Viz, nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return built, nil
}

// Draw lays out and draws built. A static document is drawn as well when
// a raster format is requested.
func (r *Runner) Draw(ctx context.Context, built *Built, opts Options) (Documents, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return Documents{}, err
	}
	opts.SetRenderDefaults()
	if built == nil {
		built = &Built{}
	}

	nodes, _ := built.counts()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Viz, nodes)
	start := time.Now()

	docs, err := draw(ctx, built, opts, false)
	if err == nil && opts.NeedsStatic() {
		var static Documents
		static, err = draw(ctx, built, opts, true)
		docs.Static = static.Interactive
	}

	hooks.OnLayoutComplete(ctx, opts.Viz, time.Since(start), err)
	return docs, err
}

func draw(ctx context.Context, built *Built, opts Options, static bool) (Documents, error) {
	var (
		svg []byte
		l   *Layout
		err error
	)
	if opts.IsGraph() {
		svg, l, err = DrawGraph(ctx, built.Graph, opts, static)
	} else {
		svg, l, err = DrawTreemap(built.Hierarchy, opts, static)
	}
	return Documents{Interactive: svg, Layout: l}, err
}

// Render derives the requested formats from docs.
func (r *Runner) Render(ctx context.Context, docs Documents, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := Render(ctx, docs, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return cache.HashReader(f)
}

// RecordsHash returns the content hash of rs.
func RecordsHash(rs *records.RecordSet) (string, error) {
	var buf bytes.Buffer
	if err := rs.WriteJSON(&buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// cached returns every requested artifact plus the layout when all of them
// are in the cache.
func (r *Runner) cached(ctx context.Context, recordsHash string, opts Options) (map[string][]byte, *Layout, bool) {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range append([]string{formatLayout}, opts.Formats...) {
		key := r.Keyer.ArtifactKey(recordsHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, format)
			return nil, nil, false
		}
		hooks.OnCacheHit(ctx, format)
		artifacts[format] = data
	}

	l, err := UnmarshalLayout(artifacts[formatLayout])
	if err != nil {
		return nil, nil, false
	}
	delete(artifacts, formatLayout)
	return artifacts, l, true
}

// store caches every artifact and the layout. Failures only cost a future
// cache miss and are logged at debug level.
func (r *Runner) store(ctx context.Context, recordsHash string, artifacts map[string][]byte, l *Layout, opts Options) {
	hooks := observability.Cache()
	put := func(format string, data []byte) {
		key := r.Keyer.ArtifactKey(recordsHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "error", err)
			return
		}
		hooks.OnCacheSet(ctx, format, len(data))
	}

	data, err := MarshalLayout(l)
	if err != nil {
		return
	}
	put(formatLayout, data)
	for format, data := range artifacts {
		put(format, data)
	}
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (b *Built) counts() (nodes, edges int) {
	switch {
	case b == nil:
	case b.Graph != nil:
		return len(b.Graph.Nodes), len(b.Graph.Edges)
	case b.Hierarchy != nil:
		hierarchy.Walk(b.Hierarchy, func(*hierarchy.Node, []*hierarchy.Node) bool {
			nodes++
			return true
		})
	}
	return nodes, edges
}
