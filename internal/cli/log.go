// Package cli implements the tablescope command-line interface.
//
// This package provides commands for turning tabular records into treemap
// and co-occurrence graph visualizations, inspecting the intermediate
// hierarchy and graph, serving a local preview, and managing the artifact
// cache. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - treemap: Render nested groupings of records as a treemap
//   - graph: Render entity co-occurrence as a force-directed graph
//   - inspect: Print the hierarchy as a tree or the graph as tables
//   - pick: Choose a treemap leaf interactively and render the selection
//   - preview: Serve both visualizations locally and re-render on change
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context, and pipeline, cache and preview events
// are logged through observability hooks at debug level.
package cli

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tablescope/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Loaded 1200 records (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks reports pipeline, cache and preview events at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.PipelineHooks = logHooks{}
	_ observability.CacheHooks    = logHooks{}
	_ observability.PreviewHooks  = logHooks{}

	registerOnce sync.Once
)

// registerHooks installs logHooks for the process.
func registerHooks(l *log.Logger) {
	registerOnce.Do(func() {
		h := logHooks{logger: l}
		observability.SetPipelineHooks(h)
		observability.SetCacheHooks(h)
		observability.SetPreviewHooks(h)
	})
}

func (h logHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("load started", "source", source)
}

func (h logHooks) OnLoadComplete(_ context.Context, source string, n int, d time.Duration, err error) {
	h.logger.Debug("load finished", "source", source, "records", n, "duration", d, "error", err)
}

func (h logHooks) OnBuildStart(_ context.Context, viz string, n int) {
	h.logger.Debug("build started", "viz", viz, "records", n)
}

func (h logHooks) OnBuildComplete(_ context.Context, viz string, nodes int, d time.Duration, err error) {
	h.logger.Debug("build finished", "viz", viz, "nodes", nodes, "duration", d, "error", err)
}

func (h logHooks) OnLayoutStart(_ context.Context, viz string, nodes int) {
	h.logger.Debug("layout started", "viz", viz, "nodes", nodes)
}

func (h logHooks) OnLayoutComplete(_ context.Context, viz string, d time.Duration, err error) {
	h.logger.Debug("layout finished", "viz", viz, "duration", d, "error", err)
}

func (h logHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render started", "formats", formats)
}

func (h logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render finished", "formats", formats, "duration", d, "error", err)
}

func (h logHooks) OnCacheHit(_ context.Context, kind string) {
	h.logger.Debug("cache hit", "kind", kind)
}

func (h logHooks) OnCacheMiss(_ context.Context, kind string) {
	h.logger.Debug("cache miss", "kind", kind)
}

func (h logHooks) OnCacheSet(_ context.Context, kind string, size int) {
	h.logger.Debug("cache write", "kind", kind, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("request", "method", method, "path", path, "status", status, "duration", d)
}

func (h logHooks) OnSelect(_ context.Context, selection string) {
	h.logger.Info("selection changed", "selection", selection)
}

func (h logHooks) OnReload(_ context.Context, path string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("reload failed", "path", path, "error", err)
		return
	}
	h.logger.Info("input changed", "path", path, "duration", d)
}
