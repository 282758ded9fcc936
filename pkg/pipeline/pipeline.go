// Package pipeline provides the load → build → layout → render pipeline
// behind the tablescope CLI and preview host.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read records from CSV, TSV, JSON, YAML or SQLite and apply filters
//  2. Build: Partition records into a hierarchy or extract a co-occurrence graph
//  3. Layout: Tile the treemap or run the force simulation, drawing the SVG
//  4. Render: Derive the requested formats (SVG, HTML, JSON, PNG, PDF)
//
// Build failures caused by unusable input (no records, unknown attribute,
// a graph without edges) are not errors: the layout stage draws the
// "No data available" empty state instead.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:      "cases.csv",
//	    Viz:        pipeline.VizTreemap,
//	    Attributes: []string{"gender", "outcome"},
//	    Formats:    []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tablescope/pkg/cache"
	"github.com/matzehuels/tablescope/pkg/errors"
	"github.com/matzehuels/tablescope/pkg/graph"
	"github.com/matzehuels/tablescope/pkg/hierarchy"
	"github.com/matzehuels/tablescope/pkg/layout/force"
	layout "github.com/matzehuels/tablescope/pkg/layout/treemap"
	"github.com/matzehuels/tablescope/pkg/records"
	"github.com/matzehuels/tablescope/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Config and Preview
// =============================================================================

const (
	// DefaultWidth is the default viewport width in pixels.
	DefaultWidth = 960.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 600.0

	// DefaultOuterPadding surrounds every group in the treemap.
	DefaultOuterPadding = 3.0

	// DefaultInnerPadding separates sibling cells.
	DefaultInnerPadding = 1.0

	// DefaultMaxTicks caps the force simulation.
	DefaultMaxTicks = force.DefaultTicks

	// DefaultSeed is the default random seed for reproducible graph layouts.
	DefaultSeed = int64(42)

	// DefaultPNGScale renders PNGs at twice the viewport resolution.
	DefaultPNGScale = 2.0

	// DefaultEngine is the default force layout engine.
	DefaultEngine = force.EngineNative

	// DefaultDragPolicy is applied when a drag ends.
	DefaultDragPolicy = force.Release
)

// DefaultTiling is the default treemap tiling.
const DefaultTiling = layout.Squarify

// Visualization types.
const (
	VizTreemap = "treemap"
	VizGraph   = "graph"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatJSON = "json"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatHTML: true,
	FormatJSON: true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTreemap: true,
	VizGraph:   true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
type Options struct {
	// Load options
	Input     string   `json:"input"`
	Format    string   `json:"format,omitempty"`
	Delimiter string   `json:"delimiter,omitempty"`
	Table     string   `json:"table,omitempty"`
	Query     string   `json:"query,omitempty"`
	Where     []string `json:"where,omitempty"`
	Refresh   bool     `json:"refresh,omitempty"`

	// Build options
	Viz        string              `json:"viz,omitempty"`
	Attributes []string            `json:"attributes,omitempty"`
	Domains    map[string][]string `json:"domains,omitempty"`
	Fields     []string            `json:"fields,omitempty"`
	Separator  string              `json:"separator,omitempty"`

	// Layout options
	Viewport   render.Viewport `json:"viewport"`
	Margin     render.Margin   `json:"margin"`
	Padding    layout.Padding  `json:"padding"`
	Tiling     string          `json:"tiling,omitempty"`
	Engine     string          `json:"engine,omitempty"`
	Force      force.Config    `json:"force"`
	MaxTicks   int             `json:"max_ticks,omitempty"`
	Seed       int64           `json:"seed,omitempty"`
	DragPolicy string          `json:"drag_policy,omitempty"`

	// Render options
	Selection string                       `json:"selection,omitempty"`
	Palette   map[string]map[string]string `json:"palette,omitempty"`
	Formats   []string                     `json:"formats,omitempty"`
	PNGScale  float64                      `json:"png_scale,omitempty"`
	Title     string                       `json:"title,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Records is the filtered record set the visualization was built from.
	Records *records.RecordSet

	// RecordsHash is the content hash of Records.
	RecordsHash string

	// Hierarchy is set for treemaps whose input was usable.
	Hierarchy *hierarchy.Node

	// Graph is set for graphs whose input was usable.
	Graph *graph.Graph

	// Layout is the positioned geometry of the primary document.
	Layout *Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Empty reports whether the run produced the empty state.
func (r *Result) Empty() bool { return r.Layout == nil || r.Layout.Empty != "" }

// Stats contains pipeline execution statistics.
type Stats struct {
	RecordCount int
	NodeCount   int
	EdgeCount   int
	LoadTime    time.Duration
	BuildTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, html, json, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(viz string) error {
	if !ValidVizTypes[viz] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid viz: %q (must be one of: treemap, graph)", viz)
	}
	return nil
}

// ValidateTiling checks that a tiling name is supported.
func ValidateTiling(name string) error {
	for _, t := range layout.Tilings {
		if string(t) == name {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidConfig, "invalid tiling: %q (must be one of: squarify, slice-dice)", name)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the input and filter expressions.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}
	if _, err := o.loadOptions(); err != nil {
		return err
	}
	for _, w := range o.Where {
		if _, err := records.ParseWhere(w); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for hierarchy building and layout.
func (o *Options) SetLayoutDefaults() {
	if o.Viz == "" {
		o.Viz = VizTreemap
	}
	if o.Viewport.Width == 0 {
		o.Viewport.Width = DefaultWidth
	}
	if o.Viewport.Height == 0 {
		o.Viewport.Height = DefaultHeight
	}
	if o.Padding == (layout.Padding{}) {
		o.Padding = layout.Padding{Outer: DefaultOuterPadding, Inner: DefaultInnerPadding}
	}
	if o.Tiling == "" {
		o.Tiling = string(DefaultTiling)
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.MaxTicks == 0 {
		o.MaxTicks = DefaultMaxTicks
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.DragPolicy == "" {
		o.DragPolicy = string(DefaultDragPolicy)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for building and layout.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateVizType(o.Viz); err != nil {
		return err
	}
	switch o.Viz {
	case VizTreemap:
		if len(o.Attributes) == 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "treemap requires at least one attribute")
		}
		if err := errors.ValidateFieldNames(o.Attributes); err != nil {
			return err
		}
	case VizGraph:
		if len(o.Fields) == 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "graph requires entity fields")
		}
		if err := errors.ValidateFieldNames(o.Fields); err != nil {
			return err
		}
	}
	if err := o.Viewport.Validate(); err != nil {
		return err
	}
	if err := o.Margin.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateDimension("outer padding", o.Padding.Outer); err != nil {
		return err
	}
	if err := errors.ValidateDimension("inner padding", o.Padding.Inner); err != nil {
		return err
	}
	if err := ValidateTiling(o.Tiling); err != nil {
		return err
	}
	if _, err := force.NewEngine(o.Engine, o.Force); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid engine")
	}
	if _, err := force.ParseDragPolicy(o.DragPolicy); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid drag policy")
	}
	if o.MaxTicks < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max ticks cannot be negative (got %d)", o.MaxTicks)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Title == "" {
		o.Title = "tablescope " + o.Viz
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	for attr, values := range o.Palette {
		for value, color := range values {
			if err := errors.ValidateHexColor(color); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "palette %s=%s", attr, value)
			}
		}
	}
	return nil
}

// IsTreemap returns true for the treemap visualization.
func (o *Options) IsTreemap() bool {
	return o.Viz == "" || o.Viz == VizTreemap
}

// IsGraph returns true for the co-occurrence graph.
func (o *Options) IsGraph() bool {
	return o.Viz == VizGraph
}

// NeedsStatic reports whether a raster format was requested, which is
// drawn from a script-free document.
func (o *Options) NeedsStatic() bool {
	for _, f := range o.Formats {
		if f == FormatPNG || f == FormatPDF {
			return true
		}
	}
	return false
}

// loadOptions translates the load fields to [records.LoadOptions].
func (o *Options) loadOptions() (records.LoadOptions, error) {
	lo := records.LoadOptions{Format: o.Format, Table: o.Table, Query: o.Query}
	switch d := []rune(o.Delimiter); len(d) {
	case 0:
	case 1:
		lo.Delimiter = d[0]
	default:
		if o.Delimiter == `\t` {
			lo.Delimiter = '\t'
			break
		}
		return lo, errors.New(errors.ErrCodeInvalidConfig, "delimiter must be a single character (got %q)", o.Delimiter)
	}
	return lo, nil
}

// ArtifactKeyOpts returns the cache key options for one output format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Viz:      o.Viz,
		Format:   format,
		Width:    o.Viewport.Width,
		Height:   o.Viewport.Height,
		Margin:   o.Margin,
		Palette:  o.Palette,
		Where:    o.Where,
		Static:   format == FormatPNG || format == FormatPDF,
		PNGScale: o.PNGScale,
	}
	if o.IsGraph() {
		k.Fields = o.Fields
		k.Separator = o.Separator
		k.Engine = o.Engine
		k.MaxTicks = o.MaxTicks
		k.Seed = o.Seed
		if o.Force != (force.Config{}) {
			k.Force = o.Force
		}
		return k
	}
	k.Fields = o.Attributes
	k.Domains = o.Domains
	k.Padding = o.Padding
	k.Tiling = o.Tiling
	k.Selection = o.Selection
	return k
}

// String summarizes the options for log output.
func (o *Options) String() string {
	if o.IsGraph() {
		return fmt.Sprintf("graph(%v)", o.Fields)
	}
	return fmt.Sprintf("treemap(%v)", o.Attributes)
}
