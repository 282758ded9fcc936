// Package config loads tablescope.toml.
//
// A config file supplies the defaults a command runs with; command-line
// flags override individual values. Every section is optional:
//
//	[input]
//	path = "cases.csv"
//	where = ["outcome=1"]
//
//	[viewport]
//	width = 960
//	height = 600
//
//	[treemap]
//	attributes = ["gender", "outcome"]
//	tiling = "squarify"
//
//	[treemap.domains]
//	outcome = ["1", "0"]
//
//	[graph]
//	fields = ["exposure", "contact"]
//	engine = "native"
//	drag = "release"
//
//	[palette.gender]
//	M = "#1f77b4"
//	"*" = "#aec7e8"
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tablescope/pkg/errors"
	layout "github.com/matzehuels/tablescope/pkg/layout/treemap"
	"github.com/matzehuels/tablescope/pkg/pipeline"
	"github.com/matzehuels/tablescope/pkg/render"
)

// FileName is the config file looked up in the working directory.
const FileName = "tablescope.toml"

// Config mirrors tablescope.toml.
type Config struct {
	Input    Input                        `toml:"input"`
	Viewport render.Viewport              `toml:"viewport"`
	Margin   render.Margin                `toml:"margin"`
	Padding  layout.Padding               `toml:"padding"`
	Treemap  Treemap                      `toml:"treemap"`
	Graph    Graph                        `toml:"graph"`
	Palette  map[string]map[string]string `toml:"palette"`
	Output   Output                       `toml:"output"`
	Cache    Cache                        `toml:"cache"`
	Preview  Preview                      `toml:"preview"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Input selects and filters the records.
type Input struct {
	Path      string   `toml:"path"`
	Format    string   `toml:"format"`
	Delimiter string   `toml:"delimiter"`
	Table     string   `toml:"table"`
	Query     string   `toml:"query"`
	Where     []string `toml:"where"`
}

// Treemap configures the hierarchy and its tiling.
type Treemap struct {
	Attributes []string            `toml:"attributes"`
	Tiling     string              `toml:"tiling"`
	Selection  string              `toml:"selection"`
	Domains    map[string][]string `toml:"domains"`
}

// Graph configures entity extraction and the force layout.
type Graph struct {
	Fields       []string `toml:"fields"`
	Separator    string   `toml:"separator"`
	Engine       string   `toml:"engine"`
	Ticks        int      `toml:"ticks"`
	Seed         int64    `toml:"seed"`
	Drag         string   `toml:"drag"`
	LinkDistance float64  `toml:"link_distance"`
	Charge       float64  `toml:"charge"`
}

// Output controls written artifacts.
type Output struct {
	Formats  []string `toml:"formats"`
	PNGScale float64  `toml:"png_scale"`
	Title    string   `toml:"title"`
}

// Cache configures the artifact cache.
type Cache struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
}

// Preview configures the local preview host.
type Preview struct {
	Addr  string `toml:"addr"`
	Watch *bool  `toml:"watch"`
}

// DefaultPreviewAddr is the preview host's listen address.
const DefaultPreviewAddr = "127.0.0.1:8765"

// Load reads path. Unknown keys are rejected so typos surface early.
func Load(path string) (*Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	c.Path = path
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Find loads explicit when set, otherwise tablescope.toml in dir when it
// exists, otherwise an empty config.
func Find(dir, explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		return &Config{}, nil
	}
	return Load(path)
}

// Validate checks values that can be checked without records.
func (c *Config) Validate() error {
	if err := c.Viewport.Validate(); err != nil {
		return err
	}
	if err := c.Margin.Validate(); err != nil {
		return err
	}
	if c.Treemap.Tiling != "" {
		if err := pipeline.ValidateTiling(c.Treemap.Tiling); err != nil {
			return err
		}
	}
	if err := pipeline.ValidateFormats(c.Output.Formats); err != nil {
		return err
	}
	for attr, values := range c.Palette {
		for value, color := range values {
			if err := errors.ValidateHexColor(color); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "palette %s=%s", attr, value)
			}
		}
	}
	return nil
}

// Options converts the config to pipeline options for viz. Zero values
// are left for [pipeline.Options.ValidateAndSetDefaults] to fill.
func (c *Config) Options(viz string) pipeline.Options {
	o := pipeline.Options{
		Input:      c.Input.Path,
		Format:     c.Input.Format,
		Delimiter:  c.Input.Delimiter,
		Table:      c.Input.Table,
		Query:      c.Input.Query,
		Where:      c.Input.Where,
		Viz:        viz,
		Attributes: c.Treemap.Attributes,
		Domains:    c.Treemap.Domains,
		Tiling:     c.Treemap.Tiling,
		Selection:  c.Treemap.Selection,
		Fields:     c.Graph.Fields,
		Separator:  c.Graph.Separator,
		Engine:     c.Graph.Engine,
		MaxTicks:   c.Graph.Ticks,
		Seed:       c.Graph.Seed,
		DragPolicy: c.Graph.Drag,
		Viewport:   c.Viewport,
		Margin:     c.Margin,
		Padding:    c.Padding,
		Palette:    c.Palette,
		Formats:    c.Output.Formats,
		PNGScale:   c.Output.PNGScale,
		Title:      c.Output.Title,
	}
	o.Force.LinkDistance = c.Graph.LinkDistance
	o.Force.Charge = c.Graph.Charge
	return o
}

// PreviewAddr returns the configured listen address or the default.
func (c *Config) PreviewAddr() string {
	if c.Preview.Addr != "" {
		return c.Preview.Addr
	}
	return DefaultPreviewAddr
}

// PreviewWatch reports whether the preview host watches the input file.
// It defaults to true.
func (c *Config) PreviewWatch() bool {
	return c.Preview.Watch == nil || *c.Preview.Watch
}
