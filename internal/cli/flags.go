package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tablescope/pkg/config"
	"github.com/matzehuels/tablescope/pkg/pipeline"
)

// vizFlags holds the flags shared by the visualization commands. Only
// flags the user actually set override config file values.
type vizFlags struct {
	// input
	inputFormat string
	delimiter   string
	table       string
	query       string
	where       []string

	// output
	output   string
	formats  string
	title    string
	noCache  bool
	refresh  bool
	pngScale float64

	// geometry
	width  float64
	height float64
	margin float64

	// treemap
	attributes []string
	domains    []string
	tiling     string
	selection  string
	outer      float64
	inner      float64

	// graph
	fields    []string
	separator string
	engine    string
	ticks     int
	seed      int64
	drag      string
}

func (f *vizFlags) bindInput(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.inputFormat, "input-format", "", "record format: csv, tsv, json, yaml, sqlite (default: from extension)")
	fs.StringVar(&f.delimiter, "delimiter", "", "CSV field delimiter")
	fs.StringVar(&f.table, "table", "", "SQLite table to read")
	fs.StringVar(&f.query, "query", "", "SQLite query to read (overrides --table)")
	fs.StringArrayVarP(&f.where, "where", "w", nil, "keep records where field=value (repeatable)")
}

func (f *vizFlags) bindOutput(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), html, json, png, pdf (comma-separated)")
	fs.StringVar(&f.title, "title", "", "page title for html output")
	fs.Float64Var(&f.pngScale, "png-scale", pipeline.DefaultPNGScale, "png resolution multiplier")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached artifacts")
}

func (f *vizFlags) bindGeometry(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.width, "width", pipeline.DefaultWidth, "viewport width")
	fs.Float64Var(&f.height, "height", pipeline.DefaultHeight, "viewport height")
	fs.Float64Var(&f.margin, "margin", 0, "margin on every side of the viewport")
}

func (f *vizFlags) bindTreemap(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringSliceVarP(&f.attributes, "attr", "a", nil, "grouping attributes, outermost first")
	fs.StringArrayVar(&f.domains, "domain", nil, "declared value order, e.g. outcome=1,0 (repeatable)")
	fs.StringVar(&f.tiling, "tiling", string(pipeline.DefaultTiling), "tiling: squarify, slice-dice")
	fs.StringVarP(&f.selection, "select", "s", "", "selected leaf: name or path key such as gender=M/outcome=1")
	fs.Float64Var(&f.outer, "padding-outer", pipeline.DefaultOuterPadding, "padding inside every group")
	fs.Float64Var(&f.inner, "padding-inner", pipeline.DefaultInnerPadding, "padding between sibling cells")
}

func (f *vizFlags) bindGraph(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringSliceVar(&f.fields, "fields", nil, "entity fields")
	fs.StringVar(&f.separator, "separator", "", "split entity field values on this separator")
	fs.StringVar(&f.engine, "engine", pipeline.DefaultEngine, "layout engine: native, graphviz")
	fs.IntVar(&f.ticks, "ticks", pipeline.DefaultMaxTicks, "maximum simulation ticks")
	fs.Int64Var(&f.seed, "seed", pipeline.DefaultSeed, "random seed for the initial jiggle")
	fs.StringVar(&f.drag, "drag", string(pipeline.DefaultDragPolicy), "drag end policy: release, keep")
}

// options merges cfg and the set flags into pipeline options for viz.
// args[0], when present, is the input file.
func (f *vizFlags) options(cmd *cobra.Command, cfg *config.Config, viz string, args []string) (pipeline.Options, error) {
	opts := cfg.Options(viz)
	if len(args) > 0 {
		opts.Input = args[0]
	}

	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}

	if changed("input-format") {
		opts.Format = f.inputFormat
	}
	if changed("delimiter") {
		opts.Delimiter = f.delimiter
	}
	if changed("table") {
		opts.Table = f.table
	}
	if changed("query") {
		opts.Query = f.query
	}
	if changed("where") {
		opts.Where = append(append([]string(nil), opts.Where...), f.where...)
	}
	if changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if changed("title") {
		opts.Title = f.title
	}
	if changed("png-scale") {
		opts.PNGScale = f.pngScale
	}
	if changed("refresh") {
		opts.Refresh = f.refresh
	}
	if changed("width") {
		opts.Viewport.Width = f.width
	}
	if changed("height") {
		opts.Viewport.Height = f.height
	}
	if changed("margin") {
		opts.Margin.Top, opts.Margin.Right, opts.Margin.Bottom, opts.Margin.Left = f.margin, f.margin, f.margin, f.margin
	}

	if changed("attr") {
		opts.Attributes = f.attributes
	}
	if changed("domain") {
		domains, err := parseDomains(f.domains)
		if err != nil {
			return opts, err
		}
		if opts.Domains == nil {
			opts.Domains = map[string][]string{}
		}
		for attr, values := range domains {
			opts.Domains[attr] = values
		}
	}
	if changed("tiling") {
		opts.Tiling = f.tiling
	}
	if changed("select") {
		opts.Selection = f.selection
	}
	if changed("padding-outer") {
		opts.Padding.Outer = f.outer
	}
	if changed("padding-inner") {
		opts.Padding.Inner = f.inner
	}

	if changed("fields") {
		opts.Fields = f.fields
	}
	if changed("separator") {
		opts.Separator = f.separator
	}
	if changed("engine") {
		opts.Engine = f.engine
	}
	if changed("ticks") {
		opts.MaxTicks = f.ticks
	}
	if changed("seed") {
		opts.Seed = f.seed
	}
	if changed("drag") {
		opts.DragPolicy = f.drag
	}

	if opts.Input == "" {
		return opts, fmt.Errorf("no input file: pass one as an argument or set [input] path in %s", config.FileName)
	}
	return opts, nil
}

// parseDomains parses attr=v1,v2 declarations.
func parseDomains(decls []string) (map[string][]string, error) {
	out := make(map[string][]string, len(decls))
	for _, decl := range decls {
		attr, values, ok := strings.Cut(decl, "=")
		attr = strings.TrimSpace(attr)
		if !ok || attr == "" || values == "" {
			return nil, fmt.Errorf("invalid domain %q (want attr=v1,v2)", decl)
		}
		for _, v := range strings.Split(values, ",") {
			out[attr] = append(out[attr], strings.TrimSpace(v))
		}
	}
	return out, nil
}
