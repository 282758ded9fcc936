package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tablescope/pkg/pipeline"
)

// treemapCommand creates the treemap command.
func (c *CLI) treemapCommand() *cobra.Command {
	var flags vizFlags

	cmd := &cobra.Command{
		Use:   "treemap [records]",
		Short: "Render nested groupings of records as a treemap",
		Long: `Render nested groupings of records as a treemap.

Records are partitioned by each --attr in turn; every leaf is sized by the
number of records in its partition. Values appear in first-seen order
unless a --domain declares the order.

Results are cached locally for faster subsequent runs.`,
		Example: `  tablescope treemap cases.csv -a gender,outcome
  tablescope treemap cases.csv -a gender,outcome --domain outcome=1,0 -s gender=M/outcome=1
  tablescope treemap cases.db --table cases -a region -f svg,html,png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVisualize(cmd, &flags, pipeline.VizTreemap, args)
		},
	}

	flags.bindInput(cmd)
	flags.bindOutput(cmd)
	flags.bindGeometry(cmd)
	flags.bindTreemap(cmd)

	return cmd
}

// graphCommand creates the co-occurrence graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var flags vizFlags

	cmd := &cobra.Command{
		Use:   "graph [records]",
		Short: "Render entity co-occurrence as a force-directed graph",
		Long: `Render entity co-occurrence as a force-directed graph.

Every distinct value of the --fields becomes a node sized by how often it
occurs; two entities in the same record are linked, and the link width
grows with the number of records they share. With --separator a single
field can list several entities per record.`,
		Example: `  tablescope graph cases.csv --fields exposure,contact
  tablescope graph papers.csv --fields authors --separator ";" --engine graphviz`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVisualize(cmd, &flags, pipeline.VizGraph, args)
		},
	}

	flags.bindInput(cmd)
	flags.bindOutput(cmd)
	flags.bindGeometry(cmd)
	flags.bindGraph(cmd)

	return cmd
}

// runVisualize executes the pipeline and writes every artifact.
func (c *CLI) runVisualize(cmd *cobra.Command, flags *vizFlags, viz string, args []string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	opts, err := flags.options(cmd, cfg, viz, args)
	if err != nil {
		return err
	}
	opts.Logger = c.Logger

	runner, err := c.newRunner(cfg, flags.noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	return c.execute(cmd.Context(), runner, opts, flags.output)
}

// execute runs opts through runner with a spinner and writes the outputs.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, output string) error {
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Viz))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return err
	}
	spinner.Stop()

	if result.Empty() {
		printWarning("No data available for %s", opts.String())
	} else {
		printSuccess("Rendered %s", opts.Viz)
	}
	printStats(result.Stats, result.CacheInfo.RenderHit)
	loggerFromContext(ctx).Debug("pipeline finished",
		"load", result.Stats.LoadTime,
		"build", result.Stats.BuildTime,
		"layout", result.Stats.LayoutTime,
		"render", result.Stats.RenderTime)

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Input,
		viz:       opts.Viz,
		output:    output,
	})
}

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	viz       string
	output    string
}

// writeArtifacts writes each format to disk. A single format goes to
// output as given; several formats use output (or the input name) as the
// base path and append the format extension.
func writeArtifacts(p artifactWriteParams) error {
	formats := p.formats
	if len(formats) == 0 {
		formats = []string{pipeline.FormatSVG}
	}

	for _, format := range formats {
		data, ok := p.artifacts[format]
		if !ok {
			return fmt.Errorf("missing %s artifact", format)
		}
		path := artifactPath(p, format, len(formats) > 1)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

func artifactPath(p artifactWriteParams, format string, multi bool) string {
	if p.output != "" && !multi {
		return p.output
	}
	base := p.output
	if base == "" {
		name := strings.TrimSuffix(filepath.Base(p.input), filepath.Ext(p.input))
		base = name + "." + p.viz
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base + "." + format
}
