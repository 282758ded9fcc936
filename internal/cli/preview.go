package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tablescope/internal/preview"
	"github.com/matzehuels/tablescope/pkg/cache"
	"github.com/matzehuels/tablescope/pkg/config"
	"github.com/matzehuels/tablescope/pkg/pipeline"
)

// previewCommand creates the local preview host command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags   vizFlags
		addr    string
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:   "preview [records]",
		Short: "Serve the treemap and graph locally with live selection",
		Long: `Serve the treemap and graph of a records file on a local HTTP host.

Clicking a treemap leaf selects it and re-renders the page; editing the
input file re-renders both visualizations. Only the views whose
attributes (--attr) or entity fields (--fields) are configured are shown.`,
		Example: `  tablescope preview cases.csv -a gender,outcome --fields exposure,contact
  tablescope preview --config study.toml --addr 127.0.0.1:9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			treemapOpts, err := flags.options(cmd, cfg, pipeline.VizTreemap, args)
			if err != nil {
				return err
			}
			graphOpts, err := flags.options(cmd, cfg, pipeline.VizGraph, args)
			if err != nil {
				return err
			}
			if len(treemapOpts.Attributes) == 0 && len(graphOpts.Fields) == 0 {
				return fmt.Errorf("nothing to preview: set --attr, --fields or the [treemap]/[graph] config sections")
			}

			if !cmd.Flags().Changed("addr") {
				addr = cfg.PreviewAddr()
			}
			watch := cfg.PreviewWatch() && !noWatch

			runner, err := c.newRunner(cfg, flags.noCache, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "preview:"))
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			printInfo("Previewing %s", treemapOpts.Input)
			printKeyValue("URL", StyleLink.Render("http://"+addr))
			if watch {
				printDetail("Watching for changes, Ctrl+C to stop")
			}

			srv := preview.NewServer(preview.Config{
				Runner:  runner,
				Treemap: treemapOpts,
				Graph:   graphOpts,
				Addr:    addr,
				Watch:   watch,
				Title:   treemapOpts.Title,
				Logger:  c.Logger,
			})
			return srv.Serve(cmd.Context())
		},
	}

	flags.bindInput(cmd)
	flags.bindGeometry(cmd)
	flags.bindTreemap(cmd)
	flags.bindGraph(cmd)
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&flags.title, "title", "", "page title")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: "+config.DefaultPreviewAddr+")")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not re-render when the input changes")

	return cmd
}
