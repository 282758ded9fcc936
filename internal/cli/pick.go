package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tablescope/pkg/pipeline"
)

// pickCommand creates the interactive leaf selection command.
func (c *CLI) pickCommand() *cobra.Command {
	var flags vizFlags

	cmd := &cobra.Command{
		Use:   "pick [records]",
		Short: "Choose a treemap leaf interactively and render it highlighted",
		Long: `Choose a treemap leaf interactively and render it highlighted.

The hierarchy is built from the records, every leaf is listed with its
record count, and the chosen leaf is rendered as the selected cell.`,
		Example: `  tablescope pick cases.csv -a gender,outcome -f svg,html`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd, cfg, pipeline.VizTreemap, args)
			if err != nil {
				return err
			}
			opts.Logger = c.Logger

			runner, err := c.newRunner(cfg, flags.noCache, nil)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			if err := opts.ValidateForLayout(); err != nil {
				return err
			}
			built, _, err := buildWith(cmd.Context(), runner, opts)
			if err != nil {
				return err
			}
			leaves := LeavesOf(built.Hierarchy)
			if len(leaves) == 0 {
				printWarning("No data available for %s", opts.String())
				return nil
			}

			current := currentKey(built.Hierarchy, opts.Selection)
			if opts.Selection != "" && current == "" {
				printWarning("No leaf matches %q", opts.Selection)
			}

			p := tea.NewProgram(NewLeafListModel(leaves, current), tea.WithContext(cmd.Context()))
			finalModel, err := p.Run()
			if err != nil {
				return err
			}

			fm, ok := finalModel.(LeafListModel)
			if !ok || fm.Selected == nil {
				printDetail("No selection made")
				return nil
			}
			opts.Selection = fm.Selected.Key
			printKeyValue("Selected", fm.Selected.Label)

			return c.execute(cmd.Context(), runner, opts, flags.output)
		},
	}

	flags.bindInput(cmd)
	flags.bindOutput(cmd)
	flags.bindGeometry(cmd)
	flags.bindTreemap(cmd)

	return cmd
}
