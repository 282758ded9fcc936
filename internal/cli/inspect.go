package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss/tree"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tablescope/pkg/graph"
	"github.com/matzehuels/tablescope/pkg/hierarchy"
	"github.com/matzehuels/tablescope/pkg/pipeline"
)

// inspectCommand groups the text views of the intermediate structures.
func (c *CLI) inspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the hierarchy or graph built from records",
	}

	cmd.AddCommand(c.inspectHierarchyCommand())
	cmd.AddCommand(c.inspectGraphCommand())

	return cmd
}

// inspectHierarchyCommand creates the "inspect hierarchy" subcommand.
func (c *CLI) inspectHierarchyCommand() *cobra.Command {
	var flags vizFlags

	cmd := &cobra.Command{
		Use:   "hierarchy [records]",
		Short: "Print the grouping tree with record counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			built, opts, err := c.build(cmd, &flags, pipeline.VizTreemap, args)
			if err != nil {
				return err
			}
			if built.Hierarchy == nil {
				printWarning("No data available for %s", opts.String())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), hierarchyTree(built.Hierarchy).String())
			printNextStep("Render it", fmt.Sprintf("%s treemap %s -a %s", appName, opts.Input, strings.Join(opts.Attributes, ",")))
			return nil
		},
	}

	flags.bindInput(cmd)
	cmd.Flags().StringSliceVarP(&flags.attributes, "attr", "a", nil, "grouping attributes, outermost first")
	cmd.Flags().StringArrayVar(&flags.domains, "domain", nil, "declared value order, e.g. outcome=1,0 (repeatable)")

	return cmd
}

// inspectGraphCommand creates the "inspect graph" subcommand.
func (c *CLI) inspectGraphCommand() *cobra.Command {
	var flags vizFlags

	cmd := &cobra.Command{
		Use:   "graph [records]",
		Short: "Print the co-occurrence nodes and edges as tables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			built, opts, err := c.build(cmd, &flags, pipeline.VizGraph, args)
			if err != nil {
				return err
			}
			if built.Graph == nil {
				printWarning("No data available for %s", opts.String())
				return nil
			}
			writeGraphTables(cmd.OutOrStdout(), built.Graph)
			return nil
		},
	}

	flags.bindInput(cmd)
	cmd.Flags().StringSliceVar(&flags.fields, "fields", nil, "entity fields")
	cmd.Flags().StringVar(&flags.separator, "separator", "", "split entity field values on this separator")

	return cmd
}

// build loads records and runs the build stage only.
func (c *CLI) build(cmd *cobra.Command, flags *vizFlags, viz string, args []string) (*pipeline.Built, pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	opts, err := flags.options(cmd, cfg, viz, args)
	if err != nil {
		return nil, opts, err
	}
	opts.Logger = c.Logger
	if err := opts.ValidateForLayout(); err != nil {
		return nil, opts, err
	}

	runner := pipeline.NewRunner(nil, nil, c.Logger)
	return buildWith(cmd.Context(), runner, opts)
}

func buildWith(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Built, pipeline.Options, error) {
	p := newProgress(loggerFromContext(ctx))
	rs, err := runner.Load(ctx, opts)
	if err != nil {
		return nil, opts, err
	}
	built, err := runner.Build(ctx, rs, opts)
	if err != nil {
		return nil, opts, err
	}
	p.done(fmt.Sprintf("Built %s from %d records", opts.Viz, rs.Len()))
	return built, opts, nil
}

// =============================================================================
// Hierarchy Tree
// =============================================================================

// hierarchyTree renders root with each node's record count.
func hierarchyTree(root *hierarchy.Node) *tree.Tree {
	t := tree.Root(nodeLabel(root)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(StyleDim).
		RootStyle(StyleTitle)
	addChildren(t, root)
	return t
}

func addChildren(t *tree.Tree, n *hierarchy.Node) {
	for _, ch := range n.Children {
		if ch.IsLeaf() {
			t.Child(nodeLabel(ch))
			continue
		}
		sub := tree.Root(nodeLabel(ch))
		addChildren(sub, ch)
		t.Child(sub)
	}
}

func nodeLabel(n *hierarchy.Node) string {
	return n.Label() + " " + StyleNumber.Render(fmt.Sprintf("(%d)", n.Value))
}

// =============================================================================
// Graph Tables
// =============================================================================

// writeGraphTables prints the node table, then the edge table ordered by
// descending weight.
func writeGraphTables(w io.Writer, g *graph.Graph) {
	degree := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		degree[e.Source]++
		degree[e.Target]++
	}

	nodes := table.NewWriter()
	nodes.SetOutputMirror(w)
	nodes.SetStyle(table.StyleLight)
	nodes.SetTitle("Nodes")
	nodes.AppendHeader(table.Row{"Entity", "Occurrences", "Degree"})
	for _, n := range g.Nodes {
		nodes.AppendRow(table.Row{n.Name, n.Value, degree[n.Name]})
	}
	nodes.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	nodes.Render()

	edges := append([]graph.Edge(nil), g.Edges...)
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].Value > edges[j].Value })

	et := table.NewWriter()
	et.SetOutputMirror(w)
	et.SetStyle(table.StyleLight)
	et.SetTitle("Edges")
	et.AppendHeader(table.Row{"Source", "Target", "Records"})
	for _, e := range edges {
		et.AppendRow(table.Row{e.Source, e.Target, e.Value})
	}
	et.SetColumnConfigs([]table.ColumnConfig{{Number: 3, Align: text.AlignRight}})
	et.AppendFooter(table.Row{"", "total", len(edges)})
	et.Render()
}
