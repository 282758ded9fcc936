// Package cli implements the tablescope command-line interface.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tablescope/pkg/buildinfo"
	"github.com/matzehuels/tablescope/pkg/cache"
	"github.com/matzehuels/tablescope/pkg/config"
	"github.com/matzehuels/tablescope/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tablescope"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag; empty means tablescope.toml in the
	// working directory, if present.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "tablescope visualizes tabular records as treemaps and co-occurrence graphs",
		Long: `tablescope turns flat records (CSV, TSV, JSON, YAML or SQLite) into interactive
SVG visualizations: a treemap of nested categorical groupings and a
force-directed graph of entities that occur together in a record.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			registerHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./"+config.FileName+")")

	// Register all subcommands
	root.AddCommand(c.treemapCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config or ./tablescope.toml.
func (c *CLI) loadConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Find(wd, c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cfg *config.Config, noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	store, err := newCache(cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func newCache(cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache || (cfg != nil && cfg.Cache.Disabled) {
		return cache.NewNullCache(), nil
	}
	dir := ""
	if cfg != nil {
		dir = cfg.Cache.Dir
	}
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tablescope/).
func cacheDir() (string, error) {
	return cache.DefaultDir(appName)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// An empty string leaves the choice to the config file or the default.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
