// Package cli implements the orbit command-line interface.
//
// Every data command builds a [space.Client] from the loaded configuration,
// runs one accessor behind a spinner and prints the result either styled
// for the terminal or, with --json, as JSON on stdout.
//
// The response cache lives in the process. A one-shot command therefore
// starts cold; `orbit serve` keeps a warm cache and `orbit cache` inspects
// it over HTTP.
package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orbit/pkg/buildinfo"
	"github.com/matzehuels/orbit/pkg/config"
	"github.com/matzehuels/orbit/pkg/space"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "orbit"

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

	configPath string
	jsonOutput bool

	// spaceOpts are passed to every space client; tests use them to swap
	// the transport and clock.
	spaceOpts []space.Option
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
		Short: "Orbit queries NASA's open APIs from the terminal",
		Long: `Orbit is a CLI for NASA's open data: the Astronomy Picture of the Day,
Mars rover photos, near-Earth objects, DONKI space weather, EPIC Earth imagery
and a few public astronomical catalogs.

Set NASA_API_KEY (or api_key in the config file) to lift the DEMO_KEY rate limits.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/orbit/config.toml)")
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(c.apodCommand())
	root.AddCommand(c.marsCommand())
	root.AddCommand(c.neoCommand())
	root.AddCommand(c.donkiCommand())
	root.AddCommand(c.epicCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.overviewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Client Factory
// =============================================================================

// loadConfig reads --config, or the default location when unset, and
// validates the result.
func (c *CLI) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newSpace loads the configuration and builds a client from it.
func (c *CLI) newSpace() (*space.Client, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.UsesDemoKey() {
		c.Logger.Debug("using DEMO_KEY; set " + config.EnvAPIKey + " for higher rate limits")
	}
	return space.New(cfg, c.Logger, c.spaceOpts...), nil
}

// =============================================================================
// Output
// =============================================================================

// stdout receives command output. Tests replace it.
var stdout io.Writer = os.Stdout

// emit prints v as indented JSON under --json and calls render otherwise.
func (c *CLI) emit(v any, render func()) error {
	if c.jsonOutput {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	render()
	return nil
}
