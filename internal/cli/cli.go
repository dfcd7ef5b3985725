// Package cli implements the cartogram command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/india-cartogram/internal/adapter/source"
	"github.com/couchcryptid/india-cartogram/internal/config"
	"github.com/couchcryptid/india-cartogram/internal/domain"
)

const appName = "cartogram"

// CLI holds shared state for all commands.
type CLI struct {
	out    io.Writer
	level  *slog.LevelVar
	Logger *slog.Logger

	dataPath   string
	configPath string
	timeout    time.Duration
	jsonOut    bool
}

// New creates a CLI writing results to out and logs to errOut.
func New(out, errOut io.Writer) *CLI {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	return &CLI{
		out:    out,
		level:  level,
		Logger: slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level})),
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           appName,
		Short:         "Derive small-multiples cartogram data for Indian states",
		Long:          `cartogram reads a daily per-state case and death dataset, derives 7-day averages and per-capita rates, and lays the states out on a fixed geographic grid or a sequential mobile grid.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				c.level.Set(slog.LevelDebug)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&c.dataPath, "data", "d", "data/india.json", "dataset file path or http(s) URL")
	pf.StringVar(&c.configPath, "config", "", "TOML chart config (defaults when empty)")
	pf.DurationVar(&c.timeout, "timeout", 5*time.Second, "timeout for fetching a remote dataset")
	pf.BoolVar(&c.jsonOut, "json", false, "print JSON instead of a table")
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.deriveCommand())
	root.AddCommand(c.trendCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.metaCommand())

	return root
}

func (c *CLI) loadDataset(ctx context.Context) (domain.Dataset, error) {
	src := source.New(c.dataPath, c.timeout, c.Logger)
	ds, err := src.Fetch(ctx)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("load %s: %w", c.dataPath, err)
	}
	c.Logger.Debug("dataset loaded", "source", c.dataPath, "regions", len(ds.Regions), "days", len(ds.Dates))
	return ds, nil
}

func (c *CLI) loadChart() (config.Chart, error) {
	if c.configPath == "" {
		return config.DefaultChart(), nil
	}
	return config.LoadChart(c.configPath)
}
