package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wbrown/janus-aggregate/rdf/aggregate"
	"github.com/wbrown/janus-aggregate/rdf/annotations"
	"github.com/wbrown/janus-aggregate/rdf/config"
)

var version = "0.1.0"

// Output formats
const (
	formatNQuads = "nquads"
	formatTable  = "table"
)

// cli holds the global flags shared by every subcommand
type cli struct {
	configPath string
	verbose    bool
	noColor    bool
	format     string
}

func main() {
	env, err := config.ParseEnv()
	if err != nil {
		log.Fatalf("Failed to read environment: %v", err)
	}

	c := &cli{}
	rootCmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Query a virtual RDF dataset composed of several sources",
		Long: `aggregate reads a YAML description of a virtual dataset: an ordered
list of badger sources, the graphs composing its default graph and the
named graphs it projects. Nothing is copied; every read is routed to the
sources at query time.

Settings default to AGGREGATE_CONFIG, AGGREGATE_VERBOSE,
AGGREGATE_NO_COLOR and AGGREGATE_FORMAT.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.noColor {
				color.NoColor = true
			}
			if c.format != formatNQuads && c.format != formatTable {
				return fmt.Errorf("unknown format %q (use %s or %s)", c.format, formatNQuads, formatTable)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&c.configPath, "config", "c", env.Config, "Dataset config (path or URL)")
	flags.BoolVarP(&c.verbose, "verbose", "v", env.Verbose, "Print annotation events to stderr")
	flags.BoolVar(&c.noColor, "no-color", env.NoColor, "Disable colored output")
	flags.StringVarP(&c.format, "format", "f", env.Format, "Output format: nquads or table")

	rootCmd.AddCommand(countCmd(c))
	rootCmd.AddCommand(graphsCmd(c))
	rootCmd.AddCommand(dumpCmd(c))
	rootCmd.AddCommand(matchCmd(c))

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// withDataset loads the config, opens the dataset and runs fn against it
func (c *cli) withDataset(ctx context.Context, fn func(*aggregate.Dataset) error) error {
	cfg, err := config.Load(ctx, c.configPath)
	if err != nil {
		return err
	}

	var handler annotations.Handler
	if c.verbose {
		formatter := annotations.NewOutputFormatter(os.Stderr)
		if c.noColor {
			formatter.SetColor(false)
		}
		handler = formatter.Handle
	}

	opened, err := config.Open(ctx, cfg, handler)
	if err != nil {
		return err
	}
	defer opened.Close()

	return fn(opened.Dataset)
}
