// Package cli implements the depscope command-line interface.
//
// Commands resolve a package's transitive dependency graph from the npm
// registry or a local JSON repository and present it as a tree, a Mermaid
// or DOT diagram, a load order, a rendered image, or an HTTP API.
package cli

import (
	"context"
	"errors"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/buildinfo"
)

// Execute runs the depscope CLI and returns an error when a command fails.
//
// Logging goes to stderr at info level, or debug with --verbose. The logger
// rides on the command context so every subcommand shares it.
func Execute(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var verbose bool

	root := &cobra.Command{
		Use:   "depscope",
		Short: "depscope inspects package dependency graphs",
		Long: `depscope resolves the transitive dependency graph of a package without
installing anything, detects dependency cycles, computes a load order, and
renders tree, Mermaid, and Graphviz views.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newTreeCmd(cfg))
	root.AddCommand(newDiagramCmd(cfg))
	root.AddCommand(newOrderCmd(cfg))
	root.AddCommand(newRenderCmd(cfg))
	root.AddCommand(newServeCmd(cfg))
	root.AddCommand(newCacheCmd(cfg))

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			printError("%v", err)
		}
		return err
	}
	return nil
}
