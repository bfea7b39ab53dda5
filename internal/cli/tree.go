package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/render"
)

func newTreeCmd(cfg Config) *cobra.Command {
	var flags resolveFlags
	var interactive bool

	cmd := &cobra.Command{
		Use:   "tree <package>",
		Short: "Show the dependency graph as a tree",
		Long: `Resolve a package and print its dependency graph as an indentation tree.
Cyclic references are marked instead of expanded, so the output stays finite.

Examples:
  depscope tree express
  depscope tree react -d 3 -x "babel"
  depscope tree webapp --local examples/localrepo.json
  depscope tree webpack -i`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			result, err := runResolve(c.Context(), cfg, &flags, args[0])
			if err != nil {
				return err
			}

			if interactive {
				return exploreTree(result.Graph, args[0])
			}

			text := render.Tree(result.Graph, args[0]) + "\n" +
				render.Summary(result.Graph, result.Cycles, result.Order)
			if err := writeOutput(flags.output, text); err != nil {
				return err
			}
			if flags.output != "" {
				printSuccess("wrote tree to %s", flags.output)
			}
			return nil
		},
	}

	flags.register(cmd, cfg)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "explore the tree interactively")
	return cmd
}

func newOrderCmd(cfg Config) *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "order <package>",
		Short: "Compute the load order of a package's dependencies",
		Long: `Resolve a package and print a load order: every package on its own line,
dependencies before the packages that need them. When the graph contains
cycles the order is a best-effort partial one and is flagged as such.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			result, err := runResolve(c.Context(), cfg, &flags, args[0])
			if err != nil {
				return err
			}

			var text string
			for _, name := range result.Order.Names {
				text += name + "\n"
			}
			if err := writeOutput(flags.output, text); err != nil {
				return err
			}

			if !result.Order.Complete {
				printWarning("load order is partial: %d cycle(s) prevent a full ordering", len(result.Cycles))
			} else {
				printSuccess("load order covers all %d packages", result.Graph.NodeCount())
			}
			return nil
		},
	}

	flags.register(cmd, cfg)
	return cmd
}

func newDiagramCmd(cfg Config) *cobra.Command {
	var flags resolveFlags
	var format string

	cmd := &cobra.Command{
		Use:   "diagram <package>",
		Short: "Emit the dependency graph in a diagram language",
		Long: `Resolve a package and emit its dependency graph as diagram source text:
Mermaid (paste into mermaid.live or a GitHub README) or Graphviz DOT.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			result, err := runResolve(c.Context(), cfg, &flags, args[0])
			if err != nil {
				return err
			}

			var text string
			switch format {
			case "mermaid":
				text = render.Mermaid(result.Graph)
			case "dot":
				text = render.DOT(result.Graph, args[0])
			default:
				return fmt.Errorf("unknown diagram format %q (mermaid, dot)", format)
			}

			if err := writeOutput(flags.output, text); err != nil {
				return err
			}
			if len(result.Cycles) > 0 {
				printWarning("graph contains %d cycle(s)", len(result.Cycles))
			}
			return nil
		},
	}

	flags.register(cmd, cfg)
	cmd.Flags().StringVarP(&format, "format", "f", "mermaid", "diagram language (mermaid, dot)")
	return cmd
}
