package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/render"
)

func newRenderCmd(cfg Config) *cobra.Command {
	var flags resolveFlags
	var format string

	cmd := &cobra.Command{
		Use:   "render <package>",
		Short: "Render the dependency graph to an image",
		Long: `Resolve a package and render its dependency graph with the embedded
Graphviz engine. Formats: svg, png, dot (DOT source without rasterizing).

Examples:
  depscope render express -o express.svg
  depscope render lodash -f png -o lodash.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if format != "dot" && flags.output == "" {
				return fmt.Errorf("image output requires -o <file>")
			}

			result, err := runResolve(c.Context(), cfg, &flags, args[0])
			if err != nil {
				return err
			}
			dot := render.DOT(result.Graph, args[0])

			if format == "dot" {
				return writeOutput(flags.output, dot)
			}

			prog := newProgress(loggerFromContext(c.Context()))
			img, err := rasterize(c.Context(), dot, format)
			if err != nil {
				return err
			}
			prog.done("rasterized graph")
			if err := writeOutput(flags.output, string(img)); err != nil {
				return err
			}
			printSuccess("rendered %d packages to %s", result.Graph.NodeCount(), flags.output)
			return nil
		},
	}

	flags.register(cmd, cfg)
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format (svg, png, dot)")
	return cmd
}

// rasterize renders DOT source with the embedded Graphviz engine.
func rasterize(ctx context.Context, dot, format string) ([]byte, error) {
	var target graphviz.Format
	switch format {
	case "svg":
		target = graphviz.SVG
	case "png":
		target = graphviz.PNG
	default:
		return nil, fmt.Errorf("unknown render format %q (svg, png, dot)", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, target, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
