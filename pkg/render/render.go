// Package render produces textual views of dependency graphs: an
// indentation tree, Mermaid and Graphviz DOT diagram sources, and a summary
// of the analysis results. All functions are pure; output depends only on
// their inputs and is byte-identical across calls.
package render

import (
	"fmt"
	"strings"

	"github.com/depscope/depscope/pkg/graph"
)

// Summary reports graph size, detected cycles, and the computed load order
// as a text block. Cycles are enumerated in discovery order; an acyclic
// graph gets an explicit confirmation line instead.
func Summary(g *graph.Graph, cycles [][]string, order graph.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "packages: %d\n", g.NodeCount())
	fmt.Fprintf(&b, "dependencies: %d\n", g.EdgeCount())

	if len(cycles) == 0 {
		b.WriteString("no cycles detected\n")
	} else {
		fmt.Fprintf(&b, "cycles detected: %d\n", len(cycles))
		for i, c := range cycles {
			fmt.Fprintf(&b, "  cycle %d: %s\n", i+1, strings.Join(c, " → "))
		}
	}

	if order.Complete {
		fmt.Fprintf(&b, "load order: %s\n", strings.Join(order.Names, ", "))
	} else {
		fmt.Fprintf(&b, "load order (partial, cycles present): %s\n", strings.Join(order.Names, ", "))
	}

	return b.String()
}
