package render

import (
	"fmt"
	"strings"

	"github.com/depscope/depscope/pkg/graph"
)

// DOT renders the graph in Graphviz DOT syntax, one node statement per
// package and one edge statement per dependency, both in ascending order.
// The root node is highlighted. The output feeds either the dot CLI or the
// embedded Graphviz renderer used by the render command.
func DOT(g *graph.Graph, root string) string {
	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("  rankdir=TB;\n")
	b.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\"];\n")
	b.WriteString("\n")

	for _, n := range g.Nodes() {
		if n == root {
			fmt.Fprintf(&b, "  %q [fillcolor=lightblue];\n", n)
			continue
		}
		fmt.Fprintf(&b, "  %q;\n", n)
	}

	b.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "  %q -> %q;\n", e.From, e.To)
	}

	b.WriteString("}\n")
	return b.String()
}
