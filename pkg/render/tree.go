package render

import (
	"slices"
	"strings"

	"github.com/depscope/depscope/pkg/graph"
)

// Tree renders the graph as an indentation tree rooted at root. Siblings
// appear in ascending name order regardless of discovery order. A node seen
// again along the current rendering path is printed once more as a leaf
// marked "(cyclic)" and not expanded, which keeps the output finite on
// cyclic graphs.
func Tree(g *graph.Graph, root string) string {
	var b strings.Builder
	b.WriteString(root)
	b.WriteByte('\n')
	writeBranches(&b, g, root, "", []string{root})
	return b.String()
}

func writeBranches(b *strings.Builder, g *graph.Graph, node, prefix string, path []string) {
	deps := g.Successors(node)
	for i, dep := range deps {
		connector, extension := "├── ", "│   "
		if i == len(deps)-1 {
			connector, extension = "└── ", "    "
		}

		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(dep)
		if slices.Contains(path, dep) {
			b.WriteString(" (cyclic)")
			b.WriteByte('\n')
			continue
		}
		b.WriteByte('\n')
		writeBranches(b, g, dep, prefix+extension, append(path, dep))
	}
}
