package render

import (
	"fmt"
	"strings"

	"github.com/depscope/depscope/pkg/graph"
)

// Mermaid renders the graph as a Mermaid flowchart: a "graph TD" header
// followed by one "A --> B" line per edge in (from, to) order. Isolated
// nodes are emitted as bare identifiers so they still appear in the
// diagram. Names containing characters Mermaid cannot take as bare
// identifiers are wrapped in a quoted label.
func Mermaid(g *graph.Graph) string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	linked := make(map[string]bool, g.NodeCount())
	for _, e := range g.Edges() {
		linked[e.From], linked[e.To] = true, true
		fmt.Fprintf(&b, "    %s --> %s\n", mermaidNode(e.From), mermaidNode(e.To))
	}
	for _, n := range g.Nodes() {
		if !linked[n] {
			fmt.Fprintf(&b, "    %s\n", mermaidNode(n))
		}
	}
	return b.String()
}

// mermaidNode returns name verbatim when it is a safe Mermaid identifier,
// otherwise a sanitized identifier carrying the original name as a quoted
// label, e.g. `my_pkg_1_0["my.pkg@1.0"]`.
func mermaidNode(name string) string {
	if isMermaidSafe(name) {
		return name
	}
	id := strings.Map(func(r rune) rune {
		if isIdentRune(r) {
			return r
		}
		return '_'
	}, name)
	return fmt.Sprintf("%s[%q]", id, name)
}

func isMermaidSafe(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	return r == '-' || r == '_' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}
