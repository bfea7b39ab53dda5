package graph

import "slices"

// FindCycles returns every cycle discovered by depth-first search from each
// node in ascending name order. A cycle is reported as the path slice from
// the first occurrence of the revisited node through the current node, with
// the revisited node appended again to close the loop: [n0, n1, ..., nk, n0].
//
// Nodes fully explored from an earlier start are not re-entered, so total
// work is bounded by the edge count. The same elementary cycle can still
// surface more than once, rotated differently, when distinct paths reach it
// within one search; results are reported as found and are deliberately not
// deduplicated by content.
func FindCycles(g *Graph) [][]string {
	var cycles [][]string
	visited := make(map[string]bool, g.NodeCount())

	var dfs func(node string, path []string)
	dfs = func(node string, path []string) {
		if i := slices.Index(path, node); i >= 0 {
			cycle := append(slices.Clone(path[i:]), node)
			cycles = append(cycles, cycle)
			return
		}
		if visited[node] {
			return
		}
		visited[node] = true
		path = append(path, node)
		for _, succ := range g.Successors(node) {
			dfs(succ, path)
		}
	}

	for _, node := range g.Nodes() {
		dfs(node, nil)
	}
	return cycles
}
