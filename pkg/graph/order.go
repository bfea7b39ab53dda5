package graph

import "sort"

// Order is the result of a load-order computation. Names lists every node
// exactly once, dependencies before dependents. Complete is false when the
// graph contains cycles: the ordering is then a best-effort prefix with the
// cyclic remainder appended in ascending name order.
type Order struct {
	Names    []string
	Complete bool
}

// LoadOrder computes a load order with Kahn's algorithm. A node becomes
// eligible once all of its dependencies (successors) have been emitted;
// ties among simultaneously eligible nodes break by ascending name. When no
// node is eligible and nodes remain, the remainder is appended sorted by
// name and the order is flagged incomplete.
func LoadOrder(g *Graph) Order {
	nodes := g.Nodes()

	// unresolved counts each node's not-yet-emitted dependencies;
	// dependents is the reverse adjacency used to decrement them.
	unresolved := make(map[string]int, len(nodes))
	dependents := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		succs := g.Successors(n)
		unresolved[n] = len(succs)
		for _, s := range succs {
			dependents[s] = append(dependents[s], n)
		}
	}

	var ready []string
	for _, n := range nodes {
		if unresolved[n] == 0 {
			ready = append(ready, n)
		}
	}

	out := make([]string, 0, len(nodes))
	emitted := make(map[string]bool, len(nodes))
	for len(ready) > 0 {
		sort.Strings(ready)
		n := ready[0]
		ready = ready[1:]
		out = append(out, n)
		emitted[n] = true
		for _, d := range dependents[n] {
			if emitted[d] {
				continue // self-loop or already-flushed cycle member
			}
			unresolved[d]--
			if unresolved[d] == 0 {
				ready = append(ready, d)
			}
		}
	}

	complete := len(out) == len(nodes)
	if !complete {
		for _, n := range nodes {
			if !emitted[n] {
				out = append(out, n)
			}
		}
	}
	return Order{Names: out, Complete: complete}
}
