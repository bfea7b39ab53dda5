package resolve

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/depscope/depscope/pkg/graph"
)

// nodeState tracks traversal progress for a single build. A node is
// in-progress while it sits on the active expansion path; meeting it again
// from below marks a cycle edge and expansion does not re-enter it. A done
// node already has all of its outgoing edges recorded.
type nodeState int

const (
	stateUnvisited nodeState = iota
	stateInProgress
	stateDone
)

// Build populates a graph from root using the given provider. Expansion is
// depth-bounded and filtered per opts; dependencies of each package are
// handled in ascending name order so results are reproducible regardless of
// map iteration order.
//
// A fetch failure for the root aborts the build. Failures during expansion
// are recoverable: each one is recorded as a warning and traversal resumes
// with the remaining siblings, yielding a partial graph.
func Build(ctx context.Context, p Provider, root string, opts Options) (*graph.Graph, []string, error) {
	b := &builder{
		provider: p,
		opts:     opts.withDefaults(),
		graph:    graph.New(),
		state:    make(map[string]nodeState),
	}
	if err := b.expand(ctx, root, 0); err != nil {
		return nil, nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	return b.graph, b.warnings, nil
}

type builder struct {
	provider Provider
	opts     Options
	graph    *graph.Graph
	state    map[string]nodeState
	warnings []string
}

// expand fetches the dependencies of name, records the node and its edges,
// then recurses into the not-yet-done dependencies one level deeper.
// Returning an error means the fetch for name itself failed; errors from
// deeper levels are absorbed as warnings.
func (b *builder) expand(ctx context.Context, name string, depth int) error {
	if depth > b.opts.MaxDepth {
		return nil
	}
	if s := b.state[name]; s == stateInProgress || s == stateDone {
		return nil
	}

	b.state[name] = stateInProgress
	deps, err := b.provider.Dependencies(ctx, name)
	if err != nil {
		b.state[name] = stateUnvisited
		return err
	}

	b.graph.AddNode(name)
	b.opts.Logger("fetched %s (%d dependencies)", name, len(deps))

	// Edges for every surviving dependency are recorded here, whether or
	// not the dependency itself falls within the depth limit.
	queue := make([]string, 0, len(deps))
	for _, dep := range sortedKeys(deps) {
		if b.excluded(dep) {
			continue
		}
		b.graph.AddEdge(name, dep)
		if b.state[dep] != stateDone {
			queue = append(queue, dep)
		}
	}
	b.state[name] = stateDone

	for _, dep := range queue {
		if err := b.expand(ctx, dep, depth+1); err != nil {
			if !IsRecoverable(err) {
				return err
			}
			b.warnings = append(b.warnings, fmt.Sprintf("skipping %s: %v", dep, err))
			b.opts.Logger("skipping %s: %v", dep, err)
		}
	}
	return nil
}

// excluded reports whether name matches the case-insensitive exclusion
// substring. The root is never passed through this check.
func (b *builder) excluded(name string) bool {
	if b.opts.Exclude == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(b.opts.Exclude))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsRecoverable reports whether err is a per-dependency provider failure
// (not found, unreachable source, undecodable payload) rather than a
// build-fatal condition.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrMalformed)
}
