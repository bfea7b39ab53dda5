package resolve

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/depscope/depscope/pkg/graph"
)

// mapProvider serves a fixed dependency table and counts fetches per package.
type mapProvider struct {
	deps    map[string]map[string]string
	fetches map[string]int
}

func newMapProvider(deps map[string]map[string]string) *mapProvider {
	return &mapProvider{deps: deps, fetches: make(map[string]int)}
}

func (p *mapProvider) Dependencies(_ context.Context, name string) (map[string]string, error) {
	p.fetches[name]++
	deps, ok := p.deps[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return deps, nil
}

func TestBuildDiamond(t *testing.T) {
	p := newMapProvider(map[string]map[string]string{
		"a": {"b": "^1.0.0", "c": "^2.0.0"},
		"b": {"d": "*"},
		"c": {"d": "*", "e": "*"},
		"d": {},
		"e": {},
	})

	g, warnings, err := Build(context.Background(), p, "a", Options{MaxDepth: 10})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if got := g.NodeCount(); got != 5 {
		t.Errorf("NodeCount() = %d, want 5", got)
	}
	wantEdges := []graph.Edge{
		{From: "a", To: "b"}, {From: "a", To: "c"},
		{From: "b", To: "d"},
		{From: "c", To: "d"}, {From: "c", To: "e"},
	}
	if got := g.Edges(); !reflect.DeepEqual(got, wantEdges) {
		t.Errorf("Edges() = %v, want %v", got, wantEdges)
	}
	if p.fetches["d"] != 1 {
		t.Errorf("d fetched %d times, want 1", p.fetches["d"])
	}
}

func TestBuildDepthZero(t *testing.T) {
	// Only the root is expanded. Its direct dependencies still appear as
	// nodes and edges, but their own dependencies are never fetched.
	p := newMapProvider(map[string]map[string]string{
		"a": {"b": "*", "c": "*"},
		"b": {"x": "*"},
		"c": {"y": "*"},
	})

	g, _, err := Build(context.Background(), p, "a", Options{MaxDepth: 0})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	wantNodes := []string{"a", "b", "c"}
	if got := g.Nodes(); !reflect.DeepEqual(got, wantNodes) {
		t.Errorf("Nodes() = %v, want %v", got, wantNodes)
	}
	if got := g.EdgeCount(); got != 2 {
		t.Errorf("EdgeCount() = %d, want 2", got)
	}
	if p.fetches["b"] != 0 || p.fetches["c"] != 0 {
		t.Errorf("dependencies past the depth limit were fetched: %v", p.fetches)
	}
}

func TestBuildCycleTerminates(t *testing.T) {
	p := newMapProvider(map[string]map[string]string{
		"a": {"b": "*"},
		"b": {"c": "*"},
		"c": {"a": "*"},
	})

	g, _, err := Build(context.Background(), p, "a", Options{MaxDepth: 100})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := g.NodeCount(); got != 3 {
		t.Errorf("NodeCount() = %d, want 3", got)
	}
	if !g.HasEdge("c", "a") {
		t.Error("cycle-closing edge c → a missing")
	}
	for name, n := range p.fetches {
		if n != 1 {
			t.Errorf("%s fetched %d times, want 1", name, n)
		}
	}
}

func TestBuildSelfDependency(t *testing.T) {
	p := newMapProvider(map[string]map[string]string{
		"a": {"a": "*"},
	})

	g, _, err := Build(context.Background(), p, "a", Options{MaxDepth: 10})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !g.HasEdge("a", "a") {
		t.Error("self-edge missing")
	}
	if p.fetches["a"] != 1 {
		t.Errorf("a fetched %d times, want 1", p.fetches["a"])
	}
}

func TestBuildExclude(t *testing.T) {
	p := newMapProvider(map[string]map[string]string{
		"app":      {"lib": "*", "lib_dev": "*", "other": "*"},
		"lib":      {},
		"other":    {},
		"lib_dev":  {"hidden": "*"},
		"hidden":   {},
		"app_util": {},
	})

	g, _, err := Build(context.Background(), p, "app", Options{MaxDepth: 10, Exclude: "_DEV"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.HasNode("lib_dev") {
		t.Error("excluded package lib_dev present in graph")
	}
	if g.HasNode("hidden") {
		t.Error("subtree of excluded package was traversed")
	}
	if p.fetches["lib_dev"] != 0 {
		t.Error("excluded package was fetched")
	}
	wantNodes := []string{"app", "lib", "other"}
	if got := g.Nodes(); !reflect.DeepEqual(got, wantNodes) {
		t.Errorf("Nodes() = %v, want %v", got, wantNodes)
	}
}

func TestBuildExcludeCaseInsensitive(t *testing.T) {
	p := newMapProvider(map[string]map[string]string{
		"a":   {"Foo-Test": "*", "bar": "*"},
		"bar": {},
	})

	g, _, err := Build(context.Background(), p, "a", Options{MaxDepth: 10, Exclude: "foo-test"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.HasNode("Foo-Test") {
		t.Error("exclusion match should ignore case")
	}
}

func TestBuildRootNotExcluded(t *testing.T) {
	p := newMapProvider(map[string]map[string]string{
		"devtools": {"lib": "*"},
		"lib":      {},
	})

	g, _, err := Build(context.Background(), p, "devtools", Options{MaxDepth: 10, Exclude: "dev"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !g.HasNode("devtools") {
		t.Error("root was filtered by its own exclusion pattern")
	}
}

func TestBuildMissingDependencyWarns(t *testing.T) {
	p := newMapProvider(map[string]map[string]string{
		"a": {"gone": "*", "b": "*"},
		"b": {},
	})

	g, warnings, err := Build(context.Background(), p, "a", Options{MaxDepth: 10})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one", warnings)
	}
	if !strings.Contains(warnings[0], "gone") {
		t.Errorf("warning %q does not name the failed package", warnings[0])
	}
	// The edge survives even though the target could not be expanded.
	if !g.HasEdge("a", "gone") {
		t.Error("edge to unresolvable dependency missing")
	}
	if !g.HasNode("b") {
		t.Error("sibling of failed dependency was not resolved")
	}
}

func TestBuildRootNotFound(t *testing.T) {
	p := newMapProvider(map[string]map[string]string{})

	_, _, err := Build(context.Background(), p, "ghost", Options{MaxDepth: 10})
	if err == nil {
		t.Fatal("expected error for unknown root")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBuildFatalProviderError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	p := ProviderFunc(func(_ context.Context, name string) (map[string]string, error) {
		calls++
		if name == "a" {
			return map[string]string{"b": "*"}, nil
		}
		return nil, boom
	})

	_, _, err := Build(context.Background(), p, "a", Options{MaxDepth: 10})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want the provider error propagated", err)
	}
}

func TestIsRecoverable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"NotFound", fmt.Errorf("x: %w", ErrNotFound), true},
		{"Unavailable", ErrUnavailable, true},
		{"Malformed", ErrMalformed, true},
		{"Canceled", context.Canceled, false},
		{"Other", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecoverable(tt.err); got != tt.want {
				t.Errorf("IsRecoverable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
