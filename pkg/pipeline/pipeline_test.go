package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/depscope/depscope/pkg/resolve"
)

func tableProvider(deps map[string]map[string]string) resolve.Provider {
	return resolve.ProviderFunc(func(_ context.Context, name string) (map[string]string, error) {
		d, ok := deps[name]
		if !ok {
			return nil, fmt.Errorf("%s: %w", name, resolve.ErrNotFound)
		}
		return d, nil
	})
}

func quietRunner(p resolve.Provider) *Runner {
	return NewRunner(p, log.New(io.Discard))
}

func TestRunDiamond(t *testing.T) {
	r := quietRunner(tableProvider(map[string]map[string]string{
		"a": {"b": "*", "c": "*"},
		"b": {"d": "*"},
		"c": {"d": "*", "e": "*"},
		"d": {},
		"e": {},
	}))

	res, err := r.Run(context.Background(), Options{Root: "a", MaxDepth: DefaultMaxDepth})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := res.Graph.NodeCount(); got != 5 {
		t.Errorf("NodeCount() = %d, want 5", got)
	}
	if got := res.Graph.EdgeCount(); got != 5 {
		t.Errorf("EdgeCount() = %d, want 5", got)
	}
	if len(res.Cycles) != 0 {
		t.Errorf("Cycles = %v, want none", res.Cycles)
	}
	if !res.Order.Complete {
		t.Error("Order.Complete = false for acyclic graph")
	}
	wantOrder := []string{"d", "e", "b", "c", "a"}
	if !reflect.DeepEqual(res.Order.Names, wantOrder) {
		t.Errorf("Order.Names = %v, want %v", res.Order.Names, wantOrder)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}
}

func TestRunCyclicGraph(t *testing.T) {
	r := quietRunner(tableProvider(map[string]map[string]string{
		"a": {"b": "*"},
		"b": {"a": "*"},
	}))

	res, err := r.Run(context.Background(), Options{Root: "a", MaxDepth: DefaultMaxDepth})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Cycles) != 1 {
		t.Fatalf("Cycles = %v, want one", res.Cycles)
	}
	if res.Order.Complete {
		t.Error("Order.Complete = true for cyclic graph")
	}
}

func TestRunPartialGraphCarriesWarnings(t *testing.T) {
	r := quietRunner(tableProvider(map[string]map[string]string{
		"a": {"gone": "*", "b": "*"},
		"b": {},
	}))

	res, err := r.Run(context.Background(), Options{Root: "a", MaxDepth: DefaultMaxDepth})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "gone") {
		t.Errorf("Warnings = %v, want one naming gone", res.Warnings)
	}
}

func TestRunRootFailureAborts(t *testing.T) {
	r := quietRunner(tableProvider(nil))

	_, err := r.Run(context.Background(), Options{Root: "ghost", MaxDepth: DefaultMaxDepth})
	if !errors.Is(err, resolve.ErrNotFound) {
		t.Errorf("err = %v, want resolve.ErrNotFound", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"Valid", Options{Root: "express", MaxDepth: 3}, false},
		{"ValidDepthZero", Options{Root: "express"}, false},
		{"EmptyRoot", Options{MaxDepth: 3}, true},
		{"RootTooLong", Options{Root: strings.Repeat("x", MaxPackageNameLen+1), MaxDepth: 3}, true},
		{"RootAtLimit", Options{Root: strings.Repeat("x", MaxPackageNameLen), MaxDepth: 3}, false},
		{"ExcludeTooLong", Options{Root: "a", Exclude: strings.Repeat("y", MaxExcludeLen+1)}, true},
		{"ExcludeAtLimit", Options{Root: "a", Exclude: strings.Repeat("y", MaxExcludeLen)}, false},
		{"NegativeDepth", Options{Root: "a", MaxDepth: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrConfig) {
				t.Errorf("err = %v, want ErrConfig", err)
			}
		})
	}
}

func TestRunRejectsInvalidOptionsBeforeFetching(t *testing.T) {
	fetched := false
	r := quietRunner(resolve.ProviderFunc(func(context.Context, string) (map[string]string, error) {
		fetched = true
		return nil, nil
	}))

	if _, err := r.Run(context.Background(), Options{Root: "", MaxDepth: 1}); !errors.Is(err, ErrConfig) {
		t.Errorf("err = %v, want ErrConfig", err)
	}
	if fetched {
		t.Error("provider was called despite invalid options")
	}
}
