// Package pipeline runs the resolve → analyze sequence shared by the CLI
// and the HTTP server: validate options, build the graph, detect cycles,
// compute the load order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/depscope/depscope/pkg/graph"
	"github.com/depscope/depscope/pkg/resolve"
)

const (
	// MaxPackageNameLen bounds the root package name.
	MaxPackageNameLen = 255
	// MaxExcludeLen bounds the exclusion substring.
	MaxExcludeLen = 100
	// DefaultMaxDepth is used when no depth is configured.
	DefaultMaxDepth = 10
)

// ErrConfig marks invalid options, surfaced before any fetch happens.
var ErrConfig = errors.New("invalid configuration")

// Options configures one pipeline run.
type Options struct {
	Root     string // package the analysis starts from
	MaxDepth int    // expansion bound, >= 0
	Exclude  string // case-insensitive substring filter, may be empty
}

// Validate checks the options against the configuration limits.
func (o Options) Validate() error {
	if o.Root == "" {
		return fmt.Errorf("%w: package name must not be empty", ErrConfig)
	}
	if len(o.Root) > MaxPackageNameLen {
		return fmt.Errorf("%w: package name exceeds %d characters", ErrConfig, MaxPackageNameLen)
	}
	if len(o.Exclude) > MaxExcludeLen {
		return fmt.Errorf("%w: exclusion filter exceeds %d characters", ErrConfig, MaxExcludeLen)
	}
	if o.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth must not be negative", ErrConfig)
	}
	return nil
}

// Result bundles everything one run produces.
type Result struct {
	Graph    *graph.Graph
	Warnings []string   // per-dependency fetch failures, in traversal order
	Cycles   [][]string // as reported by graph.FindCycles
	Order    graph.Order
	Elapsed  time.Duration
}

// Runner executes pipelines against a metadata provider.
type Runner struct {
	Provider resolve.Provider
	Logger   *log.Logger
}

// NewRunner creates a Runner. A nil logger falls back to log.Default().
func NewRunner(p resolve.Provider, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Provider: p, Logger: logger}
}

// Run validates opts, builds the dependency graph, and computes the cycle
// and load-order analyses. The graph, warnings, and analyses are returned
// together; a root fetch failure or invalid options abort with an error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	g, warnings, err := resolve.Build(ctx, r.Provider, opts.Root, resolve.Options{
		MaxDepth: opts.MaxDepth,
		Exclude:  opts.Exclude,
		Logger:   func(format string, args ...any) { r.Logger.Debugf(format, args...) },
	})
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("graph invariant violated: %w", err)
	}

	result := &Result{
		Graph:    g,
		Warnings: warnings,
		Cycles:   graph.FindCycles(g),
		Order:    graph.LoadOrder(g),
		Elapsed:  time.Since(start),
	}

	r.Logger.Info("resolved dependency graph",
		"root", opts.Root,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cycles", len(result.Cycles),
		"duration", result.Elapsed.Round(time.Millisecond))
	for _, w := range warnings {
		r.Logger.Warn(w)
	}

	return result, nil
}
