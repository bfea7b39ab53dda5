// Package resolve builds dependency graphs by crawling an abstract package
// metadata source.
package resolve

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by a Provider when the package does not
	// exist in the source. During expansion this is recoverable: the
	// builder records a warning and continues. For the root package it
	// aborts the build.
	ErrNotFound = errors.New("package not found")

	// ErrUnavailable is returned by a Provider when the source itself
	// cannot be reached (timeouts, connection failures, 5xx responses).
	ErrUnavailable = errors.New("source unavailable")

	// ErrMalformed is returned by a Provider when the source responds
	// with data it cannot interpret.
	ErrMalformed = errors.New("malformed package data")
)

// Provider supplies the direct dependencies of a package. The returned map
// is dependency name → version descriptor; descriptors are opaque to the
// builder, which only uses the key set. Implementations may cache responses
// internally.
type Provider interface {
	Dependencies(ctx context.Context, name string) (map[string]string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, name string) (map[string]string, error)

// Dependencies calls f.
func (f ProviderFunc) Dependencies(ctx context.Context, name string) (map[string]string, error) {
	return f(ctx, name)
}

// Options configures a build.
type Options struct {
	// MaxDepth bounds expansion. The root sits at depth 0; a package
	// discovered at depth d has its own dependencies fetched only when
	// d <= MaxDepth. Edges to packages one level past the limit are
	// still recorded.
	MaxDepth int

	// Exclude is a case-insensitive substring filter. Any package whose
	// name contains it is dropped entirely: no node, no edge, no
	// traversal into its subtree. The root is exempt.
	Exclude string

	// Logger receives per-dependency progress and warning lines.
	// Optional.
	Logger func(format string, args ...any)
}

func (o Options) withDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}
