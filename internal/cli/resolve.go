package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/cache"
	"github.com/depscope/depscope/pkg/localrepo"
	"github.com/depscope/depscope/pkg/pipeline"
	"github.com/depscope/depscope/pkg/registry"
	"github.com/depscope/depscope/pkg/resolve"
)

// resolveFlags are the flags shared by every command that builds a graph.
type resolveFlags struct {
	registry string // npm registry endpoint
	local    string // local JSON repository path (overrides registry)
	maxDepth int
	exclude  string
	noCache  bool
	refresh  bool
	output   string // output file ("" = stdout)
}

func (f *resolveFlags) register(cmd *cobra.Command, cfg Config) {
	cmd.Flags().StringVarP(&f.registry, "registry", "r", cfg.Registry, "npm registry URL")
	cmd.Flags().StringVarP(&f.local, "local", "l", "", "local JSON repository (file or directory) instead of a registry")
	cmd.Flags().IntVarP(&f.maxDepth, "max-depth", "d", cfg.MaxDepth, "maximum dependency depth")
	cmd.Flags().StringVarP(&f.exclude, "exclude", "x", cfg.Exclude, "exclude packages whose name contains this substring")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the registry response cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass cached registry responses")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write output to file instead of stdout")
}

// provider builds the metadata provider the flags select: a local JSON
// repository when --local is set, otherwise the npm registry client with
// whatever cache the flags and config allow.
func (f *resolveFlags) provider(cfg Config) (resolve.Provider, error) {
	if f.local != "" {
		return localrepo.Open(f.local)
	}

	respCache := newResponseCache(cfg, f.noCache)
	return registry.NewNPM(registry.NPMOptions{
		URL:     f.registry,
		Cache:   respCache,
		TTL:     cfg.Cache.ttl(),
		Refresh: f.refresh,
	})
}

// newResponseCache returns the file cache, or the null cache when caching
// is turned off or the cache directory cannot be created.
func newResponseCache(cfg Config, noCache bool) cache.Cache {
	if noCache || cfg.Cache.Disabled {
		return cache.NewNullCache()
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// runResolve builds the graph and its analyses for pkg, showing a spinner
// while the resolution is in flight.
func runResolve(ctx context.Context, cfg Config, f *resolveFlags, pkg string) (*pipeline.Result, error) {
	logger := loggerFromContext(ctx)

	p, err := f.provider(cfg)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(p, logger)

	spin := newSpinner(ctx, fmt.Sprintf("resolving %s", pkg))
	result, err := runner.Run(ctx, pipeline.Options{
		Root:     pkg,
		MaxDepth: f.maxDepth,
		Exclude:  f.exclude,
	})
	spin.stop()
	if err != nil {
		return nil, err
	}

	for _, w := range result.Warnings {
		printWarning("%s", w)
	}
	return result, nil
}

// writeOutput writes text to the file named by path, or stdout when path is
// empty.
func writeOutput(path, text string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.WriteString(out, text)
	return err
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
