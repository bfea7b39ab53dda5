package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/depscope/depscope/internal/server"
	"github.com/depscope/depscope/pkg/cache"
	"github.com/depscope/depscope/pkg/pipeline"
	"github.com/depscope/depscope/pkg/registry"
)

func newServeCmd(cfg Config) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dependency resolution over HTTP",
		Long: `Run an HTTP API exposing the resolver:

  POST /api/v1/graphs        {"package": "express", "max_depth": 5}
  GET  /api/v1/graphs/{id}
  GET  /healthz

With [server].redis configured, registry responses are cached in Redis so
multiple instances share one cache. With [server].mongo configured, resolved
graphs are persisted in MongoDB; otherwise they live in process memory.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runServe(c.Context(), cfg, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", cfg.Server.Listen, "address to listen on")
	return cmd
}

func runServe(ctx context.Context, cfg Config, listen string) error {
	logger := loggerFromContext(ctx)

	respCache, err := newServerCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer respCache.Close()

	provider, err := registry.NewNPM(registry.NPMOptions{
		URL:   cfg.Registry,
		Cache: respCache,
		TTL:   cfg.Cache.ttl(),
	})
	if err != nil {
		return err
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	srv := server.New(pipeline.NewRunner(provider, logger), store, logger)
	httpServer := &http.Server{
		Addr:              listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()
	logger.Info("listening", "addr", listen)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func newServerCache(ctx context.Context, cfg Config) (cache.Cache, error) {
	if cfg.Server.Redis != "" {
		return cache.NewRedisCache(ctx, cfg.Server.Redis)
	}
	return newResponseCache(cfg, false), nil
}

func newStore(ctx context.Context, cfg Config) (server.Store, error) {
	if cfg.Server.Mongo != "" {
		return server.NewMongoStore(ctx, cfg.Server.Mongo)
	}
	return server.NewMemoryStore(), nil
}
