package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/gedtree/gedtree/internal/server"
	"github.com/gedtree/gedtree/pkg/cache"
	"github.com/gedtree/gedtree/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string // listen address
	mongoURI string // MongoDB connection string; empty uses in-memory storage
	redis    string // Redis address; empty uses the file cache
	cacheTTL string // artifact cache TTL (Go duration syntax)
	noCache  bool   // disable the artifact cache
}

// newServeCmd creates the serve command running the HTTP API.
//
// Storage and caching default to single-instance setups (in-memory
// datasets, file-based artifact cache). For multi-instance deployments
// point --mongo-uri and --redis at shared backends.
func newServeCmd(cfg config) *cobra.Command {
	opts := serveOpts{
		addr:     cfg.Serve.Addr,
		mongoURI: cfg.Serve.MongoURI,
		redis:    cfg.Serve.RedisAddr,
		cacheTTL: cfg.Serve.CacheTTL,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gedtree HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", opts.mongoURI, "MongoDB connection string (default: in-memory storage)")
	cmd.Flags().StringVar(&opts.redis, "redis", opts.redis, "Redis address for the artifact cache (default: file cache)")
	cmd.Flags().StringVar(&opts.cacheTTL, "cache-ttl", opts.cacheTTL, "artifact cache TTL, e.g. 24h (default: no expiration)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	datasets, err := newStore(ctx, opts)
	if err != nil {
		return err
	}
	defer datasets.Close(context.Background())

	artifacts, err := newServeCache(ctx, opts)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	ttl, err := parseTTL(opts.cacheTTL)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Store:    datasets,
		Cache:    artifacts,
		CacheTTL: ttl,
		Logger:   logger,
	})

	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", opts.addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}

// newStore picks the dataset backend from the flags.
func newStore(ctx context.Context, opts *serveOpts) (store.Store, error) {
	logger := loggerFromContext(ctx)
	if opts.mongoURI == "" {
		logger.Debug("Using in-memory dataset storage")
		return store.NewMemoryStore(), nil
	}
	logger.Debugf("Connecting to MongoDB")
	return store.NewMongoStore(ctx, opts.mongoURI)
}

// newServeCache picks the artifact cache backend from the flags.
func newServeCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	logger := loggerFromContext(ctx)
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redis != "" {
		logger.Debugf("Connecting to Redis at %s", opts.redis)
		return cache.NewRedisCache(ctx, opts.redis)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func parseTTL(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}
