package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/baleframe/baleframe/internal/api"
	"github.com/baleframe/baleframe/pkg/cache"
	"github.com/baleframe/baleframe/pkg/store"
)

// Store backends accepted by --store.
const (
	storeMemory = "memory"
	storeFile   = "file"
	storeSQLite = "sqlite"
	storeMongo  = "mongo"
)

// Cache backends accepted by --cache.
const (
	cacheNone  = "none"
	cacheFile  = "file"
	cacheRedis = "redis"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	storeKind string
	cacheKind string
	dataDir   string
	mongoURI  string
	mongoDB   string
	redisAddr string
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

The server exposes synthesis and part list endpoints plus saved-project
storage. Project records go to the selected store backend; synthesized
models go to the selected cache backend. The server shuts down
gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", api.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.storeKind, "store", storeMemory, "project store backend: memory, file, sqlite, mongo")
	cmd.Flags().StringVar(&opts.cacheKind, "cache", cacheFile, "model cache backend: none, file, redis")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "directory for the file and sqlite stores (default: XDG data dir)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI (store=mongo)")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", appName, "MongoDB database name (store=mongo)")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "localhost:6379", "Redis address (cache=redis)")

	return cmd
}

// runServe wires the selected backends into the API server and runs it
// until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	st, err := newStore(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	mc, err := newServeCache(ctx, opts)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer mc.Close()

	c.Logger.Info("starting server",
		"addr", opts.addr, "store", opts.storeKind, "cache", opts.cacheKind)

	srv := api.New(api.Config{
		Addr:   opts.addr,
		Store:  st,
		Cache:  mc,
		Logger: c.Logger,
	})
	return srv.Serve(ctx)
}

// newStore creates the project store for the selected backend.
func newStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	switch opts.storeKind {
	case storeMemory:
		return store.NewMemoryStore(), nil
	case storeFile:
		dir, err := resolveDataDir(opts.dataDir)
		if err != nil {
			return nil, err
		}
		return store.NewFileStore(filepath.Join(dir, "projects"))
	case storeSQLite:
		dir, err := resolveDataDir(opts.dataDir)
		if err != nil {
			return nil, err
		}
		return store.NewSQLiteStore(filepath.Join(dir, "projects.db"))
	case storeMongo:
		return store.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
	default:
		return nil, fmt.Errorf("unknown store backend: %s (must be 'memory', 'file', 'sqlite', or 'mongo')", opts.storeKind)
	}
}

// newServeCache creates the model cache for the selected backend.
func newServeCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	switch opts.cacheKind {
	case cacheNone:
		return cache.NewNullCache(), nil
	case cacheFile:
		dir, err := cacheDir()
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	case cacheRedis:
		return cache.NewRedisCache(ctx, opts.redisAddr)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s (must be 'none', 'file', or 'redis')", opts.cacheKind)
	}
}

// resolveDataDir returns the flag value when given, the XDG data
// directory otherwise.
func resolveDataDir(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	return dataDir()
}
