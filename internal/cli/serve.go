package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pulsegraph/internal/server"
	"github.com/matzehuels/pulsegraph/pkg/cache"
	"github.com/matzehuels/pulsegraph/pkg/playback"
)

// serveFlags holds the serve command's flag values so runServe can tell
// set flags from defaults.
type serveFlags struct {
	configPath string
	addr       string
	cacheDir   string
	redisURL   string
	mongoURI   string
	mongoDB    string
	runsDir    string
	noCache    bool
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the playback pipeline as an HTTP API",
		Long: `Serve the playback pipeline as an HTTP API.

The server exposes POST /v1/simulate for full pipeline runs, POST /v1/layout
for position computation, and GET /v1/runs for the archive of completed runs,
plus /healthz and prometheus /metrics.

With --redis-url the result cache is shared across replicas; otherwise a
local file cache is used. With --mongo-uri completed runs are archived in
MongoDB, with --runs-dir in local JSON files; otherwise they are kept in
memory and lost on restart.

Settings come from flags, then the --config TOML file, then defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "TOML config file")
	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&flags.cacheDir, "cache-dir", "", "file cache directory")
	cmd.Flags().StringVar(&flags.redisURL, "redis-url", "", "Redis cache URL, e.g. redis://localhost:6379/0")
	cmd.Flags().StringVar(&flags.mongoURI, "mongo-uri", "", "MongoDB URI for the run archive")
	cmd.Flags().StringVar(&flags.mongoDB, "mongo-database", "", "MongoDB database name (default pulsegraph)")
	cmd.Flags().StringVar(&flags.runsDir, "runs-dir", "", "archive runs as JSON files in this directory")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable result caching")

	return cmd
}

// runServe resolves the configuration, connects the backends, and blocks
// until the context is cancelled.
func (c *CLI) runServe(cmd *cobra.Command, flags serveFlags) error {
	ctx := cmd.Context()

	cfg, err := resolveServeConfig(cmd, flags)
	if err != nil {
		return err
	}

	store, err := c.newServeCache(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := playback.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	runs, err := c.newRunStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize run store: %w", err)
	}
	defer runs.Close(context.Background())

	srv := server.New(cfg, runner, runs, c.Logger)
	srv.Metrics().Register()

	printInfo("Serving on %s", cfg.Addr)
	return srv.ListenAndServe(ctx)
}

// resolveServeConfig layers flag values over the config file over defaults.
func resolveServeConfig(cmd *cobra.Command, flags serveFlags) (server.Config, error) {
	cfg := server.DefaultConfig()
	if flags.configPath != "" {
		loaded, err := server.LoadConfig(flags.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("addr") {
		cfg.Addr = flags.addr
	}
	if cmd.Flags().Changed("cache-dir") {
		cfg.CacheDir = flags.cacheDir
	}
	if cmd.Flags().Changed("redis-url") {
		cfg.RedisURL = flags.redisURL
	}
	if cmd.Flags().Changed("mongo-uri") {
		cfg.MongoURI = flags.mongoURI
	}
	if cmd.Flags().Changed("mongo-database") {
		cfg.MongoDatabase = flags.mongoDB
	}
	if cmd.Flags().Changed("runs-dir") {
		cfg.RunsDir = flags.runsDir
	}
	return cfg, nil
}

// newServeCache picks the cache backend: Redis when configured, otherwise
// the local file cache.
func (c *CLI) newServeCache(ctx context.Context, cfg server.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisURL != "" {
		rc, err := cache.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("using redis cache", "url", cfg.RedisURL)
		return rc, nil
	}

	dir := cfg.CacheDir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// newRunStore picks the run archive backend: MongoDB when configured,
// then the file archive, otherwise in-memory.
func (c *CLI) newRunStore(ctx context.Context, cfg server.Config) (server.RunStore, error) {
	if cfg.MongoURI != "" {
		store, err := server.DialMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("archiving runs in mongo", "database", cfg.MongoDatabase)
		return store, nil
	}
	if cfg.RunsDir != "" {
		store, err := server.NewFileStore(cfg.RunsDir)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("archiving runs in directory", "dir", store.Path())
		return store, nil
	}
	return server.NewMemoryStore(), nil
}
