package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/gonspd/gonspd/internal/core/config"
	"github.com/gonspd/gonspd/internal/infra/cache"
	"github.com/gonspd/gonspd/internal/infra/nspd"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "gonspd",
	Short: "NSPD geoportal client",
	Long:  `gonspd queries the NSPD public geoportal: cadastral objects by number, by point, or by polygonal contour of any size.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(pointCmd)
	rootCmd.AddCommand(contourCmd)
}

// setup loads env and config, initializes logging and builds the client.
func setup() (*nspd.Client, *config.AppConfig, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	slogLevel := slog.LevelInfo
	switch {
	case isDebug || cfg.Logging.Level == "debug":
		slogLevel = slog.LevelDebug
	case cfg.Logging.Level == "warn":
		slogLevel = slog.LevelWarn
	case cfg.Logging.Level == "error":
		slogLevel = slog.LevelError
	}
	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})

	store, err := buildCache(cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("build cache: %w", err)
	}

	client, err := nspd.New(nspd.Config{
		BaseURL:        cfg.Portal.BaseURL,
		Timeout:        cfg.Portal.Timeout(),
		Retries:        cfg.Portal.Retries,
		RetryOnBlocked: cfg.Portal.RetryOnBlocked,
		ProxyURL:       cfg.Portal.Proxy,
		FallbackIP:     cfg.Portal.FallbackIP,
		CacheStorage:   store,
		CacheTTL:       cfg.Cache.TTL(),
		MaxDepth:       cfg.Search.MaxDepth,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build client: %w", err)
	}
	return client, cfg, nil
}

func buildCache(cfg config.CacheConfig) (cache.Storage, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "memory":
		return cache.NewMemory(), nil
	case "file":
		return cache.NewFile(cfg.Path)
	case "sqlite":
		return cache.NewSQL("sqlite3", cfg.Path)
	case "postgres":
		return cache.NewSQL("postgres", cfg.DSN)
	case "redis":
		return cache.NewRedis(cfg.URL)
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}

// signalContext returns a context cancelled by SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
