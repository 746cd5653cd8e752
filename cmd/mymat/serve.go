package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mymat/internal/cart"
	"mymat/internal/config"
	"mymat/internal/http/handlers"
	applog "mymat/internal/log"
	"mymat/internal/metrics"
	"mymat/internal/repos"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			applog.Error(nil, "log.file.open", err, map[string]any{"path": cfg.LogFile})
		} else {
			defer f.Close()
			applog.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	storage, closeStorage, err := cartStorage(cmd.Context(), cfg, db)
	if err != nil {
		return err
	}
	defer closeStorage()

	deps := handlers.NewDeps(db, cfg, storage, metrics.New())
	app := handlers.NewApp(deps)
	applog.Info(nil, "static.mount", map[string]any{"static": cfg.StaticDir, "media": deps.Media.Dir()})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		applog.Info(nil, "server.listen", map[string]any{"port": cfg.Port})
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-ctx.Done()
		applog.Info(nil, "server.shutdown", nil)
		return app.ShutdownWithTimeout(10 * time.Second)
	})
	return g.Wait()
}

// cartStorage picks the cart backend named by cfg.CartBackend.
func cartStorage(ctx context.Context, cfg config.Config, db *sqlx.DB) (cart.Storage, func(), error) {
	switch cfg.CartBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if ctx == nil {
			ctx = context.Background()
		}
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		return cart.NewRedisStorage(client), func() { _ = client.Close() }, nil
	case "memory":
		return cart.NewMemoryStorage(), func() {}, nil
	default:
		return repos.NewCartRepo(db), func() {}, nil
	}
}
