// Command miso runs the food-helper quota service.
//
// Usage:
//
//	miso serve --config config.yaml
//	miso flush ratelimit
//	miso version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"

	"github.com/Nuccino92/food-helper/pkg/config"
	"github.com/Nuccino92/food-helper/pkg/logger"
	"github.com/Nuccino92/food-helper/pkg/quota"
	"github.com/Nuccino92/food-helper/pkg/server"
)

const shutdownTimeout = 15 * time.Second

// CLI defines the command-line interface.
type CLI struct {
	Version VersionCmd `cmd:"" help:"Show version information."`
	Serve   ServeCmd   `cmd:"" help:"Start the HTTP server."`
	Flush   FlushCmd   `cmd:"" help:"Clear quota state from the counter store."`

	Config    string `short:"c" help:"Path to config file." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." default:"info"`
	LogFormat string `help:"Log format (simple or verbose)." default:"simple"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("miso version %s\n", version)
	return nil
}

// ServeCmd starts the HTTP server.
type ServeCmd struct {
	Port int `help:"Port to listen on (overrides config)."`
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}

	// Config file logger settings apply unless CLI flags override them.
	if cli.LogLevel == "info" && cli.LogFormat == "simple" {
		if level, err := logger.ParseLevel(cfg.Logger.Level); err == nil {
			logger.Init(level, os.Stderr, cfg.Logger.Format)
		}
	}

	limiter, store, err := buildLimiter(cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	srv, err := server.New(server.Options{
		Config:  cfg,
		Limiter: limiter,
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(srv.Start)
	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-ctx.Done():
			return nil
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})
	return g.Wait()
}

// FlushCmd clears quota state from the counter store.
type FlushCmd struct {
	Target string `arg:"" enum:"all,abuse,ratelimit" default:"all" help:"What to clear: all, abuse, or ratelimit."`
}

func (c *FlushCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}

	limiter, store, err := buildLimiter(cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("no redis store configured, nothing to flush")
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var n int64
	switch c.Target {
	case "abuse":
		n, err = limiter.FlushAbuse(ctx)
	case "ratelimit":
		n, err = limiter.FlushRateLimit(ctx)
	default:
		n, err = limiter.Flush(ctx)
	}
	if err != nil {
		return fmt.Errorf("flush failed: %w", err)
	}

	fmt.Printf("Cleared %d key(s)\n", n)
	return nil
}

// buildLimiter wires the limiter to Redis when configured. An absent
// Redis section yields a nil store, which disables enforcement.
func buildLimiter(cfg *config.Config) (*quota.Limiter, *quota.RedisStore, error) {
	var store *quota.RedisStore
	if cfg.Redis.IsConfigured() {
		var err error
		store, err = quota.NewRedisStore(&cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	} else {
		logger.GetLogger().Warn("No redis store configured, rate limiting disabled")
	}

	if store == nil {
		limiter, err := quota.New(&cfg.RateLimit, nil)
		return limiter, nil, err
	}
	limiter, err := quota.New(&cfg.RateLimit, store)
	return limiter, store, err
}

func main() {
	config.LoadDotEnv()

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("miso"),
		kong.Description("Quota and abuse-control service for the food helper chat."),
		kong.UsageOnError(),
	)

	level, err := logger.ParseLevel(cli.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Init(level, os.Stderr, cli.LogFormat)

	err = ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
