package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/cogenworks/plantparse/internal/config"
	"github.com/cogenworks/plantparse/internal/engine"
	"github.com/cogenworks/plantparse/internal/logging"
	"github.com/cogenworks/plantparse/internal/registry"
	"github.com/cogenworks/plantparse/internal/store"
	"github.com/cogenworks/plantparse/internal/suggest"
	"github.com/cogenworks/plantparse/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"parse_workers", cfg.Parse.Workers,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"persistence_enabled", cfg.Database.Enabled(),
		"suggestions_enabled", cfg.Suggest.Enabled(),
	)

	ctx := context.Background()

	// Load the parameter and asset registries
	reg := registry.Default()
	if cfg.Registry.Path != "" {
		reg, err = registry.LoadFile(cfg.Registry.Path)
		if err != nil {
			slog.Error("failed to load registry file", "path", cfg.Registry.Path, "error", err)
			os.Exit(1)
		}
		slog.Info("registry loaded from file", "path", cfg.Registry.Path)
	}
	slog.Info("registries ready",
		"parameters", len(reg.Parameters()),
		"assets", len(reg.Assets()),
	)

	// Connect to the database when configured; the service runs stateless
	// without one
	var runs *store.RunStore
	if cfg.Database.Enabled() {
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			slog.Error("failed to parse database URL", "error", err)
			os.Exit(1)
		}
		poolConfig.MaxConns = int32(cfg.Database.MaxConns)
		poolConfig.MinConns = int32(cfg.Database.MinConns)
		poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			slog.Error("failed to ping database", "error", err)
			os.Exit(1)
		}

		if u, err := url.Parse(cfg.Database.URL); err == nil {
			dbName := strings.TrimPrefix(u.Path, "/")
			slog.Info("connected to database", "name", dbName)
		} else {
			slog.Info("connected to database")
		}

		runs = store.NewRunStore(pool)
		if err := runs.EnsureSchema(ctx); err != nil {
			slog.Error("failed to ensure database schema", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Info("no database configured, run history disabled")
	}

	// Wire the optional suggestion collaborator
	var suggester engine.Suggester
	if cfg.Suggest.Enabled() {
		client, err := suggest.New(ctx, cfg.Suggest.APIKey, cfg.Suggest.Model, reg)
		if err != nil {
			slog.Error("failed to create suggestion client", "error", err)
			os.Exit(1)
		}
		suggester = client
		slog.Info("suggestions enabled", "model", cfg.Suggest.Model)
	}

	parser := engine.NewParser(reg, engine.Options{
		HeaderScanRows: cfg.Parse.HeaderScanRows,
		ChunkSize:      cfg.Parse.ChunkSize,
		Workers:        cfg.Parse.Workers,
		Suggester:      suggester,
		SuggestTimeout: cfg.Suggest.Timeout,
	})

	// Create server with config
	server := web.NewServer(cfg, reg, parser, runs)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
