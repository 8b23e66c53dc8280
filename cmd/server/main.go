package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/veemap/taskdash/internal/config"
	"github.com/veemap/taskdash/internal/core"
	"github.com/veemap/taskdash/internal/logging"
	"github.com/veemap/taskdash/internal/session"
	"github.com/veemap/taskdash/internal/web"
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
		"upload_max_file_size", cfg.Upload.MaxFileSize,
		"session_ttl", cfg.Session.TTL,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"audit_db", cfg.Database.URL != "",
	)

	ctx := context.Background()

	// The audit database is optional: without it the service runs fully
	// in-memory and audit entries go to the structured log.
	var pool *pgxpool.Pool
	if cfg.Database.URL != "" {
		poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			slog.Error("failed to parse database URL", "error", err)
			os.Exit(1)
		}
		poolConfig.MaxConns = int32(cfg.Database.MaxConns)
		poolConfig.MinConns = int32(cfg.Database.MinConns)
		poolConfig.MaxConnLifetime = cfg.Database.MaxConnLifetime

		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			slog.Error("failed to connect to audit database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			slog.Error("failed to ping audit database", "error", err)
			os.Exit(1)
		}
		slog.Info("connected to audit database")
	}

	var audit *core.AuditLog
	if pool != nil {
		audit = core.NewAuditLog(pool)
	} else {
		audit = core.NewAuditLog(nil)
	}
	if err := audit.EnsureSchema(ctx); err != nil {
		slog.Error("failed to create audit schema", "error", err)
		os.Exit(1)
	}

	// In-memory session store for uploaded workbooks
	sessions := session.NewStore(cfg.Session.TTL, cfg.Session.MaxSessions)

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	sessions.StartSweeper(jobCtx, cfg.Session.SweepInterval)

	server := web.NewServer(cfg, sessions, audit)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("starting server", "addr", cfg.Server.Addr())
	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
