package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/booklist/internal/config"
	"github.com/JonMunkholm/booklist/internal/core"
	"github.com/JonMunkholm/booklist/internal/logging"
	"github.com/JonMunkholm/booklist/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source", config.MaskLocation(cfg.Source.Location),
		"publish", cfg.Source.Publish,
		"max_concurrent_loads", cfg.Source.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	loader := core.NewSourceLoader(core.LoaderOptions{
		Timeout:  cfg.Source.Timeout,
		MaxBytes: cfg.Source.MaxBytes,
		S3Region: cfg.Source.S3Region,
	})
	limiter := core.NewLoadLimiter(cfg.Source.MaxConcurrent, cfg.Source.MaxWait)
	service := core.NewService(loader, cfg.Source.Location, core.WithLoadLimiter(limiter))

	if core.IsLocalFile(cfg.Source.Location) {
		if _, err := os.Stat(core.LocalPath(cfg.Source.Location)); err != nil {
			slog.Warn("source file not readable yet, pages will show an error row", "error", err)
		}
	}

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	idle := make(chan struct{})
	go func() {
		defer close(idle)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		// Requests are drained; loads detached from a request may still run.
		if status := service.LoadStatus(); status.Active > 0 {
			slog.Info("waiting for source loads to complete", "active", status.Active)
			if err := service.WaitForLoads(shutdownCtx); err != nil {
				slog.Warn("source loads did not complete in time", "error", err)
			}
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	<-idle
	slog.Info("server stopped")
}
