package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/angeloszaimis/join-gateway/config"
	"github.com/angeloszaimis/join-gateway/internal/handler"
	"github.com/angeloszaimis/join-gateway/internal/httpserver"
	"github.com/angeloszaimis/join-gateway/internal/metrics"
	"github.com/angeloszaimis/join-gateway/internal/templateprobe"
	"github.com/angeloszaimis/join-gateway/pkg/logger"
)

const metricsBufferSize = 1000

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	collector := metrics.NewCollector(metricsBufferSize, log)
	collector.Start(ctx)

	responder := createResponder(log, cfg)
	joinHandler := handler.NewJoinHandler(log, cfg.Static.Root, responder, collector)

	if cfg.Join.Mode == config.ModeServe {
		interval, err := time.ParseDuration(cfg.Join.ProbeInterval)
		if err != nil {
			log.Error("Failed to parse probe interval",
				slog.String("interval", cfg.Join.ProbeInterval),
				slog.Any("err", err))
			os.Exit(1)
		}

		go templateprobe.Run(ctx, resolveTemplate(cfg), interval, collector, log)
	}

	mux := setupRouter(joinHandler, collector, cfg.Join.Mode)

	srv, err := httpserver.New(cfg.Server.Address, mux)
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("Join gateway listening",
		slog.String("address", cfg.Server.Address),
		slog.String("mode", cfg.Join.Mode),
		slog.String("static_root", cfg.Static.Root))

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting join gateway", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func createResponder(logger *slog.Logger, cfg *config.Config) handler.Responder {
	switch cfg.Join.Mode {
	case config.ModeServe:
		return handler.NewPageResponder(resolveTemplate(cfg))
	case config.ModeRedirect:
		return handler.NewRedirectResponder(cfg.Join.RedirectPath)
	default:
		logger.Warn("Unknown join mode, defaulting to redirect", slog.String("requested", cfg.Join.Mode))
		return handler.NewRedirectResponder(cfg.Join.RedirectPath)
	}
}

// resolveTemplate locates the join template relative to the static root
// unless an absolute path is configured.
func resolveTemplate(cfg *config.Config) string {
	if filepath.IsAbs(cfg.Join.Template) {
		return cfg.Join.Template
	}

	return filepath.Join(cfg.Static.Root, cfg.Join.Template)
}
