package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/hrpulse/notify-relay/internal/config"
	"github.com/hrpulse/notify-relay/internal/metrics"
	"github.com/hrpulse/notify-relay/internal/platform/logging"
	"github.com/hrpulse/notify-relay/internal/platform/version"
	"github.com/hrpulse/notify-relay/internal/relay"
	"github.com/hrpulse/notify-relay/internal/server"
)

const shutdownTimeout = 10 * time.Second

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// runGracefulShutdown stops accepting new connections on SIGINT/SIGTERM and
// then terminates the registry. Deliveries in flight are synchronous with
// respect to the registry actor, so there is nothing further to drain.
func runGracefulShutdown(srv *server.Server, registry *relay.Registry) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		registry.Stop()
		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	build := version.Get()
	metrics.BuildInfo.WithLabelValues(build.Version, build.Commit, build.BuildTime, runtime.Version()).Set(1)
	slog.Info("Notification relay starting", "env", cfg.AppEnv, "port", cfg.Port, "version", build.Version)

	registry := relay.NewRegistry(clock)
	srv := server.NewServer(cfg, registry)

	done := runGracefulShutdown(srv, registry)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Shutdown complete")
}
