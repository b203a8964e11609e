package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ai-ikigai/admin-dashboard/config"
)

// RunConfig contains everything Run needs to serve the dashboard.
type RunConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// Run serves the dashboard until ctx is cancelled, SIGINT or SIGTERM is
// received, or the server fails.
func Run(ctx context.Context, cfg *RunConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("run config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server, err := NewHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	if err = StartHTTPServer(server, logger, errCh); err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var serveErr error
	select {
	case <-sigCtx.Done():
		logger.Info("shutting down services...")
	case serveErr = <-errCh:
		logger.Error("service error", "error", serveErr)
	}

	// Shut down on a fresh context: the signal context is already done.
	stopErr := ShutdownHTTPServer(ShutdownConfig{
		Context: context.WithoutCancel(ctx),
		Server:  server,
		Timeout: cfg.Config.HTTP.ShutdownTimeout,
		Logger:  logger,
	})
	if closeErr := cfg.Services.Observability.Close(); closeErr != nil {
		logger.Warn("close metrics client", "error", closeErr)
	}
	return errors.Join(serveErr, stopErr)
}
