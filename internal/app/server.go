package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const defaultShutdownTimeout = 10 * time.Second

// Run serves HTTP until ctx is canceled or the listener fails, then drains
// in-flight requests, waits for background jobs, and releases resources.
func (a *App) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var err error
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err = <-serveErr:
		slog.Error("http server stopped unexpectedly", "error", err)
	}

	timeout := a.config.GetSecond("app.server.shutdown_timeout_seconds")
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	a.stop(shutdownCtx)
	return err
}

func (a *App) stop(ctx context.Context) {
	a.cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to drain http server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for background jobs")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "background jobs finished with errors", "error", err)
	}

	a.close(ctx)
	slog.InfoContext(ctx, "application stopped")
}
