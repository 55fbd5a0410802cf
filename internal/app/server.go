package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Start binds the HTTP listener, serves in the background and returns a
// channel closed once a termination signal arrives. A bind failure exits
// before anything is served.
func (a *App) Start() <-chan struct{} {
	ln, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		slog.Error("failed to bind http listener", "address", a.httpServer.Addr, "error", err)
		os.Exit(1)
	}

	slog.Info("http server listening", "address", ln.Addr().String())

	go func() {
		if err := <-a.Serve(ln); err != nil {
			slog.Error("failed to serve http server", "error", err)
			os.Exit(1)
		}
	}()

	terminateChan := make(chan struct{})

	go func() {
		ctx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer stop()

		<-ctx.Done()
		slog.Info("termination signal received")

		close(terminateChan)
	}()

	return terminateChan
}

// Serve runs the HTTP server on l. The returned channel yields nil after a
// graceful Shutdown and the serve error otherwise.
func (a *App) Serve(l net.Listener) <-chan error {
	errChan := make(chan error, 1)

	go func() {
		defer close(errChan)

		if err := a.httpServer.Serve(l); !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	return errChan
}

// Stop drains in this order: HTTP requests, background goroutines, then
// closers. Background user updates and audit events still need the database
// and broker, so those close last.
func (a *App) Stop(ctx context.Context) {
	start := time.Now()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for all goroutine to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}

	if a.cancel != nil {
		a.cancel()
	}

	slog.InfoContext(ctx, "application gracefully shutdown", "took", time.Since(start).String())
}
