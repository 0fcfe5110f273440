package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"golang.org/x/sync/errgroup"
)

// serve runs the HTTP server and, when enabled, the reminder scanner until
// ctx is cancelled or one of them fails. The server is then drained within
// the configured shutdown timeout.
func (app *application) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      app.setupRouter(),
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("starting server", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	if app.config.Reminder.Enabled {
		g.Go(func() error {
			return app.scanner.Run(gctx)
		})
	} else {
		app.logger.Info("reminder scanner disabled")
	}

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	app.logger.Info("server shutdown completed")
	return nil
}

// runUntilSignal serves on ln until SIGINT or SIGTERM, or until serving fails.
func (app *application) runUntilSignal(ln net.Listener) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var serveErr error
	stopped := make(chan struct{})
	go func() {
		serveErr = app.serve(ctx, ln)
		close(stopped)
	}()

	// Leave room for the HTTP drain inside the overall budget.
	timeout := app.config.Server.ShutdownTimeout + 5*time.Second
	wait := gfshutdown.GracefulShutdown(context.Background(), timeout, map[string]gfshutdown.Operation{
		"task-api": func(ctx context.Context) error {
			cancel()
			select {
			case <-stopped:
				return serveErr
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})

	select {
	case <-stopped:
		return serveErr
	case code := <-wait:
		if code != 0 {
			return fmt.Errorf("shutdown finished with exit code %d", code)
		}
		return nil
	}
}
