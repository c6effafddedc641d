package builder

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

type sessionCloser interface {
	Close()
	Count() int
}

// App represents the application with all its components
type App struct {
	server   *http.Server
	sessions sessionCloser
	logger   *zap.Logger
}

// Run starts the application and blocks until a shutdown signal or a server error
func (a *App) Run() error {
	// Start HTTP server in goroutine
	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		a.logger.Error("Server error", zap.Error(err))
		a.closeSessions()
		return err
	case sig := <-sigChan:
		a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	// Graceful shutdown
	return a.shutdown()
}

// shutdown gracefully shuts down the application
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a.logger.Info("Shutting down server gracefully")

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown error", zap.Error(err))
		a.closeSessions()
		return err
	}

	a.closeSessions()

	a.logger.Info("Application stopped gracefully")
	_ = a.logger.Sync()
	return nil
}

// closeSessions drops every session so uploaded documents do not outlive the process
func (a *App) closeSessions() {
	if a.sessions == nil {
		return
	}
	a.logger.Info("Discarding sessions", zap.Int("count", a.sessions.Count()))
	a.sessions.Close()
}
