package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Runner encapsulates startup for services embedding the audit library.
// It handles signals and context cancellation so each lifecycle-hook
// host doesn't write it again.
type Runner struct {
	Logger *slog.Logger
}

func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{Logger: logger}
}

// Run executes the main logic function with a context that cancels on
// SIGTERM/SIGINT.
func (r *Runner) Run(fn func(ctx context.Context) error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.Logger.Info("Service starting...")

	if err := fn(ctx); err != nil {
		r.Logger.Error("Service startup failed", "error", err)
		stop()
		os.Exit(1)
	}

	<-ctx.Done()

	r.Logger.Info("Shutdown signal received. Cleaning up...")
	_, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	r.Logger.Info("Service shutdown complete.")
}
