package run

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

type Runner struct {
	Logger *zap.Logger
}

func New(log *zap.Logger) *Runner {
	return &Runner{Logger: log}
}

// WithSignals runs start until it returns or SIGINT/SIGTERM arrives and maps
// the outcome to a process exit code. start's context is cancelled on signal.
func (r *Runner) WithSignals(start func(ctx context.Context) error) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return r.wait(ctx, start)
}

func (r *Runner) wait(ctx context.Context, start func(ctx context.Context) error) int {
	errCh := make(chan error, 1)
	go func() {
		errCh <- start(ctx)
	}()

	select {
	case <-ctx.Done():
		r.Logger.Info("shutdown signal received")
		return 0
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
			return 0
		}
		r.Logger.Error("service exited with error", zap.Error(err))
		return 1
	}
}

// Graceful calls the shutdown functions in reverse registration order under a
// shared deadline, so a dependency opened first is closed last. Failures are
// logged and do not stop the remaining calls.
func (r *Runner) Graceful(timeout time.Duration, shutdown ...func(context.Context) error) {
	c, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	for i := len(shutdown) - 1; i >= 0; i-- {
		if err := shutdown[i](c); err != nil {
			r.Logger.Warn("graceful shutdown", zap.Error(err))
		}
	}
}

func Exit(code int) {
	os.Exit(code)
}
