package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/example/morning-report/internal/platform/natsconn"
	"github.com/example/morning-report/internal/refresh"
)

const durableRefresh = "fetcher_refresh"

// Worker consumes feeds.refresh with a durable pull consumer. Messages are
// acked whether or not the refresh succeeds; the next trigger is the retry.
type Worker struct {
	Log *zap.Logger
	JS  nats.JetStreamContext
	Job Runner
}

func NewWorker(log *zap.Logger, nc *nats.Conn, job Runner) (*Worker, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	return &Worker{Log: log, JS: js, Job: job}, nil
}

func (w *Worker) EnsureStream() error {
	return natsconn.EnsureStream(w.JS, refresh.StreamName, []string{"feeds.>"}, 24*time.Hour)
}

func (w *Worker) Run(ctx context.Context) error {
	if err := w.EnsureStream(); err != nil {
		return err
	}
	sub, err := w.JS.PullSubscribe(refresh.Subject, durableRefresh)
	if err != nil {
		return err
	}
	defer func() { _ = sub.Unsubscribe() }()

	w.Log.Info("consumer started", zap.String("subject", refresh.Subject))
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msgs, err := sub.Fetch(1, nats.MaxWait(2*time.Second))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			return err
		}
		for _, m := range msgs {
			_ = w.handle(ctx, m.Data)
			_ = m.Ack()
		}
	}
}

func (w *Worker) handle(ctx context.Context, data []byte) error {
	req, err := refresh.Decode(data)
	if err != nil {
		w.Log.Warn("bad payload", zap.String("subject", refresh.Subject), zap.Error(err))
		return err
	}
	w.Log.Info("refresh requested", zap.String("reason", req.Reason))
	_, err = w.Job.Run(ctx)
	return err
}
