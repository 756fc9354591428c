// Package worker runs queued refresh requests one at a time.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/scoutcalc/internal/adapters/mq/queue"
	"github.com/okian/scoutcalc/internal/domain/model"
	"github.com/okian/scoutcalc/pkg/logger"
	"github.com/okian/scoutcalc/pkg/metrics"
)

// Runner performs a full pipeline refresh.
type Runner interface {
	Refresh(ctx context.Context) (model.RunMeta, error)
}

// Queue defines how the refresher receives requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Request
}

// Refresher drains the refresh queue with a single goroutine, so runs never
// overlap.
type Refresher struct {
	queue  Queue
	runner Runner
	name   string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewRefresher creates a refresher with configuration options.
func NewRefresher(q Queue, r Runner, opts ...Option) *Refresher {
	w := &Refresher{
		queue:    q,
		runner:   r,
		name:     "refresher",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run processes requests until ctx is canceled, Shutdown is called or the
// queue is closed.
func (w *Refresher) Run(ctx context.Context) {
	defer close(w.done)

	requests := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case req, ok := <-requests:
			if !ok {
				return
			}
			w.process(ctx, req)
		}
	}
}

// Shutdown stops the loop after the current run and waits for it.
func (w *Refresher) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *Refresher) Done() <-chan struct{} { return w.done }

func (w *Refresher) process(ctx context.Context, req queue.Request) {
	waited := time.Since(req.RequestedAt)
	meta, err := w.runner.Refresh(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("worker", "refresh_failed")
		w.logger.Error(ctx, "refresh failed",
			logger.String("request", req.ID),
			logger.String("reason", req.Reason),
			logger.Error(err))
		return
	}
	w.logger.Info(ctx, "refresh finished",
		logger.String("request", req.ID),
		logger.String("reason", req.Reason),
		logger.String("run", meta.ID),
		logger.Int("teams", meta.Teams),
		logger.Duration("queued_for", waited))
}
