// internal/app/system/workers/taskexpiry.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/crewhub/internal/app/core/taskflow"
	"github.com/dalemusser/crewhub/internal/app/system/timeouts"
)

// TaskExpiry is a background worker that sweeps overdue tasks to the
// expired status. Writes at creation/update time already expire tasks with
// past due dates; the sweep catches tasks whose due date passes while they
// sit untouched.
type TaskExpiry struct {
	engine   *taskflow.Engine
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewTaskExpiry creates the expiry worker. interval controls how often the
// sweep runs (e.g. one minute).
func NewTaskExpiry(engine *taskflow.Engine, logger *zap.Logger, interval time.Duration) *TaskExpiry {
	return &TaskExpiry{
		engine:   engine,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *TaskExpiry) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("task expiry worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *TaskExpiry) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("task expiry worker stopped")
}

func (w *TaskExpiry) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *TaskExpiry) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Batch())
	defer cancel()

	count, err := w.engine.ExpireOverdue(ctx)
	if err != nil {
		w.log.Error("task expiry sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("expired overdue tasks", zap.Int64("count", count))
	}
}
