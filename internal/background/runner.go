// Package background runs fire-and-forget tasks outside the request path.
package background

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dtroode/accountd/internal/logger"
	"github.com/dtroode/accountd/internal/model"
)

var _ model.TaskRunner = (*Runner)(nil)

// Runner executes detached tasks with bounded concurrency. Task failures and
// panics are logged and never reach the submitter.
type Runner struct {
	group  *errgroup.Group
	logger *logger.Logger
}

// NewRunner creates a Runner allowing up to limit tasks at once. A limit
// below one means no limit.
func NewRunner(limit int, logger *logger.Logger) *Runner {
	g := &errgroup.Group{}
	if limit > 0 {
		g.SetLimit(limit)
	}
	return &Runner{group: g, logger: logger}
}

// Go starts fn unless the runner is at its limit. The task context keeps the
// values of ctx but is not cancelled with it.
func (r *Runner) Go(ctx context.Context, name string, fn func(ctx context.Context) error) bool {
	taskCtx := context.WithoutCancel(ctx)

	ok := r.group.TryGo(func() error {
		r.run(taskCtx, name, fn)
		return nil
	})
	if !ok {
		r.logger.WarnContext(ctx, "Background: task dropped, runner at capacity", "task", name)
	}
	return ok
}

func (r *Runner) run(ctx context.Context, name string, fn func(ctx context.Context) error) {
	log := r.logger.With("task", name)

	defer func() {
		if p := recover(); p != nil {
			log.ErrorContext(ctx, "Background: task panicked",
				"panic", fmt.Sprint(p), "stack", string(debug.Stack()))
		}
	}()

	start := time.Now()
	if err := fn(ctx); err != nil {
		log.ErrorContext(ctx, "Background: task failed", "error", err.Error())
		return
	}
	log.DebugContext(ctx, "Background: task finished", "duration", time.Since(start))
}

// Wait blocks until running tasks finish or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		_ = r.group.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("background tasks still running: %w", ctx.Err())
	}
}
