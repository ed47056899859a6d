package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Spok95/telegram-course-bot/internal/observability"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx context.Context
}

func New(ctx context.Context) *Runner { return &Runner{ctx: ctx} }

func (r *Runner) Every(interval time.Duration, name string, fn Job) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-r.ctx.Done():
				return
			case <-t.C:
				start := time.Now()
				if err := runSafe(r.ctx, fn); err != nil {
					jobErrors.WithLabelValues(name).Inc()
				}
				jobRuns.WithLabelValues(name).Inc()
				jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
			}
		}
	}()
}

// runSafe: паника в джобе не должна ронять процесс.
func runSafe(ctx context.Context, fn Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			observability.CapturePanic(r)
			err = fmt.Errorf("job panic: %v", r)
		}
	}()
	return fn(ctx)
}
