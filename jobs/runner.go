package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Runner dispatches registered descriptors on their cron schedules. Every
// unit of work runs under the failure interceptor.
type Runner struct {
	cron        *cron.Cron
	interceptor *Interceptor
	ctx         context.Context
}

func NewRunner(ctx context.Context, interceptor *Interceptor) *Runner {
	return &Runner{
		cron:        cron.New(),
		interceptor: interceptor,
		ctx:         ctx,
	}
}

// Register validates the descriptor's current schedule and adds it to the
// runtime. A schedule that cannot be computed at registration is a
// configuration failure and fails fast.
func (r *Runner) Register(d Descriptor) error {
	if d.Name == "" || d.Schedule == nil || d.Run == nil {
		return fmt.Errorf("jobs: descriptor requires name, schedule, and run")
	}

	expr, err := d.Schedule()
	if err != nil {
		return fmt.Errorf("jobs: compute schedule for %s: %w", d.Name, err)
	}
	if _, err := cron.ParseStandard(expr); err != nil {
		return fmt.Errorf("jobs: parse schedule %q for %s: %w", expr, d.Name, err)
	}

	wrapped := r.interceptor.Wrap(d)
	r.cron.Schedule(&dynamicSchedule{name: d.Name, provider: d.Schedule}, cron.FuncJob(func() {
		// Error already logged and alerted by the interceptor.
		_ = wrapped.Run(r.ctx)
	}))
	return nil
}

// Start launches the scheduling loop in its own goroutine.
func (r *Runner) Start() {
	r.cron.Start()
}

// Stop halts scheduling and waits for in-flight jobs to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
}

// dynamicSchedule re-evaluates the descriptor's schedule provider on every
// scheduling cycle, so a configuration change shifts the cadence without a
// restart. A provider or parse failure stops further runs of that job.
type dynamicSchedule struct {
	name     string
	provider func() (string, error)
}

func (s *dynamicSchedule) Next(t time.Time) time.Time {
	expr, err := s.provider()
	if err != nil {
		log.Printf("jobs: schedule for %s: %v", s.name, err)
		return time.Time{}
	}
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		log.Printf("jobs: parse schedule %q for %s: %v", expr, s.name, err)
		return time.Time{}
	}
	return sched.Next(t)
}
