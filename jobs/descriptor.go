package jobs

import "context"

// Descriptor exposes one scheduled unit of work to the runtime. Schedule is
// a provider rather than a fixed string: the runtime re-evaluates it on each
// scheduling cycle, so configuration-derived cadences take effect without a
// process restart.
type Descriptor struct {
	Name     string
	Schedule func() (string, error)
	Run      func(ctx context.Context) error
	Args     []any
}

// StaticSchedule adapts a fixed cron expression to the provider form.
func StaticSchedule(expr string) func() (string, error) {
	return func() (string, error) { return expr, nil }
}
