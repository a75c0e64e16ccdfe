package submission

import (
	"context"
	"errors"
	"sort"
	"testing"

	"courtflow/order"
)

type listerFunc func(ctx context.Context, filter order.Filter) ([]order.Order, error)

func (f listerFunc) List(ctx context.Context, filter order.Filter) ([]order.Order, error) {
	return f(ctx, filter)
}

type recordingEnqueuer struct {
	ids  []string
	errs map[string]error
}

func (r *recordingEnqueuer) Enqueue(ctx context.Context, orderID string) error {
	if err := r.errs[orderID]; err != nil {
		return err
	}
	r.ids = append(r.ids, orderID)
	return nil
}

func stuckOrders(orders ...order.Order) listerFunc {
	return func(ctx context.Context, filter order.Filter) ([]order.Order, error) {
		return orders, nil
	}
}

func TestRetrySweep_DeduplicatesCaseInsensitively(t *testing.T) {
	lister := stuckOrders(
		order.Order{ID: "ORDER-1", SubmitStatus: order.SubmitError, SubmitAttempts: 1},
		order.Order{ID: "order-1", SubmitStatus: order.SubmitError, SubmitAttempts: 1},
		order.Order{ID: "ORDER-2", SubmitStatus: order.SubmitError, SubmitAttempts: 0},
	)
	queue := &recordingEnqueuer{}
	sweep := NewRetrySweep(lister, queue, 9)

	if err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}

	if len(queue.ids) != 2 {
		t.Fatalf("expected 2 enqueued units, got %d: %v", len(queue.ids), queue.ids)
	}
	got := append([]string(nil), queue.ids...)
	sort.Strings(got)
	if got[0] != "ORDER-1" || got[1] != "ORDER-2" {
		t.Fatalf("unexpected enqueued ids: %v", queue.ids)
	}
}

func TestRetrySweep_SkipsExhaustedOrders(t *testing.T) {
	lister := stuckOrders(
		order.Order{ID: "o-1", SubmitStatus: order.SubmitError, SubmitAttempts: 3},
		order.Order{ID: "o-2", SubmitStatus: order.SubmitError, SubmitAttempts: 10},
	)
	queue := &recordingEnqueuer{}
	sweep := NewRetrySweep(lister, queue, 2)

	if err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}
	if len(queue.ids) != 0 {
		t.Fatalf("expected no units past the retry cap, got %v", queue.ids)
	}
}

func TestRetrySweep_DropsBlankIDs(t *testing.T) {
	lister := stuckOrders(
		order.Order{ID: "  ", SubmitStatus: order.SubmitError},
		order.Order{ID: "o-1", SubmitStatus: order.SubmitError},
	)
	queue := &recordingEnqueuer{}
	sweep := NewRetrySweep(lister, queue, 9)

	if err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}
	if len(queue.ids) != 1 || queue.ids[0] != "o-1" {
		t.Fatalf("expected only o-1, got %v", queue.ids)
	}
}

func TestRetrySweep_EmptyResultIsNoop(t *testing.T) {
	queue := &recordingEnqueuer{}
	sweep := NewRetrySweep(stuckOrders(), queue, 9)

	if err := sweep.Run(context.Background()); err != nil {
		t.Fatalf("run: unexpected error: %v", err)
	}
	if len(queue.ids) != 0 {
		t.Fatalf("expected no enqueues, got %v", queue.ids)
	}
}

func TestRetrySweep_EnqueueFailureDoesNotStopOthers(t *testing.T) {
	lister := stuckOrders(
		order.Order{ID: "o-1", SubmitStatus: order.SubmitError},
		order.Order{ID: "o-2", SubmitStatus: order.SubmitError},
	)
	broken := errors.New("queue unavailable")
	queue := &recordingEnqueuer{errs: map[string]error{"o-1": broken}}
	sweep := NewRetrySweep(lister, queue, 9)

	err := sweep.Run(context.Background())
	if !errors.Is(err, broken) {
		t.Fatalf("expected enqueue failure reported, got %v", err)
	}
	if len(queue.ids) != 1 || queue.ids[0] != "o-2" {
		t.Fatalf("expected o-2 still enqueued, got %v", queue.ids)
	}
}

func TestRetrySweep_RerunConvergesToSameUnits(t *testing.T) {
	lister := stuckOrders(
		order.Order{ID: "ORDER-1", SubmitStatus: order.SubmitError},
		order.Order{ID: "order-1", SubmitStatus: order.SubmitError},
	)
	queue := &recordingEnqueuer{}
	sweep := NewRetrySweep(lister, queue, 9)

	for i := 0; i < 2; i++ {
		if err := sweep.Run(context.Background()); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
	}
	if len(queue.ids) != 2 {
		t.Fatalf("expected one unit per run, got %v", queue.ids)
	}
	if queue.ids[0] != queue.ids[1] {
		t.Fatalf("expected identical units across runs, got %v", queue.ids)
	}
}
