package submission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"courtflow/order"
)

// OrderLister is the read slice of order persistence the sweep needs.
type OrderLister interface {
	List(ctx context.Context, filter order.Filter) ([]order.Order, error)
}

// Enqueuer queues an order id for submission.
type Enqueuer interface {
	Enqueue(ctx context.Context, orderID string) error
}

// RetrySweep periodically re-queues orders stuck in an error submission
// state, capped at maxRetries attempts. Orders past the cap require operator
// intervention and are excluded from automatic re-queue.
type RetrySweep struct {
	orders     OrderLister
	queue      Enqueuer
	maxRetries int
}

func NewRetrySweep(orders OrderLister, queue Enqueuer, maxRetries int) *RetrySweep {
	return &RetrySweep{orders: orders, queue: queue, maxRetries: maxRetries}
}

// Run queries reviewed orders whose submission errored and enqueues one unit
// per eligible id. Ids are deduplicated case-insensitively and blanks are
// dropped. An empty result set is a no-op.
func (s *RetrySweep) Run(ctx context.Context) error {
	stuck, err := s.orders.List(ctx, order.Filter{
		ReviewStatuses: []order.ReviewStatus{order.ReviewApproved, order.ReviewUnapproved},
		SubmitStatus:   order.SubmitError,
	})
	if err != nil {
		return fmt.Errorf("submission: list stuck orders: %w", err)
	}
	if len(stuck) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(stuck))
	var failed []error
	enqueued := 0

	for _, o := range stuck {
		if o.SubmitAttempts >= s.maxRetries {
			continue
		}
		id := strings.TrimSpace(o.ID)
		if id == "" {
			continue
		}
		key := strings.ToLower(id)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if err := s.queue.Enqueue(ctx, id); err != nil {
			log.Printf("submission: retry enqueue %s: %v", id, err)
			failed = append(failed, err)
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		log.Printf("submission: retry sweep re-queued %d of %d stuck orders", enqueued, len(stuck))
	}
	return errors.Join(failed...)
}
