package submission

import (
	"context"
	"fmt"
	"log"
	"time"

	"courtflow/db"
	"courtflow/order"
)

// DefaultLockWait bounds how long a competing submission waits for the
// cluster-wide lock before failing.
const DefaultLockWait = 60 * time.Second

// OrderStore is the slice of order persistence the worker needs.
type OrderStore interface {
	GetByID(ctx context.Context, id string) (order.Order, error)
	Update(ctx context.Context, o order.Order) (order.Order, error)
}

// Target is the downstream consumer that finally accepts a reviewed order.
type Target interface {
	Submit(ctx context.Context, o order.Order) error
}

// LockManager provides the cluster-wide mutex with bounded wait.
type LockManager interface {
	Acquire(ctx context.Context, key int64, wait time.Duration) (func(), error)
}

// Worker submits exactly one order to the downstream consumer. All
// submissions are serialized cluster-wide regardless of which order they
// concern.
type Worker struct {
	orders   OrderStore
	target   Target
	locks    LockManager
	lockWait time.Duration
}

func NewWorker(orders OrderStore, target Target, locks LockManager) *Worker {
	return &Worker{
		orders:   orders,
		target:   target,
		locks:    locks,
		lockWait: DefaultLockWait,
	}
}

func (w *Worker) WithLockWait(wait time.Duration) *Worker {
	w.lockWait = wait
	return w
}

// Execute submits the order with the given id. A downstream failure is
// recorded on the order (error status, attempts incremented) and re-raised
// so the scheduling runtime's retry policy can react.
func (w *Worker) Execute(ctx context.Context, orderID string) error {
	if orderID == "" {
		return fmt.Errorf("submission: order id is required")
	}

	release, err := w.locks.Acquire(ctx, db.SubmissionLockKey, w.lockWait)
	if err != nil {
		return fmt.Errorf("submission: serialize %s: %w", orderID, err)
	}
	defer release()

	o, err := w.orders.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("submission: load %s: %w", orderID, err)
	}

	if o.SubmitStatus == order.SubmitDone {
		log.Printf("submission: %s already submitted, skipping", orderID)
		return nil
	}

	if submitErr := w.target.Submit(ctx, o); submitErr != nil {
		o.SubmitStatus = order.SubmitError
		o.SubmitAttempts++
		if _, err := w.orders.Update(ctx, o); err != nil {
			log.Printf("submission: record failure for %s: %v", orderID, err)
		}
		return fmt.Errorf("submission: submit %s: %w", orderID, submitErr)
	}

	o.SubmitStatus = order.SubmitDone
	if _, err := w.orders.Update(ctx, o); err != nil {
		return fmt.Errorf("submission: record success for %s: %w", orderID, err)
	}

	log.Printf("submission: %s submitted after %d prior attempts", orderID, o.SubmitAttempts)
	return nil
}
