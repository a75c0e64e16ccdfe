package submission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/semaphore"
)

const pendingKey = "submissions:pending"

// Executor runs one submission unit of work.
type Executor interface {
	Execute(ctx context.Context, orderID string) error
}

// RedisQueue holds pending submission order ids in a Redis list so any node
// of the cluster can enqueue or drain them.
type RedisQueue struct {
	rdb *redis.Client
}

func NewRedisQueue(rdb *redis.Client) *RedisQueue {
	return &RedisQueue{rdb: rdb}
}

// Enqueue appends one order id to the pending list.
func (q *RedisQueue) Enqueue(ctx context.Context, orderID string) error {
	if orderID == "" {
		return fmt.Errorf("submission: enqueue empty order id")
	}
	if err := q.rdb.LPush(ctx, pendingKey, orderID).Err(); err != nil {
		return fmt.Errorf("submission: enqueue %s: %w", orderID, err)
	}
	return nil
}

// Drainer pops queued ids and runs the worker for each. Units run under a
// weighted semaphore; the submission lock still serializes the downstream
// calls, the semaphore only bounds in-flight goroutines on this node.
type Drainer struct {
	queue    *RedisQueue
	executor Executor
	workers  int64
}

func NewDrainer(queue *RedisQueue, executor Executor, workers int) *Drainer {
	if workers <= 0 {
		workers = 1
	}
	return &Drainer{queue: queue, executor: executor, workers: int64(workers)}
}

// Run drains everything queued at the moment of invocation. A failed unit is
// logged and reported but does not stop the remaining units; the retry sweep
// re-queues failures on its own schedule.
func (d *Drainer) Run(ctx context.Context) error {
	sem := semaphore.NewWeighted(d.workers)
	var wg sync.WaitGroup

	var mu sync.Mutex
	var failed []error

	for {
		orderID, err := d.queue.rdb.RPop(ctx, pendingKey).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return fmt.Errorf("submission: pop pending: %w", err)
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		wg.Add(1)

		go func(orderID string) {
			defer sem.Release(1)
			defer wg.Done()

			if err := d.executor.Execute(ctx, orderID); err != nil {
				log.Printf("submission: drain %s: %v", orderID, err)
				mu.Lock()
				failed = append(failed, err)
				mu.Unlock()
			}
		}(orderID)
	}

	wg.Wait()
	return errors.Join(failed...)
}
