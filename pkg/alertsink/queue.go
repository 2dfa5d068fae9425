package alertsink

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrQueueClosed is returned by Enqueue once the queue has been closed.
var ErrQueueClosed = fmt.Errorf("alertsink: queue closed")

// Dispatcher is satisfied by Client; narrowed so the frame-loop side
// of the module only depends on the Dispatch contract.
type Dispatcher interface {
	Dispatch(ctx context.Context, record AlertRecord) error
}

// Queue decouples alert dispatch from the frame loop per the design
// recommendation in spec §9: a bounded channel serviced by a small
// worker pool, dropping the oldest pending alert when full rather
// than blocking the caller, and draining gracefully on Close.
//
// Modeled on the teacher's Tracker lifecycle (mutex-guarded state,
// context cancellation, WaitGroup) adapted from a pub/sub fanout to a
// single work queue.
type Queue struct {
	// mu is a RWMutex rather than a plain Mutex so that Enqueue can
	// hold a read lock across its whole send-or-drop-oldest attempt:
	// that excludes a concurrent Close from closing q.items out from
	// under an in-flight send (which would panic), while still
	// allowing multiple Enqueue callers to proceed concurrently.
	mu     sync.RWMutex
	closed bool

	items chan AlertRecord
	wg    sync.WaitGroup
	stop  context.CancelFunc
}

// NewQueue starts workers workers pulling from a channel of the given
// capacity and dispatching via d.
func NewQueue(ctx context.Context, d Dispatcher, capacity, workers int) *Queue {
	if capacity <= 0 {
		capacity = 64
	}
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	q := &Queue{
		items: make(chan AlertRecord, capacity),
		stop:  cancel,
	}

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, d)
	}

	return q
}

func (q *Queue) worker(ctx context.Context, d Dispatcher) {
	defer q.wg.Done()
	for {
		select {
		case record, ok := <-q.items:
			if !ok {
				return
			}
			_ = d.Dispatch(ctx, record)
		case <-ctx.Done():
			return
		}
	}
}

// Enqueue submits an alert for dispatch, assigning it an EventID if
// unset. If the queue is full, the oldest pending item is dropped to
// make room — the newest alert always wins a spot, matching the
// drop-oldest-on-overflow policy in spec §9.
func (q *Queue) Enqueue(record AlertRecord) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	if record.EventID == "" {
		record.EventID = uuid.NewString()
	}

	for {
		select {
		case q.items <- record:
			return nil
		default:
		}

		select {
		case <-q.items:
			// dropped oldest, retry submitting the new one
		default:
			// a worker drained it between our full-check and drop;
			// just retry the send
		}
	}
}

// Close stops accepting new items, lets workers drain what remains in
// the channel, and waits for them to exit.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.items)
	q.mu.Unlock()

	q.wg.Wait()
	q.stop()
}
