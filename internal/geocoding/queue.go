package geocoding

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PlaceholderAddress is written synchronously by punch handlers; the queue
// worker overwrites it once the lookup completes.
const PlaceholderAddress = "Resolving..."

// Task is one pending reverse-geocoding lookup for an attendance row.
type Task struct {
	AttendanceID string
	Latitude     float64
	Longitude    float64
	PunchOut     bool
}

// LocationStore persists resolved addresses. Each write is its own
// transaction, independent of the request that enqueued the task.
type LocationStore interface {
	SetPunchLocation(ctx context.Context, attendanceID string, punchOut bool, address string) error
}

// Queue hands punch-location lookups to a single background worker. Tasks run
// strictly in enqueue order; each one is best-effort with no retry, and a
// fixed post-task delay caps throughput at the provider's rate limit.
type Queue struct {
	resolver Resolver
	store    LocationStore
	logger   *slog.Logger
	throttle time.Duration

	mu      sync.Mutex
	cond    *sync.Cond
	pending []Task
	stopped bool

	done chan struct{}
}

// NewQueue constructs the queue. A throttle of zero disables the post-task
// delay, which only tests should do.
func NewQueue(resolver Resolver, store LocationStore, logger *slog.Logger, throttle time.Duration) *Queue {
	q := &Queue{
		resolver: resolver,
		store:    store,
		logger:   logger,
		throttle: throttle,
		done:     make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends a task. The queue is unbounded, so Enqueue never blocks.
// Tasks enqueued after Stop has begun are dropped.
func (q *Queue) Enqueue(task Task) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		q.logger.Warn("geocoding task dropped, queue is stopping",
			slog.String("attendance_id", task.AttendanceID))
		return
	}
	q.pending = append(q.pending, task)
	q.cond.Signal()
}

// Start launches the worker goroutine.
func (q *Queue) Start() {
	go q.run()
	q.logger.Info("geocoding worker started")
}

// Stop drains the queue: every task enqueued before Stop is processed, then
// the worker exits. Blocks until the drain completes.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.stopped = true
	q.cond.Signal()
	q.mu.Unlock()
	<-q.done
	q.logger.Info("geocoding worker drained")
}

func (q *Queue) run() {
	defer close(q.done)
	for {
		task, ok := q.next()
		if !ok {
			return
		}
		q.process(task)
		if q.throttle > 0 {
			// LocationIQ allows 2 req/sec.
			time.Sleep(q.throttle)
		}
	}
}

// next blocks until a task is available. It returns ok=false only once the
// queue is stopping and fully drained.
func (q *Queue) next() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.pending) == 0 && !q.stopped {
		q.cond.Wait()
	}
	if len(q.pending) == 0 {
		return Task{}, false
	}
	task := q.pending[0]
	q.pending = q.pending[1:]
	return task, true
}

// process resolves and persists one task. Failures are logged and swallowed;
// the punch event was already accepted so nothing is surfaced to the caller.
func (q *Queue) process(task Task) {
	ctx := context.Background()

	address, err := q.resolver.Resolve(ctx, task.Latitude, task.Longitude)
	if err != nil {
		q.logger.Error("reverse geocode failed",
			slog.String("attendance_id", task.AttendanceID),
			slog.Any("error", err))
		address = AddressUnresolved
	}

	if err := q.store.SetPunchLocation(ctx, task.AttendanceID, task.PunchOut, address); err != nil {
		q.logger.Error("punch location update failed",
			slog.String("attendance_id", task.AttendanceID),
			slog.Any("error", err))
		return
	}
	q.logger.Info("punch location resolved",
		slog.String("attendance_id", task.AttendanceID),
		slog.Bool("punch_out", task.PunchOut),
		slog.String("address", address))
}
