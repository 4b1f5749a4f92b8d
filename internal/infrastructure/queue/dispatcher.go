package queue

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/evolution-of-todo/todo-system/internal/api/metrics"
	"github.com/evolution-of-todo/todo-system/internal/core/domain"
	"github.com/evolution-of-todo/todo-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes activity entries to a fixed set of workers sharded on the
// user ID, so entries of one user are persisted in the order they occurred.
type Dispatcher struct {
	workers []chan domain.TodoActivity
	repo    ports.ActivityRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.ActivityRepository, log zerolog.Logger) *Dispatcher {
	return newDispatcher(numWorkers, channelBuffer, repo, log)
}

func newDispatcher(numWorkers, buffer int, repo ports.ActivityRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.TodoActivity, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.TodoActivity, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// after Close has drained their channel.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an entry without blocking. When the shard is full, or the
// dispatcher is closed, the entry is dropped with a warning.
func (d *Dispatcher) Record(activity domain.TodoActivity) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(activity, "dispatcher closed")
		return
	}
	idx := d.shardIndex(activity.UserID)
	select {
	case d.workers[idx] <- activity:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(activity, "activity queue full")
	}
}

// Close stops accepting entries and waits for queued entries to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps a user ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID int64) int {
	if userID < 0 {
		userID = -userID
	}
	return int(userID % int64(len(d.workers)))
}

func (d *Dispatcher) drop(activity domain.TodoActivity, reason string) {
	metrics.ActivityDroppedTotal.Inc()
	d.log.Warn().
		Int64("user_id", activity.UserID).
		Int64("todo_id", activity.TodoID).
		Str("action", string(activity.Action)).
		Msg(reason)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.TodoActivity) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case activity, ok := <-ch:
			if !ok {
				return
			}
			metrics.ActivityQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.write(ctx, id, activity)
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, id int, activity domain.TodoActivity) {
	start := time.Now()
	err := d.repo.Insert(ctx, &activity)
	result := "ok"
	if err != nil {
		result = "error"
		d.log.Error().Err(err).
			Int64("user_id", activity.UserID).
			Int64("todo_id", activity.TodoID).
			Int("worker_id", id).
			Msg("activity write failed")
	}
	metrics.ActivityWriteDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
