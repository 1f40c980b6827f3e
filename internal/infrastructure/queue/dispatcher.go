package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/referral-dashboard/internal/api/metrics"
	"github.com/99minutos/referral-dashboard/internal/core/ports"
)

const (
	// DefaultWorkers is used when no worker count is configured.
	DefaultWorkers = 64
	channelBuffer  = 256
)

// ErrStopped is returned by Do once the dispatcher has been shut down.
var ErrStopped = errors.New("dispatcher stopped")

type job struct {
	ctx  context.Context
	key  string
	fn   func(ctx context.Context) error
	done chan error
}

// Dispatcher routes record actions to a fixed set of workers using consistent
// hashing on the record id, so actions on one record run one at a time and in
// arrival order.
//
// Stop refuses new work, lets every accepted job finish and then returns.
type Dispatcher struct {
	workers []chan job
	mu      sync.RWMutex
	stopped bool
	started sync.Once
	wg      sync.WaitGroup
	log     zerolog.Logger
}

var _ ports.Serializer = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, DefaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan job, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Calling it more than once is a no-op.
func (d *Dispatcher) Start() {
	d.started.Do(func() {
		for i, ch := range d.workers {
			d.wg.Add(1)
			go d.runWorker(i, ch)
		}
	})
}

// Stop refuses new work and blocks until every accepted job has run.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// Do runs fn on the worker that owns key and waits for its result. Once a
// job is accepted it always runs and Do reports its real outcome; fn
// receives the caller's ctx.
func (d *Dispatcher) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	j := job{ctx: ctx, key: key, fn: fn, done: make(chan error, 1)}
	idx := d.shardIndex(key)

	if err := d.enqueue(ctx, idx, j); err != nil {
		return err
	}
	return <-j.done
}

func (d *Dispatcher) enqueue(ctx context.Context, idx int, j job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case d.workers[idx] <- j:
		metrics.DispatchQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	}
}

// shardIndex maps a record id deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan job) {
	defer d.wg.Done()
	gauge := metrics.DispatchQueueDepth.WithLabelValues(strconv.Itoa(id))
	for j := range ch {
		gauge.Set(float64(len(ch)))
		if err := j.ctx.Err(); err != nil {
			j.done <- err
			continue
		}
		err := j.fn(j.ctx)
		if err != nil {
			d.log.Debug().Err(err).
				Str("key", j.key).
				Int("worker_id", id).
				Msg("record action failed")
		}
		j.done <- err
	}
}
