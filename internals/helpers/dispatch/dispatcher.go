// Package dispatch runs best-effort side effects (notifications, points, progress) off the
// request path. A job failure is logged and counted, never returned to the caller.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const defaultJobTimeout = 10 * time.Second

// Job is a single side effect. It receives its own context, detached from the request.
type Job func(ctx context.Context) error

type task struct {
	name string
	job  Job
}

type Stats struct {
	Queued    int64
	Succeeded int64
	Failed    int64
	Dropped   int64
}

type Options struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
	Logger     *zap.Logger
}

type Dispatcher struct {
	queue      chan task
	jobTimeout time.Duration
	log        *zap.Logger

	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool

	queued, succeeded, failed, dropped atomic.Int64
}

func New(o Options) *Dispatcher {
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 1
	}
	if o.JobTimeout <= 0 {
		o.JobTimeout = defaultJobTimeout
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	d := &Dispatcher{
		queue:      make(chan task, o.QueueSize),
		jobTimeout: o.JobTimeout,
		log:        o.Logger,
	}
	d.wg.Add(o.Workers)
	for i := 0; i < o.Workers; i++ {
		go d.worker()
	}
	return d
}

// Go enqueues a job without blocking. A full queue or a closed dispatcher drops it.
func (d *Dispatcher) Go(name string, job Job) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.dropped.Add(1)
		d.log.Warn("dispatcher closed, job dropped", zap.String("job", name))
		return
	}

	select {
	case d.queue <- task{name: name, job: job}:
		d.queued.Add(1)
	default:
		d.dropped.Add(1)
		d.log.Warn("dispatch queue full, job dropped", zap.String("job", name))
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for t := range d.queue {
		d.run(t)
	}
}

func (d *Dispatcher) run(t task) {
	ctx, cancel := context.WithTimeout(context.Background(), d.jobTimeout)
	defer cancel()

	start := time.Now()
	err := safeCall(ctx, t.job)
	if err != nil {
		d.failed.Add(1)
		d.log.Error("side effect failed",
			zap.String("job", t.name),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	d.succeeded.Add(1)
	d.log.Debug("side effect done", zap.String("job", t.name), zap.Duration("elapsed", time.Since(start)))
}

func safeCall(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if job == nil {
		return errors.New("nil job")
	}
	return job(ctx)
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Queued:    d.queued.Load(),
		Succeeded: d.succeeded.Load(),
		Failed:    d.failed.Load(),
		Dropped:   d.dropped.Load(),
	}
}

// Close stops intake and waits for queued jobs until ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
