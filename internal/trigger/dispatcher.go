// Package trigger turns "record created" events into orchestrator executions.
package trigger

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"travelshot/internal/domain"
	"travelshot/internal/infra"
)

// Handler runs one job to completion.
type Handler interface {
	Handle(ctx context.Context, key domain.JobKey) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, key domain.JobKey) error

func (f HandlerFunc) Handle(ctx context.Context, key domain.JobKey) error { return f(ctx, key) }

// Dispatcher executes jobs concurrently with an upper bound and a per-job
// execution ceiling. A key already in flight is not started twice.
type Dispatcher struct {
	handler Handler
	sem     *semaphore.Weighted
	timeout time.Duration
	logger  infra.Logger

	mu       sync.Mutex
	inflight map[domain.JobKey]struct{}
	wg       sync.WaitGroup
}

func NewDispatcher(h Handler, maxConcurrent int, timeout time.Duration, logger infra.Logger) *Dispatcher {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Dispatcher{
		handler:  h,
		sem:      semaphore.NewWeighted(int64(maxConcurrent)),
		timeout:  timeout,
		logger:   logger,
		inflight: make(map[domain.JobKey]struct{}),
	}
}

// Run consumes keys until ctx is done or the channel closes, then waits for
// every started job. In-flight jobs are not cancelled by ctx; they stop at
// their own execution ceiling.
func (d *Dispatcher) Run(ctx context.Context, keys <-chan domain.JobKey) error {
	defer d.Wait()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case key, ok := <-keys:
			if !ok {
				return nil
			}
			if err := d.Dispatch(ctx, key); err != nil {
				return err
			}
		}
	}
}

// Dispatch starts key in the background once a slot is free. It blocks while
// the dispatcher is at capacity and returns ctx's error if ctx ends first.
func (d *Dispatcher) Dispatch(ctx context.Context, key domain.JobKey) error {
	if !d.claim(key) {
		d.logger.Debug().Str("owner_id", key.OwnerID).Str("job_id", key.JobID).Msg("trigger: job already running")
		return nil
	}
	if err := d.sem.Acquire(ctx, 1); err != nil {
		d.release(key)
		return err
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.sem.Release(1)
		defer d.release(key)

		jobCtx := context.WithoutCancel(ctx)
		if d.timeout > 0 {
			var cancel context.CancelFunc
			jobCtx, cancel = context.WithTimeout(jobCtx, d.timeout)
			defer cancel()
		}

		start := time.Now()
		err := d.handler.Handle(jobCtx, key)
		ev := d.logger.Info()
		if err != nil {
			ev = d.logger.Warn().Err(err)
		}
		ev.Str("owner_id", key.OwnerID).
			Str("job_id", key.JobID).
			Dur("elapsed", time.Since(start)).
			Msg("trigger: job finished")
	}()
	return nil
}

// Wait blocks until every dispatched job returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// InFlight reports the number of running jobs.
func (d *Dispatcher) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inflight)
}

func (d *Dispatcher) claim(key domain.JobKey) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.inflight[key]; ok {
		return false
	}
	d.inflight[key] = struct{}{}
	return true
}

func (d *Dispatcher) release(key domain.JobKey) {
	d.mu.Lock()
	delete(d.inflight, key)
	d.mu.Unlock()
}
