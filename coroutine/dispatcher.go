// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package coroutine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xmidt-org/observe/concurrent"
	"github.com/xmidt-org/observe/observation"
	"go.uber.org/zap"
)

var (
	ErrDispatcherRunning = errors.New("coroutine: dispatcher already running")
	ErrDispatcherStopped = errors.New("coroutine: dispatcher stopped")
	ErrNoSuchWorker      = errors.New("coroutine: no such worker")
)

const (
	stateIdle uint32 = iota
	stateRunning
	stateStopped
)

// Picker chooses the worker for a dispatch, given the number of workers
type Picker func(workers int) int

// RoundRobin cycles through the workers
func RoundRobin() Picker {
	var next uint32
	return func(workers int) int {
		return int((atomic.AddUint32(&next, 1) - 1) % uint32(workers))
	}
}

// Pinned always chooses the same worker
func Pinned(i int) Picker {
	return func(int) int {
		return i
	}
}

// DispatcherOption configures a Dispatcher beyond its Options
type DispatcherOption func(*Dispatcher)

func WithPicker(p Picker) DispatcherOption {
	return func(d *Dispatcher) {
		if p != nil {
			d.picker = p
		}
	}
}

func WithLogger(l *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

type task struct {
	c Continuation
	r Result
}

// worker owns a queue and an observation.Local.  Its queue is unbounded, so that
// dispatching from inside a continuation never blocks.
type worker struct {
	index int
	local *observation.Local
	ctx   context.Context

	lock    sync.Mutex
	pending []task
	signal  chan struct{}
}

func (w *worker) enqueue(t task) {
	w.lock.Lock()
	w.pending = append(w.pending, t)
	w.lock.Unlock()

	select {
	case w.signal <- struct{}{}:
	default:
	}
}

func (w *worker) next() (task, bool) {
	w.lock.Lock()
	defer w.lock.Unlock()
	if len(w.pending) == 0 {
		return task{}, false
	}

	t := w.pending[0]
	w.pending[0] = task{}
	w.pending = w.pending[1:]
	return t, true
}

type workerKey struct{}

func withWorker(ctx context.Context, i int) context.Context {
	return context.WithValue(ctx, workerKey{}, i)
}

// Worker returns the index of the dispatcher worker whose context ctx derives from
func Worker(ctx context.Context) (int, bool) {
	i, ok := ctx.Value(workerKey{}).(int)
	return i, ok
}

// Dispatcher resumes Continuations on a fixed pool of worker goroutines.  Each
// worker resumes its Continuations one at a time, in dispatch order.
//
// Dispatcher implements concurrent.Runnable.  Continuations dispatched before Run
// wait in their queues until the workers start.
type Dispatcher struct {
	workers         []*worker
	picker          Picker
	logger          *zap.Logger
	shutdownTimeout time.Duration

	state    uint32
	stopOnce sync.Once

	lock      sync.Mutex
	waitGroup *sync.WaitGroup
	shutdown  chan struct{}
}

func NewDispatcher(o *Options, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		picker:          RoundRobin(),
		logger:          o.logger(),
		shutdownTimeout: o.shutdownTimeout(),
	}

	for i := 0; i < o.workers(); i++ {
		local := observation.NewLocal()
		d.workers = append(d.workers, &worker{
			index:   i,
			local:   local,
			ctx:     withWorker(observation.WithLocal(context.Background(), local), i),
			pending: make([]task, 0, o.queueSize()),
			signal:  make(chan struct{}, 1),
		})
	}

	for _, f := range opts {
		f(d)
	}

	return d
}

// Workers is the number of worker goroutines
func (d *Dispatcher) Workers() int {
	return len(d.workers)
}

// Local returns the scope stack of worker i, or nil if there is no such worker
func (d *Dispatcher) Local(i int) *observation.Local {
	if i < 0 || i >= len(d.workers) {
		return nil
	}

	return d.workers[i].local
}

func (d *Dispatcher) Run(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error {
	if !atomic.CompareAndSwapUint32(&d.state, stateIdle, stateRunning) {
		return ErrDispatcherRunning
	}

	for _, w := range d.workers {
		waitGroup.Add(1)
		go d.work(waitGroup, shutdown, w)
	}

	go func() {
		<-shutdown
		atomic.StoreUint32(&d.state, stateStopped)
	}()

	d.logger.Info("dispatcher started", zap.Int("workers", len(d.workers)))
	return nil
}

// Start runs this Dispatcher with its own shutdown channel.  Use Stop to shut it down.
func (d *Dispatcher) Start() error {
	waitGroup, shutdown, err := concurrent.Execute(d)
	if err != nil {
		return err
	}

	d.lock.Lock()
	d.waitGroup, d.shutdown = waitGroup, shutdown
	d.lock.Unlock()
	return nil
}

// Stop shuts down a Dispatcher started with Start and waits for its workers to exit.
// The return is false if the shutdown timeout elapsed first.
func (d *Dispatcher) Stop() bool {
	d.lock.Lock()
	waitGroup, shutdown := d.waitGroup, d.shutdown
	d.lock.Unlock()

	if shutdown == nil {
		atomic.StoreUint32(&d.state, stateStopped)
		return true
	}

	result := true
	d.stopOnce.Do(func() {
		atomic.StoreUint32(&d.state, stateStopped)
		result = concurrent.Shutdown(waitGroup, shutdown, d.shutdownTimeout)
		d.logger.Info("dispatcher stopped", zap.Bool("clean", result))
	})

	return result
}

// Dispatch queues c to be resumed with r on the worker chosen by the Picker
func (d *Dispatcher) Dispatch(c Continuation, r Result) error {
	return d.DispatchTo(d.picker(len(d.workers)), c, r)
}

// DispatchTo queues c to be resumed with r on a specific worker
func (d *Dispatcher) DispatchTo(i int, c Continuation, r Result) error {
	if atomic.LoadUint32(&d.state) == stateStopped {
		return ErrDispatcherStopped
	}

	if i < 0 || i >= len(d.workers) {
		return fmt.Errorf("%w: %d", ErrNoSuchWorker, i)
	}

	d.workers[i].enqueue(task{c: c, r: r})
	return nil
}

func (d *Dispatcher) work(waitGroup *sync.WaitGroup, shutdown <-chan struct{}, w *worker) {
	defer waitGroup.Done()
	for {
		select {
		case <-shutdown:
			return

		case <-w.signal:
			for t, ok := w.next(); ok; t, ok = w.next() {
				d.resume(w, t)
			}
		}
	}
}

func (d *Dispatcher) resume(w *worker, t task) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("continuation panicked", zap.Int("worker", w.index), zap.Any("panic", r))
		}
	}()

	t.c.Resume(w.ctx, t.r)
}
