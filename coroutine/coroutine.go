// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package coroutine

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/xmidt-org/observe/carrier"
	"github.com/xmidt-org/observe/future"
	"github.com/xmidt-org/observe/observation"
)

// PanicError is the failure of a coroutine whose segment panicked
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (pe *PanicError) Error() string {
	return fmt.Sprintf("coroutine: panic: %v", pe.Value)
}

// Body is the first segment of a coroutine
type Body func(ctx context.Context, co *Coroutine)

// Next is the segment that runs after a suspension point
type Next func(ctx context.Context, r Result)

// Option configures a coroutine at launch
type Option func(*Coroutine)

// WithInterceptors applies interceptors to every Continuation of the coroutine,
// including the one that starts it.
func WithInterceptors(i ...Interceptor) Option {
	return func(co *Coroutine) {
		co.interceptors = append(co.interceptors, i...)
	}
}

// Coroutine is a running cooperative computation.  Every segment must end by
// suspending (Await, Call), or by terminating (Return, Fail).
type Coroutine struct {
	dispatcher   *Dispatcher
	interceptors []Interceptor
	result       *future.Future
	resumptions  uint32
}

// Launch starts body on d.  The first segment is itself a resumption, so it is
// intercepted like every later one.  The returned Future completes when the
// coroutine returns or fails.  Cancelling it stops any further resumptions.
func Launch(ctx context.Context, d *Dispatcher, body Body, o ...Option) *future.Future {
	co := &Coroutine{
		dispatcher: d,
		result:     future.New(),
	}

	for _, f := range o {
		f(co)
	}

	start := co.Suspend(ctx, func(ctx context.Context, _ Result) {
		body(ctx, co)
	})

	co.Resume(start, Result{})
	return co.result
}

// Result is the Future returned by Launch
func (co *Coroutine) Result() *future.Future {
	return co.result
}

func (co *Coroutine) Dispatcher() *Dispatcher {
	return co.dispatcher
}

// Resumptions is the number of segments that have started running
func (co *Coroutine) Resumptions() int {
	return int(atomic.LoadUint32(&co.resumptions))
}

// Return completes the coroutine with v
func (co *Coroutine) Return(v interface{}) {
	co.result.Complete(v)
}

// Fail completes the coroutine with err
func (co *Coroutine) Fail(err error) {
	co.result.Fail(err)
}

// Suspend creates the Continuation for a suspension point reached with ctx.  The
// Observation current at this point is captured into the Continuation's carrier.
// The Continuation runs next at most once; later resumptions are ignored, as are
// resumptions after the coroutine has completed.
func (co *Coroutine) Suspend(ctx context.Context, next Next) Continuation {
	snapshot := carrier.Capture(ctx)
	raw := NewContinuation(snapshot, func(workerCtx context.Context, r Result) {
		if co.result.IsDone() {
			return
		}

		atomic.AddUint32(&co.resumptions, 1)
		defer co.recoverSegment()
		next(resumeContext(snapshot, workerCtx), r)
	})

	return &suspended{
		delegate: Intercept(raw, co.interceptors...),
	}
}

// Resume dispatches k with r.  Only the first Resume of a Continuation created by
// Suspend is dispatched.  If the dispatcher refuses it, the coroutine fails.
func (co *Coroutine) Resume(k Continuation, r Result) {
	if s, ok := k.(*suspended); ok && !s.claim() {
		return
	}

	if err := co.dispatcher.Dispatch(k, r); err != nil {
		co.Fail(err)
	}
}

// Await suspends until f completes, then runs next with f's outcome on some worker.
func (co *Coroutine) Await(ctx context.Context, f *future.Future, next Next) {
	k := co.Suspend(ctx, next)
	f.OnComplete(func(o future.Outcome) {
		co.Resume(k, Result{Value: o.Value, Err: o.Err})
	})
}

// Call is the suspension point for continuation-passing functions.  fn receives a
// Continuation that may be resumed from any goroutine; the coroutine itself always
// resumes on a worker.  If fn returns an error, the coroutine resumes with it.
func (co *Coroutine) Call(ctx context.Context, fn func(context.Context, Continuation) error, next Next) {
	k := co.Suspend(ctx, next)
	handle := NewContinuation(k.Context(), func(_ context.Context, r Result) {
		co.Resume(k, r)
	})

	if err := fn(ctx, handle); err != nil {
		co.Resume(k, Result{Err: err})
	}
}

// suspended is the Continuation of one suspension point.  claimed gates dispatch
// and ran gates execution, so a duplicate is dropped before any interceptor sees it.
type suspended struct {
	delegate Continuation
	claimed  uint32
	ran      uint32
}

func (s *suspended) claim() bool {
	return atomic.CompareAndSwapUint32(&s.claimed, 0, 1)
}

func (s *suspended) Context() context.Context {
	return s.delegate.Context()
}

func (s *suspended) Resume(ctx context.Context, r Result) {
	if atomic.CompareAndSwapUint32(&s.ran, 0, 1) {
		s.delegate.Resume(ctx, r)
	}
}

func (co *Coroutine) recoverSegment() {
	if r := recover(); r != nil {
		co.result.Fail(&PanicError{
			Value: r,
			Stack: debug.Stack(),
		})
	}
}

// resumeContext is the carrier with the resuming worker's Local bound in place of
// whatever Local the carrier was captured with.
func resumeContext(snapshot, workerCtx context.Context) context.Context {
	ctx := observation.WithLocal(snapshot, observation.LocalFromContext(workerCtx))
	if i, ok := Worker(workerCtx); ok {
		ctx = withWorker(ctx, i)
	}

	return ctx
}
