// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package future provides a single-fire completion signal carrying a value, an error,
// or a cancellation.
package future

import (
	"context"
	"errors"
	"sync"
)

// ErrCancelled is the error carried by a cancelled Future
var ErrCancelled = errors.New("future: cancelled")

// Outcome is how a Future completed
type Outcome struct {
	Value     interface{}
	Err       error
	Cancelled bool
}

// Failed is true for an error outcome that is not a cancellation
func (o Outcome) Failed() bool {
	return o.Err != nil && !o.Cancelled
}

// Future completes exactly once.  Callbacks registered with OnComplete run exactly
// once, in registration order, on the goroutine that completes the Future or, when
// registered after completion, on the registering goroutine.
type Future struct {
	lock      sync.Mutex
	done      chan struct{}
	completed bool
	outcome   Outcome
	callbacks []func(Outcome)
}

func New() *Future {
	return &Future{
		done: make(chan struct{}),
	}
}

// Completed returns a Future that has already completed with v
func Completed(v interface{}) *Future {
	f := New()
	f.Complete(v)
	return f
}

// Failed returns a Future that has already failed with err
func Failed(err error) *Future {
	f := New()
	f.Fail(err)
	return f
}

// Run executes fn in its own goroutine and completes the returned Future with its
// result.  If ctx is cancelled first, the Future is cancelled.
func Run(ctx context.Context, fn func(context.Context) (interface{}, error)) *Future {
	f := New()
	go func() {
		select {
		case <-ctx.Done():
			f.Cancel()
		case <-f.done:
		}
	}()

	go func() {
		v, err := fn(ctx)
		if err != nil {
			f.Fail(err)
		} else {
			f.Complete(v)
		}
	}()

	return f
}

func (f *Future) complete(o Outcome) bool {
	f.lock.Lock()
	if f.completed {
		f.lock.Unlock()
		return false
	}

	f.completed = true
	f.outcome = o
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.lock.Unlock()

	for _, cb := range callbacks {
		cb(o)
	}

	return true
}

// Complete completes this Future with a value.  Only the first completion of any
// kind succeeds.
func (f *Future) Complete(v interface{}) bool {
	return f.complete(Outcome{Value: v})
}

// Fail completes this Future with an error.  A nil error is a successful completion
// with a nil value.
func (f *Future) Fail(err error) bool {
	return f.complete(Outcome{Err: err})
}

// Cancel completes this Future with ErrCancelled
func (f *Future) Cancel() bool {
	return f.complete(Outcome{Err: ErrCancelled, Cancelled: true})
}

// Done is closed once this Future has completed
func (f *Future) Done() <-chan struct{} {
	return f.done
}

func (f *Future) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Outcome returns how this Future completed.  The bool is false if it has not.
func (f *Future) Outcome() (Outcome, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.outcome, f.completed
}

// Await blocks until this Future completes or ctx is done
func (f *Future) Await(ctx context.Context) (interface{}, error) {
	select {
	case <-f.done:
		o, _ := f.Outcome()
		return o.Value, o.Err

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// OnComplete registers a callback.  If this Future has already completed, the
// callback runs immediately.
func (f *Future) OnComplete(cb func(Outcome)) {
	f.lock.Lock()
	if !f.completed {
		f.callbacks = append(f.callbacks, cb)
		f.lock.Unlock()
		return
	}

	o := f.outcome
	f.lock.Unlock()
	cb(o)
}

// WhenComplete returns a derived Future that completes with the same outcome as this
// one, but only after cb has returned.  Cancelling the derived Future cancels this one.
func (f *Future) WhenComplete(cb func(Outcome)) *Future {
	derived := New()
	f.OnComplete(func(o Outcome) {
		cb(o)
		derived.complete(o)
	})

	derived.OnComplete(func(o Outcome) {
		if o.Cancelled {
			f.Cancel()
		}
	})

	return derived
}
