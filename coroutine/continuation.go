// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package coroutine

import "context"

// Result is the value or error a suspended computation is resumed with
type Result struct {
	Value interface{}
	Err   error
}

// Continuation is the resumption handle of a suspended computation.
type Continuation interface {
	// Context is the carrier captured when the computation suspended.
	Context() context.Context

	// Resume continues the computation.  The ctx is the execution context of the
	// goroutine doing the resuming, typically a dispatcher worker, and is where
	// that goroutine's observation.Local can be found.
	Resume(ctx context.Context, r Result)
}

type continuationFunc struct {
	carrier context.Context
	resume  func(context.Context, Result)
}

func (cf continuationFunc) Context() context.Context {
	return cf.carrier
}

func (cf continuationFunc) Resume(ctx context.Context, r Result) {
	cf.resume(ctx, r)
}

// NewContinuation creates a Continuation from a carrier and a function
func NewContinuation(carrier context.Context, resume func(context.Context, Result)) Continuation {
	return continuationFunc{
		carrier: carrier,
		resume:  resume,
	}
}

// Interceptor decorates a Continuation.  Interceptors are applied at every suspension point.
type Interceptor func(Continuation) Continuation

// Intercept applies interceptors in order, so the last one is outermost.
func Intercept(c Continuation, interceptors ...Interceptor) Continuation {
	for _, i := range interceptors {
		c = i(c)
	}

	return c
}
