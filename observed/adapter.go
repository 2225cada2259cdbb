// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package observed

import (
	"context"
	"errors"
	"runtime/debug"
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/xmidt-org/observe/carrier"
	"github.com/xmidt-org/observe/coroutine"
	"github.com/xmidt-org/observe/future"
	"github.com/xmidt-org/observe/logging"
	"github.com/xmidt-org/observe/observation"
	"github.com/xmidt-org/observe/suspension"
)

// KeyValuesProvider adds low cardinality tags for an Invocation.  Its tags take
// precedence over the defaults.
type KeyValuesProvider func(Invocation) observation.KeyValues

// Option configures an Adapter
type Option func(*Adapter)

func WithKeyValuesProvider(p KeyValuesProvider) Option {
	return func(a *Adapter) {
		a.keyValues = p
	}
}

// WithSkip sets a predicate for invocations that proceed without any observation
func WithSkip(skip func(Invocation) bool) Option {
	return func(a *Adapter) {
		a.skip = skip
	}
}

func WithOwnership(o Ownership) Option {
	return func(a *Adapter) {
		a.ownership = o
	}
}

// WithLowCardinalityKeyValues adds tags to every observation the Adapter creates
func WithLowCardinalityKeyValues(kv ...observation.KeyValue) Option {
	return func(a *Adapter) {
		a.common = a.common.With(kv...)
	}
}

// WithLogger sets the go-kit logger for the Adapter and the continuations it decorates
func WithLogger(l log.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// Adapter observes intercepted calls however they complete: by returning, by
// completing a future.Future, or by resuming a coroutine.Continuation.  Whatever
// the path, the observation records at most one error and is stopped exactly once,
// and an error is always recorded before the stop.
type Adapter struct {
	registry  *observation.Registry
	keyValues KeyValuesProvider
	skip      func(Invocation) bool
	ownership Ownership
	common    observation.KeyValues
	logger    log.Logger
}

func New(registry *observation.Registry, o ...Option) *Adapter {
	a := &Adapter{
		registry: registry,
		logger:   logging.DefaultLogger(),
	}

	for _, f := range o {
		f(a)
	}

	return a
}

func (a *Adapter) Registry() *observation.Registry {
	return a.registry
}

func (a *Adapter) Ownership() Ownership {
	return a.ownership
}

// Call observes inv.  When inv carries a coroutine.Continuation, the observation
// stops after that continuation has been resumed.  When inv returns a *future.Future, Call
// returns a derived future and the observation stops when the original completes.
// Otherwise the observation stops before Call returns.
//
// Errors are returned unchanged.  A panic is recorded and then re-raised.
func (a *Adapter) Call(ctx context.Context, inv Invocation) (interface{}, error) {
	if a.skip != nil && a.skip(inv) {
		logging.Debug(a.logger).Log(logging.MessageKey(), "skipping observation", "target", inv.Target, "method", inv.Method)
		if inv.Proceed == nil {
			return nil, ErrNotInvocable
		}

		return inv.Proceed(ctx, inv.Args)
	}

	if a.ownership == JoinCurrent {
		if current := a.current(ctx); current != nil && !current.IsNoop() {
			return a.invoke(ctx, newPendingCall(current, false), inv)
		}
	}

	return a.Wrap(ctx, a.Start(ctx, inv), inv)
}

// Start creates and starts the observation for inv
func (a *Adapter) Start(ctx context.Context, inv Invocation) observation.Observation {
	c := observation.NewContext()
	c.SetContextualName(inv.contextualName())
	if parent := a.current(ctx); parent != nil && !parent.IsNoop() {
		c.SetParent(parent)
	}

	kvs := inv.keyValues().And(a.common)
	if a.keyValues != nil {
		kvs = kvs.And(a.keyValues(inv))
	}

	c.AddLowCardinalityKeyValues(kvs...)
	return a.registry.Observation(ctx, inv.name(), c).Start()
}

// Wrap observes inv with o, a started observation that the Adapter owns from now on.
func (a *Adapter) Wrap(ctx context.Context, o observation.Observation, inv Invocation) (interface{}, error) {
	return a.invoke(ctx, newPendingCall(o, true), inv)
}

// ObserveFuture returns a future that completes like f, after o has recorded f's
// error, if any, and stopped.  Cancelling the returned future cancels f.
func (a *Adapter) ObserveFuture(o observation.Observation, f *future.Future) *future.Future {
	return a.future(newPendingCall(o, true), f)
}

// ObserveContinuation substitutes k.  The first time the substitute is resumed, k
// runs with o current, and once k returns o records the error, if any, and stops.
// Later resumptions are forwarded to k without o.
func (a *Adapter) ObserveContinuation(o observation.Observation, k coroutine.Continuation) coroutine.Continuation {
	return a.continuation(newPendingCall(o, true), k)
}

func (a *Adapter) current(ctx context.Context) observation.Observation {
	if o := a.registry.CurrentObservation(ctx); o != nil {
		return o
	}

	return carrier.CurrentObservation(ctx)
}

func (a *Adapter) invoke(ctx context.Context, call *pendingCall, inv Invocation) (interface{}, error) {
	if inv.Proceed == nil {
		call.fail(ErrNotInvocable)
		return nil, ErrNotInvocable
	}

	args := inv.Args
	i, k := inv.continuation()
	if k != nil {
		args = append([]interface{}(nil), args...)
		args[i] = a.continuation(call, k)
	}

	result, err := a.proceed(ctx, call, inv.Proceed, args)
	switch {
	case err != nil:
		call.fail(err)
		return result, err

	case k != nil:
		// the substituted continuation completes the call
		return result, nil
	}

	if f, ok := result.(*future.Future); ok {
		return a.future(call, f), nil
	}

	call.succeed()
	return result, nil
}

func (a *Adapter) proceed(ctx context.Context, call *pendingCall, proceed ProceedFunc, args []interface{}) (result interface{}, err error) {
	ctx, local := observation.Bind(ctx)
	scope := call.observation.OpenScope(local)
	defer func() {
		scope.Close()
		if r := recover(); r != nil {
			call.fail(&PanicError{
				Value: r,
				Stack: debug.Stack(),
			})

			panic(r)
		}
	}()

	return proceed(carrier.WithObservation(ctx, call.observation), args)
}

func (a *Adapter) future(call *pendingCall, f *future.Future) *future.Future {
	return f.WhenComplete(func(o future.Outcome) {
		if o.Cancelled {
			call.cancel()
		} else {
			call.complete(o.Err)
		}
	})
}

func (a *Adapter) continuation(call *pendingCall, k coroutine.Continuation) coroutine.Continuation {
	var (
		resumed   uint32
		decorated = suspension.Decorate(
			k,
			carrier.WithObservation(k.Context(), call.observation),
			suspension.WithLogger(a.logger),
		)
	)

	// the call ends only after the decorated scope has closed
	return coroutine.NewContinuation(k.Context(), func(ctx context.Context, r coroutine.Result) {
		if !atomic.CompareAndSwapUint32(&resumed, 0, 1) || call.done() {
			k.Resume(ctx, r)
			return
		}

		defer func() {
			if isCancellation(r.Err) {
				call.cancel()
			} else {
				call.complete(r.Err)
			}
		}()

		decorated.Resume(ctx, r)
	})
}

func isCancellation(err error) bool {
	return errors.Is(err, future.ErrCancelled) || errors.Is(err, context.Canceled)
}
