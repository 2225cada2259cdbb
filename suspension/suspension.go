// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package suspension carries the current Observation across the suspension points
of a coroutine.

Each time a decorated Continuation is resumed, the Observation recorded in its
carrier is made current on the resuming worker's Local for exactly as long as the
resumed segment runs.  Afterwards the worker's previous scope is restored, so that
nothing leaks into unrelated work later scheduled on the same worker.
*/
package suspension

import (
	"context"

	"github.com/go-kit/log"
	"github.com/xmidt-org/observe/carrier"
	"github.com/xmidt-org/observe/coroutine"
	"github.com/xmidt-org/observe/future"
	"github.com/xmidt-org/observe/logging"
	"github.com/xmidt-org/observe/observation"
)

// Option configures decoration
type Option func(*continuation)

// WithLogger logs each resumption at the debug level
func WithLogger(l log.Logger) Option {
	return func(c *continuation) {
		if l != nil {
			c.logger = l
		}
	}
}

type continuation struct {
	delegate    coroutine.Continuation
	carrier     context.Context
	observation observation.Observation
	logger      log.Logger
}

func (c *continuation) Context() context.Context {
	return c.carrier
}

func (c *continuation) Resume(ctx context.Context, r coroutine.Result) {
	local := observation.LocalFromContext(ctx)
	scope := carrier.Restore(local, c.observation)
	defer scope.Close()

	if c.logger != nil {
		var id string
		if c.observation != nil {
			id = c.observation.ID()
		}

		logging.Debug(c.logger).Log(
			logging.MessageKey(), "resuming",
			"observation", id,
			"bound", local != nil,
		)
	}

	c.delegate.Resume(ctx, r)
}

// Decorate wraps c so that the Observation held by carrierCtx is current on the
// resuming worker while c runs.  The Observation is read from the carrier now,
// once.  The decorated Continuation reports carrierCtx as its Context.
//
// When the carrier holds no Observation but the resuming worker has one current,
// a null scope hides it for the duration of the resumption.
func Decorate(c coroutine.Continuation, carrierCtx context.Context, o ...Option) coroutine.Continuation {
	if carrierCtx == nil {
		carrierCtx = c.Context()
	}

	d := &continuation{
		delegate:    c,
		carrier:     carrierCtx,
		observation: carrier.CurrentObservation(carrierCtx),
	}

	for _, f := range o {
		f(d)
	}

	return d
}

// Interceptor decorates every Continuation of a coroutine using the Continuation's
// own carrier, giving one scope per resumption.
func Interceptor(o ...Option) coroutine.Interceptor {
	return func(c coroutine.Continuation) coroutine.Continuation {
		return Decorate(c, c.Context(), o...)
	}
}

// Launch starts a coroutine whose resumptions all run with the Observation that was
// current at each suspension point.  The Observation current in ctx right now is the
// one the first segment sees.
func Launch(ctx context.Context, d *coroutine.Dispatcher, body coroutine.Body, o ...Option) *future.Future {
	return coroutine.Launch(ctx, d, body, coroutine.WithInterceptors(Interceptor(o...)))
}
