package middleware

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/xmidt-org/observe/carrier"
	"github.com/xmidt-org/observe/observation"
	"github.com/xmidt-org/observe/observed"
)

// current returns the observation current on the Local bound into ctx, falling back
// to whatever ctx carries
func current(ctx context.Context) observation.Observation {
	if o := observation.LocalFromContext(ctx).CurrentObservation(); o != nil {
		return o
	}

	if o := carrier.CurrentObservation(ctx); o != nil && !o.IsNoop() {
		return o
	}

	return nil
}

// Bind makes sure each call has its own observation.Local, so that the scopes opened
// by one call never leak into another.  A Local already bound into the context is kept.
func Bind(next endpoint.Endpoint) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		ctx, _ = observation.Bind(ctx)
		return next(ctx, request)
	}
}

// Observed produces a middleware that observes each call through the given Adapter.  The request
// is the single argument of the call, so a request that is a coroutine.Continuation makes the
// observation stop when that continuation is resumed.  A response that is a *future.Future
// is replaced by a future that completes once the observation has stopped.
func Observed(a *observed.Adapter, target, method string, o *observed.Observed) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (interface{}, error) {
			return a.Call(ctx, observed.Invocation{
				Target:   target,
				Method:   method,
				Args:     []interface{}{request},
				Observed: o,
				Proceed: func(ctx context.Context, args []interface{}) (interface{}, error) {
					return next(ctx, args[0])
				},
			})
		}
	}
}
