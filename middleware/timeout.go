package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/go-kit/kit/endpoint"
	"github.com/xmidt-org/observe/observation"
)

const (
	DefaultTimeout = 30 * time.Second

	// TimeoutEvent is signalled on the current observation of a call that ran out of time
	TimeoutEvent = "timeout"
)

// Timeout applies the given timeout to all calls.  The context's cancellation
// function is always called.  A call whose deadline passed signals TimeoutEvent
// on the current observation, if any.
func Timeout(timeout time.Duration) endpoint.Middleware {
	if timeout < 1 {
		timeout = DefaultTimeout
	}

	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (interface{}, error) {
			timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			response, err := next(timeoutCtx, request)
			if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
				if o := current(ctx); o != nil {
					o.Event(observation.Event{Name: TimeoutEvent})
				}
			}

			return response, err
		}
	}
}
