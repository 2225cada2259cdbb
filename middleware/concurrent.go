package middleware

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"golang.org/x/sync/semaphore"
)

// Concurrent produces a middleware that allows only a set number of concurrent calls.
// The context is used for cancellation, and if the context is cancelled while waiting then
// timeoutError is returned if it is not nil, ctx.Err() otherwise.
func Concurrent(concurrency int, timeoutError error) endpoint.Middleware {
	if concurrency < 1 {
		panic("concurrency must be positive")
	}

	s := semaphore.NewWeighted(int64(concurrency))
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (interface{}, error) {
			if err := s.Acquire(ctx, 1); err != nil {
				if timeoutError != nil {
					return nil, timeoutError
				}

				return nil, ctx.Err()
			}

			defer s.Release(1)
			return next(ctx, request)
		}
	}
}
