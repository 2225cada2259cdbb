package middleware

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/log"
	"github.com/xmidt-org/observe/logging"
)

// loggable is the interface implemented by any message object which is associated with a go-kit Logger
type loggable interface {
	Logger() log.Logger
}

const (
	ObservationKey    = "observation"
	ContextualNameKey = "contextualName"
)

// Logging produces a middleware that puts a contextual logger into the context of each call.
// The logger is the request's own, if it has a Logger() method, and base otherwise.  When an
// observation is current, its id and contextual name are added to every log entry.
func Logging(base log.Logger) endpoint.Middleware {
	if base == nil {
		base = logging.DefaultLogger()
	}

	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (interface{}, error) {
			logger := base
			if l, ok := request.(loggable); ok {
				logger = l.Logger()
			}

			if o := current(ctx); o != nil {
				logger = log.With(logger,
					ObservationKey, o.ID(),
					ContextualNameKey, o.Context().ContextualName(),
				)
			}

			return next(logging.WithLogger(ctx, logger), request)
		}
	}
}
