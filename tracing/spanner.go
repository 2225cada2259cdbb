package tracing

import (
	"github.com/xmidt-org/observe/clock"
	"github.com/xmidt-org/observe/observation"
)

// Spanner acts as a factory for Spans
type Spanner interface {
	// Start begins a new, unfinished span for an observation.  The returned closure must be called
	// to finish the span, recording it with a duration and the given error.  The
	// returned closure is idempotent and only records the duration and error of the first call.
	// It always returns the same Span instance.
	Start(*observation.Context) func(error) Span
}

type SpannerOption func(*spanner)

// WithClock sets the clock of a spanner.  If c is nil, this option does nothing.
func WithClock(c clock.Interface) SpannerOption {
	return func(sp *spanner) {
		if c != nil {
			sp.clock = c
		}
	}
}

// NewSpanner constructs a new Spanner with the given options
func NewSpanner(o ...SpannerOption) Spanner {
	sp := &spanner{
		clock: clock.System(),
	}

	for _, option := range o {
		option(sp)
	}

	return sp
}

type spanner struct {
	clock clock.Interface
}

func (sp *spanner) start(c *observation.Context) *span {
	return &span{
		context: c,
		start:   sp.clock.Now(),
	}
}

func (sp *spanner) Start(c *observation.Context) func(error) Span {
	s := sp.start(c)
	return func(err error) Span {
		s.finish(sp.clock.Since(s.start), err)
		return s
	}
}
