package tracing

import (
	"sync"

	"github.com/xmidt-org/observe/observation"
)

type spanKey struct{}

// HandlerOption configures a Handler
type HandlerOption func(*Handler)

// WithSpannerOptions configures how the Handler creates and times its spans
func WithSpannerOptions(o ...SpannerOption) HandlerOption {
	return func(h *Handler) {
		for _, f := range o {
			f(h.spanner)
		}
	}
}

// WithSink adds a function that receives each Span as it finishes
func WithSink(sink func(Span)) HandlerOption {
	return func(h *Handler) {
		if sink != nil {
			h.sinks = append(h.sinks, sink)
		}
	}
}

// Handler is an observation.Handler that produces one Span per observation.  Finished
// spans are kept, in the order the observations stopped, until Reset.
type Handler struct {
	observation.BaseHandler

	spanner *spanner
	sinks   []func(Span)

	lock  sync.Mutex
	trace Trace
}

func NewHandler(o ...HandlerOption) *Handler {
	h := &Handler{
		spanner: NewSpanner().(*spanner),
	}

	for _, f := range o {
		f(h)
	}

	return h
}

func (h *Handler) OnStart(c *observation.Context) {
	c.Put(spanKey{}, h.spanner.start(c))
}

func (h *Handler) OnEvent(e observation.Event, c *observation.Context) {
	if s, ok := c.Get(spanKey{}).(*span); ok {
		s.event(e)
	}
}

func (h *Handler) OnStop(c *observation.Context) {
	s, ok := c.Get(spanKey{}).(*span)
	if !ok || !s.finish(h.spanner.clock.Since(s.start), c.Error()) {
		return
	}

	h.lock.Lock()
	h.trace = append(h.trace, s)
	h.lock.Unlock()

	for _, sink := range h.sinks {
		sink(s)
	}
}

// Spans returns a copy of the finished spans
func (h *Handler) Spans() []Span {
	return h.Trace()
}

func (h *Handler) Trace() Trace {
	h.lock.Lock()
	defer h.lock.Unlock()
	return append(Trace(nil), h.trace...)
}

func (h *Handler) Reset() {
	h.lock.Lock()
	h.trace = nil
	h.lock.Unlock()
}
