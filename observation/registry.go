// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package observation

import (
	"context"
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/segmentio/ksuid"
	"github.com/xmidt-org/observe/logging"
)

// Option configures a Registry
type Option func(*Registry)

// WithHandlers appends handlers.  Start notifications go out in the order handlers
// were added, and stop notifications in the reverse order.
func WithHandlers(h ...Handler) Option {
	return func(r *Registry) {
		r.handlers = append(r.handlers, h...)
	}
}

func WithFilters(f ...Filter) Option {
	return func(r *Registry) {
		r.filters = append(r.filters, f...)
	}
}

func WithPredicates(p ...Predicate) Option {
	return func(r *Registry) {
		r.predicates = append(r.predicates, p...)
	}
}

// WithLogger sets the go-kit logger used to report lifecycle violations.  A nil logger
// means logging.DefaultLogger().
func WithLogger(l log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		} else {
			r.logger = logging.DefaultLogger()
		}
	}
}

// WithIDGenerator changes how observation identifiers are produced.  The default is a KSUID.
func WithIDGenerator(f func() string) Option {
	return func(r *Registry) {
		if f != nil {
			r.newID = f
		}
	}
}

func newKSUID() string {
	return ksuid.New().String()
}

// Registry creates Observations and notifies its Handlers of their lifecycles.
// A Registry with no handlers only ever hands out Noop.
type Registry struct {
	handlers   []Handler
	filters    []Filter
	predicates []Predicate
	logger     log.Logger
	newID      func() string

	violations uint64
}

func NewRegistry(o ...Option) *Registry {
	r := &Registry{
		logger: logging.DefaultLogger(),
		newID:  newKSUID,
	}

	for _, f := range o {
		f(r)
	}

	return r
}

func (r *Registry) IsNoop() bool {
	return r == nil || len(r.handlers) == 0
}

func (r *Registry) Logger() log.Logger {
	if r == nil {
		return logging.DefaultLogger()
	}

	return r.logger
}

// Violations is the number of lifecycle transitions that were ignored because they
// were invalid, e.g. stopping an Observation twice.
func (r *Registry) Violations() uint64 {
	return atomic.LoadUint64(&r.violations)
}

// Observation creates, but does not start, an Observation.  If c has no parent, the
// Observation current in ctx becomes its parent.  A nil Context is allowed.
func (r *Registry) Observation(ctx context.Context, name string, c *Context) Observation {
	if c == nil {
		c = NewContext()
	}

	c.SetName(name)
	if r.IsNoop() {
		return Noop
	}

	for _, p := range r.predicates {
		if !p(name, c) {
			return Noop
		}
	}

	var handlers []Handler
	for _, h := range r.handlers {
		if h.SupportsContext(c) {
			handlers = append(handlers, h)
		}
	}

	if len(handlers) == 0 {
		return Noop
	}

	if c.Parent() == nil {
		if parent := r.CurrentObservation(ctx); parent != nil {
			c.SetParent(parent)
		}
	}

	c.setID(r.newID())
	return &simple{
		registry: r,
		context:  c,
		handlers: handlers,
	}
}

// Start creates and starts an Observation
func (r *Registry) Start(ctx context.Context, name string) Observation {
	return r.Observation(ctx, name, nil).Start()
}

// Observe runs f within a new Observation, which is current in the context passed to f.
// Any error from f is recorded and returned.
func (r *Registry) Observe(ctx context.Context, name string, f func(context.Context) error) error {
	ctx, local := Bind(ctx)
	o := r.Start(ctx, name)
	defer o.Stop()

	s := o.OpenScope(local)
	defer s.Close()

	err := f(ctx)
	o.Error(err)
	return err
}

// CurrentObservation returns the Observation current on the Local bound into ctx
func (r *Registry) CurrentObservation(ctx context.Context) Observation {
	return LocalFromContext(ctx).CurrentObservation()
}

func (r *Registry) CurrentScope(ctx context.Context) *Scope {
	return LocalFromContext(ctx).Current()
}

func (r *Registry) violation(c *Context, operation string, s State) {
	atomic.AddUint64(&r.violations, 1)
	logging.Warn(r.logger).Log(
		logging.MessageKey(), "ignored invalid observation transition",
		"operation", operation,
		"state", s,
		"observation", c.ID(),
		"name", c.Name(),
	)
}
