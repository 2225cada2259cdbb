// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package meter

import (
	"fmt"
	"time"

	"github.com/xmidt-org/observe/clock"
	"github.com/xmidt-org/observe/observation"
)

type startKey struct{}

// Option configures a Handler
type Option func(*Handler)

// WithClock sets the clock used to time observations
func WithClock(c clock.Interface) Option {
	return func(h *Handler) {
		if c != nil {
			h.clock = c
		}
	}
}

// Handler is an observation.Handler that times observations and counts their
// errors and scopes.  The observation name is used as a label, so observation
// names must be of low cardinality.
type Handler struct {
	observation.BaseHandler

	measures *Measures
	clock    clock.Interface
}

func NewHandler(m *Measures, o ...Option) *Handler {
	h := &Handler{
		measures: m,
		clock:    clock.System(),
	}

	for _, f := range o {
		f(h)
	}

	return h
}

// ErrorValue is the ErrorLabel value for err
func ErrorValue(err error) string {
	if err == nil {
		return NoError
	}

	return fmt.Sprintf("%T", err)
}

func (h *Handler) OnStart(c *observation.Context) {
	c.Put(startKey{}, h.clock.Now())
	h.measures.Active.With(NameLabel, c.Name()).Add(1.0)
}

func (h *Handler) OnError(c *observation.Context) {
	h.measures.Errors.With(NameLabel, c.Name(), ErrorLabel, ErrorValue(c.Error())).Add(1.0)
}

func (h *Handler) OnScopeOpened(c *observation.Context) {
	h.measures.ScopesOpened.With(NameLabel, c.Name()).Add(1.0)
}

func (h *Handler) OnStop(c *observation.Context) {
	h.measures.Active.With(NameLabel, c.Name()).Add(-1.0)

	// a filter may have replaced the context, so the start time can be missing
	if start, ok := c.Get(startKey{}).(time.Time); ok {
		h.measures.Duration.
			With(NameLabel, c.Name(), ErrorLabel, ErrorValue(c.Error())).
			Observe(h.clock.Since(start).Seconds())
	}
}
