// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package observation

import (
	"sync/atomic"
)

// State is the lifecycle state of an Observation
type State uint32

const (
	Created State = iota
	Started
	Stopped
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Started:
		return "started"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Observation is a named, timed unit of work.  The lifecycle is
// Created -> Started -> Stopped, with at most one error recorded while Started.
// Transitions that violate this lifecycle are ignored.
type Observation interface {
	ID() string
	Context() *Context
	State() State

	Start() Observation
	Error(error) Observation
	Event(Event) Observation
	Stop()

	ContextualName(string) Observation
	LowCardinalityKeyValue(key, value string) Observation
	HighCardinalityKeyValue(key, value string) Observation

	// OpenScope makes this Observation current on the given Local until the returned
	// Scope is closed.  A nil Local still produces scope notifications, but nothing
	// becomes current.
	OpenScope(*Local) *Scope

	IsNoop() bool
}

type simple struct {
	registry *Registry
	context  *Context
	handlers []Handler

	state   uint32
	errored uint32
}

func (o *simple) ID() string {
	return o.context.ID()
}

func (o *simple) Context() *Context {
	return o.context
}

func (o *simple) State() State {
	return State(atomic.LoadUint32(&o.state))
}

func (o *simple) IsNoop() bool {
	return false
}

func (o *simple) Start() Observation {
	if !atomic.CompareAndSwapUint32(&o.state, uint32(Created), uint32(Started)) {
		o.registry.violation(o.context, "start", o.State())
		return o
	}

	for _, h := range o.handlers {
		h.OnStart(o.context)
	}

	return o
}

func (o *simple) Error(err error) Observation {
	if err == nil {
		return o
	}

	if s := o.State(); s != Started {
		o.registry.violation(o.context, "error", s)
		return o
	}

	if !atomic.CompareAndSwapUint32(&o.errored, 0, 1) {
		o.registry.violation(o.context, "error", Started)
		return o
	}

	o.context.setError(err)
	for _, h := range o.handlers {
		h.OnError(o.context)
	}

	return o
}

func (o *simple) Event(e Event) Observation {
	if s := o.State(); s != Started {
		o.registry.violation(o.context, "event", s)
		return o
	}

	for _, h := range o.handlers {
		h.OnEvent(e, o.context)
	}

	return o
}

func (o *simple) Stop() {
	if !atomic.CompareAndSwapUint32(&o.state, uint32(Started), uint32(Stopped)) {
		o.registry.violation(o.context, "stop", o.State())
		return
	}

	c := o.context
	for _, f := range o.registry.filters {
		if next := f(c); next != nil {
			c = next
		}
	}

	for i := len(o.handlers) - 1; i >= 0; i-- {
		o.handlers[i].OnStop(c)
	}
}

func (o *simple) ContextualName(name string) Observation {
	o.context.SetContextualName(name)
	return o
}

func (o *simple) LowCardinalityKeyValue(key, value string) Observation {
	o.context.AddLowCardinalityKeyValues(KeyValue{Key: key, Value: value})
	return o
}

func (o *simple) HighCardinalityKeyValue(key, value string) Observation {
	o.context.AddHighCardinalityKeyValues(KeyValue{Key: key, Value: value})
	return o
}

func (o *simple) OpenScope(l *Local) *Scope {
	s := &Scope{
		local:       l,
		observation: o,
		logger:      o.registry.logger,
		onClose: func() {
			for i := len(o.handlers) - 1; i >= 0; i-- {
				o.handlers[i].OnScopeClosed(o.context)
			}
		},
		onReset: func() {
			for _, h := range o.handlers {
				h.OnScopeReset(o.context)
			}
		},
	}

	l.push(s)
	for _, h := range o.handlers {
		h.OnScopeOpened(o.context)
	}

	return s
}
