// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package observation

// Handler receives the lifecycle notifications of the Observations it supports.
// Notifications for a given Observation arrive in lifecycle order, though scope
// notifications may arrive on any goroutine that opens or closes a Scope.
type Handler interface {
	OnStart(*Context)
	OnError(*Context)
	OnEvent(Event, *Context)
	OnScopeOpened(*Context)
	OnScopeClosed(*Context)
	OnScopeReset(*Context)
	OnStop(*Context)

	// SupportsContext determines if this Handler is notified for the Observation
	// owning the given Context.  This is consulted once, when the Observation is created.
	SupportsContext(*Context) bool
}

// BaseHandler can be embedded to supply no-op notifications.  It supports every Context.
type BaseHandler struct{}

func (BaseHandler) OnStart(*Context)              {}
func (BaseHandler) OnError(*Context)              {}
func (BaseHandler) OnEvent(Event, *Context)       {}
func (BaseHandler) OnScopeOpened(*Context)        {}
func (BaseHandler) OnScopeClosed(*Context)        {}
func (BaseHandler) OnScopeReset(*Context)         {}
func (BaseHandler) OnStop(*Context)               {}
func (BaseHandler) SupportsContext(*Context) bool { return true }

// FirstMatching is a composite Handler that delegates to the first of its handlers
// that supports a given Context.
type FirstMatching []Handler

func (fm FirstMatching) first(c *Context) Handler {
	for _, h := range fm {
		if h.SupportsContext(c) {
			return h
		}
	}

	return nil
}

func (fm FirstMatching) OnStart(c *Context) {
	if h := fm.first(c); h != nil {
		h.OnStart(c)
	}
}

func (fm FirstMatching) OnError(c *Context) {
	if h := fm.first(c); h != nil {
		h.OnError(c)
	}
}

func (fm FirstMatching) OnEvent(e Event, c *Context) {
	if h := fm.first(c); h != nil {
		h.OnEvent(e, c)
	}
}

func (fm FirstMatching) OnScopeOpened(c *Context) {
	if h := fm.first(c); h != nil {
		h.OnScopeOpened(c)
	}
}

func (fm FirstMatching) OnScopeClosed(c *Context) {
	if h := fm.first(c); h != nil {
		h.OnScopeClosed(c)
	}
}

func (fm FirstMatching) OnScopeReset(c *Context) {
	if h := fm.first(c); h != nil {
		h.OnScopeReset(c)
	}
}

func (fm FirstMatching) OnStop(c *Context) {
	if h := fm.first(c); h != nil {
		h.OnStop(c)
	}
}

func (fm FirstMatching) SupportsContext(c *Context) bool {
	return fm.first(c) != nil
}

// AllMatching is a composite Handler that delegates to every one of its handlers
// that supports a given Context.
type AllMatching []Handler

func (am AllMatching) each(c *Context, f func(Handler)) {
	for _, h := range am {
		if h.SupportsContext(c) {
			f(h)
		}
	}
}

func (am AllMatching) OnStart(c *Context) {
	am.each(c, func(h Handler) { h.OnStart(c) })
}

func (am AllMatching) OnError(c *Context) {
	am.each(c, func(h Handler) { h.OnError(c) })
}

func (am AllMatching) OnEvent(e Event, c *Context) {
	am.each(c, func(h Handler) { h.OnEvent(e, c) })
}

func (am AllMatching) OnScopeOpened(c *Context) {
	am.each(c, func(h Handler) { h.OnScopeOpened(c) })
}

func (am AllMatching) OnScopeClosed(c *Context) {
	am.each(c, func(h Handler) { h.OnScopeClosed(c) })
}

func (am AllMatching) OnScopeReset(c *Context) {
	am.each(c, func(h Handler) { h.OnScopeReset(c) })
}

func (am AllMatching) OnStop(c *Context) {
	am.each(c, func(h Handler) { h.OnStop(c) })
}

func (am AllMatching) SupportsContext(c *Context) bool {
	for _, h := range am {
		if h.SupportsContext(c) {
			return true
		}
	}

	return false
}

// Filter may modify a Context just before the stop notifications are dispatched.
type Filter func(*Context) *Context

// Predicate decides whether an Observation should be created at all.  When any Predicate
// returns false, the Registry hands out a noop Observation.
type Predicate func(name string, c *Context) bool
