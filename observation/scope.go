// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package observation

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-kit/log"
	"github.com/xmidt-org/observe/logging"
)

// Scope marks an Observation as current on a Local.  Closing a Scope restores the
// Scope that was current when it was opened, regardless of what is current at the
// time of closing.
type Scope struct {
	local       *Local
	observation Observation
	previous    *Scope
	logger      log.Logger

	onClose func()
	onReset func()
	closed  uint32
}

// noopScope is returned wherever a Scope is required but nothing was opened
var noopScope = &Scope{observation: Noop, closed: 1}

// NoopScope returns a Scope that does nothing when closed
func NoopScope() *Scope {
	return noopScope
}

// Observation is the Observation this Scope made current
func (s *Scope) Observation() Observation {
	if s == nil {
		return Noop
	}

	return s.observation
}

// Previous is the Scope that was current on the Local when this Scope was opened
func (s *Scope) Previous() *Scope {
	if s == nil {
		return nil
	}

	return s.previous
}

func (s *Scope) IsNoop() bool {
	return s == nil || s.observation.IsNoop()
}

// Close notifies handlers and restores the previous Scope.  Only the first call has any effect.
func (s *Scope) Close() {
	if s == nil || !atomic.CompareAndSwapUint32(&s.closed, 0, 1) {
		return
	}

	if s.onClose != nil {
		s.onClose()
	}

	if !s.local.restore(s) && s.logger != nil {
		logging.Warn(s.logger).Log(
			logging.MessageKey(), "closed a scope that was not current",
			"observation", s.observation.ID(),
		)
	}
}

// Local is the scope stack of one logical thread of control.  Each worker goroutine,
// or each request, should have its own Local.  The zero value is ready to use.
type Local struct {
	lock    sync.Mutex
	current *Scope
}

func NewLocal() *Local {
	return new(Local)
}

// Current returns the current Scope, or nil if there is none
func (l *Local) Current() *Scope {
	if l == nil {
		return nil
	}

	l.lock.Lock()
	defer l.lock.Unlock()
	return l.current
}

// CurrentObservation returns the Observation of the current Scope.  This is nil when
// no Scope is open or when the current Scope is a null scope.
func (l *Local) CurrentObservation() Observation {
	if s := l.Current(); s != nil && !s.observation.IsNoop() {
		return s.observation
	}

	return nil
}

// OpenNullScope pushes a Scope with no Observation, so that nothing is current until it is closed.
func (l *Local) OpenNullScope() *Scope {
	return Noop.OpenScope(l)
}

// Reset discards every open Scope, notifying OnScopeReset for each one from the
// innermost outward.  Scopes discarded this way do nothing when later closed.
func (l *Local) Reset() {
	if l == nil {
		return
	}

	l.lock.Lock()
	s := l.current
	l.current = nil
	l.lock.Unlock()

	for ; s != nil; s = s.previous {
		if atomic.CompareAndSwapUint32(&s.closed, 0, 1) && s.onReset != nil {
			s.onReset()
		}
	}
}

func (l *Local) push(s *Scope) {
	if l == nil {
		return
	}

	l.lock.Lock()
	s.previous = l.current
	l.current = s
	l.lock.Unlock()
}

// restore reinstates the scope captured by s.  The return is false when s was not
// the current scope, which means scopes were closed out of order.
func (l *Local) restore(s *Scope) bool {
	if l == nil {
		return true
	}

	l.lock.Lock()
	defer l.lock.Unlock()
	inOrder := l.current == s
	l.current = s.previous
	return inOrder
}

type localKey struct{}

// WithLocal binds a Local into a context
func WithLocal(ctx context.Context, l *Local) context.Context {
	return context.WithValue(ctx, localKey{}, l)
}

// LocalFromContext returns the Local bound into ctx, or nil
func LocalFromContext(ctx context.Context) *Local {
	if ctx == nil {
		return nil
	}

	l, _ := ctx.Value(localKey{}).(*Local)
	return l
}

// Bind returns a context with a Local, creating a new one only if ctx had none.
func Bind(ctx context.Context) (context.Context, *Local) {
	if l := LocalFromContext(ctx); l != nil {
		return ctx, l
	}

	l := NewLocal()
	return WithLocal(ctx, l), l
}
