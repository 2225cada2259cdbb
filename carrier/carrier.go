// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package carrier treats a context.Context as an immutable snapshot of keyed
elements that travels with a computation across suspensions and worker hops.

The one element this module cares about is the ObservationElement, which
remembers the Observation that was current when the snapshot was taken.  A
carrier never starts or stops that Observation, and any number of carriers may
share it.
*/
package carrier

import (
	"context"
	"fmt"

	"github.com/xmidt-org/observe/observation"
)

// Key identifies a kind of Element.  Keys compare by name, so names should be
// qualified, e.g. "observe.observation".
type Key struct {
	name string
}

func NewKey(name string) Key {
	return Key{name: name}
}

func (k Key) String() string {
	return k.name
}

// Element is a single entry in a carrier
type Element interface {
	Key() Key
}

type contextKey struct {
	Key
}

// Plus returns a context carrying the given elements in addition to whatever ctx
// carries.  An element replaces any earlier element with the same Key.  Nil elements
// are skipped.
func Plus(ctx context.Context, elements ...Element) context.Context {
	for _, e := range elements {
		if e != nil {
			ctx = context.WithValue(ctx, contextKey{e.Key()}, e)
		}
	}

	return ctx
}

// Get returns the element carried for k, or nil
func Get(ctx context.Context, k Key) Element {
	if ctx == nil {
		return nil
	}

	e, _ := ctx.Value(contextKey{k}).(Element)
	return e
}

// ObservationKey is the Key of ObservationElement
var ObservationKey = NewKey("observe.observation")

// ObservationElement holds at most one Observation
type ObservationElement struct {
	observation observation.Observation
}

// NewObservationElement wraps o, which may be nil
func NewObservationElement(o observation.Observation) ObservationElement {
	return ObservationElement{observation: o}
}

func (ObservationElement) Key() Key {
	return ObservationKey
}

// Observation returns the carried Observation, or nil
func (e ObservationElement) Observation() observation.Observation {
	return e.observation
}

func (e ObservationElement) String() string {
	if e.observation == nil {
		return "ObservationElement{}"
	}

	return fmt.Sprintf("ObservationElement{%s %s}", e.observation.ID(), e.observation.Context().ContextualName())
}

// AsContextElement captures the Observation that is current, according to registry, on
// the Local bound into ctx.  The capture happens now, not when the element is read.
func AsContextElement(ctx context.Context, registry *observation.Registry) Element {
	return NewObservationElement(registry.CurrentObservation(ctx))
}

// WithObservation returns a context carrying o
func WithObservation(ctx context.Context, o observation.Observation) context.Context {
	return Plus(ctx, NewObservationElement(o))
}

// CurrentObservation returns the Observation carried by ctx, or nil.  This looks only at
// the snapshot, never at any Local.
func CurrentObservation(ctx context.Context) observation.Observation {
	if e, ok := Get(ctx, ObservationKey).(ObservationElement); ok {
		return e.observation
	}

	return nil
}

// Capture snapshots whatever is current at this point in ctx: the Local's current
// Observation when a Local with an open scope is bound, otherwise whatever ctx
// already carries.
func Capture(ctx context.Context) context.Context {
	if l := observation.LocalFromContext(ctx); l.Current() != nil {
		return WithObservation(ctx, l.CurrentObservation())
	}

	return ctx
}

// OpenScope opens a scope for o on the Local bound into ctx.  Without a Local, the
// scope is still opened and notified but nothing becomes current.  A nil o yields
// a no-op scope.
func OpenScope(ctx context.Context, o observation.Observation) *observation.Scope {
	if o == nil {
		return observation.NoopScope()
	}

	return o.OpenScope(observation.LocalFromContext(ctx))
}

// Restore makes o current on l.  When o is nil and l has something current, a null
// scope hides it so that a stale Observation left behind by unrelated work does not
// leak into the resumed computation.
func Restore(l *observation.Local, o observation.Observation) *observation.Scope {
	switch {
	case o != nil:
		return o.OpenScope(l)

	case l.CurrentObservation() != nil:
		return l.OpenNullScope()

	default:
		return observation.NoopScope()
	}
}
