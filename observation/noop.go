// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package observation

// Noop is the Observation handed out when nothing is listening.  It never notifies
// handlers, and it is never reported as a Local's current Observation.  Its scopes
// still push onto a Local, which is how a null scope hides a stale current Observation.
var Noop Observation = noop{}

var noopContext = NewContext()

type noop struct{}

func (noop) ID() string                                        { return "" }
func (noop) Context() *Context                                 { return noopContext }
func (noop) State() State                                      { return Created }
func (n noop) Start() Observation                              { return n }
func (n noop) Error(error) Observation                         { return n }
func (n noop) Event(Event) Observation                         { return n }
func (noop) Stop()                                             {}
func (n noop) ContextualName(string) Observation               { return n }
func (n noop) LowCardinalityKeyValue(_, _ string) Observation  { return n }
func (n noop) HighCardinalityKeyValue(_, _ string) Observation { return n }
func (noop) IsNoop() bool                                      { return true }

func (n noop) OpenScope(l *Local) *Scope {
	s := &Scope{
		local:       l,
		observation: n,
	}

	l.push(s)
	return s
}
