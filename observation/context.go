// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package observation

import "sync"

// Event is a signal raised against a started Observation.
type Event struct {
	Name           string
	ContextualName string
}

func (e Event) String() string {
	if len(e.ContextualName) > 0 {
		return e.ContextualName
	}

	return e.Name
}

// Context is the mutable state shared between an Observation and its Handlers.
// Handlers may use Put and Get to stash their own per-observation state.
//
// A Context is safe for concurrent use.
type Context struct {
	lock sync.RWMutex

	id             string
	name           string
	contextualName string
	parent         Observation
	err            error
	low            KeyValues
	high           KeyValues
	values         map[interface{}]interface{}
}

// NewContext creates an empty Context.  The Registry assigns the name and id.
func NewContext() *Context {
	return &Context{
		values: make(map[interface{}]interface{}),
	}
}

// ID is the identifier of the Observation that owns this Context
func (c *Context) ID() string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.id
}

func (c *Context) setID(id string) {
	c.lock.Lock()
	c.id = id
	c.lock.Unlock()
}

func (c *Context) Name() string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.name
}

func (c *Context) SetName(name string) {
	c.lock.Lock()
	c.name = name
	c.lock.Unlock()
}

// ContextualName returns the contextual name, falling back to Name when none was set.
func (c *Context) ContextualName() string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if len(c.contextualName) > 0 {
		return c.contextualName
	}

	return c.name
}

func (c *Context) SetContextualName(name string) {
	c.lock.Lock()
	c.contextualName = name
	c.lock.Unlock()
}

// Parent is the Observation that was current when this Context's Observation was created, if any.
func (c *Context) Parent() Observation {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.parent
}

func (c *Context) SetParent(parent Observation) {
	c.lock.Lock()
	c.parent = parent
	c.lock.Unlock()
}

// Error is the error recorded against the Observation, or nil
func (c *Context) Error() error {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.err
}

func (c *Context) setError(err error) {
	c.lock.Lock()
	c.err = err
	c.lock.Unlock()
}

func (c *Context) LowCardinalityKeyValues() KeyValues {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.low
}

func (c *Context) AddLowCardinalityKeyValues(kv ...KeyValue) {
	c.lock.Lock()
	c.low = c.low.With(kv...)
	c.lock.Unlock()
}

func (c *Context) HighCardinalityKeyValues() KeyValues {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.high
}

func (c *Context) AddHighCardinalityKeyValues(kv ...KeyValue) {
	c.lock.Lock()
	c.high = c.high.With(kv...)
	c.lock.Unlock()
}

// AllKeyValues merges the low and high cardinality tags
func (c *Context) AllKeyValues() KeyValues {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.low.And(c.high)
}

func (c *Context) Put(key, value interface{}) {
	c.lock.Lock()
	if c.values == nil {
		c.values = make(map[interface{}]interface{})
	}

	c.values[key] = value
	c.lock.Unlock()
}

func (c *Context) Get(key interface{}) interface{} {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.values[key]
}

func (c *Context) Remove(key interface{}) {
	c.lock.Lock()
	delete(c.values, key)
	c.lock.Unlock()
}
