// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package observed

import (
	"context"
	"errors"
	"fmt"

	"github.com/xmidt-org/observe/coroutine"
	"github.com/xmidt-org/observe/observation"
)

const (
	// DefaultName is the observation name used when an Observed does not supply one
	DefaultName = "method.observed"

	ClassKey  = "class"
	MethodKey = "method"

	// CancelledEvent is signalled on an observation whose call was cancelled
	CancelledEvent = "cancelled"
)

// ErrNotInvocable is returned, and recorded, for an Invocation that cannot proceed
var ErrNotInvocable = errors.New("observed: invocation cannot proceed")

// PanicError is recorded on the observation of a call that panicked.  The panic
// itself is re-raised with its original value.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (pe *PanicError) Error() string {
	return fmt.Sprintf("observed: panic: %v", pe.Value)
}

// Observed describes how an intercepted call is observed.  All fields are optional.
type Observed struct {
	// Name is the observation name.  DefaultName is used if this is empty.
	Name string

	// ContextualName defaults to Target#Method
	ContextualName string

	// LowCardinalityKeyValues are alternating keys and values
	LowCardinalityKeyValues []string
}

// ProceedFunc carries on with an intercepted call, possibly with substituted arguments
type ProceedFunc func(ctx context.Context, args []interface{}) (interface{}, error)

// Invocation is one intercepted call
type Invocation struct {
	// Target names the receiver of the call, such as a service type
	Target string

	// Method names the operation being called
	Method string

	// Args are the call's arguments.  A coroutine.Continuation among them marks the call
	// as continuation-resuming.
	Args []interface{}

	// Proceed carries on with the call.  A nil Proceed makes the Invocation not invocable.
	Proceed ProceedFunc

	// Observed optionally customizes the observation
	Observed *Observed
}

func (inv Invocation) name() string {
	if inv.Observed != nil && len(inv.Observed.Name) > 0 {
		return inv.Observed.Name
	}

	return DefaultName
}

func (inv Invocation) contextualName() string {
	if inv.Observed != nil && len(inv.Observed.ContextualName) > 0 {
		return inv.Observed.ContextualName
	}

	return inv.Target + "#" + inv.Method
}

// keyValues are the default low cardinality tags of an invocation
func (inv Invocation) keyValues() observation.KeyValues {
	kvs := observation.Pairs(ClassKey, inv.Target, MethodKey, inv.Method)
	if inv.Observed != nil {
		kvs = kvs.And(observation.Pairs(inv.Observed.LowCardinalityKeyValues...))
	}

	return kvs
}

// continuation finds the last argument that is a coroutine.Continuation
func (inv Invocation) continuation() (int, coroutine.Continuation) {
	for i := len(inv.Args) - 1; i >= 0; i-- {
		if k, ok := inv.Args[i].(coroutine.Continuation); ok {
			return i, k
		}
	}

	return -1, nil
}
