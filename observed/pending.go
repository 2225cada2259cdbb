// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package observed

import (
	"sync/atomic"

	"github.com/xmidt-org/observe/observation"
)

const (
	pending uint32 = iota
	completedOK
	completedError
	completedCancelled
)

// pendingCall is the state shared by every completion path of one call.  Exactly one
// of them wins the transition out of pending, and only the winner touches the
// observation: error (if any), then stop.
type pendingCall struct {
	observation observation.Observation
	owned       bool
	state       uint32
}

func newPendingCall(o observation.Observation, owned bool) *pendingCall {
	return &pendingCall{
		observation: o,
		owned:       owned,
	}
}

func (pc *pendingCall) terminate(to uint32, err error) bool {
	if !atomic.CompareAndSwapUint32(&pc.state, pending, to) {
		return false
	}

	if !pc.owned {
		return true
	}

	if err != nil {
		pc.observation.Error(err)
	}

	if to == completedCancelled {
		pc.observation.Event(observation.Event{Name: CancelledEvent})
	}

	pc.observation.Stop()
	return true
}

func (pc *pendingCall) succeed() bool {
	return pc.terminate(completedOK, nil)
}

func (pc *pendingCall) fail(err error) bool {
	return pc.terminate(completedError, err)
}

func (pc *pendingCall) cancel() bool {
	return pc.terminate(completedCancelled, nil)
}

// complete fails on a non-nil error, otherwise succeeds
func (pc *pendingCall) complete(err error) bool {
	if err != nil {
		return pc.fail(err)
	}

	return pc.succeed()
}

func (pc *pendingCall) done() bool {
	return atomic.LoadUint32(&pc.state) != pending
}
