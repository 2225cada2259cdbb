// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package concurrent

import (
	"sync"
	"time"
)

// Runnable represents any operation that can spawn zero or more goroutines.
type Runnable interface {
	// Run spawns this operation's goroutines, calling waitGroup.Add and waitGroup.Done
	// for each.  Those goroutines exit when shutdown is closed.  An error means nothing
	// was started.
	Run(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error
}

// RunnableFunc is a function type that implements Runnable
type RunnableFunc func(*sync.WaitGroup, <-chan struct{}) error

func (r RunnableFunc) Run(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error {
	return r(waitGroup, shutdown)
}

// Execute creates the synchronization objects for a runnable and then invokes Run.
func Execute(runnable Runnable) (waitGroup *sync.WaitGroup, shutdown chan struct{}, err error) {
	waitGroup = &sync.WaitGroup{}
	shutdown = make(chan struct{})
	err = runnable.Run(waitGroup, shutdown)
	return
}

// Shutdown closes the shutdown channel returned by Execute and waits, up to timeout,
// for the runnable's goroutines to exit.  The return is false if the timeout elapsed.
func Shutdown(waitGroup *sync.WaitGroup, shutdown chan struct{}, timeout time.Duration) bool {
	close(shutdown)
	return WaitTimeout(waitGroup, timeout)
}
