// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package coroutine

import (
	"time"

	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

const (
	DefaultWorkers         = 4
	DefaultQueueSize       = 16
	DefaultShutdownTimeout = 5 * time.Second
)

// Options is the configuration of a Dispatcher
type Options struct {
	// Workers is the number of worker goroutines.  If nonpositive, DefaultWorkers is used.
	Workers int `json:"workers"`

	// QueueSize is the initial capacity of each worker's queue.  Queues grow as needed, so
	// this is only a hint.
	QueueSize int `json:"queueSize"`

	// ShutdownTimeout is how long Stop waits for workers to exit.
	ShutdownTimeout time.Duration `json:"shutdownTimeout"`

	// Logger is used for dispatcher output.  If unset, sallust.Default() is used.
	Logger *zap.Logger `json:"-"`
}

func (o *Options) workers() int {
	if o != nil && o.Workers > 0 {
		return o.Workers
	}

	return DefaultWorkers
}

func (o *Options) queueSize() int {
	if o != nil && o.QueueSize > 0 {
		return o.QueueSize
	}

	return DefaultQueueSize
}

func (o *Options) shutdownTimeout() time.Duration {
	if o != nil && o.ShutdownTimeout > 0 {
		return o.ShutdownTimeout
	}

	return DefaultShutdownTimeout
}

func (o *Options) logger() *zap.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}

	return sallust.Default()
}
