// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package observationtest supplies test doubles for observation handlers.
package observationtest

import (
	"sync"
	"testing"

	"github.com/xmidt-org/observe/logging"
	"github.com/xmidt-org/observe/observation"
)

// Kind identifies the lifecycle notification captured by a Record
type Kind string

const (
	KindStart       Kind = "start"
	KindError       Kind = "error"
	KindEvent       Kind = "event"
	KindScopeOpened Kind = "scopeOpened"
	KindScopeClosed Kind = "scopeClosed"
	KindScopeReset  Kind = "scopeReset"
	KindStop        Kind = "stop"
)

// Record is a single captured notification
type Record struct {
	Kind  Kind
	ID    string
	Name  string
	Err   error
	Event observation.Event
}

// Recorder is an observation.Handler that keeps an ordered log of every notification.
// It is safe for concurrent use.
type Recorder struct {
	lock    sync.Mutex
	records []Record
}

func NewRecorder() *Recorder {
	return new(Recorder)
}

// NewRegistry creates a Registry with a single Recorder, logging to t
func NewRegistry(t testing.TB, o ...observation.Option) (*observation.Registry, *Recorder) {
	r := NewRecorder()
	return observation.NewRegistry(
		append(
			[]observation.Option{
				observation.WithHandlers(r),
				observation.WithLogger(logging.NewTestLogger(nil, t)),
			},
			o...,
		)...,
	), r
}

func (r *Recorder) add(k Kind, c *observation.Context, e observation.Event) {
	r.lock.Lock()
	r.records = append(r.records, Record{
		Kind:  k,
		ID:    c.ID(),
		Name:  c.Name(),
		Err:   c.Error(),
		Event: e,
	})

	r.lock.Unlock()
}

func (r *Recorder) OnStart(c *observation.Context) {
	r.add(KindStart, c, observation.Event{})
}

func (r *Recorder) OnError(c *observation.Context) {
	r.add(KindError, c, observation.Event{})
}

func (r *Recorder) OnEvent(e observation.Event, c *observation.Context) {
	r.add(KindEvent, c, e)
}

func (r *Recorder) OnScopeOpened(c *observation.Context) {
	r.add(KindScopeOpened, c, observation.Event{})
}

func (r *Recorder) OnScopeClosed(c *observation.Context) {
	r.add(KindScopeClosed, c, observation.Event{})
}

func (r *Recorder) OnScopeReset(c *observation.Context) {
	r.add(KindScopeReset, c, observation.Event{})
}

func (r *Recorder) OnStop(c *observation.Context) {
	r.add(KindStop, c, observation.Event{})
}

func (r *Recorder) SupportsContext(*observation.Context) bool {
	return true
}

// Records returns a copy of everything captured so far
func (r *Recorder) Records() []Record {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]Record(nil), r.records...)
}

// Count is the number of notifications of the given kind, across all observations
func (r *Recorder) Count(k Kind) (n int) {
	for _, rec := range r.Records() {
		if rec.Kind == k {
			n++
		}
	}

	return
}

// CountFor is the number of notifications of the given kind for one observation
func (r *Recorder) CountFor(id string, k Kind) (n int) {
	for _, rec := range r.Records() {
		if rec.ID == id && rec.Kind == k {
			n++
		}
	}

	return
}

// Kinds is the sequence of notifications received for one observation
func (r *Recorder) Kinds(id string) (kinds []Kind) {
	for _, rec := range r.Records() {
		if rec.ID == id {
			kinds = append(kinds, rec.Kind)
		}
	}

	return
}

// IDs returns each distinct observation id, in the order each was first seen
func (r *Recorder) IDs() (ids []string) {
	seen := make(map[string]bool)
	for _, rec := range r.Records() {
		if !seen[rec.ID] {
			seen[rec.ID] = true
			ids = append(ids, rec.ID)
		}
	}

	return
}

func (r *Recorder) Reset() {
	r.lock.Lock()
	r.records = nil
	r.lock.Unlock()
}
