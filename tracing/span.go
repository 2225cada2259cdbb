package tracing

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/xmidt-org/observe/observation"
)

// Span is the record of one observation.  A Span is immutable once its Spanner closure
// has been called.
type Span interface {
	// ID is the identifier of the observation
	ID() string

	// ParentID is the identifier of the parent observation, or the empty string
	ParentID() string

	// Name is the low cardinality observation name
	Name() string

	ContextualName() string

	// Start is the time at which the observation started
	Start() time.Time

	// Duration is how long the observation took.  This value is computed once, when the
	// closure from Spanner.Start is called.
	Duration() time.Duration

	// Error is any error the observation recorded.  This can be nil.
	Error() error

	// KeyValues are all the observation's tags, as of when the span finished
	KeyValues() observation.KeyValues

	// Events are the signals raised against the observation, in order
	Events() []observation.Event
}

type span struct {
	context *observation.Context
	start   time.Time

	lock   sync.Mutex
	events []observation.Event

	state          uint32
	id             string
	parentID       string
	name           string
	contextualName string
	duration       time.Duration
	err            error
	keyValues      observation.KeyValues
}

func (s *span) ID() string {
	return s.id
}

func (s *span) ParentID() string {
	return s.parentID
}

func (s *span) Name() string {
	return s.name
}

func (s *span) ContextualName() string {
	return s.contextualName
}

func (s *span) Start() time.Time {
	return s.start
}

func (s *span) Duration() time.Duration {
	return s.duration
}

func (s *span) Error() error {
	return s.err
}

func (s *span) KeyValues() observation.KeyValues {
	return s.keyValues
}

func (s *span) Events() []observation.Event {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]observation.Event(nil), s.events...)
}

func (s *span) event(e observation.Event) {
	s.lock.Lock()
	if atomic.LoadUint32(&s.state) == 0 {
		s.events = append(s.events, e)
	}

	s.lock.Unlock()
}

// finish snapshots the observation.  Only the first call has any effect.
func (s *span) finish(duration time.Duration, err error) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !atomic.CompareAndSwapUint32(&s.state, 0, 1) {
		return false
	}

	s.duration = duration
	s.err = err
	if c := s.context; c != nil {
		s.id = c.ID()
		s.name = c.Name()
		s.contextualName = c.ContextualName()
		s.keyValues = c.AllKeyValues()
		if p := c.Parent(); p != nil {
			s.parentID = p.ID()
		}
	}

	return true
}
