package suspension

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/observe/carrier"
	"github.com/xmidt-org/observe/coroutine"
	"github.com/xmidt-org/observe/future"
	"github.com/xmidt-org/observe/logging"
	"github.com/xmidt-org/observe/observation"
	"github.com/xmidt-org/observe/observation/observationtest"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"
)

func newTestDispatcher(t testing.TB, workers int, opts ...coroutine.DispatcherOption) *coroutine.Dispatcher {
	d := coroutine.NewDispatcher(
		&coroutine.Options{Workers: workers, ShutdownTimeout: time.Second},
		append([]coroutine.DispatcherOption{coroutine.WithLogger(zaptest.NewLogger(t))}, opts...)...,
	)

	require.NoError(t, d.Start())
	t.Cleanup(func() { d.Stop() })
	return d
}

func await(t require.TestingT, f *future.Future) (interface{}, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	v, err := f.Await(ctx)
	require.NotEqual(t, context.DeadlineExceeded, err, "the coroutine did not complete")
	return v, err
}

// drain waits until every worker has finished everything dispatched to it so far
func drain(t require.TestingT, d *coroutine.Dispatcher) {
	for i := 0; i < d.Workers(); i++ {
		done := make(chan struct{})
		require.NoError(t, d.DispatchTo(i, coroutine.NewContinuation(context.Background(), func(context.Context, coroutine.Result) {
			close(done)
		}), coroutine.Result{}))

		<-done
	}
}

func TestDecorate(t *testing.T) {
	var (
		assert = assert.New(t)

		registry, recorder = observationtest.NewRegistry(t)
		resumed            = registry.Start(context.Background(), "resumed")
		stale              = registry.Start(context.Background(), "stale")

		workerCtx, local = observation.Bind(context.Background())
		staleScope       = stale.OpenScope(local)
	)

	var during observation.Observation
	raw := coroutine.NewContinuation(context.Background(), func(ctx context.Context, r coroutine.Result) {
		during = registry.CurrentObservation(ctx)
		assert.Equal("value", r.Value)
	})

	carrierCtx := carrier.WithObservation(context.Background(), resumed)
	decorated := Decorate(raw, carrierCtx, WithLogger(logging.NewTestLogger(nil, t)))
	assert.Equal(carrierCtx, decorated.Context())

	decorated.Resume(workerCtx, coroutine.Result{Value: "value"})
	assert.Equal(resumed, during)
	assert.Equal(stale, local.CurrentObservation())
	assert.Equal(1, recorder.CountFor(resumed.ID(), observationtest.KindScopeOpened))
	assert.Equal(1, recorder.CountFor(resumed.ID(), observationtest.KindScopeClosed))

	staleScope.Close()
}

func TestDecorateSnapshot(t *testing.T) {
	var (
		assert = assert.New(t)

		registry, _ = observationtest.NewRegistry(t)
		first       = registry.Start(context.Background(), "first")
		second      = registry.Start(context.Background(), "second")

		workerCtx, _ = observation.Bind(context.Background())
	)

	var during observation.Observation
	raw := coroutine.NewContinuation(carrier.WithObservation(context.Background(), first), func(ctx context.Context, _ coroutine.Result) {
		during = registry.CurrentObservation(ctx)
	})

	// the worker has second current when the resumption happens, which must not matter
	decorated := Decorate(raw, nil)
	scope := second.OpenScope(observation.LocalFromContext(workerCtx))
	decorated.Resume(workerCtx, coroutine.Result{})
	scope.Close()

	assert.Equal(first, during)
}

func TestDecorateMasksStale(t *testing.T) {
	var (
		assert = assert.New(t)

		registry, recorder = observationtest.NewRegistry(t)
		stale              = registry.Start(context.Background(), "stale")
		workerCtx, local   = observation.Bind(context.Background())
		staleScope         = stale.OpenScope(local)
	)

	recorder.Reset()

	var during observation.Observation = stale
	decorated := Decorate(coroutine.NewContinuation(context.Background(), func(ctx context.Context, _ coroutine.Result) {
		during = registry.CurrentObservation(ctx)
	}), context.Background())

	decorated.Resume(workerCtx, coroutine.Result{})
	assert.Nil(during)
	assert.Equal(stale, local.CurrentObservation())
	assert.Empty(recorder.Records())

	staleScope.Close()
}

func TestDecoratePanic(t *testing.T) {
	var (
		assert = assert.New(t)

		registry, recorder = observationtest.NewRegistry(t)
		o                  = registry.Start(context.Background(), "test")
		workerCtx, local   = observation.Bind(context.Background())
	)

	decorated := Decorate(coroutine.NewContinuation(carrier.WithObservation(context.Background(), o), func(context.Context, coroutine.Result) {
		panic("expected")
	}), nil)

	assert.Panics(func() {
		decorated.Resume(workerCtx, coroutine.Result{})
	})

	assert.Nil(local.Current())
	assert.Equal(1, recorder.CountFor(o.ID(), observationtest.KindScopeClosed))
}

// TestLaunchThreeSuspensions is a call with three internal suspension points: one
// scope for the start of the coroutine plus one per resumption.
func TestLaunchThreeSuspensions(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		registry, recorder = observationtest.NewRegistry(t)
		d                  = newTestDispatcher(t, 3)
		o                  = registry.Start(context.Background(), "call")
		ctx                = carrier.WithObservation(context.Background(), o)
		currents           []observation.Observation
	)

	record := func(ctx context.Context) {
		currents = append(currents, registry.CurrentObservation(ctx))
	}

	v, err := await(t, Launch(ctx, d, func(ctx context.Context, co *coroutine.Coroutine) {
		record(ctx)
		co.Await(ctx, future.Completed(1), func(ctx context.Context, r coroutine.Result) {
			record(ctx)
			co.Await(ctx, future.Completed(2), func(ctx context.Context, r coroutine.Result) {
				record(ctx)
				co.Await(ctx, future.Completed(3), func(ctx context.Context, r coroutine.Result) {
					record(ctx)
					co.Return(r.Value)
				})
			})
		})
	}))

	require.NoError(err)
	assert.Equal(3, v)
	drain(t, d)
	o.Stop()

	assert.Equal([]observation.Observation{o, o, o, o}, currents)
	assert.Equal(1, recorder.CountFor(o.ID(), observationtest.KindStart))
	assert.Equal(1, recorder.CountFor(o.ID(), observationtest.KindStop))
	assert.Zero(recorder.CountFor(o.ID(), observationtest.KindError))
	assert.Equal(4, recorder.CountFor(o.ID(), observationtest.KindScopeOpened))
	assert.Equal(4, recorder.CountFor(o.ID(), observationtest.KindScopeClosed))

	for i := 0; i < d.Workers(); i++ {
		assert.Nil(d.Local(i).Current(), "worker %d leaked a scope", i)
	}
}

// TestCrossWorkerResumption resumes on a worker that has a stale observation current.
// The observation from the suspension point wins, and the stale one comes back afterwards.
func TestCrossWorkerResumption(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		registry, _ = observationtest.NewRegistry(t)
		d           = newTestDispatcher(t, 2, coroutine.WithPicker(coroutine.Pinned(0)))
		initiator   = registry.Start(context.Background(), "initiator")
		stale       = registry.Start(context.Background(), "stale")
		polluted    = make(chan struct{})
		staleScope  *observation.Scope
	)

	// leave stale current on worker 1
	require.NoError(d.DispatchTo(1, coroutine.NewContinuation(context.Background(), func(ctx context.Context, _ coroutine.Result) {
		staleScope = stale.OpenScope(observation.LocalFromContext(ctx))
		close(polluted)
	}), coroutine.Result{}))

	<-polluted

	var (
		initiatedOn, resumedOn int
		resumedWith            observation.Observation
		afterResume            = make(chan observation.Observation, 1)
	)

	_, err := await(t, Launch(carrier.WithObservation(context.Background(), initiator), d, func(ctx context.Context, co *coroutine.Coroutine) {
		initiatedOn, _ = coroutine.Worker(ctx)
		k := co.Suspend(ctx, func(ctx context.Context, _ coroutine.Result) {
			resumedOn, _ = coroutine.Worker(ctx)
			resumedWith = registry.CurrentObservation(ctx)
			co.Return(nil)
		})

		if err := co.Dispatcher().DispatchTo(1, k, coroutine.Result{}); err != nil {
			co.Fail(err)
		}
	}, WithLogger(logging.NewTestLogger(nil, t))))

	require.NoError(err)
	assert.Equal(0, initiatedOn)
	assert.Equal(1, resumedOn)
	assert.Equal(initiator, resumedWith)

	require.NoError(d.DispatchTo(1, coroutine.NewContinuation(context.Background(), func(ctx context.Context, _ coroutine.Result) {
		afterResume <- observation.LocalFromContext(ctx).CurrentObservation()
	}), coroutine.Result{}))

	assert.Equal(stale, <-afterResume)

	cleaned := make(chan struct{})
	require.NoError(d.DispatchTo(1, coroutine.NewContinuation(context.Background(), func(context.Context, coroutine.Result) {
		staleScope.Close()
		close(cleaned)
	}), coroutine.Result{}))

	<-cleaned
}

// TestChildAcrossSuspension opens a child observation before suspending; the child,
// not the launch-time observation, is current after the resumption.
func TestChildAcrossSuspension(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		registry, _ = observationtest.NewRegistry(t)
		d           = newTestDispatcher(t, 2)
		parent      = registry.Start(context.Background(), "parent")
		seen        = make(chan observation.Observation, 2)
	)

	_, err := await(t, Launch(carrier.WithObservation(context.Background(), parent), d, func(ctx context.Context, co *coroutine.Coroutine) {
		child := registry.Start(ctx, "child")
		scope := child.OpenScope(observation.LocalFromContext(ctx))
		co.Await(ctx, future.Completed(nil), func(ctx context.Context, _ coroutine.Result) {
			seen <- registry.CurrentObservation(ctx)
			seen <- child.Context().Parent()
			child.Stop()
			co.Return(nil)
		})

		scope.Close()
	}))

	require.NoError(err)
	child := <-seen
	assert.Equal("child", child.Context().Name())
	assert.Equal(parent, <-seen)
}

func TestNoObservation(t *testing.T) {
	var (
		assert = assert.New(t)

		registry, recorder = observationtest.NewRegistry(t)
		d                  = newTestDispatcher(t, 1)
	)

	_, err := await(t, Launch(context.Background(), d, func(ctx context.Context, co *coroutine.Coroutine) {
		co.Await(ctx, future.Completed(nil), func(ctx context.Context, _ coroutine.Result) {
			assert.Nil(registry.CurrentObservation(ctx))
			co.Return(nil)
		})
	}))

	assert.NoError(err)
	assert.Empty(recorder.Records())
}

func TestFailurePropagates(t *testing.T) {
	var (
		assert   = assert.New(t)
		expected = errors.New("expected")

		registry, recorder = observationtest.NewRegistry(t)
		d                  = newTestDispatcher(t, 2)
		o                  = registry.Start(context.Background(), "test")
	)

	_, err := await(t, Launch(carrier.WithObservation(context.Background(), o), d, func(ctx context.Context, co *coroutine.Coroutine) {
		co.Await(ctx, future.Failed(expected), func(ctx context.Context, r coroutine.Result) {
			co.Fail(r.Err)
		})
	}))

	assert.Equal(expected, err)
	drain(t, d)
	assert.Equal(2, recorder.CountFor(o.ID(), observationtest.KindScopeOpened))
	assert.Equal(2, recorder.CountFor(o.ID(), observationtest.KindScopeClosed))
}

// TestResumptionPairs: N resumptions produce exactly N scope open/close pairs, and
// every worker's Local ends up as it started.
func TestResumptionPairs(t *testing.T) {
	d := newTestDispatcher(t, 3)

	rapid.Check(t, func(rt *rapid.T) {
		var (
			registry, recorder = observationtest.NewRegistry(t)
			o                  = registry.Start(context.Background(), "property")
			suspensions        = rapid.IntRange(0, 8).Draw(rt, "suspensions")
		)

		var step func(ctx context.Context, co *coroutine.Coroutine, remaining int)
		step = func(ctx context.Context, co *coroutine.Coroutine, remaining int) {
			if registry.CurrentObservation(ctx) != o {
				co.Fail(errors.New("observation was not current"))
				return
			}

			if remaining == 0 {
				co.Return(nil)
				return
			}

			co.Await(ctx, future.Completed(nil), func(ctx context.Context, _ coroutine.Result) {
				step(ctx, co, remaining-1)
			})
		}

		_, err := await(rt, Launch(carrier.WithObservation(context.Background(), o), d, func(ctx context.Context, co *coroutine.Coroutine) {
			step(ctx, co, suspensions)
		}))

		if err != nil {
			rt.Fatalf("coroutine failed: %v", err)
		}

		drain(rt, d)
		o.Stop()
		opened := recorder.CountFor(o.ID(), observationtest.KindScopeOpened)
		closed := recorder.CountFor(o.ID(), observationtest.KindScopeClosed)
		if opened != suspensions+1 || closed != opened {
			rt.Fatalf("expected %d scope pairs, got %d opened and %d closed", suspensions+1, opened, closed)
		}

		if recorder.CountFor(o.ID(), observationtest.KindStart) != 1 || recorder.CountFor(o.ID(), observationtest.KindStop) != 1 {
			rt.Fatalf("expected exactly one start and one stop")
		}
	})

	for i := 0; i < d.Workers(); i++ {
		assert.Nil(t, d.Local(i).Current())
	}
}
