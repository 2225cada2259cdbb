package observation_test

import (
	"context"
	"testing"

	"github.com/go-kit/log/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/observe/logging"
	"github.com/xmidt-org/observe/observation"
	"github.com/xmidt-org/observe/observation/observationtest"
	"pgregory.net/rapid"
)

func TestScopeRestoresPrevious(t *testing.T) {
	var (
		assert = assert.New(t)

		registry, recorder = observationtest.NewRegistry(t)
		local              = observation.NewLocal()
		outer              = registry.Start(context.Background(), "outer")
		inner              = registry.Start(context.Background(), "inner")
	)

	assert.Nil(local.Current())
	assert.Nil(local.CurrentObservation())

	outerScope := outer.OpenScope(local)
	assert.Equal(outer, local.CurrentObservation())
	assert.Nil(outerScope.Previous())

	innerScope := inner.OpenScope(local)
	assert.Equal(inner, local.CurrentObservation())
	assert.Equal(outerScope, innerScope.Previous())
	assert.Equal(inner, innerScope.Observation())

	innerScope.Close()
	innerScope.Close()
	assert.Equal(outer, local.CurrentObservation())

	outerScope.Close()
	assert.Nil(local.Current())

	assert.Equal(1, recorder.CountFor(inner.ID(), observationtest.KindScopeClosed))
	assert.Equal(1, recorder.CountFor(outer.ID(), observationtest.KindScopeOpened))
}

func TestScopeOutOfOrderClose(t *testing.T) {
	var (
		assert  = assert.New(t)
		capture = logging.NewCaptureLogger(8)

		registry, _ = observationtest.NewRegistry(t, observation.WithLogger(capture))
		local       = observation.NewLocal()
		first       = registry.Start(context.Background(), "first")
		second      = registry.Start(context.Background(), "second")
	)

	firstScope := first.OpenScope(local)
	secondScope := second.OpenScope(local)

	// closing first while second is current restores what first captured: nothing
	firstScope.Close()
	assert.Nil(local.Current())

	if assert.Len(capture.Output(), 1) {
		event := <-capture.Output()
		assert.Equal(level.WarnValue(), event[level.Key()])
		assert.Equal(first.ID(), event["observation"])
	}

	// second still restores exactly the scope it captured
	secondScope.Close()
	assert.Equal(firstScope, local.Current())
}

func TestNullScope(t *testing.T) {
	var (
		assert = assert.New(t)

		registry, recorder = observationtest.NewRegistry(t)
		local              = observation.NewLocal()
		stale              = registry.Start(context.Background(), "stale")
	)

	staleScope := stale.OpenScope(local)
	recorder.Reset()

	null := local.OpenNullScope()
	assert.True(null.IsNoop())
	assert.Nil(local.CurrentObservation())
	assert.Equal(null, local.Current())

	null.Close()
	assert.Equal(stale, local.CurrentObservation())
	assert.Empty(recorder.Records())

	staleScope.Close()
}

func TestNoopScope(t *testing.T) {
	assert := assert.New(t)

	s := observation.NoopScope()
	assert.True(s.IsNoop())
	assert.NotPanics(s.Close)

	var nilScope *observation.Scope
	assert.True(nilScope.IsNoop())
	assert.Equal(observation.Noop, nilScope.Observation())
	assert.Nil(nilScope.Previous())
	assert.NotPanics(nilScope.Close)
}

func TestScopeWithoutLocal(t *testing.T) {
	var (
		assert = assert.New(t)

		registry, recorder = observationtest.NewRegistry(t)
		o                  = registry.Start(context.Background(), "test")
	)

	var nilLocal *observation.Local
	s := o.OpenScope(nilLocal)
	assert.Nil(nilLocal.Current())
	s.Close()

	assert.Equal(1, recorder.CountFor(o.ID(), observationtest.KindScopeOpened))
	assert.Equal(1, recorder.CountFor(o.ID(), observationtest.KindScopeClosed))
}

func TestLocalReset(t *testing.T) {
	var (
		assert = assert.New(t)

		registry, recorder = observationtest.NewRegistry(t)
		local              = observation.NewLocal()
		first              = registry.Start(context.Background(), "first")
		second             = registry.Start(context.Background(), "second")
	)

	firstScope := first.OpenScope(local)
	secondScope := second.OpenScope(local)

	local.Reset()
	assert.Nil(local.Current())
	assert.Equal(1, recorder.CountFor(first.ID(), observationtest.KindScopeReset))
	assert.Equal(1, recorder.CountFor(second.ID(), observationtest.KindScopeReset))

	// reset scopes are already closed
	secondScope.Close()
	firstScope.Close()
	assert.Zero(recorder.Count(observationtest.KindScopeClosed))
	assert.Nil(local.Current())
}

func TestBind(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	assert.Nil(observation.LocalFromContext(context.Background()))

	ctx, local := observation.Bind(context.Background())
	require.NotNil(local)
	assert.Equal(local, observation.LocalFromContext(ctx))

	again, same := observation.Bind(ctx)
	assert.Equal(ctx, again)
	assert.Equal(local, same)

	other := observation.NewLocal()
	assert.Equal(other, observation.LocalFromContext(observation.WithLocal(ctx, other)))
}

// TestScopeRoundTrip checks that any properly nested sequence of opens and closes
// leaves the Local exactly as it found it.
func TestScopeRoundTrip(t *testing.T) {
	registry, _ := observationtest.NewRegistry(t)
	observations := []observation.Observation{
		registry.Start(context.Background(), "a"),
		registry.Start(context.Background(), "b"),
		registry.Start(context.Background(), "c"),
	}

	rapid.Check(t, func(rt *rapid.T) {
		var (
			local   = observation.NewLocal()
			initial = local.OpenNullScope()
			stack   []*observation.Scope
		)

		opens := rapid.SliceOfN(rapid.IntRange(0, len(observations)), 1, 20).Draw(rt, "opens")
		for _, i := range opens {
			previous := local.Current()
			var s *observation.Scope
			if i == len(observations) {
				s = local.OpenNullScope()
			} else {
				s = observations[i].OpenScope(local)
			}

			if s.Previous() != previous || local.Current() != s {
				rt.Fatalf("scope did not capture the previous scope")
			}

			stack = append(stack, s)
		}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			top.Close()

			expected := initial
			if len(stack) > 0 {
				expected = stack[len(stack)-1]
			}

			if local.Current() != expected {
				rt.Fatalf("close did not restore the captured scope")
			}
		}

		initial.Close()
		if local.Current() != nil {
			rt.Fatalf("local was not restored to empty")
		}
	})
}
