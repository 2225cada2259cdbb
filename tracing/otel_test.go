package tracing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/observe/clock/clocktest"
	"github.com/xmidt-org/observe/observation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestTracer(t *testing.T) (trace.Tracer, *tracetest.SpanRecorder) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { tp.Shutdown(context.Background()) })
	return tp.Tracer("observe"), sr
}

func hasAttribute(attrs []attribute.KeyValue, expected attribute.KeyValue) bool {
	for _, a := range attrs {
		if a == expected {
			return true
		}
	}

	return false
}

func TestOTelHandler(t *testing.T) {
	var (
		assert   = assert.New(t)
		require  = require.New(t)
		expected = errors.New("expected")

		tracer, sr = newTestTracer(t)
		start      = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		clk        = clocktest.NewManual(start)
		r          = observation.NewRegistry(observation.WithHandlers(NewOTelHandler(tracer, WithOTelClock(clk))))

		outer, inner observation.Observation
	)

	err := r.Observe(context.Background(), "outer", func(ctx context.Context) error {
		outer = r.CurrentObservation(ctx)
		assert.True(trace.SpanContextFromContext(ContextWithObservation(ctx, outer)).IsValid())

		c := observation.NewContext()
		c.SetContextualName("Service#Do")
		c.AddLowCardinalityKeyValues(observation.KeyValue{Key: "class", Value: "Service"})
		inner = r.Observation(ctx, "inner", c).Start()
		inner.HighCardinalityKeyValue("user", "1234")
		inner.Event(observation.Event{Name: "cancelled"})
		clk.Advance(time.Second)
		inner.Error(expected)
		inner.Stop()
		return nil
	})

	require.NoError(err)
	ended := sr.Ended()
	require.Len(ended, 2)

	innerSpan, outerSpan := ended[0], ended[1]
	assert.Equal("Service#Do", innerSpan.Name())
	assert.Equal("outer", outerSpan.Name())
	assert.Equal(outerSpan.SpanContext().SpanID(), innerSpan.Parent().SpanID())
	assert.Equal(outerSpan.SpanContext().TraceID(), innerSpan.SpanContext().TraceID())
	assert.Equal(SpanFromObservation(inner).SpanContext(), innerSpan.SpanContext())

	assert.Equal(codes.Error, innerSpan.Status().Code)
	assert.Equal("expected", innerSpan.Status().Description)
	assert.Equal(codes.Unset, outerSpan.Status().Code)

	require.Len(innerSpan.Events(), 2)
	assert.Equal("cancelled", innerSpan.Events()[0].Name)
	assert.Equal("exception", innerSpan.Events()[1].Name)

	assert.Equal(start, innerSpan.StartTime())
	assert.Equal(start.Add(time.Second), innerSpan.EndTime())

	attrs := innerSpan.Attributes()
	assert.True(hasAttribute(attrs, attribute.String("class", "Service")))
	assert.True(hasAttribute(attrs, attribute.String("user", "1234")))
	assert.True(hasAttribute(attrs, attribute.String(IDAttribute, inner.ID())))
	assert.True(hasAttribute(attrs, attribute.String(NameAttribute, "inner")))
}

func TestSpanFromObservation(t *testing.T) {
	assert := assert.New(t)
	assert.Nil(SpanFromObservation(nil))
	assert.Nil(SpanFromObservation(observation.Noop))

	ctx := context.Background()
	assert.Equal(ctx, ContextWithObservation(ctx, observation.Noop))
}
