// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"

	"github.com/xmidt-org/observe/clock"
	"github.com/xmidt-org/observe/observation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// IDAttribute is the span attribute holding the observation id
	IDAttribute = "observation.id"

	// NameAttribute is the span attribute holding the low cardinality observation name
	NameAttribute = "observation.name"
)

type otelKey struct{}

type OTelOption func(*OTelHandler)

func WithOTelClock(c clock.Interface) OTelOption {
	return func(h *OTelHandler) {
		if c != nil {
			h.clock = c
		}
	}
}

// OTelHandler is an observation.Handler that exports observations as OpenTelemetry spans.
// An observation's span is a child of its parent observation's span, when there is one.
type OTelHandler struct {
	observation.BaseHandler

	tracer trace.Tracer
	clock  clock.Interface
}

func NewOTelHandler(tracer trace.Tracer, o ...OTelOption) *OTelHandler {
	h := &OTelHandler{
		tracer: tracer,
		clock:  clock.System(),
	}

	for _, f := range o {
		f(h)
	}

	return h
}

// SpanFromObservation returns the OpenTelemetry span of o, or nil if o has none
func SpanFromObservation(o observation.Observation) trace.Span {
	if o == nil {
		return nil
	}

	s, _ := o.Context().Get(otelKey{}).(trace.Span)
	return s
}

// ContextWithObservation returns a context carrying the OpenTelemetry span of o, so that
// instrumentation outside of observations can join the same trace.
func ContextWithObservation(ctx context.Context, o observation.Observation) context.Context {
	if s := SpanFromObservation(o); s != nil {
		return trace.ContextWithSpan(ctx, s)
	}

	return ctx
}

func attributes(kvs observation.KeyValues) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(kvs))
	for _, kv := range kvs {
		attrs = append(attrs, attribute.String(kv.Key, kv.Value))
	}

	return attrs
}

func (h *OTelHandler) span(c *observation.Context) trace.Span {
	s, _ := c.Get(otelKey{}).(trace.Span)
	return s
}

func (h *OTelHandler) OnStart(c *observation.Context) {
	ctx := ContextWithObservation(context.Background(), c.Parent())
	_, s := h.tracer.Start(
		ctx,
		c.ContextualName(),
		trace.WithTimestamp(h.clock.Now()),
		trace.WithAttributes(attributes(c.LowCardinalityKeyValues())...),
	)

	c.Put(otelKey{}, s)
}

func (h *OTelHandler) OnError(c *observation.Context) {
	if s := h.span(c); s != nil {
		err := c.Error()
		s.RecordError(err, trace.WithTimestamp(h.clock.Now()))
		s.SetStatus(codes.Error, err.Error())
	}
}

func (h *OTelHandler) OnEvent(e observation.Event, c *observation.Context) {
	if s := h.span(c); s != nil {
		s.AddEvent(e.String(), trace.WithTimestamp(h.clock.Now()))
	}
}

func (h *OTelHandler) OnStop(c *observation.Context) {
	s := h.span(c)
	if s == nil {
		return
	}

	s.SetName(c.ContextualName())
	s.SetAttributes(attributes(c.AllKeyValues())...)
	s.SetAttributes(
		attribute.String(IDAttribute, c.ID()),
		attribute.String(NameAttribute, c.Name()),
	)

	s.End(trace.WithTimestamp(h.clock.Now()))
}
