package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StatusCode represents the canonical status of a span.
type StatusCode int

const (
	StatusCodeUnset StatusCode = iota
	StatusCodeOK
	StatusCodeError
)

// SpanKind represents the role of a span in a trace.
type SpanKind int

const (
	SpanKindInternal SpanKind = iota
	SpanKindServer
	SpanKindClient
	SpanKindProducer
	SpanKindConsumer
)

func (k SpanKind) otelKind() trace.SpanKind {
	switch k {
	case SpanKindServer:
		return trace.SpanKindServer
	case SpanKindClient:
		return trace.SpanKindClient
	case SpanKindProducer:
		return trace.SpanKindProducer
	case SpanKindConsumer:
		return trace.SpanKindConsumer
	default:
		return trace.SpanKindInternal
	}
}

// SpanOption configures span creation.
type SpanOption interface {
	apply(*spanConfig)
}

type spanConfig struct {
	kind       SpanKind
	attributes []Field
}

type spanOptionFunc func(*spanConfig)

func (f spanOptionFunc) apply(c *spanConfig) {
	f(c)
}

// WithSpanKind sets the span kind.
func WithSpanKind(kind SpanKind) SpanOption {
	return spanOptionFunc(func(c *spanConfig) {
		c.kind = kind
	})
}

// WithSpanAttributes sets initial attributes on the span.
func WithSpanAttributes(fields ...Field) SpanOption {
	return spanOptionFunc(func(c *spanConfig) {
		c.attributes = append(c.attributes, fields...)
	})
}

// Span wraps an active trace span.
type Span struct {
	span trace.Span
}

// End finishes the span. No further operations should be performed on the
// span after calling End.
func (s Span) End() {
	s.span.End()
}

// SetAttributes sets additional attributes on the span.
func (s Span) SetAttributes(fields ...Field) {
	s.span.SetAttributes(fieldsToAttributes(fields)...)
}

// SetStatus sets the status of the span.
func (s Span) SetStatus(code StatusCode, description string) {
	switch code {
	case StatusCodeOK:
		s.span.SetStatus(codes.Ok, description)
	case StatusCodeError:
		s.span.SetStatus(codes.Error, description)
	default:
		s.span.SetStatus(codes.Unset, description)
	}
}

// RecordError records an error as an event on the span.
func (s Span) RecordError(err error, fields ...Field) {
	s.span.RecordError(err, trace.WithAttributes(fieldsToAttributes(fields)...))
}

// AddEvent adds an event to the span.
func (s Span) AddEvent(name string, fields ...Field) {
	s.span.AddEvent(name, trace.WithAttributes(fieldsToAttributes(fields)...))
}

// SpanContext returns the underlying span context for propagation.
func (s Span) SpanContext() trace.SpanContext {
	return s.span.SpanContext()
}

// Unwrap exposes the underlying OpenTelemetry span for interop with
// instrumentation that expects the SDK type.
func (s Span) Unwrap() trace.Span {
	return s.span
}

// StartSpan starts a span as a child of the span in ctx, or a root span when
// ctx carries none. The caller must End it.
func (p *Provider) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span) {
	cfg := spanConfig{}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	p.mu.RLock()
	tracer := p.tracer
	p.mu.RUnlock()

	if ctx == nil {
		ctx = context.Background()
	}

	startOpts := []trace.SpanStartOption{trace.WithSpanKind(cfg.kind.otelKind())}
	if len(cfg.attributes) > 0 {
		startOpts = append(startOpts, trace.WithAttributes(fieldsToAttributes(cfg.attributes)...))
	}

	ctx, span := tracer.Start(ctx, name, startOpts...)
	return ctx, Span{span: span}
}

// WithSpan runs fn inside a span and guarantees the span ends. A returned
// error or a panic marks the span's status and records the failure; panics
// are re-raised after the span is closed.
func (p *Provider) WithSpan(ctx context.Context, name string, fn func(ctx context.Context, span Span) error, opts ...SpanOption) (err error) {
	ctx, span := p.StartSpan(ctx, name, opts...)
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			panicErr := fmt.Errorf("panic: %v", r)
			span.RecordError(panicErr)
			span.SetStatus(StatusCodeError, panicErr.Error())
			panic(r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(StatusCodeError, err.Error())
		}
	}()

	return fn(ctx, span)
}
