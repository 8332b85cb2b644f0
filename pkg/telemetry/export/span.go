package export

import (
	"context"
	"errors"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SpanFormatFunc renders one finished span as an entry.
type SpanFormatFunc func(span sdktrace.ReadOnlySpan) string

// SpanExporter implements sdktrace.SpanExporter by formatting each span and
// writing it to a Sink. Spans are not level-filtered: once a sink is
// configured, every finished span reaches it.
type SpanExporter struct {
	sink   Sink
	format SpanFormatFunc
}

// NewSpanExporter creates a span exporter writing formatted spans to sink.
func NewSpanExporter(sink Sink, format SpanFormatFunc) *SpanExporter {
	return &SpanExporter{sink: sink, format: format}
}

// ExportSpans writes the batch in order, joining per-entry failures into the
// batch result.
func (e *SpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	var errs []error
	for _, span := range spans {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := e.sink.WriteEntry(e.format(span)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *SpanExporter) Shutdown(ctx context.Context) error {
	return e.sink.Close()
}
