package export

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// LogFormatFunc renders one log record as a (possibly multi-line) entry.
type LogFormatFunc func(rec sdklog.Record) string

// LogExporter implements sdklog.Exporter by filtering a batch through a
// LevelFilter, formatting each surviving record and writing it to a Sink.
// The console and file log exporters are both this type with different sinks
// and formatter variants.
type LogExporter struct {
	sink   Sink
	format LogFormatFunc
	filter *LevelFilter
}

// NewLogExporter creates a log exporter writing formatted records to sink.
// FromSeverity must be called before the exporter receives a batch.
func NewLogExporter(sink Sink, format LogFormatFunc) *LogExporter {
	return &LogExporter{sink: sink, format: format}
}

// FromSeverity configures the minimum severity this exporter lets through
// and returns the exporter for chaining.
func (e *LogExporter) FromSeverity(min log.Severity) *LogExporter {
	e.filter = NewLevelFilter(min)
	return e
}

// Export writes the filtered batch in order. A failed entry does not stop
// the rest of the batch; errors are joined into the batch result.
func (e *LogExporter) Export(ctx context.Context, records []sdklog.Record) error {
	var errs []error
	for _, rec := range e.filter.Apply(records) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := e.sink.WriteEntry(e.format(rec)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *LogExporter) ForceFlush(ctx context.Context) error {
	return e.sink.Flush()
}

func (e *LogExporter) Shutdown(ctx context.Context) error {
	return e.sink.Close()
}

// FilteringLogExporter decorates a transport exporter (the OTLP collector
// exporter) with a LevelFilter. Records are forwarded unformatted; rendering
// is the remote side's job.
type FilteringLogExporter struct {
	next   sdklog.Exporter
	filter *LevelFilter
}

// NewFilteringLogExporter wraps next. FromSeverity must be called before the
// exporter receives a batch.
func NewFilteringLogExporter(next sdklog.Exporter) *FilteringLogExporter {
	return &FilteringLogExporter{next: next}
}

// FromSeverity configures the minimum severity this exporter lets through
// and returns the exporter for chaining.
func (e *FilteringLogExporter) FromSeverity(min log.Severity) *FilteringLogExporter {
	e.filter = NewLevelFilter(min)
	return e
}

func (e *FilteringLogExporter) Export(ctx context.Context, records []sdklog.Record) error {
	filtered := e.filter.Apply(records)
	if len(filtered) == 0 {
		return nil
	}
	return e.next.Export(ctx, filtered)
}

func (e *FilteringLogExporter) ForceFlush(ctx context.Context) error {
	return e.next.ForceFlush(ctx)
}

func (e *FilteringLogExporter) Shutdown(ctx context.Context) error {
	return e.next.Shutdown(ctx)
}
