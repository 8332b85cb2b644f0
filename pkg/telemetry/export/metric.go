package export

import (
	"context"
	"errors"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// MetricFormatFunc renders a collected batch of metrics as entries, one per
// instrument.
type MetricFormatFunc func(rm *metricdata.ResourceMetrics) []string

// MetricExporter implements sdkmetric.Exporter by formatting each periodic
// collection and writing it to a Sink. It is driven by a periodic reader, not
// per-event, and applies no level filtering.
type MetricExporter struct {
	sink   Sink
	format MetricFormatFunc
}

// NewMetricExporter creates a metric exporter writing formatted collections
// to sink.
func NewMetricExporter(sink Sink, format MetricFormatFunc) *MetricExporter {
	return &MetricExporter{sink: sink, format: format}
}

func (e *MetricExporter) Temporality(kind sdkmetric.InstrumentKind) metricdata.Temporality {
	return sdkmetric.DefaultTemporalitySelector(kind)
}

func (e *MetricExporter) Aggregation(kind sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.DefaultAggregationSelector(kind)
}

// Export writes one entry per instrument, joining per-entry failures into
// the batch result.
func (e *MetricExporter) Export(ctx context.Context, rm *metricdata.ResourceMetrics) error {
	var errs []error
	for _, line := range e.format(rm) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := e.sink.WriteEntry(line); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (e *MetricExporter) ForceFlush(ctx context.Context) error {
	return e.sink.Flush()
}

func (e *MetricExporter) Shutdown(ctx context.Context) error {
	return e.sink.Close()
}
