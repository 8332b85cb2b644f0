package format

import (
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// ConsoleMetrics renders a periodic metric collection as one dimmed line per
// instrument.
func (f *Formatter) ConsoleMetrics(rm *metricdata.ResourceMetrics) []string {
	lines := f.metricLines(rm)
	for i, line := range lines {
		lines[i] = f.paint(dimStyle, line)
	}
	return lines
}

// FileMetrics renders a periodic metric collection as one plain line per
// instrument.
func (f *Formatter) FileMetrics(rm *metricdata.ResourceMetrics) []string {
	return f.metricLines(rm)
}

func (f *Formatter) metricLines(rm *metricdata.ResourceMetrics) []string {
	var lines []string
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			parts := []part{{"name", m.Name}}
			if m.Description != "" {
				parts = append(parts, part{"description", m.Description})
			}
			if m.Unit != "" {
				parts = append(parts, part{"unit", m.Unit})
			}
			parts = append(parts, part{"data", formatAggregation(m.Data)})
			lines = append(lines, "METRIC: "+joinParts(parts))
		}
	}
	return lines
}

// formatAggregation renders the aggregated payload of an instrument. Unknown
// aggregation kinds fall back to their type name so formatting never fails.
func formatAggregation(data metricdata.Aggregation) string {
	switch agg := data.(type) {
	case metricdata.Sum[int64]:
		return "Sum" + intPoints(agg.DataPoints)
	case metricdata.Sum[float64]:
		return "Sum" + floatPoints(agg.DataPoints)
	case metricdata.Gauge[int64]:
		return "Gauge" + intPoints(agg.DataPoints)
	case metricdata.Gauge[float64]:
		return "Gauge" + floatPoints(agg.DataPoints)
	case metricdata.Histogram[int64]:
		return "Histogram" + histogramPoints(agg.DataPoints)
	case metricdata.Histogram[float64]:
		return "Histogram" + histogramPoints(agg.DataPoints)
	default:
		return fmt.Sprintf("%T", data)
	}
}

func intPoints(points []metricdata.DataPoint[int64]) string {
	values := make([]string, 0, len(points))
	for _, dp := range points {
		values = append(values, strconv.FormatInt(dp.Value, 10))
	}
	return "[" + strings.Join(values, " ") + "]"
}

func floatPoints(points []metricdata.DataPoint[float64]) string {
	values := make([]string, 0, len(points))
	for _, dp := range points {
		values = append(values, strconv.FormatFloat(dp.Value, 'g', -1, 64))
	}
	return "[" + strings.Join(values, " ") + "]"
}

func histogramPoints[N int64 | float64](points []metricdata.HistogramDataPoint[N]) string {
	values := make([]string, 0, len(points))
	for _, dp := range points {
		values = append(values, fmt.Sprintf("count=%d sum=%v", dp.Count, dp.Sum))
	}
	return "[" + strings.Join(values, " ") + "]"
}
