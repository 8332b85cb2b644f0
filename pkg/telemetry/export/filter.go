package export

import (
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// LevelFilter drops log records below a minimum severity. Records without a
// severity always pass; an unknown severity is never filtered out.
//
// The zero value is unusable: exporters receive their filter through the
// FromSeverity builder during provider assembly, and applying an unconfigured
// filter is a programmer error, not a runtime condition.
type LevelFilter struct {
	min        log.Severity
	configured bool
}

// NewLevelFilter creates a filter passing records at or above min. A min of
// log.SeverityUndefined passes everything.
func NewLevelFilter(min log.Severity) *LevelFilter {
	return &LevelFilter{min: min, configured: true}
}

// Apply returns the records that pass the threshold, preserving order and
// leaving the input untouched.
func (f *LevelFilter) Apply(records []sdklog.Record) []sdklog.Record {
	if f == nil || !f.configured {
		panic("telemetry/export: level filter applied before FromSeverity configured a threshold")
	}

	out := make([]sdklog.Record, 0, len(records))
	for _, rec := range records {
		sev := rec.Severity()
		if sev == log.SeverityUndefined || sev >= f.min {
			out = append(out, rec)
		}
	}
	return out
}
