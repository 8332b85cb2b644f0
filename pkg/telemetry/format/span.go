package format

import (
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ConsoleSpan renders a finished span for the console: dimmed, abbreviated to
// span id, parent, elapsed time, status, attributes and events. Trace ids and
// the start timestamp are left to the file sink.
func (f *Formatter) ConsoleSpan(span sdktrace.ReadOnlySpan) string {
	out := f.paint(boldStyle, "SPAN: ") + "(" + span.Name() + ") " + joinParts(f.spanParts(span, false))
	return f.paint(dimStyle, out)
}

// FileSpan renders a finished span for the file sink with the full field set:
// trace id, trace state, ISO-8601 start time and span kind included.
func (f *Formatter) FileSpan(span sdktrace.ReadOnlySpan) string {
	return "SPAN: (" + span.Name() + ") " + joinParts(f.spanParts(span, true))
}

func (f *Formatter) spanParts(span sdktrace.ReadOnlySpan, file bool) []part {
	var parts []part

	if sc := span.SpanContext(); sc.IsValid() {
		parts = append(parts, part{"sid", "0x" + sc.SpanID().String()})
		if file {
			parts = append(parts, part{"tid", "0x" + sc.TraceID().String()})
			if state := sc.TraceState().String(); state != "" {
				parts = append(parts, part{"trace_state", state})
			}
		}
	}

	if parent := span.Parent(); parent.IsValid() {
		parts = append(parts, part{"pid", "0x" + parent.SpanID().String()})
	}

	if file && !span.StartTime().IsZero() {
		parts = append(parts, part{"start", isoTime(span.StartTime())})
	}

	// Elapsed is omitted while the span is still open.
	if !span.StartTime().IsZero() && !span.EndTime().IsZero() {
		parts = append(parts, part{"elapsed", FormatDuration(span.EndTime().Sub(span.StartTime()))})
	}

	if status := span.Status(); status.Code != codes.Unset {
		value := strings.ToUpper(status.Code.String())
		if status.Description != "" {
			value += ": " + status.Description
		}
		parts = append(parts, part{"status", value})
	}

	if file {
		parts = append(parts, part{"kind", span.SpanKind().String()})
	}

	if attrs := span.Attributes(); len(attrs) > 0 {
		parts = append(parts, part{"attrs", formatAttributes(attrs)})
	}

	if events := span.Events(); len(events) > 0 {
		names := make([]string, 0, len(events))
		for _, event := range events {
			names = append(names, event.Name)
		}
		parts = append(parts, part{"events", "[" + strings.Join(names, " ") + "]"})
	}

	if links := span.Links(); len(links) > 0 {
		ids := make([]string, 0, len(links))
		for _, link := range links {
			ids = append(ids, "0x"+link.SpanContext.SpanID().String())
		}
		parts = append(parts, part{"links", "[" + strings.Join(ids, " ") + "]"})
	}

	return parts
}

func formatAttributes(attrs []attribute.KeyValue) string {
	elems := make([]string, 0, len(attrs))
	for _, kv := range attrs {
		elems = append(elems, string(kv.Key)+"="+kv.Value.Emit())
	}
	return "{" + strings.Join(elems, " ") + "}"
}
