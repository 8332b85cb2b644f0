package format

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// ConsoleLog renders a log record for a live console: colorized level label,
// body with aligned continuation lines and a dim "where" clause carrying the
// span id (when showSpanIDs is set) and any attributes. Timestamps and trace
// ids are omitted, the console is a nearby stream.
func (f *Formatter) ConsoleLog(rec sdklog.Record, showSpanIDs bool) string {
	label, style := logLabel(rec)
	prefix := label + ": "

	out := f.paint(style, prefix) + indentBody(bodyText(rec), len(prefix))

	var parts []part
	if showSpanIDs && rec.SpanID().IsValid() {
		parts = append(parts, part{"sid", "0x" + rec.SpanID().String()})
	}
	parts = appendAttributeParts(parts, rec)

	if len(parts) > 0 {
		out += "\n" + f.paint(whereStyle, "    where "+joinParts(parts))
	}
	return out
}

// FileLog renders a log record for the file sink: plain text, full field set
// including the observed timestamp in ISO-8601 and trace/span ids.
func (f *Formatter) FileLog(rec sdklog.Record) string {
	label, _ := logLabel(rec)
	prefix := label + ": "

	out := prefix + indentBody(bodyText(rec), len(prefix))

	var parts []part
	if rec.SpanID().IsValid() {
		parts = append(parts, part{"sid", "0x" + rec.SpanID().String()})
	}
	parts = append(parts, part{"ts", isoTime(rec.ObservedTimestamp())})
	if rec.TraceID().IsValid() {
		parts = append(parts, part{"tid", "0x" + rec.TraceID().String()})
	}
	parts = appendAttributeParts(parts, rec)

	if len(parts) > 0 {
		out += "\n" + "    where " + joinParts(parts)
	}
	return out
}

func logLabel(rec sdklog.Record) (string, lipgloss.Style) {
	if rec.Severity() == log.SeverityUndefined {
		return "UNKNOWN LVL", unknownStyle
	}
	label, style := levelLabel(rec.Severity())
	return label, style
}

func bodyText(rec sdklog.Record) string {
	body := rec.Body()
	if body.Kind() == log.KindEmpty {
		return "NO MESSAGE"
	}
	text := logValueString(body)
	if text == "" {
		return "NO MESSAGE"
	}
	return text
}

// indentBody left-pads continuation lines so they align under the first
// line's text, keeping multi-line messages diff-friendly.
func indentBody(body string, width int) string {
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	if len(lines) == 1 {
		return lines[0]
	}

	pad := strings.Repeat(" ", width)
	var b strings.Builder
	b.WriteString(lines[0])
	for _, line := range lines[1:] {
		b.WriteString("\n")
		b.WriteString(pad)
		b.WriteString(line)
	}
	return b.String()
}

func appendAttributeParts(parts []part, rec sdklog.Record) []part {
	rec.WalkAttributes(func(kv log.KeyValue) bool {
		parts = append(parts, part{kv.Key, logValueString(kv.Value)})
		return true
	})
	return parts
}
