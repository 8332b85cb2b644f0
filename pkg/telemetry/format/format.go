// Package format renders telemetry records (logs, spans, metrics) as
// human-readable lines. Each record kind has two flavors: a colorized,
// abbreviated console form and a plain, fully-qualified file form.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.opentelemetry.io/otel/log"
)

var (
	debugStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	unknownStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	boldStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	whereStyle    = lipgloss.NewStyle().Faint(true).Italic(true)
)

// Formatter renders records with or without terminal color markup. The zero
// value renders plain text.
type Formatter struct {
	color bool
}

// New creates a Formatter. Color should only be enabled when the output is an
// interactive terminal.
func New(color bool) *Formatter {
	return &Formatter{color: color}
}

func (f *Formatter) paint(style lipgloss.Style, s string) string {
	if !f.color {
		return s
	}
	return style.Render(s)
}

// levelLabel maps a severity onto the fixed 5-bucket label scale. A severity
// exactly at a bucket's upper cut point belongs to that bucket.
func levelLabel(sev log.Severity) (string, lipgloss.Style) {
	switch {
	case sev <= log.SeverityDebug4:
		return "DEBUG", debugStyle
	case sev <= log.SeverityInfo4:
		return "INFO", infoStyle
	case sev <= log.SeverityWarn4:
		return "WARN", warnStyle
	case sev <= log.SeverityError4:
		return "ERROR", errorStyle
	default:
		return "CRITICAL", criticalStyle
	}
}

// part is one key=value element of a record's trailing "where" clause.
// Rendering keeps insertion order.
type part struct {
	key   string
	value string
}

func joinParts(parts []part) string {
	elems := make([]string, 0, len(parts))
	for _, p := range parts {
		elems = append(elems, p.key+"="+p.value)
	}
	return strings.Join(elems, " ")
}

// isoTime renders a timestamp as ISO-8601 with microsecond precision in UTC.
func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z07:00")
}

// FormatDuration renders an elapsed duration on a 4-tier unit scale:
// nanoseconds, microseconds, milliseconds (one decimal), seconds (two
// decimals).
func FormatDuration(d time.Duration) string {
	ns := d.Nanoseconds()
	switch {
	case ns < 1_000:
		return strconv.FormatInt(ns, 10) + "ns"
	case ns < 1_000_000:
		return fmt.Sprintf("%gμs", float64(ns)/1_000)
	case ns < 1_000_000_000:
		return fmt.Sprintf("%.1fms", float64(ns)/1_000_000)
	default:
		return fmt.Sprintf("%.2fs", float64(ns)/1_000_000_000)
	}
}

// logValueString renders a log attribute or body value as plain text.
func logValueString(v log.Value) string {
	switch v.Kind() {
	case log.KindString:
		return v.AsString()
	case log.KindInt64:
		return strconv.FormatInt(v.AsInt64(), 10)
	case log.KindFloat64:
		return strconv.FormatFloat(v.AsFloat64(), 'g', -1, 64)
	case log.KindBool:
		return strconv.FormatBool(v.AsBool())
	case log.KindEmpty:
		return ""
	default:
		return v.String()
	}
}
