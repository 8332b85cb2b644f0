package format

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/trace"
)

// recordSpec describes one log record to synthesize through the SDK.
type recordSpec struct {
	severity log.Severity
	body     string
	attrs    []log.KeyValue
	traced   bool
}

var (
	testTraceID = trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	testSpanID  = trace.SpanID{0xaa, 0xbb, 0xcc, 0xdd, 0x01, 0x02, 0x03, 0x04}
)

type captureExporter struct {
	records []sdklog.Record
}

func (c *captureExporter) Export(ctx context.Context, records []sdklog.Record) error {
	for _, rec := range records {
		c.records = append(c.records, rec.Clone())
	}
	return nil
}

func (c *captureExporter) ForceFlush(context.Context) error { return nil }
func (c *captureExporter) Shutdown(context.Context) error   { return nil }

// makeRecord pushes spec through a real SDK pipeline and returns the
// resulting record.
func makeRecord(t *testing.T, spec recordSpec) sdklog.Record {
	t.Helper()

	capture := &captureExporter{}
	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewSimpleProcessor(capture)),
	)
	logger := provider.Logger("format_test")

	ctx := context.Background()
	if spec.traced {
		ctx = trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    testTraceID,
			SpanID:     testSpanID,
			TraceFlags: trace.FlagsSampled,
		}))
	}

	var rec log.Record
	rec.SetSeverity(spec.severity)
	if spec.body != "" {
		rec.SetBody(log.StringValue(spec.body))
	}
	rec.AddAttributes(spec.attrs...)
	logger.Emit(ctx, rec)

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown record pipeline: %v", err)
	}
	if len(capture.records) != 1 {
		t.Fatalf("got %d records, want 1", len(capture.records))
	}
	return capture.records[0]
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Nanosecond, "500ns"},
		{1500 * time.Nanosecond, "1.5μs"},
		{time.Microsecond, "1μs"},
		{2500 * time.Microsecond, "2.5ms"},
		{1500 * time.Millisecond, "1.50s"},
		{time.Minute, "60.00s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestLevelLabelBuckets(t *testing.T) {
	tests := []struct {
		sev  log.Severity
		want string
	}{
		{log.SeverityTrace1, "DEBUG"},
		{log.SeverityDebug, "DEBUG"},
		{log.SeverityDebug4, "DEBUG"},
		{log.SeverityInfo, "INFO"},
		{log.SeverityInfo4, "INFO"},
		{log.SeverityWarn1, "WARN"},
		{log.SeverityError4, "ERROR"},
		{log.SeverityFatal, "CRITICAL"},
		{log.SeverityFatal4, "CRITICAL"},
	}

	for _, tt := range tests {
		if got, _ := levelLabel(tt.sev); got != tt.want {
			t.Errorf("levelLabel(%d) = %q, want %q", tt.sev, got, tt.want)
		}
	}
}

func TestConsoleLogPlain(t *testing.T) {
	f := New(false)
	rec := makeRecord(t, recordSpec{severity: log.SeverityInfo, body: "service started"})

	if got, want := f.ConsoleLog(rec, false), "INFO: service started"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConsoleLogMultilineIndent(t *testing.T) {
	f := New(false)
	rec := makeRecord(t, recordSpec{severity: log.SeverityError, body: "first line\nsecond line\nthird line"})

	got := f.ConsoleLog(rec, false)
	want := "ERROR: first line\n       second line\n       third line"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConsoleLogWhereClause(t *testing.T) {
	f := New(false)
	rec := makeRecord(t, recordSpec{
		severity: log.SeverityWarn,
		body:     "retrying",
		attrs:    []log.KeyValue{log.Int("attempt", 3), log.String("target", "db")},
		traced:   true,
	})

	got := f.ConsoleLog(rec, true)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), got)
	}
	if lines[0] != "WARN: retrying" {
		t.Errorf("first line = %q", lines[0])
	}
	where := lines[1]
	if !strings.HasPrefix(where, "    where ") {
		t.Errorf("where clause = %q", where)
	}
	for _, want := range []string{"sid=0x" + testSpanID.String(), "attempt=3", "target=db"} {
		if !strings.Contains(where, want) {
			t.Errorf("where clause %q missing %q", where, want)
		}
	}
	if strings.Contains(where, "tid=") {
		t.Errorf("console log should not carry trace id: %q", where)
	}
}

func TestConsoleLogHidesSpanIDsWhenDisabled(t *testing.T) {
	f := New(false)
	rec := makeRecord(t, recordSpec{severity: log.SeverityInfo, body: "x", traced: true})

	if got := f.ConsoleLog(rec, false); strings.Contains(got, "sid=") {
		t.Errorf("span id leaked with showSpanIDs=false: %q", got)
	}
}

func TestConsoleLogUnknownLevelAndEmptyBody(t *testing.T) {
	f := New(false)
	rec := makeRecord(t, recordSpec{severity: log.SeverityUndefined})

	if got, want := f.ConsoleLog(rec, false), "UNKNOWN LVL: NO MESSAGE"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFileLogFullFieldSet(t *testing.T) {
	f := New(false)
	rec := makeRecord(t, recordSpec{
		severity: log.SeverityInfo,
		body:     "persisted",
		attrs:    []log.KeyValue{log.String("table", "orders")},
		traced:   true,
	})

	got := f.FileLog(rec)
	for _, want := range []string{
		"INFO: persisted",
		"sid=0x" + testSpanID.String(),
		"tid=0x" + testTraceID.String(),
		"ts=",
		"table=orders",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("file log %q missing %q", got, want)
		}
	}
}

func TestIsoTime(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 123456789, time.UTC)
	if got, want := isoTime(ts), "2026-01-02T03:04:05.123456Z"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
