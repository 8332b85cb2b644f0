package telemetry

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// Debug logs a debug-level message.
func (p *Provider) Debug(ctx context.Context, msg string, fields ...Field) {
	p.log(ctx, LevelDebug, msg, fields)
}

// Info logs an info-level message.
func (p *Provider) Info(ctx context.Context, msg string, fields ...Field) {
	p.log(ctx, LevelInfo, msg, fields)
}

// Warn logs a warning-level message.
func (p *Provider) Warn(ctx context.Context, msg string, fields ...Field) {
	p.log(ctx, LevelWarn, msg, fields)
}

// Error logs an error-level message.
func (p *Provider) Error(ctx context.Context, msg string, fields ...Field) {
	p.log(ctx, LevelError, msg, fields)
}

// Critical logs a message about a failure threatening the whole process.
func (p *Provider) Critical(ctx context.Context, msg string, fields ...Field) {
	p.log(ctx, LevelCritical, msg, fields)
}

// Log logs a message at an arbitrary level.
func (p *Provider) Log(ctx context.Context, level Level, msg string, fields ...Field) {
	p.log(ctx, level, msg, fields)
}

// log builds and emits one record. Records below the coarse floor (the
// minimum of all sink thresholds) are dropped here, before any processor
// sees them; records without a severity always pass. Trace context is
// attached by the SDK from ctx.
func (p *Provider) log(ctx context.Context, level Level, msg string, fields []Field) {
	p.mu.RLock()
	logger := p.logger
	floor := p.floor
	closed := p.closed
	p.mu.RUnlock()

	if closed || logger == nil {
		return
	}

	sev := level.Severity()
	if floor != log.SeverityUndefined && sev != log.SeverityUndefined && sev < floor {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	now := time.Now()
	var record log.Record
	record.SetTimestamp(now)
	record.SetObservedTimestamp(now)
	record.SetBody(log.StringValue(msg))
	record.SetSeverity(sev)
	record.SetSeverityText(level.String())
	record.AddAttributes(fieldsToLogKeyValues(fields)...)

	logger.Emit(ctx, record)
}

// Slog returns a slog logger feeding the same sinks, for code already
// written against log/slog.
func (p *Provider) Slog() *slog.Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.slogger
}

// newSlogBridge wires log/slog into the logger provider via the otelslog
// bridge, with the coarse floor applied in front of it so the slog path and
// the native path drop the same records.
func newSlogBridge(provider *sdklog.LoggerProvider, cfg *Config, floor log.Severity) *slog.Logger {
	handler := otelslog.NewHandler(
		cfg.ServiceName,
		otelslog.WithLoggerProvider(provider),
		otelslog.WithVersion(cfg.ServiceVersion),
	)
	return slog.New(&floorHandler{next: handler, floor: floor})
}

// floorHandler gates a slog handler on the coarse severity floor.
type floorHandler struct {
	next  slog.Handler
	floor log.Severity
}

func (h *floorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.floor != log.SeverityUndefined && slogSeverity(level) < h.floor {
		return false
	}
	return h.next.Enabled(ctx, level)
}

func (h *floorHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.next.Handle(ctx, record)
}

func (h *floorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &floorHandler{next: h.next.WithAttrs(attrs), floor: h.floor}
}

func (h *floorHandler) WithGroup(name string) slog.Handler {
	return &floorHandler{next: h.next.WithGroup(name), floor: h.floor}
}

// slogSeverity mirrors the otelslog bridge's level mapping (slog INFO is 0,
// severity INFO is 9, both scales move in lockstep).
func slogSeverity(level slog.Level) log.Severity {
	sev := int(level) + 9
	if sev < int(log.SeverityTrace1) {
		sev = int(log.SeverityTrace1)
	}
	if sev > int(log.SeverityFatal4) {
		sev = int(log.SeverityFatal4)
	}
	return log.Severity(sev)
}
