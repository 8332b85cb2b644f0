// Package telemetry is a thin, opinionated configuration layer over the
// OpenTelemetry SDK. It fans a single log/span/metric stream out to any
// combination of three sinks (console, rotating file, OTLP collector),
// applying per-sink level filtering to logs and human-readable formatting to
// the local sinks. Batching, transport and span context propagation stay the
// SDK's job.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/JailtonJunior94/telemetry-go/pkg/telemetry/export"
	"github.com/JailtonJunior94/telemetry-go/pkg/telemetry/format"
	"github.com/JailtonJunior94/telemetry-go/pkg/telemetry/rotatefile"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const defaultShutdownTimeout = 15 * time.Second

// Provider owns the assembled log, trace and metric pipelines. It is built
// once at process start from a Config and lives for the process lifetime or
// until Shutdown.
type Provider struct {
	mu     sync.RWMutex
	cfg    Config
	floor  log.Severity
	diag   *zap.Logger
	closed bool

	loggerProvider *sdklog.LoggerProvider
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	fileWriter     *rotatefile.Writer

	tracer  trace.Tracer
	logger  log.Logger
	slogger *slog.Logger
}

// New assembles a Provider from cfg, registers it with the OpenTelemetry
// globals and installs it as this package's active provider. When a
// collector sink is configured but unreachable, assembly fails fast rather
// than silently dropping remote telemetry.
//
// The returned provider is the one actually active: under test mode an
// already-installed provider is reused with its internals replaced.
func New(ctx context.Context, cfg *Config) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("telemetry: config cannot be nil")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	diag := cfg.diagnostics()

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create resource: %w", err)
	}

	if cfg.Collector != nil {
		if err := probeCollector(cfg.Collector.Endpoint); err != nil {
			return nil, err
		}
	}

	p := &Provider{
		cfg:   *cfg,
		floor: cfg.floorSeverity(),
		diag:  diag,
	}

	logOpts := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}
	traceOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(cfg.sampler()),
	}
	metricOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if cfg.Collector != nil {
		sink := cfg.Collector

		logExporter, err := collectorLogExporter(ctx, sink)
		if err != nil {
			return nil, fmt.Errorf("telemetry: create collector log exporter: %w", err)
		}
		logOpts = append(logOpts, sdklog.WithProcessor(sdklog.NewBatchProcessor(
			export.NewFilteringLogExporter(logExporter).FromSeverity(sink.FromLevel.Severity()),
		)))

		spanExporter, err := collectorSpanExporter(ctx, sink)
		if err != nil {
			return nil, fmt.Errorf("telemetry: create collector span exporter: %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(spanExporter))

		metricExporter, err := collectorMetricExporter(ctx, sink)
		if err != nil {
			return nil, fmt.Errorf("telemetry: create collector metric exporter: %w", err)
		}
		metricOpts = append(metricOpts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(cfg.metricInterval())),
		))

		diag.Debug("telemetry: collector sink enabled",
			zap.String("endpoint", sink.Endpoint),
			zap.String("protocol", string(normalizeProtocol(sink.Protocol))),
			zap.Stringer("from_level", sink.FromLevel),
		)
	}

	if cfg.Console != nil {
		writer := cfg.Console.Writer
		if writer == nil {
			writer = os.Stdout
		}
		sink := export.NewStreamSink(writer)
		formatter := format.New(consoleColor(writer))
		showSpanIDs := cfg.Console.Spans

		logOpts = append(logOpts, sdklog.WithProcessor(sdklog.NewBatchProcessor(
			export.NewLogExporter(sink, func(rec sdklog.Record) string {
				return formatter.ConsoleLog(rec, showSpanIDs)
			}).FromSeverity(cfg.Console.FromLevel.Severity()),
		)))

		if cfg.Console.Spans {
			traceOpts = append(traceOpts, sdktrace.WithBatcher(
				export.NewSpanExporter(sink, formatter.ConsoleSpan),
			))
		}
		if cfg.Console.Metrics {
			metricOpts = append(metricOpts, sdkmetric.WithReader(
				sdkmetric.NewPeriodicReader(
					export.NewMetricExporter(sink, formatter.ConsoleMetrics),
					sdkmetric.WithInterval(cfg.metricInterval()),
				),
			))
		}

		diag.Debug("telemetry: console sink enabled", zap.Stringer("from_level", cfg.Console.FromLevel))
	}

	if cfg.File != nil {
		fileWriter, err := rotatefile.New(rotatefile.Config{
			Path:       cfg.File.Path,
			MaxBytes:   cfg.File.MaxBytes,
			MaxBackups: cfg.File.MaxBackups,
		})
		if err != nil {
			return nil, err
		}
		p.fileWriter = fileWriter
		formatter := format.New(false)

		logOpts = append(logOpts, sdklog.WithProcessor(sdklog.NewBatchProcessor(
			export.NewLogExporter(fileWriter, formatter.FileLog).FromSeverity(cfg.File.FromLevel.Severity()),
		)))
		traceOpts = append(traceOpts, sdktrace.WithBatcher(
			export.NewSpanExporter(fileWriter, formatter.FileSpan),
		))
		metricOpts = append(metricOpts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				export.NewMetricExporter(fileWriter, formatter.FileMetrics),
				sdkmetric.WithInterval(cfg.metricInterval()),
			),
		))

		diag.Debug("telemetry: file sink enabled",
			zap.String("path", cfg.File.Path),
			zap.Stringer("from_level", cfg.File.FromLevel),
		)
	}

	p.loggerProvider = sdklog.NewLoggerProvider(logOpts...)
	p.tracerProvider = sdktrace.NewTracerProvider(traceOpts...)
	p.meterProvider = sdkmetric.NewMeterProvider(metricOpts...)

	p.tracer = p.tracerProvider.Tracer(cfg.ServiceName)
	p.logger = p.loggerProvider.Logger(cfg.ServiceName)
	p.slogger = newSlogBridge(p.loggerProvider, cfg, p.floor)

	registerOtelGlobals(p, diag)

	return Install(p), nil
}

// newResource tags the providers with static service identity: name,
// version, environment and host instance id.
func newResource(ctx context.Context, cfg *Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.ServiceInstanceID(instanceID()),
	}
	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(cfg.Environment))
	}
	for k, v := range cfg.ResourceAttributes {
		attrs = append(attrs, attribute.String(k, v))
	}

	return resource.New(ctx, resource.WithAttributes(attrs...))
}

func instanceID() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return uuid.NewString()
}

// consoleColor enables color only for interactive terminals, and never under
// test mode where output is matched by regexes.
func consoleColor(w io.Writer) bool {
	if testModeEnabled() {
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// registerOtelGlobals installs the assembled providers as the SDK-wide
// defaults, so auto-instrumentation libraries pick them up, and routes the
// SDK's asynchronous export failures to the diagnostics logger.
func registerOtelGlobals(p *Provider, diag *zap.Logger) {
	otel.SetTracerProvider(p.tracerProvider)
	otel.SetMeterProvider(p.meterProvider)
	global.SetLoggerProvider(p.loggerProvider)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		diag.Warn("telemetry: asynchronous export failure", zap.Error(err))
	}))
}

// LoggerProvider exposes the log provider for auto-instrumentation.
func (p *Provider) LoggerProvider() *sdklog.LoggerProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loggerProvider
}

// TracerProvider exposes the trace provider for auto-instrumentation.
func (p *Provider) TracerProvider() *sdktrace.TracerProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracerProvider
}

// MeterProvider exposes the metric provider for auto-instrumentation.
func (p *Provider) MeterProvider() *sdkmetric.MeterProvider {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meterProvider
}

// Meter returns a named meter for creating counters and histograms.
func (p *Provider) Meter(name string) metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meterProvider.Meter(name)
}

// Flush blocks until every buffered record has been handed to its sinks.
// Useful before process exit and in tests.
func (p *Provider) Flush(ctx context.Context) error {
	p.mu.RLock()
	tracerProvider := p.tracerProvider
	loggerProvider := p.loggerProvider
	meterProvider := p.meterProvider
	fileWriter := p.fileWriter
	closed := p.closed
	p.mu.RUnlock()

	if closed {
		return nil
	}

	ctx, cancel := ensureValidContext(ctx)
	defer cancel()

	var errs []error
	if err := tracerProvider.ForceFlush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer: %w", err))
	}
	if err := loggerProvider.ForceFlush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("logger: %w", err))
	}
	if err := meterProvider.ForceFlush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("meter: %w", err))
	}
	if fileWriter != nil {
		if err := fileWriter.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Shutdown flushes then releases all owned resources. Idempotent, and safe
// to call even if some sinks were never used.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	tracerProvider := p.tracerProvider
	loggerProvider := p.loggerProvider
	meterProvider := p.meterProvider
	fileWriter := p.fileWriter
	p.mu.Unlock()

	ctx, cancel := ensureValidContext(ctx)
	defer cancel()

	var errs []error
	if err := tracerProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer: %w", err))
	}
	if err := loggerProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("logger: %w", err))
	}
	if err := meterProvider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("meter: %w", err))
	}
	if fileWriter != nil {
		if err := fileWriter.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ensureValidContext guarantees flush/shutdown always run under a usable
// deadline, even when handed a cancelled or unbounded context.
func ensureValidContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil || ctx.Err() != nil {
		return context.WithTimeout(context.Background(), defaultShutdownTimeout)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, defaultShutdownTimeout)
	}
	return ctx, func() {}
}

// replaceWith swaps this provider's internals for next's, in place. Used
// under test mode so repeated initialization reconfigures the already
// installed instance instead of stacking new globals.
func (p *Provider) replaceWith(next *Provider) {
	next.mu.RLock()
	cfg := next.cfg
	floor := next.floor
	diag := next.diag
	loggerProvider := next.loggerProvider
	tracerProvider := next.tracerProvider
	meterProvider := next.meterProvider
	fileWriter := next.fileWriter
	tracer := next.tracer
	logger := next.logger
	slogger := next.slogger
	next.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = cfg
	p.floor = floor
	p.diag = diag
	p.loggerProvider = loggerProvider
	p.tracerProvider = tracerProvider
	p.meterProvider = meterProvider
	p.fileWriter = fileWriter
	p.tracer = tracer
	p.logger = logger
	p.slogger = slogger
	p.closed = false
}
