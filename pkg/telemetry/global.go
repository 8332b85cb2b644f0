package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/metric"
)

var (
	globalMu       sync.Mutex
	globalProvider *Provider
	testMode       bool
)

// SetTestMode toggles test mode. Under test mode repeated initialization
// reuses the installed provider, swapping its internals in place, so code
// holding a reference from a previous test keeps logging into the current
// test's sinks. Console color is also disabled.
func SetTestMode(enabled bool) {
	globalMu.Lock()
	defer globalMu.Unlock()
	testMode = enabled
}

func testModeEnabled() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return testMode
}

// Install makes p the package-global provider and returns the active
// instance. Outside test mode the newest install wins. Under test mode an
// already installed provider absorbs p's internals and stays installed, so
// the returned provider may differ from the argument.
func Install(p *Provider) *Provider {
	globalMu.Lock()
	defer globalMu.Unlock()

	if testMode && globalProvider != nil {
		globalProvider.replaceWith(p)
		return globalProvider
	}

	globalProvider = p
	return p
}

// Global returns the installed provider. It panics when called before New
// or Install; initialization order is a programming error, not a runtime
// condition.
func Global() *Provider {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalProvider == nil {
		panic("telemetry: global provider not initialized, call telemetry.New first")
	}
	return globalProvider
}

// installed returns the global provider without the initialization check.
func installed() *Provider {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalProvider
}

// Debug logs a debug-level message through the global provider.
func Debug(ctx context.Context, msg string, fields ...Field) {
	if p := installed(); p != nil {
		p.Debug(ctx, msg, fields...)
	}
}

// Info logs an info-level message through the global provider.
func Info(ctx context.Context, msg string, fields ...Field) {
	if p := installed(); p != nil {
		p.Info(ctx, msg, fields...)
	}
}

// Warn logs a warning-level message through the global provider.
func Warn(ctx context.Context, msg string, fields ...Field) {
	if p := installed(); p != nil {
		p.Warn(ctx, msg, fields...)
	}
}

// Error logs an error-level message through the global provider.
func Error(ctx context.Context, msg string, fields ...Field) {
	if p := installed(); p != nil {
		p.Error(ctx, msg, fields...)
	}
}

// Critical logs a critical-level message through the global provider.
func Critical(ctx context.Context, msg string, fields ...Field) {
	if p := installed(); p != nil {
		p.Critical(ctx, msg, fields...)
	}
}

// StartSpan starts a span through the global provider.
func StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span) {
	return Global().StartSpan(ctx, name, opts...)
}

// WithSpan runs fn inside a span through the global provider.
func WithSpan(ctx context.Context, name string, fn func(ctx context.Context, span Span) error, opts ...SpanOption) error {
	return Global().WithSpan(ctx, name, fn, opts...)
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return Global().Meter(name)
}

// Flush flushes the global provider, if one is installed.
func Flush(ctx context.Context) error {
	if p := installed(); p != nil {
		return p.Flush(ctx)
	}
	return nil
}

// Shutdown shuts down the global provider, if one is installed.
func Shutdown(ctx context.Context) error {
	if p := installed(); p != nil {
		return p.Shutdown(ctx)
	}
	return nil
}
