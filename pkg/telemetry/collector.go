package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"
)

// collectorLogExporter creates the OTLP log exporter for the configured
// protocol.
func collectorLogExporter(ctx context.Context, sink *CollectorSink) (sdklog.Exporter, error) {
	if normalizeProtocol(sink.Protocol) == ProtocolHTTP {
		opts := []otlploghttp.Option{
			otlploghttp.WithEndpoint(sink.Endpoint),
		}
		if len(sink.Headers) > 0 {
			opts = append(opts, otlploghttp.WithHeaders(sink.Headers))
		}
		if sink.Insecure {
			opts = append(opts, otlploghttp.WithInsecure())
		} else if sink.TLS != nil {
			opts = append(opts, otlploghttp.WithTLSClientConfig(sink.TLS))
		}
		return otlploghttp.New(ctx, opts...)
	}

	opts := []otlploggrpc.Option{
		otlploggrpc.WithEndpoint(sink.Endpoint),
	}
	if len(sink.Headers) > 0 {
		opts = append(opts, otlploggrpc.WithHeaders(sink.Headers))
	}
	if sink.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	} else if sink.TLS != nil {
		opts = append(opts, otlploggrpc.WithTLSCredentials(credentials.NewTLS(sink.TLS)))
	}
	return otlploggrpc.New(ctx, opts...)
}

// collectorSpanExporter creates the OTLP span exporter for the configured
// protocol. Spans are forwarded unfiltered; level thresholds apply to logs
// only.
func collectorSpanExporter(ctx context.Context, sink *CollectorSink) (sdktrace.SpanExporter, error) {
	if normalizeProtocol(sink.Protocol) == ProtocolHTTP {
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(sink.Endpoint),
		}
		if len(sink.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(sink.Headers))
		}
		if sink.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		} else if sink.TLS != nil {
			opts = append(opts, otlptracehttp.WithTLSClientConfig(sink.TLS))
		}
		return otlptracehttp.New(ctx, opts...)
	}

	opts := []otlptracegrpc.Option{
		otlptracegrpc.WithEndpoint(sink.Endpoint),
	}
	if len(sink.Headers) > 0 {
		opts = append(opts, otlptracegrpc.WithHeaders(sink.Headers))
	}
	if sink.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else if sink.TLS != nil {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(sink.TLS)))
	}
	return otlptracegrpc.New(ctx, opts...)
}

// collectorMetricExporter creates the OTLP metric exporter for the
// configured protocol. It is driven by a periodic reader rather than pushed
// per-event.
func collectorMetricExporter(ctx context.Context, sink *CollectorSink) (sdkmetric.Exporter, error) {
	if normalizeProtocol(sink.Protocol) == ProtocolHTTP {
		opts := []otlpmetrichttp.Option{
			otlpmetrichttp.WithEndpoint(sink.Endpoint),
		}
		if len(sink.Headers) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(sink.Headers))
		}
		if sink.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		} else if sink.TLS != nil {
			opts = append(opts, otlpmetrichttp.WithTLSClientConfig(sink.TLS))
		}
		return otlpmetrichttp.New(ctx, opts...)
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(sink.Endpoint),
	}
	if len(sink.Headers) > 0 {
		opts = append(opts, otlpmetricgrpc.WithHeaders(sink.Headers))
	}
	if sink.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	} else if sink.TLS != nil {
		opts = append(opts, otlpmetricgrpc.WithTLSCredentials(credentials.NewTLS(sink.TLS)))
	}
	return otlpmetricgrpc.New(ctx, opts...)
}
