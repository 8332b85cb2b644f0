package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestParseConfig(t *testing.T) {
	data := []byte(`
service_name: checkout
service_version: 1.4.2
environment: staging
console:
  from_level: INFO
  spans: true
file:
  from_level: DEBUG
  path: /var/log/checkout.log
  max_bytes: 1048576
  max_backups: 3
collector:
  from_level: WARN
  endpoint: otel-collector:4317
  protocol: grpc
  insecure: true
  headers:
    x-tenant: acme
resource_attributes:
  region: us-east-1
trace_sample_rate: 0.25
metric_interval: 30s
`)

	cfg, err := ParseConfig(data)
	require.NoError(t, err)

	assert.Equal(t, "checkout", cfg.ServiceName)
	assert.Equal(t, "1.4.2", cfg.ServiceVersion)
	assert.Equal(t, "staging", cfg.Environment)

	require.NotNil(t, cfg.Console)
	assert.Equal(t, LevelInfo, cfg.Console.FromLevel)
	assert.True(t, cfg.Console.Spans)
	assert.False(t, cfg.Console.Metrics)

	require.NotNil(t, cfg.File)
	assert.Equal(t, LevelDebug, cfg.File.FromLevel)
	assert.Equal(t, "/var/log/checkout.log", cfg.File.Path)
	assert.Equal(t, int64(1048576), cfg.File.MaxBytes)
	assert.Equal(t, 3, cfg.File.MaxBackups)

	require.NotNil(t, cfg.Collector)
	assert.Equal(t, LevelWarn, cfg.Collector.FromLevel)
	assert.Equal(t, "otel-collector:4317", cfg.Collector.Endpoint)
	assert.True(t, cfg.Collector.Insecure)
	assert.Equal(t, "acme", cfg.Collector.Headers["x-tenant"])

	assert.Equal(t, "us-east-1", cfg.ResourceAttributes["region"])
	assert.InDelta(t, 0.25, cfg.TraceSampleRate, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.MetricInterval)
}

func TestParseConfigInvalidYAML(t *testing.T) {
	_, err := ParseConfig([]byte("service_name: [unterminated"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "minimal valid config",
			config:  Config{ServiceName: "svc"},
			wantErr: false,
		},
		{
			name:    "missing service name",
			config:  Config{},
			wantErr: true,
		},
		{
			name:    "file sink without path",
			config:  Config{ServiceName: "svc", File: &FileSink{}},
			wantErr: true,
		},
		{
			name:    "file sink negative backups",
			config:  Config{ServiceName: "svc", File: &FileSink{Path: "a.log", MaxBackups: -1}},
			wantErr: true,
		},
		{
			name:    "collector sink without endpoint",
			config:  Config{ServiceName: "svc", Collector: &CollectorSink{}},
			wantErr: true,
		},
		{
			name:    "sample rate above one",
			config:  Config{ServiceName: "svc", TraceSampleRate: 1.5},
			wantErr: true,
		},
		{
			name:    "negative sample rate",
			config:  Config{ServiceName: "svc", TraceSampleRate: -0.1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFloorSeverity(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   log.Severity
	}{
		{
			name:   "no sinks means no floor",
			config: Config{},
			want:   log.SeverityUndefined,
		},
		{
			name: "single sink sets the floor",
			config: Config{
				Console: &ConsoleSink{FromLevel: LevelWarn},
			},
			want: log.SeverityWarn,
		},
		{
			name: "floor is the minimum across sinks",
			config: Config{
				Console:   &ConsoleSink{FromLevel: LevelError},
				File:      &FileSink{FromLevel: LevelDebug},
				Collector: &CollectorSink{FromLevel: LevelWarn},
			},
			want: log.SeverityDebug,
		},
		{
			name: "one unset sink drops the floor entirely",
			config: Config{
				Console: &ConsoleSink{FromLevel: LevelError},
				File:    &FileSink{FromLevel: LevelNotset},
			},
			want: log.SeverityUndefined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.config.floorSeverity())
		})
	}
}

func TestSampler(t *testing.T) {
	always := sdktrace.AlwaysSample().Description()

	zero := Config{}
	assert.Equal(t, always, zero.sampler().Description())

	full := Config{TraceSampleRate: 1}
	assert.Equal(t, always, full.sampler().Description())

	partial := Config{TraceSampleRate: 0.5}
	assert.NotEqual(t, always, partial.sampler().Description())
}

func TestMetricIntervalDefault(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, 15*time.Second, cfg.metricInterval())

	cfg.MetricInterval = time.Minute
	assert.Equal(t, time.Minute, cfg.metricInterval())
}

func TestNormalizeProtocol(t *testing.T) {
	assert.Equal(t, ProtocolGRPC, normalizeProtocol(""))
	assert.Equal(t, ProtocolGRPC, normalizeProtocol("grpc"))
	assert.Equal(t, ProtocolHTTP, normalizeProtocol("http"))
	assert.Equal(t, ProtocolHTTP, normalizeProtocol("HTTP/protobuf"))
}
