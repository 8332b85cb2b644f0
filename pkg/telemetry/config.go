package telemetry

import (
	"crypto/tls"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Protocol selects the transport used to reach the collector.
type Protocol string

const (
	// ProtocolGRPC speaks OTLP over gRPC (default collector port 4317).
	ProtocolGRPC Protocol = "grpc"
	// ProtocolHTTP speaks OTLP over HTTP/protobuf (default collector port 4318).
	ProtocolHTTP Protocol = "http"
)

func normalizeProtocol(protocol Protocol) Protocol {
	switch strings.ToLower(string(protocol)) {
	case "http", "http/protobuf":
		return ProtocolHTTP
	default:
		return ProtocolGRPC
	}
}

// ConsoleSink routes telemetry to an output stream, stdout by default.
type ConsoleSink struct {
	// FromLevel is the minimum level logged to the console. The zero value
	// (LevelNotset) logs everything.
	FromLevel Level `yaml:"from_level"`

	// Spans shows finished spans on the console, dimmed since logs are
	// usually what matters on a live stream.
	Spans bool `yaml:"spans"`

	// Metrics shows periodic metric collections on the console, dimmed.
	Metrics bool `yaml:"metrics"`

	// Writer overrides the output stream, useful to capture output in tests.
	Writer io.Writer `yaml:"-"`
}

// FileSink routes telemetry to a size-bounded rotating file.
type FileSink struct {
	// FromLevel is the minimum level written to the file.
	FromLevel Level `yaml:"from_level"`

	// Path is the active log file; backups get numbered suffixes (.1, .2, …).
	Path string `yaml:"path"`

	// MaxBytes starts a new file once the current one would exceed this size.
	MaxBytes int64 `yaml:"max_bytes"`

	// MaxBackups is how many rotated files to keep; the oldest is discarded.
	MaxBackups int `yaml:"max_backups"`
}

// CollectorSink routes telemetry to an OpenTelemetry collector. It is the
// only sink whose delivery can fail from network unavailability, so its
// endpoint is probed at assembly time.
type CollectorSink struct {
	// FromLevel is the minimum level forwarded to the collector.
	FromLevel Level `yaml:"from_level"`

	// Endpoint is the collector address ("host:port" or a URL).
	Endpoint string `yaml:"endpoint"`

	// Protocol is "grpc" or "http", defaulting to "grpc".
	Protocol Protocol `yaml:"protocol"`

	// Headers are added to every export request.
	Headers map[string]string `yaml:"headers"`

	// Insecure allows plaintext connections, for collectors on localhost.
	Insecure bool `yaml:"insecure"`

	// TLS overrides the client TLS configuration; system defaults when nil.
	TLS *tls.Config `yaml:"-"`
}

// Config declares which sinks are enabled and how the providers are tagged.
// Every sink is optional; an absent sink is disabled.
type Config struct {
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	Environment    string `yaml:"environment"`

	Console   *ConsoleSink   `yaml:"console"`
	File      *FileSink      `yaml:"file"`
	Collector *CollectorSink `yaml:"collector"`

	// ResourceAttributes are extra attributes stamped onto every record.
	ResourceAttributes map[string]string `yaml:"resource_attributes"`

	// TraceSampleRate is the span sampling ratio in (0.0, 1.0]. The zero
	// value means sample everything.
	TraceSampleRate float64 `yaml:"trace_sample_rate"`

	// MetricInterval is the periodic metric collection interval,
	// defaulting to 15s.
	MetricInterval time.Duration `yaml:"metric_interval"`

	// Diagnostics receives this layer's own diagnostics (assembly progress,
	// asynchronous export failures). Discarded when nil.
	Diagnostics *zap.Logger `yaml:"-"`
}

// LoadConfig reads a Config from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("telemetry: read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a Config from YAML.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("telemetry: parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("telemetry: service name cannot be empty")
	}
	if c.File != nil && c.File.Path == "" {
		return fmt.Errorf("telemetry: file sink requires a path")
	}
	if c.File != nil && c.File.MaxBackups < 0 {
		return fmt.Errorf("telemetry: file sink max_backups cannot be negative")
	}
	if c.Collector != nil && c.Collector.Endpoint == "" {
		return fmt.Errorf("telemetry: collector sink requires an endpoint")
	}
	if c.TraceSampleRate < 0 || c.TraceSampleRate > 1 {
		return fmt.Errorf("telemetry: trace_sample_rate must be within [0.0, 1.0]")
	}
	return nil
}

// floorSeverity computes the coarsest enabled threshold: the minimum of all
// configured sink levels. Records below it never reach any processor. With
// no sinks configured there is nothing to feed, so no floor is applied.
func (c *Config) floorSeverity() log.Severity {
	var lowest *Level
	for _, level := range []*Level{c.consoleLevel(), c.fileLevel(), c.collectorLevel()} {
		if level == nil {
			continue
		}
		if lowest == nil || *level < *lowest {
			lowest = level
		}
	}

	if lowest == nil {
		return log.SeverityUndefined
	}
	return lowest.Severity()
}

func (c *Config) consoleLevel() *Level {
	if c.Console == nil {
		return nil
	}
	return &c.Console.FromLevel
}

func (c *Config) fileLevel() *Level {
	if c.File == nil {
		return nil
	}
	return &c.File.FromLevel
}

func (c *Config) collectorLevel() *Level {
	if c.Collector == nil {
		return nil
	}
	return &c.Collector.FromLevel
}

func (c *Config) sampler() sdktrace.Sampler {
	switch {
	case c.TraceSampleRate == 0 || c.TraceSampleRate >= 1:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.TraceIDRatioBased(c.TraceSampleRate)
	}
}

func (c *Config) metricInterval() time.Duration {
	if c.MetricInterval <= 0 {
		return 15 * time.Second
	}
	return c.MetricInterval
}

func (c *Config) diagnostics() *zap.Logger {
	if c.Diagnostics == nil {
		return zap.NewNop()
	}
	return c.Diagnostics
}
