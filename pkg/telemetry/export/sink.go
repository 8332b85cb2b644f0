// Package export provides the sink exporter wrappers that fan a single
// log/span/metric stream out to console, rotating-file and collector sinks.
// Each wrapper adapts an SDK batch-export interface by composing a pluggable
// formatter, an optional level filter and a Sink, instead of subclassing the
// SDK exporters.
package export

import (
	"io"
	"sync"
)

// Sink is a destination for formatted telemetry entries. The rotating file
// writer and the console stream sink both satisfy it.
type Sink interface {
	// WriteEntry writes one formatted entry as a line.
	WriteEntry(entry string) error
	// Flush pushes buffered data through to the medium.
	Flush() error
	// Close releases the sink. Must be idempotent: the log, span and metric
	// exporters of one sink share a single Sink and each close it.
	Close() error
}

// StreamSink adapts an io.Writer (typically stdout) into a Sink. Writes are
// serialized: the console log, span and metric exporters run on independent
// batch processors but share one stream.
type StreamSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStreamSink wraps w. The writer is not closed on Close; the caller owns
// its lifecycle (it is usually os.Stdout).
func NewStreamSink(w io.Writer) *StreamSink {
	return &StreamSink{w: w}
}

func (s *StreamSink) WriteEntry(entry string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := io.WriteString(s.w, entry+"\n")
	return err
}

func (s *StreamSink) Flush() error { return nil }

func (s *StreamSink) Close() error { return nil }
