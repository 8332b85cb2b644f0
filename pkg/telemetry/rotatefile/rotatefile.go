// Package rotatefile provides a size-bounded rotating file writer used by the
// file telemetry sink. When an entry would push the current file past the
// configured size, the file is rotated: backups shift to numbered suffixes
// (<base>.1, <base>.2, ...) and the oldest beyond the backup count is removed.
package rotatefile

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds the rotation policy for a Writer.
type Config struct {
	// Path is the active log file. Backups are created alongside it with
	// numbered suffixes.
	Path string

	// MaxBytes is the size threshold that triggers rotation. Zero or negative
	// disables rotation entirely.
	MaxBytes int64

	// MaxBackups is how many rotated files to keep. Zero means the current
	// file is simply truncated on rotation.
	MaxBackups int
}

// Writer appends whole entries to a file, rotating it when the configured
// size threshold would be exceeded. The rotation check and the write it
// guards happen under one lock, so an entry is never split across files.
type Writer struct {
	cfg Config

	mu     sync.Mutex
	file   *os.File
	size   int64
	closed bool
}

// New opens (or creates) the file at cfg.Path for appending.
func New(cfg Config) (*Writer, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("rotatefile: path cannot be empty")
	}

	file, size, err := openAppend(cfg.Path)
	if err != nil {
		return nil, err
	}

	return &Writer{cfg: cfg, file: file, size: size}, nil
}

func openAppend(path string) (*os.File, int64, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, 0, fmt.Errorf("rotatefile: open %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, fmt.Errorf("rotatefile: stat %s: %w", path, err)
	}

	return file, info.Size(), nil
}

// WriteEntry appends one formatted entry, followed by a newline, rotating
// first if the write would exceed the size threshold.
func (w *Writer) WriteEntry(entry string) error {
	data := append([]byte(entry), '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("rotatefile: writer is closed")
	}

	if w.shouldRotate(int64(len(data))) {
		if err := w.rotate(); err != nil {
			return err
		}
	}

	n, err := w.file.Write(data)
	w.size += int64(n)
	if err != nil {
		return fmt.Errorf("rotatefile: write %s: %w", w.cfg.Path, err)
	}
	return nil
}

// shouldRotate reports whether writing n more bytes requires a fresh file.
// An oversized single entry on an empty file is written as-is rather than
// rotating into another empty file.
func (w *Writer) shouldRotate(n int64) bool {
	if w.cfg.MaxBytes <= 0 {
		return false
	}
	return w.size > 0 && w.size+n > w.cfg.MaxBytes
}

// rotate shifts existing backups up one slot and starts a fresh file.
// Caller must hold w.mu.
func (w *Writer) rotate() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("rotatefile: close before rotate: %w", err)
	}

	if w.cfg.MaxBackups > 0 {
		oldest := w.backupName(w.cfg.MaxBackups)
		if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("rotatefile: remove %s: %w", oldest, err)
		}

		for i := w.cfg.MaxBackups - 1; i >= 1; i-- {
			src := w.backupName(i)
			if _, err := os.Stat(src); err != nil {
				continue
			}
			if err := os.Rename(src, w.backupName(i+1)); err != nil {
				return fmt.Errorf("rotatefile: shift backup %s: %w", src, err)
			}
		}

		if err := os.Rename(w.cfg.Path, w.backupName(1)); err != nil {
			return fmt.Errorf("rotatefile: rotate %s: %w", w.cfg.Path, err)
		}
	} else {
		if err := os.Remove(w.cfg.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("rotatefile: truncate %s: %w", w.cfg.Path, err)
		}
	}

	file, err := os.OpenFile(w.cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("rotatefile: reopen %s: %w", w.cfg.Path, err)
	}

	w.file = file
	w.size = 0
	return nil
}

func (w *Writer) backupName(i int) string {
	return w.cfg.Path + "." + strconv.Itoa(i)
}

// Flush syncs buffered data to disk.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("rotatefile: sync %s: %w", w.cfg.Path, err)
	}
	return nil
}

// Close releases the file handle. Safe to call more than once; the file sink
// exporters for logs, spans and metrics share one Writer and each close it on
// shutdown.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.file.Close(); err != nil {
		return fmt.Errorf("rotatefile: close %s: %w", w.cfg.Path, err)
	}
	return nil
}
