// Package report writes undefined-node diagnostics.
//
// One record per undefined key: the key as a fixed-width 16-hex-digit
// string, a tab, and the comma-joined referencing keys in the same format.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Sink accepts one diagnostic record per undefined key.
// Implementations must be safe for concurrent writers.
type Sink interface {
	Write(key, value string) error
	Close() error
}

// FormatKey returns the diagnostic form of a node key.
func FormatKey(key uint64) string {
	return fmt.Sprintf("%016x", key)
}

// FormatRefs returns the comma-joined diagnostic form of referencing keys,
// in the order given.
func FormatRefs(refs []uint64) string {
	var sb strings.Builder

	for i, ref := range refs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(FormatKey(ref))
	}

	return sb.String()
}

// FileSink writes tab-separated records to a file, compressed with zstd
// when the path ends in ".zst".
type FileSink struct {
	file *os.File
	zw   *zstd.Encoder
	w    *bufio.Writer
	mu   sync.Mutex
}

// NewFileSink creates the output file, truncating any existing one.
func NewFileSink(path string) (*FileSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create diagnostics file:\n%w", err)
	}

	s := &FileSink{file: file}

	var out io.Writer = file
	if strings.HasSuffix(path, ".zst") {
		s.zw, err = zstd.NewWriter(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create zstd writer:\n%w", err)
		}
		out = s.zw
	}

	s.w = bufio.NewWriter(out)

	return s, nil
}

// Write appends one record.
func (s *FileSink) Write(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.w, "%s\t%s\n", key, value); err != nil {
		return fmt.Errorf("write diagnostic:\n%w", err)
	}

	return nil
}

// Close flushes and closes the file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.w.Flush(); err != nil {
		s.file.Close()
		return err
	}

	if s.zw != nil {
		if err := s.zw.Close(); err != nil {
			s.file.Close()
			return err
		}
	}

	return s.file.Close()
}

// MemorySink collects records in memory, for tests and the loop command.
type MemorySink struct {
	mu      sync.Mutex
	records map[string]string
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{records: make(map[string]string)}
}

// Write records one diagnostic.
func (s *MemorySink) Write(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = value

	return nil
}

// Close is a no-op.
func (s *MemorySink) Close() error {
	return nil
}

// Records returns a copy of all recorded diagnostics keyed by node key.
func (s *MemorySink) Records() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.records))
	for k, v := range s.records {
		out[k] = v
	}

	return out
}
