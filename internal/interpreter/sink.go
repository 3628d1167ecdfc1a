package interpreter

import (
	"fmt"
	"io"
	"sync"
)

// Sink receives each line printed by SCRIBE.
type Sink interface {
	WriteLine(line string) error
}

// WriterSink writes one line per call to an io.Writer.
type WriterSink struct {
	w io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) WriteLine(line string) error {
	_, err := fmt.Fprintln(s.w, line)
	return err
}

// BufferSink records lines in memory. It is safe for concurrent use.
type BufferSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *BufferSink) WriteLine(line string) error {
	s.mu.Lock()
	s.lines = append(s.lines, line)
	s.mu.Unlock()
	return nil
}

// Lines returns a copy of the recorded lines.
func (s *BufferSink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// MultiSink fans each line out to several sinks, stopping at the first
// failure.
type MultiSink []Sink

func (m MultiSink) WriteLine(line string) error {
	for _, s := range m {
		if err := s.WriteLine(line); err != nil {
			return err
		}
	}
	return nil
}

// discardSink drops every line.
type discardSink struct{}

func (discardSink) WriteLine(string) error { return nil }

// Discard is a Sink that drops output.
var Discard Sink = discardSink{}
