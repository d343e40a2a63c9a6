// Package teewriter duplicates a stream to several destinations so the live
// console output and the persisted report are the same bytes.
package teewriter

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
)

// Flusher is implemented by destinations that buffer, such as *bufio.Writer.
type Flusher interface {
	Flush() error
}

// Writer forwards every Write and Flush to all destinations, in order.
// It never closes them. It is not safe for concurrent use.
type Writer struct {
	writers []io.Writer
}

var (
	_ io.Writer = (*Writer)(nil)
	_ Flusher   = (*Writer)(nil)
)

// New creates a Writer over the given destinations.
func New(writers ...io.Writer) *Writer {
	ws := make([]io.Writer, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			ws = append(ws, w)
		}
	}

	return &Writer{writers: ws}
}

// Write writes p to every destination. A failing destination does not stop
// the others; all failures are returned together.
func (t *Writer) Write(p []byte) (int, error) {
	var result *multierror.Error

	for i, w := range t.writers {
		n, err := w.Write(p)
		if err == nil && n < len(p) {
			err = io.ErrShortWrite
		}

		if err != nil {
			result = multierror.Append(result, fmt.Errorf("destination %d: %w", i, err))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return 0, err
	}

	return len(p), nil
}

// Flush flushes every destination that implements Flusher.
// Destinations without buffering are skipped.
func (t *Writer) Flush() error {
	var result *multierror.Error

	for i, w := range t.writers {
		f, ok := w.(Flusher)
		if !ok {
			continue
		}

		if err := f.Flush(); err != nil {
			result = multierror.Append(result, fmt.Errorf("destination %d: %w", i, err))
		}
	}

	return result.ErrorOrNil()
}
