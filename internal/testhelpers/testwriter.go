package testhelpers

import (
	"bytes"
	"io"
	"sync"
	"testing"
)

// Writer forwards complete log lines to t.Log so that they are shown only for failing tests.
type Writer struct {
	tb   testing.TB
	mu   sync.Mutex
	done bool
	buf  bytes.Buffer
}

// NewWriter returns a Writer logging to tb until the test finishes.
func NewWriter(tb testing.TB) io.Writer {
	w := &Writer{tb: tb} //nolint:exhaustruct // zero buffer and flag are ready to use.
	tb.Cleanup(func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.done = true
	})
	return w
}

// Write logs every newline-terminated line in p. A trailing partial line is kept until the next write.
//
// Writing after the test has finished panics, which usually means a server outlived its test.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		panic("testwriter: write after test completion, is the server shut down in t.Cleanup?")
	}

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line, put it back.
			w.buf.Write(line)
			break
		}
		if trimmed := bytes.TrimSuffix(line, []byte("\n")); len(trimmed) > 0 {
			w.tb.Log(string(trimmed))
		}
	}
	return len(p), nil
}
