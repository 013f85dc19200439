package log

import (
	"encoding/json"
	"io"
	"os"
	"sync"
)

// WriterTransporter emits one JSON line per entry to an io.Writer.
type WriterTransporter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewStdout returns a transporter writing JSON lines to stdout.
func NewStdout() *WriterTransporter {
	return NewWriter(os.Stdout)
}

// NewWriter returns a transporter writing JSON lines to w.
func NewWriter(w io.Writer) *WriterTransporter {
	return &WriterTransporter{out: w}
}

// Write serializes the entry as a single JSON line.
func (t *WriterTransporter) Write(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, err = t.out.Write(append(data, '\n'))
	return err
}

// Close is a no-op; the underlying writer is not owned.
func (t *WriterTransporter) Close() error { return nil }
