package common

import (
	"bytes"
	"io"
	"strings"

	"github.com/acarl005/stripansi"
)

// LineWriter splits written bytes into lines and hands each non-empty line,
// stripped of ANSI escapes, to a callback. Both '\n' and '\r' end a line so
// that yt-dlp's in-place progress updates arrive one by one.
type LineWriter struct {
	buffer   bytes.Buffer
	callback func(string)
}

// Validate that the LineWriter implements the io.Writer interface.
var _ io.Writer = &LineWriter{}

// NewLineWriter returns a new LineWriter.
func NewLineWriter(callback func(string)) *LineWriter {
	return &LineWriter{callback: callback}
}

// Write buffers p until a line terminator is seen, then flushes the line
func (w *LineWriter) Write(p []byte) (n int, err error) {
	for _, b := range p {
		if b == '\n' || b == '\r' {
			w.emit()
		} else {
			w.buffer.WriteByte(b)
		}
	}
	return len(p), nil
}

// Flush emits whatever is left in the buffer as a final line
func (w *LineWriter) Flush() {
	w.emit()
}

func (w *LineWriter) emit() {
	line := strings.TrimSpace(stripansi.Strip(w.buffer.String()))
	w.buffer.Reset()
	if line != "" {
		w.callback(line)
	}
}
