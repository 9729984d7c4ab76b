package chunked

import (
	"errors"
	"io"
	"strconv"
)

var errWriteAfterClose = errors.New("chunked: write after terminal chunk")

// Writer frames a request body as chunks. Every non-empty Write becomes one
// chunk, nothing is buffered or flushed.
type Writer struct {
	w      io.Writer
	size   []byte
	closed bool
}

// NewWriter returns a Writer emitting chunks on w. Close must be called to
// end the body.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, size: make([]byte, 0, 18)}
}

func (cw *Writer) Write(p []byte) (int, error) {
	if cw.closed {
		return 0, errWriteAfterClose
	}
	// an empty chunk is the terminator
	if len(p) == 0 {
		return 0, nil
	}
	cw.size = append(strconv.AppendInt(cw.size[:0], int64(len(p)), 16), '\r', '\n')
	if err := cw.put(cw.size); err != nil {
		return 0, err
	}
	if err := cw.put(p); err != nil {
		return 0, err
	}
	return len(p), cw.put(crlf)
}

// Close writes the terminal chunk. Trailers are not supported.
func (cw *Writer) Close() error {
	if cw.closed {
		return nil
	}
	cw.closed = true
	return cw.put(terminal)
}

var (
	crlf     = []byte("\r\n")
	terminal = []byte("0\r\n\r\n")
)

func (cw *Writer) put(b []byte) error {
	n, err := cw.w.Write(b)
	if err == nil && n != len(b) {
		err = io.ErrShortWrite
	}
	return err
}
