package chunked

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed is matched by every framing error of a chunked body.
var ErrMalformed = errors.New("malformed chunked encoding")

// NewReader decodes a chunked body from r. If r is a *[bufio.Reader] it is
// used directly and bytes after the terminal chunk stay in it.
//
// Trailer fields after the last chunk are not supported, a body carrying
// them fails with [ErrMalformed].
func NewReader(r io.Reader) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{br: br}
}

// Reader is a small state machine driven by remaining, the number of bytes
// left in the current chunk including its trailing CRLF, and last, set once
// the zero sized chunk was seen:
//
//	remaining == 0, !last: read the next chunk header
//	remaining == 0,  last: end of body
//	remaining == 2:        expect CRLF
//	remaining  > 2:        chunk data
type Reader struct {
	br        *bufio.Reader
	remaining uint64
	last      bool
}

// Done reports whether the terminal chunk was consumed.
func (c *Reader) Done() bool {
	return c.remaining == 0 && c.last
}

func (c *Reader) Read(p []byte) (n int, err error) {
	for {
		switch {
		case c.remaining == 0 && !c.last:
			size, err := c.readChunkHeader()
			if err != nil {
				return 0, err
			}
			c.remaining, c.last = size+2, size == 0
		case c.remaining == 0:
			return 0, io.EOF
		case c.remaining == 2:
			crlf, err := c.br.Peek(2)
			if err != nil {
				return 0, unexpected(err)
			}
			if crlf[0] != '\r' || crlf[1] != '\n' {
				return 0, fmt.Errorf("%w: expected CRLF after chunk, got %q", ErrMalformed, crlf)
			}
			c.br.Discard(2)
			c.remaining = 0
		default:
			if len(p) == 0 {
				return 0, nil
			}
			if want := c.remaining - 2; uint64(len(p)) > want {
				p = p[:want]
			}
			n, err = c.br.Read(p)
			c.remaining -= uint64(n)
			return n, unexpected(err)
		}
	}
}

// readChunkHeader parses a chunk-size line, chunk extensions are ignored.
func (c *Reader) readChunkHeader() (length uint64, err error) {
	var line []byte
	for {
		buf, _ := c.br.Peek(c.br.Buffered())
		if i := bytes.IndexByte(buf, '\n'); i >= 0 {
			line = buf[:i]
			break
		}
		if _, err := c.br.Peek(len(buf) + 1); err != nil {
			if err == bufio.ErrBufferFull {
				return 0, fmt.Errorf("%w: chunk header line too long", ErrMalformed)
			}
			return 0, unexpected(err)
		}
	}
	consumed := len(line) + 1
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if i := bytes.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = bytes.TrimRight(line, " \t")
	if len(line) == 0 {
		return 0, fmt.Errorf("%w: empty chunk length", ErrMalformed)
	}
	if len(line) >= 16 {
		return 0, fmt.Errorf("%w: http chunk length too large", ErrMalformed)
	}
	for _, b := range line {
		switch {
		case '0' <= b && b <= '9':
			b = b - '0'
		case 'a' <= b && b <= 'f':
			b = b - 'a' + 10
		case 'A' <= b && b <= 'F':
			b = b - 'A' + 10
		default:
			return 0, fmt.Errorf("%w: invalid byte in chunk length", ErrMalformed)
		}
		length <<= 4
		length |= uint64(b)
	}
	c.br.Discard(consumed)
	return length, nil
}

func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
