package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	nhttp "net/http"

	"github.com/frankli0324/go-fetch/internal/http"
	"github.com/frankli0324/go-fetch/internal/transport/chunked"
)

// Framing is how the end of a response body is found.
type Framing uint8

const (
	// FramingNone: the message has no body.
	FramingNone Framing = iota
	// FramingFixed: exactly Content-Length bytes follow.
	FramingFixed
	// FramingChunked: the body is chunk encoded.
	FramingChunked
	// FramingCloseDelimited: the body ends when the connection is closed.
	FramingCloseDelimited
)

func (f Framing) String() string {
	switch f {
	case FramingNone:
		return "none"
	case FramingFixed:
		return "fixed"
	case FramingChunked:
		return "chunked"
	case FramingCloseDelimited:
		return "close-delimited"
	}
	return fmt.Sprintf("Framing(%d)", uint8(f))
}

// BodyKind is the framing selected for one response, Length is only
// meaningful for [FramingFixed].
type BodyKind struct {
	Framing Framing
	Length  int64
}

// SelectBodyKind implements the message body length rules of
// https://httpwg.org/specs/rfc9112.html#message.body.length for responses.
// head is set if the request method was HEAD.
func SelectBodyKind(resp *http.Response, head bool) (BodyKind, error) {
	// 1. no-body messages
	code := resp.StatusCode
	if head || code/100 == 1 || code == nhttp.StatusNoContent || code == nhttp.StatusNotModified {
		return BodyKind{Framing: FramingNone}, nil
	}
	// 2. CONNECT is never sent
	// 3. transfer codings, only a final chunked coding delimits the body
	if te, ok := resp.Header["Transfer-Encoding"]; ok {
		if IsChunked(te) {
			return BodyKind{Framing: FramingChunked}, nil
		}
		return BodyKind{Framing: FramingCloseDelimited}, nil
	}
	// 4. + 5. fixed length
	if cl, ok := resp.Header["Content-Length"]; ok {
		n, ok := GetContentLength(cl)
		if !ok {
			return BodyKind{}, &http.Error{Kind: http.KindBadResponse, Op: "select framing",
				Err: &http.ParseError{What: "content-length", Data: fmt.Sprint(cl)}}
		}
		return BodyKind{Framing: FramingFixed, Length: n}, nil
	}
	// (6. request only)
	// 7. read until the connection is closed
	return BodyKind{Framing: FramingCloseDelimited}, nil
}

// Body reads a response body from br according to its framing, it never
// reads past the end of the body.
type Body struct {
	framing   Framing
	br        *bufio.Reader
	remaining int64
	chunks    *chunked.Reader
}

func NewBody(br *bufio.Reader, kind BodyKind) *Body {
	b := &Body{framing: kind.Framing, br: br, remaining: kind.Length}
	if kind.Framing == FramingChunked {
		b.chunks = chunked.NewReader(br)
	}
	return b
}

func (b *Body) Framing() Framing { return b.framing }

func (b *Body) IsNone() bool { return b.framing == FramingNone }

// Done reports whether the whole body was consumed and the stream is
// positioned at the next message. Close delimited bodies are never done.
func (b *Body) Done() bool {
	switch b.framing {
	case FramingNone:
		return true
	case FramingFixed:
		return b.remaining == 0
	case FramingChunked:
		return b.chunks.Done()
	}
	return false
}

func (b *Body) Read(p []byte) (n int, err error) {
	switch b.framing {
	case FramingNone:
		return 0, io.EOF
	case FramingFixed:
		if b.remaining == 0 {
			return 0, io.EOF
		}
		if int64(len(p)) > b.remaining {
			p = p[:b.remaining]
		}
		n, err = b.br.Read(p)
		b.remaining -= int64(n)
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return n, http.Wrap(http.KindTransport, "read body", err)
	case FramingChunked:
		n, err = b.chunks.Read(p)
		if errors.Is(err, chunked.ErrMalformed) {
			return n, &http.Error{Kind: http.KindBadResponse, Op: "read body", Err: err}
		}
		if err == io.EOF {
			return n, err
		}
		return n, http.Wrap(http.KindTransport, "read body", err)
	default:
		n, err = b.br.Read(p)
		if err == io.EOF {
			return n, err
		}
		return n, http.Wrap(http.KindTransport, "read body", err)
	}
}
