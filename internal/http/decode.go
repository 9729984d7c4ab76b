package http

import (
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Body is the read side of a response body as seen by decoders. Decoders
// never know how the body is framed on the wire.
type Body interface {
	io.Reader
	// IsNone reports whether the response carries no body at all, as
	// opposed to an empty one. Responses to HEAD requests and 1xx, 204
	// and 304 responses have none.
	IsNone() bool
}

// Decoder converts a response body into a caller chosen representation.
// Content-Encoding is never undone, a compressed body is decoded as is.
type Decoder interface {
	DecodeBody(resp *Response, body Body) error
}

type DecoderFunc func(resp *Response, body Body) error

func (f DecoderFunc) DecodeBody(resp *Response, body Body) error { return f(resp, body) }

// Empty accepts only responses without a body.
type Empty struct{}

func (Empty) DecodeBody(_ *Response, body Body) error {
	if body.IsNone() {
		return nil
	}
	return &Error{Kind: KindBadResponse, Op: "decode", Err: &ParseError{What: "response, expected no body"}}
}

// Bytes holds the raw body.
type Bytes []byte

func (b *Bytes) DecodeBody(_ *Response, body Body) error {
	data, err := io.ReadAll(body)
	*b = data
	return err
}

// Text holds the body as UTF-8 text. Charset parameters of Content-Type
// are not consulted.
type Text string

func (t *Text) DecodeBody(_ *Response, body Body) error {
	data, err := io.ReadAll(transform.NewReader(body, encoding.UTF8Validator))
	if err == encoding.ErrInvalidUTF8 {
		return &Error{Kind: KindBadResponse, Op: "decode text", Err: err}
	} else if err != nil {
		return err
	}
	*t = Text(data)
	return nil
}

// Discard drains the body.
var Discard Decoder = DecoderFunc(func(_ *Response, body Body) error {
	_, err := io.Copy(io.Discard, body)
	return err
})
