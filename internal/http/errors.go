package http

import (
	"errors"
	"strconv"
)

type ErrorKind uint8

const (
	// KindTransport wraps failures of the byte stream, e.g. dial, read or write errors.
	KindTransport ErrorKind = iota
	// KindTLS wraps failures of the secure handshake.
	KindTLS
	// KindRequest is reported for requests that could not be prepared.
	KindRequest
	KindWrongScheme
	KindNoDomain
	KindTooManyRedirects
	KindBadResponse
)

var kindText = map[ErrorKind]string{
	KindTransport:        "transport failure",
	KindTLS:              "secure handshake failed",
	KindRequest:          "invalid request",
	KindWrongScheme:      "request URL has an unsupported scheme",
	KindNoDomain:         "URL contains no domain for TLS connection",
	KindTooManyRedirects: "encountered too many redirects",
	KindBadResponse:      "bad response received",
}

func (k ErrorKind) String() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return "unknown error kind " + strconv.Itoa(int(k))
}

// Semantic reports whether errors of this kind are raised by the engine
// itself rather than wrapped from a lower layer.
func (k ErrorKind) Semantic() bool {
	return k >= KindWrongScheme
}

// Error is the single error type returned by the client. The original
// cause of wrapped failures is available through [errors.Unwrap].
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

var (
	ErrWrongScheme      = &Error{Kind: KindWrongScheme}
	ErrNoDomain         = &Error{Kind: KindNoDomain}
	ErrTooManyRedirects = &Error{Kind: KindTooManyRedirects}
	ErrBadResponse      = &Error{Kind: KindBadResponse}
)

func (e *Error) Error() string {
	s := "fetch: "
	if e.Op != "" {
		s += e.Op + ": "
	}
	s += e.Kind.String()
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the bare sentinels by kind, so that
// errors.Is(err, ErrBadResponse) holds for every bad response.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// Wrap attaches kind and op to err. Errors that already carry a kind
// are returned unchanged.
func Wrap(kind ErrorKind, op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// ParseError is the low-level syntax rejection of a response header block
// or chunk framing, always wrapped in a [KindBadResponse] error.
type ParseError struct {
	What string
	Data string
}

func (e *ParseError) Error() string {
	if e.Data == "" {
		return "malformed " + e.What
	}
	return "malformed " + e.What + ": " + strconv.Quote(e.Data)
}
