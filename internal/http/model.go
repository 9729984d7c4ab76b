package http

import (
	"context"
	"net"
	"net/http"
	"net/url"
)

// Dialer opens the byte stream a request is written to. Dialers never hold
// connection state, pooling is done by the client.
type Dialer interface {
	Dial(ctx context.Context, o Origin) (net.Conn, error)
	Unwrap() Dialer
}

// Version is the protocol version written on the request line.
// The zero value means HTTP/1.1.
type Version uint8

const (
	HTTP11 Version = iota
	HTTP10
)

func (v Version) String() string {
	switch v {
	case HTTP11:
		return "HTTP/1.1"
	case HTTP10:
		return "HTTP/1.0"
	}
	return "HTTP/?"
}

type Request struct {
	Method  string
	URL     string
	Version Version
	Body    interface{}
	Header  http.Header
}

// Response holds the parts of a response. They are never modified after
// the header block was parsed, the body is decoded into the [Decoder]
// handed to the client.
type Response struct {
	Proto      string // e.g. "HTTP/1.1"
	ProtoMajor int
	ProtoMinor int
	Status     string // e.g. "200 OK"
	StatusCode int
	Header     http.Header

	// ContentLength is the declared body length, -1 if the body is not
	// length delimited.
	ContentLength int64
	// URL is the location that produced this response, after redirects.
	URL *url.URL
}
