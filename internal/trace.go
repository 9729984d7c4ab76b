package internal

import (
	"context"

	"github.com/frankli0324/go-fetch/internal/http"
)

// ClientTrace is a set of hooks run during a fetch, any of them may be nil.
// Hooks run synchronously on the calling goroutine.
type ClientTrace struct {
	// GotConn is called once a connection for origin is leased, reused
	// reports whether it came from the pool.
	GotConn func(origin http.Origin, reused bool)
	// WroteRequest is called after the request was written and flushed.
	WroteRequest func(err error)
	// GotResponseHeader is called after a response header block was parsed.
	GotResponseHeader func(resp *http.Response)
	// Redirect is called before a redirect to location is followed.
	Redirect func(code int, location string)
}

type clientTraceKey struct{}

func WithClientTrace(ctx context.Context, trace *ClientTrace) context.Context {
	return context.WithValue(ctx, clientTraceKey{}, trace)
}

// ContextClientTrace returns the trace of ctx, never nil.
func ContextClientTrace(ctx context.Context) *ClientTrace {
	if t, ok := ctx.Value(clientTraceKey{}).(*ClientTrace); ok && t != nil {
		return t
	}
	return &ClientTrace{}
}

func (t *ClientTrace) gotConn(o http.Origin, reused bool) {
	if t.GotConn != nil {
		t.GotConn(o, reused)
	}
}

func (t *ClientTrace) wroteRequest(err error) {
	if t.WroteRequest != nil {
		t.WroteRequest(err)
	}
}

func (t *ClientTrace) gotResponseHeader(resp *http.Response) {
	if t.GotResponseHeader != nil {
		t.GotResponseHeader(resp)
	}
}

func (t *ClientTrace) redirect(code int, location string) {
	if t.Redirect != nil {
		t.Redirect(code, location)
	}
}
