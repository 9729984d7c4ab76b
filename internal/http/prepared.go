package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/net/http/httpguts"
)

type PreparedRequest struct {
	*Request

	Method     string
	U          *url.URL
	Version    Version
	GetBody    func() (io.ReadCloser, error)
	Header     http.Header
	HeaderHost string

	ContentLength int64
}

// headers describing the request body, dropped together with the body
// when a redirect turns the request into a GET
var bodyHeaders = []string{
	"Content-Encoding", "Content-Language", "Content-Length",
	"Content-Location", "Content-Type", "Transfer-Encoding",
}

func (r *Request) Prepare() (*PreparedRequest, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, Wrap(KindRequest, "parse url", err)
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	if !httpguts.ValidHeaderFieldName(method) {
		return nil, &Error{Kind: KindRequest, Op: "prepare", Err: fmt.Errorf("invalid method %q", method)}
	}

	headers := r.Header.Clone()
	if headers == nil {
		headers = http.Header{}
	}
	cl := int64(-1)
	for k, v := range headers {
		// Host is always derived from the target
		if strings.EqualFold(k, "host") {
			delete(headers, k)
			continue
		}
		if !httpguts.ValidHeaderFieldName(k) {
			return nil, &Error{Kind: KindRequest, Op: "prepare", Err: fmt.Errorf("invalid header field name %q", k)}
		}
		for _, vv := range v {
			if !httpguts.ValidHeaderFieldValue(vv) {
				return nil, &Error{Kind: KindRequest, Op: "prepare", Err: fmt.Errorf("invalid header field value for %q", k)}
			}
		}
		if strings.EqualFold(k, "content-length") && len(v) != 0 {
			if v, err := strconv.ParseInt(v[0], 10, 64); err == nil {
				cl = v
			}
		}
	}

	pr := &PreparedRequest{
		Request: r, Method: method, Version: r.Version,
		Header: headers,
	}
	if err := pr.setURL(u); err != nil {
		return nil, &Error{Kind: KindRequest, Op: "prepare", Err: err}
	}
	if err := pr.updateBody(); err != nil {
		// note that updateBody potentially updates content-length
		return nil, Wrap(KindRequest, "prepare", err)
	}
	if cl != -1 && pr.ContentLength != -1 && pr.ContentLength != cl {
		return nil, &Error{Kind: KindRequest, Op: "prepare", Err: errors.New("conflicting value between body size and content-length request header")}
	}
	return pr, nil
}

func (r *PreparedRequest) setURL(u *url.URL) error {
	host, err := httpguts.PunycodeHostPort(u.Host)
	if err != nil {
		return err
	}
	if host == "" || !httpguts.ValidHostHeader(host) {
		return url.InvalidHostError(u.Host)
	}
	r.U, r.HeaderHost = u, host
	return nil
}

// Origin is the pool key of the current target.
func (r *PreparedRequest) Origin() Origin {
	return OriginOf(r.U)
}

// Redirect points the request at target. If toGet is set the method is
// rewritten to GET and the body, with the headers describing it, is dropped.
// A target without a usable host is reported as the bare cause; it is up to
// the caller to classify it.
func (r *PreparedRequest) Redirect(target *url.URL, toGet bool) error {
	if err := r.setURL(target); err != nil {
		return err
	}
	if toGet {
		r.Method = http.MethodGet
		r.ContentLength = -1
		r.GetBody = func() (io.ReadCloser, error) {
			return http.NoBody, nil
		}
		for _, h := range bodyHeaders {
			r.Header.Del(h)
		}
	}
	return nil
}

// Chunked reports whether the caller asked for a chunk encoded body.
func (r *PreparedRequest) Chunked() bool {
	te := r.Header.Values("Transfer-Encoding")
	return len(te) != 0 && strings.EqualFold(strings.TrimSpace(te[len(te)-1]), "chunked")
}

// should only be called once at [Prepare]
func (r *PreparedRequest) updateBody() (err error) {
	r.ContentLength = -1
	if r.Request.Body == nil {
		r.GetBody = func() (io.ReadCloser, error) {
			return http.NoBody, nil
		}
		return nil
	}
	switch b := r.Request.Body.(type) {
	case string:
		r.ContentLength = int64(len(b))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(b)), nil
		}
	case []byte:
		r.ContentLength = int64(len(b))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(b)), nil
		}
	case *bytes.Buffer: // below is taken from http.NewRequest
		r.ContentLength = int64(b.Len())
		buf := b.Bytes()
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(buf)), nil
		}
	case *bytes.Reader:
		r.ContentLength = int64(b.Len())
		snapshot := *b
		r.GetBody = func() (io.ReadCloser, error) {
			r := snapshot
			return io.NopCloser(&r), nil
		}
	case *strings.Reader:
		r.ContentLength = int64(b.Len())
		snapshot := *b
		r.GetBody = func() (io.ReadCloser, error) {
			r := snapshot
			return io.NopCloser(&r), nil
		}
	case io.Reader:
		if sizer, ok := b.(interface{ Size() int64 }); ok {
			r.ContentLength = sizer.Size()
		}
		cb, ok := b.(io.ReadCloser)
		if !ok {
			cb = io.NopCloser(b)
		}
		var once atomic.Bool
		r.GetBody = func() (io.ReadCloser, error) {
			if once.CompareAndSwap(false, true) {
				return cb, nil
			}
			return nil, http.ErrBodyReadAfterClose
		}
	default:
		return fmt.Errorf("unsupported body type: %T", r.Request.Body)
	}
	return nil
}
