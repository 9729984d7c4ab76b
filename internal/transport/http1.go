package transport

import (
	"bufio"
	"io"
	"sort"

	"github.com/frankli0324/go-fetch/internal/http"
	"github.com/frankli0324/go-fetch/internal/transport/chunked"
)

// WriteRequest writes the header block of r followed by its body. Framing
// headers are never added, the body is chunk encoded only if the caller
// asked for it with Transfer-Encoding. w is not flushed.
func WriteRequest(w *bufio.Writer, r *http.PreparedRequest) error {
	body, err := r.GetBody()
	if err != nil {
		return http.Wrap(http.KindTransport, "get body", err)
	}
	defer body.Close() // request body is ALWAYS closed

	if err := WriteRequestHeader(w, r); err != nil {
		return http.Wrap(http.KindTransport, "write", err)
	}
	// a chunked body is always terminated, even an absent one
	if r.Chunked() {
		cw := chunked.NewWriter(w)
		if _, err := io.Copy(cw, body); err != nil {
			return http.Wrap(http.KindTransport, "write body", err)
		}
		return http.Wrap(http.KindTransport, "write body", cw.Close())
	}
	if body == http.NoBody {
		return nil
	}
	if _, err := io.Copy(w, body); err != nil {
		return http.Wrap(http.KindTransport, "write body", err)
	}
	return nil
}

// WriteRequestHeader writes the request line and header part of an http 1.x request
// e.g.:
//
//	GET / HTTP/1.1\r\n
//	Host: www.google.com\r\n
//	X-Xx-Yy: cccccc\r\n
//	\r\n
//
// fields are written sorted by name, values of one name in insertion order.
// Versions other than HTTP/1.0 and HTTP/1.1 are a programming error.
func WriteRequestHeader(w *bufio.Writer, r *http.PreparedRequest) error {
	var version string
	switch r.Version {
	case http.HTTP10, http.HTTP11:
		version = r.Version.String()
	default:
		panic("transport: unsupported request version " + r.Version.String())
	}

	w.WriteString(r.Method)
	w.WriteByte(' ')
	w.WriteString(r.U.RequestURI())
	w.WriteByte(' ')
	w.WriteString(version)
	w.WriteString("\r\nHost: ")
	w.WriteString(r.HeaderHost)
	w.WriteString("\r\n")

	keys := make([]string, 0, len(r.Header))
	for k := range r.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range r.Header[k] {
			w.WriteString(k)
			w.WriteString(": ")
			w.WriteString(v)
			w.WriteString("\r\n")
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}
