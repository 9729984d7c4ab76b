package transport

import (
	"net/http"
	"strconv"
	"strings"
)

// IsRedirectStatus reports whether code is a redirect status as defined by
// https://fetch.spec.whatwg.org/#redirect-status
func IsRedirectStatus(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// IsRedirectMethodGet reports whether following the redirect turns the request
// into a GET without body:
//
//	If either actualResponse's status is 301 or 302 and request's method
//	is `POST`, or actualResponse's status is 303, set request's method
//	to `GET` and request's body to null.
func IsRedirectMethodGet(code int, method string) bool {
	return (code == http.StatusMovedPermanently || code == http.StatusFound) && method == http.MethodPost ||
		code == http.StatusSeeOther
}

// IsChunked reports whether the last transfer coding is chunked. Only the
// final coding determines the framing.
func IsChunked(values []string) bool {
	if len(values) == 0 {
		return false
	}
	last := values[len(values)-1]
	if !isText(last) {
		return false
	}
	return strings.HasSuffix(strings.ToLower(last), "chunked")
}

// IsPersistentConnection implements
// https://httpwg.org/specs/rfc9112.html#persistent.connections
// for responses. HTTP/1.0 connections are never kept.
func IsPersistentConnection(major, minor int, connection []string) bool {
	if major != 1 || minor != 1 {
		return false
	}
	for _, v := range connection {
		if !isText(v) || strings.Contains(strings.ToLower(v), "close") {
			return false
		}
	}
	return true
}

// GetContentLength reconciles repeated Content-Length fields. Values that
// are not a non-negative integer are skipped. ok is false if no value could
// be parsed or if parsed values differ:
//
//	If a message is received [...] with either multiple Content-Length
//	header fields having differing field-values or a single
//	Content-Length header field having an invalid value, then the message
//	framing is invalid and the recipient MUST treat it as an
//	unrecoverable error.
func GetContentLength(values []string) (n int64, ok bool) {
	for _, v := range values {
		l, err := strconv.ParseUint(strings.TrimSpace(v), 10, 63)
		if err != nil {
			continue
		}
		if ok && int64(l) != n {
			return 0, false
		}
		n, ok = int64(l), true
	}
	return n, ok
}

// isText reports whether v consists of visible ASCII and whitespace only.
func isText(v string) bool {
	for i := 0; i < len(v); i++ {
		if c := v[i]; c != '\t' && (c < ' ' || c > '~') {
			return false
		}
	}
	return true
}
