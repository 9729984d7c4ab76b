// package transport contains implementations to requirements on *message syntaxes*
// defined by http related RFCs.
//
// as of 2022.06, RFCs that were to define HTTP/1.1 (RFC753x) are obsoleted by:
//
//	HTTP Semantics (RFC9110)
//	HTTP Caching (RFC9111) and
//	HTTP/1.1 (RFC9112)
//
// only the HTTP/1.x message syntax is implemented here: the request line and
// header block, the response header block, and body framing as specified by
// RFC9112 section 6.3.
//
// net/http components are reused on the "semantics" part ([net/url.URL], [net/http.Header], etc.)

package transport
