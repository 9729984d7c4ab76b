package transport

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	nhttp "net/http"
	"strconv"

	"golang.org/x/net/http/httpguts"

	"github.com/frankli0324/go-fetch/internal/http"
)

var errIncomplete = errors.New("incomplete header block")

// ReadResponseHeader parses the status line and header block from br.
// Parsing is retried on the buffered bytes whenever more data arrives, the
// size of br's buffer bounds the header block. Only the header block is
// consumed, body bytes stay in br.
func ReadResponseHeader(br *bufio.Reader) (*http.Response, error) {
	for {
		buf, _ := br.Peek(br.Buffered())
		resp := &http.Response{ContentLength: -1}
		n, err := parseResponseHead(buf, resp)
		if err == nil {
			br.Discard(n)
			return resp, nil
		}
		if err != errIncomplete {
			return nil, &http.Error{Kind: http.KindBadResponse, Op: "read header", Err: err}
		}
		if _, err := br.Peek(len(buf) + 1); err != nil {
			switch err {
			case bufio.ErrBufferFull:
				return nil, &http.Error{Kind: http.KindBadResponse, Op: "read header",
					Err: &http.ParseError{What: "header block, exceeds " + strconv.Itoa(br.Size()) + " bytes"}}
			case io.EOF:
				err = io.ErrUnexpectedEOF
			}
			return nil, &http.Error{Kind: http.KindTransport, Op: "read header", Err: err}
		}
	}
}

// parseResponseHead parses a complete header block from buf, returning the
// number of bytes it occupies or errIncomplete.
func parseResponseHead(buf []byte, resp *http.Response) (int, error) {
	line, n := nextLine(buf)
	if n < 0 {
		return 0, errIncomplete
	}
	if err := parseStatusLine(line, resp); err != nil {
		return 0, err
	}

	resp.Header = make(http.Header)
	for {
		line, l := nextLine(buf[n:])
		if l < 0 {
			return 0, errIncomplete
		}
		n += l
		if len(line) == 0 {
			return n, nil
		}
		if line[0] == ' ' || line[0] == '\t' {
			// obs-fold, RFC9112 section 5.2
			return 0, &http.ParseError{What: "header line", Data: string(line)}
		}
		i := bytes.IndexByte(line, ':')
		if i <= 0 {
			return 0, &http.ParseError{What: "header line", Data: string(line)}
		}
		name, value := string(line[:i]), string(trimOWS(line[i+1:]))
		if !httpguts.ValidHeaderFieldName(name) {
			return 0, &http.ParseError{What: "header field name", Data: name}
		}
		if !httpguts.ValidHeaderFieldValue(value) {
			return 0, &http.ParseError{What: "header field value", Data: value}
		}
		resp.Header.Add(name, value)
	}
}

// parseStatusLine parses e.g. "HTTP/1.1 200 OK", the reason phrase may be
// absent.
func parseStatusLine(line []byte, resp *http.Response) error {
	malformed := &http.ParseError{What: "status line", Data: string(line)}
	if len(line) < 12 || line[8] != ' ' {
		return malformed
	}
	switch string(line[:8]) {
	case "HTTP/1.1":
		resp.ProtoMinor = 1
	case "HTTP/1.0":
		resp.ProtoMinor = 0
	default:
		return &http.ParseError{What: "protocol version", Data: string(line[:8])}
	}
	resp.Proto, resp.ProtoMajor = string(line[:8]), 1

	code := line[9:12]
	for _, c := range code {
		if c < '0' || c > '9' {
			return malformed
		}
	}
	resp.StatusCode, _ = strconv.Atoi(string(code))
	reason := line[12:]
	if len(reason) != 0 {
		if reason[0] != ' ' {
			return malformed
		}
		reason = reason[1:]
	}
	if !httpguts.ValidHeaderFieldValue(string(reason)) {
		return malformed
	}
	resp.Status = string(code)
	if len(reason) != 0 {
		resp.Status += " " + string(reason)
	} else if text := nhttp.StatusText(resp.StatusCode); text != "" {
		resp.Status += " " + text
	}
	return nil
}

// nextLine returns the first line of buf without its line ending, and the
// number of bytes including the ending. A bare LF is accepted as ending.
func nextLine(buf []byte) (line []byte, n int) {
	i := bytes.IndexByte(buf, '\n')
	if i < 0 {
		return nil, -1
	}
	line = buf[:i]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	return line, i + 1
}

func trimOWS(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}
	return b
}
