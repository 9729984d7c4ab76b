package transport_test

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankli0324/go-fetch/internal/http"
	"github.com/frankli0324/go-fetch/internal/transport"
)

func TestReadResponseHeader(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\nContent-Length: 2\r\nX-Dup: a\r\nx-dup:  b \r\n\r\nokNEXT"
	br := bufio.NewReader(strings.NewReader(raw))
	resp, err := transport.ReadResponseHeader(br)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "200 OK", resp.Status)
	assert.Equal(t, "HTTP/1.1", resp.Proto)
	assert.Equal(t, 1, resp.ProtoMajor)
	assert.Equal(t, 1, resp.ProtoMinor)
	assert.Equal(t, []string{"a", "b"}, resp.Header["X-Dup"])

	rest, err := io.ReadAll(br)
	require.NoError(t, err)
	assert.Equal(t, "okNEXT", string(rest))
}

func TestReadResponseHeaderPartialReads(t *testing.T) {
	raw := "HTTP/1.0 404 Not Found\r\nServer: x\r\n\r\nbody"
	for name, r := range map[string]io.Reader{
		"OneByte": iotest.OneByteReader(strings.NewReader(raw)),
		"Half":    iotest.HalfReader(strings.NewReader(raw)),
	} {
		r := r
		t.Run(name, func(t *testing.T) {
			br := bufio.NewReader(r)
			resp, err := transport.ReadResponseHeader(br)
			require.NoError(t, err)
			assert.Equal(t, 404, resp.StatusCode)
			assert.Equal(t, 0, resp.ProtoMinor)
			assert.Equal(t, "x", resp.Header.Get("Server"))
			rest, _ := io.ReadAll(br)
			assert.Equal(t, "body", string(rest))
		})
	}
}

func TestReadResponseHeaderNoReason(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("HTTP/1.1 204\nA: b\n\n"))
	resp, err := transport.ReadResponseHeader(br)
	require.NoError(t, err)
	assert.Equal(t, "204 No Content", resp.Status)
	assert.Equal(t, "b", resp.Header.Get("A"))
}

func TestReadResponseHeaderMalformed(t *testing.T) {
	cases := map[string]string{
		"Version":        "HTTP/2.0 200 OK\r\n\r\n",
		"NotHTTP":        "ICY 200 OK\r\n\r\n",
		"StatusCode":     "HTTP/1.1 2x0 OK\r\n\r\n",
		"NoSpace":        "HTTP/1.1 200OK\r\n\r\n",
		"ShortLine":      "HTTP/1.1 20\r\n\r\n",
		"NoColon":        "HTTP/1.1 200 OK\r\nBroken\r\n\r\n",
		"SpaceInName":    "HTTP/1.1 200 OK\r\nBad Name: v\r\n\r\n",
		"ObsFold":        "HTTP/1.1 200 OK\r\nA: b\r\n c\r\n\r\n",
		"ControlInValue": "HTTP/1.1 200 OK\r\nA: b\x00c\r\n\r\n",
	}
	for name, raw := range cases {
		raw := raw
		t.Run(name, func(t *testing.T) {
			_, err := transport.ReadResponseHeader(bufio.NewReader(strings.NewReader(raw)))
			require.Error(t, err)
			assert.ErrorIs(t, err, http.ErrBadResponse)
			var pe *http.ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}
}

func TestReadResponseHeaderTruncated(t *testing.T) {
	_, err := transport.ReadResponseHeader(bufio.NewReader(strings.NewReader("HTTP/1.1 200 OK\r\nA: b\r\n")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	var e *http.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.KindTransport, e.Kind)
	assert.False(t, e.Kind.Semantic())
}

func TestReadResponseHeaderTooLarge(t *testing.T) {
	raw := "HTTP/1.1 200 OK\r\nX-Big: " + strings.Repeat("a", 100) + "\r\n\r\n"
	_, err := transport.ReadResponseHeader(bufio.NewReaderSize(strings.NewReader(raw), 32))
	require.Error(t, err)
	assert.ErrorIs(t, err, http.ErrBadResponse)
}
