package transport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frankli0324/go-fetch/internal/transport"
)

func TestIsRedirectStatus(t *testing.T) {
	for _, code := range []int{301, 302, 303, 307, 308} {
		assert.True(t, transport.IsRedirectStatus(code), code)
	}
	for _, code := range []int{100, 200, 300, 304, 404, 500} {
		assert.False(t, transport.IsRedirectStatus(code), code)
	}
}

func TestIsRedirectMethodGet(t *testing.T) {
	cases := []struct {
		code   int
		method string
		want   bool
	}{
		{301, "POST", true},
		{302, "POST", true},
		{301, "GET", false},
		{302, "PUT", false},
		{303, "GET", true},
		{303, "PUT", true},
		{307, "POST", false},
		{308, "POST", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, transport.IsRedirectMethodGet(c.code, c.method), "%d %s", c.code, c.method)
	}
}

func TestIsChunked(t *testing.T) {
	assert.True(t, transport.IsChunked([]string{"chunked"}))
	assert.True(t, transport.IsChunked([]string{"gzip, chunked"}))
	assert.True(t, transport.IsChunked([]string{"gzip", "Chunked"}))
	assert.False(t, transport.IsChunked([]string{"chunked", "gzip"}))
	assert.False(t, transport.IsChunked([]string{"chunked, gzip"}))
	assert.False(t, transport.IsChunked(nil))
	assert.False(t, transport.IsChunked([]string{"\x01chunked"}))
}

func TestIsPersistentConnection(t *testing.T) {
	assert.True(t, transport.IsPersistentConnection(1, 1, nil))
	assert.True(t, transport.IsPersistentConnection(1, 1, []string{"keep-alive"}))
	assert.False(t, transport.IsPersistentConnection(1, 0, nil))
	assert.False(t, transport.IsPersistentConnection(1, 0, []string{"keep-alive"}))
	assert.False(t, transport.IsPersistentConnection(1, 1, []string{"close"}))
	assert.False(t, transport.IsPersistentConnection(1, 1, []string{"keep-alive", "Upgrade, Close"}))
	assert.False(t, transport.IsPersistentConnection(1, 1, []string{"\xffkeep-alive"}))
}

func TestGetContentLength(t *testing.T) {
	cases := []struct {
		values []string
		n      int64
		ok     bool
	}{
		{[]string{"5"}, 5, true},
		{[]string{"5", "5"}, 5, true},
		{[]string{"5", "6"}, 0, false},
		{[]string{"abc"}, 0, false},
		{[]string{"abc", "7"}, 7, true},
		{[]string{"-1"}, 0, false},
		{[]string{"5, 6"}, 0, false},
		{[]string{" 0 "}, 0, true},
		{nil, 0, false},
	}
	for _, c := range cases {
		n, ok := transport.GetContentLength(c.values)
		assert.Equal(t, c.ok, ok, "%q", c.values)
		assert.Equal(t, c.n, n, "%q", c.values)
	}
}
