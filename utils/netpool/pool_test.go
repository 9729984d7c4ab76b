package netpool_test

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankli0324/go-fetch/utils/netpool"
)

func pipeDialer(peers *[]net.Conn) func(context.Context) (net.Conn, error) {
	return func(context.Context) (net.Conn, error) {
		client, server := net.Pipe()
		*peers = append(*peers, server)
		return client, nil
	}
}

func TestConnectAndReuse(t *testing.T) {
	var peers []net.Conn
	p := netpool.NewPool(0, nil)

	c, reused, err := p.Connect(context.Background(), "a", pipeDialer(&peers))
	require.NoError(t, err)
	assert.False(t, reused)
	assert.True(t, c.Available())
	assert.Zero(t, p.Len())

	p.Release("a", c)
	assert.Equal(t, 1, p.Len())

	again, reused, err := p.Connect(context.Background(), "a", pipeDialer(&peers))
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Same(t, c, again)
	assert.Len(t, peers, 1)
	assert.Zero(t, p.Len())

	other, reused, err := p.Connect(context.Background(), "b", pipeDialer(&peers))
	require.NoError(t, err)
	assert.False(t, reused)
	assert.NotSame(t, c, other)
}

func TestConnectDialError(t *testing.T) {
	boom := errors.New("boom")
	p := netpool.NewPool(0, nil)
	_, _, err := p.Connect(context.Background(), "a", func(context.Context) (net.Conn, error) {
		return nil, boom
	})
	assert.Same(t, boom, err)
}

func TestReleaseReplacesStale(t *testing.T) {
	var peers []net.Conn
	p := netpool.NewPool(0, nil)
	first, _, _ := p.Connect(context.Background(), "a", pipeDialer(&peers))
	second, _, _ := p.Connect(context.Background(), "a", pipeDialer(&peers))

	p.Release("a", first)
	p.Release("a", second)
	assert.Equal(t, 1, p.Len())
	assert.False(t, first.Available())
	assert.Same(t, second, p.Take("a"))
	assert.Nil(t, p.Take("a"))
}

func TestReleaseClosed(t *testing.T) {
	var peers []net.Conn
	p := netpool.NewPool(0, nil)
	c, _, _ := p.Connect(context.Background(), "a", pipeDialer(&peers))
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	p.Release("a", c)
	assert.Zero(t, p.Len())
}

func TestCloseIdle(t *testing.T) {
	var peers []net.Conn
	p := netpool.NewPool(0, nil)
	for _, key := range []string{"a", "b"} {
		c, _, _ := p.Connect(context.Background(), key, pipeDialer(&peers))
		p.Release(key, c)
	}
	require.Equal(t, 2, p.Len())
	p.CloseIdle()
	assert.Zero(t, p.Len())
	for _, peer := range peers {
		_, err := peer.Read(make([]byte, 1))
		assert.ErrorIs(t, err, io.EOF)
	}
}

func TestConnBuffersAndErrors(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	var peers []net.Conn
	p := netpool.NewPool(32, log)
	c, _, err := p.Connect(context.Background(), "a", pipeDialer(&peers))
	require.NoError(t, err)
	assert.Equal(t, 32, c.R.Size())

	go func() {
		peers[0].Write([]byte("hello"))
		peers[0].Close()
	}()
	line, err := c.R.Peek(5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(line))
	c.R.Discard(5)

	_, err = c.R.ReadByte()
	assert.ErrorIs(t, err, io.EOF)
	assert.False(t, c.Available())
	// EOF is the regular end of a stream and is not logged
	assert.Empty(t, hook.AllEntries())

	_, err = c.Raw().Write([]byte("x"))
	assert.Error(t, err)
	_, err = c.W.WriteString("late")
	require.NoError(t, err)
	assert.Error(t, c.W.Flush())
	assert.NotEmpty(t, hook.AllEntries())
}

func TestConfigure(t *testing.T) {
	var peers []net.Conn
	p := netpool.NewPool(64, nil)
	first, _, err := p.Connect(context.Background(), "a", pipeDialer(&peers))
	require.NoError(t, err)
	assert.Equal(t, 64, first.R.Size())
	p.Release("a", first)

	p.Configure(128, nil)
	// the idle connection keeps its buffer
	again, reused, err := p.Connect(context.Background(), "a", pipeDialer(&peers))
	require.NoError(t, err)
	assert.True(t, reused)
	assert.Equal(t, 64, again.R.Size())

	fresh, reused, err := p.Connect(context.Background(), "b", pipeDialer(&peers))
	require.NoError(t, err)
	assert.False(t, reused)
	assert.Equal(t, 128, fresh.R.Size())

	p.Configure(0, nil)
	def, _, err := p.Connect(context.Background(), "c", pipeDialer(&peers))
	require.NoError(t, err)
	assert.Equal(t, 64<<10, def.R.Size())
}
