package netpool

import (
	"context"
	"net"
	"sync"

	"github.com/sirupsen/logrus"
)

const defaultBufferSize = 64 << 10

// Pool keeps at most one idle connection per key. A connection is either
// idle in the pool or leased by exactly one caller, never both.
//
// Pooled connections are not probed, a connection the peer closed while
// idle fails on its next use.
type Pool struct {
	mu   sync.Mutex
	idle map[interface{}]*Conn

	// read buffer size of new connections, it bounds the response header
	// block
	bufSize int
	log     logrus.FieldLogger
}

func NewPool(bufSize int, log logrus.FieldLogger) *Pool {
	p := &Pool{idle: map[interface{}]*Conn{}}
	p.Configure(bufSize, log)
	return p
}

// Configure sets the buffer size and logger of connections dialed from now
// on. Idle connections keep theirs. A non-positive size means 64KiB, a nil
// log the logrus standard logger.
func (p *Pool) Configure(bufSize int, log logrus.FieldLogger) {
	if bufSize <= 0 {
		bufSize = defaultBufferSize
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	p.mu.Lock()
	p.bufSize, p.log = bufSize, log
	p.mu.Unlock()
}

// Connect leases the idle connection for key, or dials a new one.
func (p *Pool) Connect(ctx context.Context, key interface{}, dial func(ctx context.Context) (net.Conn, error)) (c *Conn, reused bool, err error) {
	if c := p.Take(key); c != nil {
		return c, true, nil
	}
	raw, err := dial(ctx)
	if err != nil {
		return nil, false, err
	}
	p.mu.Lock()
	size, log := p.bufSize, p.log
	p.mu.Unlock()
	return newConn(raw, size, log), false, nil
}

// Take removes and returns the idle connection for key, if any.
func (p *Pool) Take(key interface{}) *Conn {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.idle[key]
	if !ok {
		return nil
	}
	delete(p.idle, key)
	return c
}

// Release returns c to the pool, replacing and closing a stale entry for
// the same key. Closed connections are dropped.
func (p *Pool) Release(key interface{}, c *Conn) {
	if !c.Available() {
		return
	}
	p.mu.Lock()
	if p.idle == nil {
		p.idle = map[interface{}]*Conn{}
	}
	old := p.idle[key]
	p.idle[key] = c
	p.mu.Unlock()
	if old != nil && old != c {
		old.Close()
	}
}

// CloseIdle closes and forgets every idle connection.
func (p *Pool) CloseIdle() {
	p.mu.Lock()
	idle := p.idle
	p.idle = map[interface{}]*Conn{}
	p.mu.Unlock()
	for _, c := range idle {
		c.Close()
	}
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}
