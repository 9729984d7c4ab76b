package netpool

import (
	"bufio"
	"io"
	"net"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Conn is a pooled connection. R and W buffer the raw connection and travel
// with it through the pool, so bytes buffered past a response are kept for
// the next one.
type Conn struct {
	R *bufio.Reader
	W *bufio.Writer

	conn     net.Conn
	isClosed atomic.Bool
	log      logrus.FieldLogger
}

func newConn(c net.Conn, bufSize int, log logrus.FieldLogger) *Conn {
	pc := &Conn{conn: c, log: log}
	pc.R = bufio.NewReaderSize(pc, bufSize)
	pc.W = bufio.NewWriter(pc)
	return pc
}

// Available reports whether the connection has not seen an error and was
// not closed.
func (c *Conn) Available() bool {
	return !c.isClosed.Load()
}

func (c *Conn) Raw() net.Conn {
	return c.conn
}

func (c *Conn) Write(p []byte) (n int, err error) {
	n, err = c.conn.Write(p)
	if err != nil {
		if err != io.EOF {
			c.log.Debugf("netpool: error on write. %v", err)
		}
		c.Close()
	}
	return
}

func (c *Conn) Read(p []byte) (n int, err error) {
	n, err = c.conn.Read(p)
	if err != nil {
		if err != io.EOF {
			c.log.Debugf("netpool: error on read. %v", err)
		}
		c.Close()
	}
	return n, err
}

func (c *Conn) Close() error {
	if c.isClosed.Swap(true) {
		return nil
	}
	return c.conn.Close()
}
