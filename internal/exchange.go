package internal

import (
	"context"
	"net"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/frankli0324/go-fetch/internal/http"
	"github.com/frankli0324/go-fetch/internal/transport"
	"github.com/frankli0324/go-fetch/utils/netpool"
)

// roundTrip leases a connection for the origin of req, performs one
// exchange on it and returns it to the pool if the response allows.
func (c *Client) roundTrip(ctx context.Context, req *PreparedRequest, dst http.Decoder) (*http.Response, error) {
	origin := req.Origin()
	var domain string
	if origin.Scheme == "https" {
		var err error
		if domain, err = serverName(origin.Host); err != nil {
			return nil, err
		}
	}
	log := c.logger().WithField("origin", origin.String())

	pool := c.getPool()
	conn, reused, err := pool.Connect(ctx, origin, func(ctx context.Context) (net.Conn, error) {
		log.Debug("dialing new connection")
		return c.dial(ctx, origin, domain)
	})
	if err != nil {
		return nil, err
	}
	if reused {
		log.Debug("reusing connection")
	}
	trace := ContextClientTrace(ctx)
	trace.gotConn(origin, reused)

	resp, body, err := exchange(conn, req, trace)
	if err != nil {
		conn.Close()
		return nil, err
	}
	resp.URL = cloneURL(req)

	// redirect bodies are never handed to the caller
	if transport.IsRedirectStatus(resp.StatusCode) {
		dst = http.Discard
	}
	if err := dst.DecodeBody(resp, body); err != nil {
		conn.Close()
		return nil, err
	}
	c.release(log, origin, conn, resp, body)
	return resp, nil
}

// exchange writes req to conn and reads the response header block.
func exchange(conn *netpool.Conn, req *PreparedRequest, trace *ClientTrace) (*http.Response, *transport.Body, error) {
	err := transport.WriteRequest(conn.W, req)
	if err == nil {
		err = http.Wrap(http.KindTransport, "write", conn.W.Flush())
	}
	trace.wroteRequest(err)
	if err != nil {
		return nil, nil, err
	}

	resp, err := transport.ReadResponseHeader(conn.R)
	if err != nil {
		return nil, nil, err
	}
	trace.gotResponseHeader(resp)
	kind, err := transport.SelectBodyKind(resp, req.Method == "HEAD")
	if err != nil {
		return nil, nil, err
	}
	if kind.Framing == transport.FramingFixed {
		resp.ContentLength = kind.Length
	}
	return resp, transport.NewBody(conn.R, kind), nil
}

// release pools conn if the connection persists and the body was read to
// its end, otherwise conn is closed. The final response to an interim 1xx
// is still on the wire, such connections are closed as well.
func (c *Client) release(log logrus.FieldLogger, origin http.Origin, conn *netpool.Conn, resp *http.Response, body *transport.Body) {
	if transport.IsPersistentConnection(resp.ProtoMajor, resp.ProtoMinor, resp.Header["Connection"]) &&
		resp.StatusCode/100 != 1 && body.Done() && conn.Available() {
		log.Debug("keeping connection for later use")
		c.getPool().Release(origin, conn)
		return
	}
	conn.Close()
	log.Debug("closed connection")
}

func cloneURL(req *PreparedRequest) *url.URL {
	u := *req.U
	return &u
}
