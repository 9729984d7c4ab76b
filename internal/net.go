package internal

import (
	"context"
	"crypto/tls"
	"net"

	"golang.org/x/net/idna"

	"github.com/frankli0324/go-fetch/internal/dialer"
	"github.com/frankli0324/go-fetch/internal/http"
)

var defaultDialer = &dialer.CoreDialer{
	TLSConfig: &tls.Config{},
}

func (c *Client) getDialer() Dialer {
	if c.dialer != nil {
		return c.dialer
	}
	return defaultDialer
}

// secure returns the TLS factory, building it on first use from the
// TLSConfig of the core dialer.
func (c *Client) secure() *dialer.TLSFactory {
	if c.tlsFactory == nil {
		var base *tls.Config
		if cd := dialer.Core(c.getDialer()); cd != nil {
			base = cd.TLSConfig
		}
		c.tlsFactory = dialer.NewTLSFactory(base)
	}
	return c.tlsFactory
}

// dial opens a connection to o, securing it if domain is set.
func (c *Client) dial(ctx context.Context, o http.Origin, domain string) (net.Conn, error) {
	conn, err := c.getDialer().Dial(ctx, o)
	if err != nil {
		return nil, http.Wrap(http.KindTransport, "dial", err)
	}
	if domain == "" {
		return conn, nil
	}
	tc, err := c.secure().Handshake(ctx, conn, domain)
	if err != nil {
		conn.Close()
		return nil, http.Wrap(http.KindTLS, "handshake", err)
	}
	return tc, nil
}

// serverName returns the name certificates of host are verified against.
// TLS requires a domain name, IP literals have none.
func serverName(host string) (string, error) {
	if host == "" || net.ParseIP(host) != nil {
		return "", http.ErrNoDomain
	}
	name, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", &http.Error{Kind: http.KindNoDomain, Op: "idna", Err: err}
	}
	return name, nil
}
