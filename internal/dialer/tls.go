package dialer

import (
	"context"
	"crypto/tls"
	"net"
)

// TLSFactory performs client handshakes sharing one base config, and with
// it one session cache. A client builds it once, on its first secure
// connection.
type TLSFactory struct {
	config *tls.Config
}

func NewTLSFactory(base *tls.Config) *TLSFactory {
	config := base.Clone()
	if config == nil {
		config = &tls.Config{}
	}
	if config.ClientSessionCache == nil {
		config.ClientSessionCache = tls.NewLRUClientSessionCache(0)
	}
	return &TLSFactory{config: config}
}

// Handshake secures conn, verifying the peer certificate against domain.
// conn is not closed on failure.
func (f *TLSFactory) Handshake(ctx context.Context, conn net.Conn, domain string) (*tls.Conn, error) {
	config := f.config.Clone()
	config.ServerName = domain
	c := tls.Client(conn, config)
	if err := c.HandshakeContext(ctx); err != nil {
		return nil, err
	}
	return c, nil
}
