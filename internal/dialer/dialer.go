package dialer

import (
	"crypto/tls"

	"github.com/frankli0324/go-fetch/internal/http"
)

// Dialers open the raw byte stream for an origin, including resolving
// hostnames through a custom resolver and tuning sockets. The secure
// handshake is done by the client with a [TLSFactory] built from TLSConfig.
type Dialer = http.Dialer

type CoreDialer struct {
	ResolveConfig *ResolveConfig
	SocketConfig  *SocketConfig

	TLSConfig *tls.Config // the config to use
}

func (d *CoreDialer) Clone() *CoreDialer {
	return &CoreDialer{
		ResolveConfig: d.ResolveConfig.Clone(),
		SocketConfig:  d.SocketConfig.Clone(),
		TLSConfig:     d.TLSConfig.Clone(),
	}
}

func (d *CoreDialer) Unwrap() Dialer {
	return nil
}

// Core returns the first *[CoreDialer] in the chain of d.
func Core(d Dialer) *CoreDialer {
	for d != nil {
		if cd, ok := d.(*CoreDialer); ok {
			return cd
		}
		d = d.Unwrap()
	}
	return nil
}
