package dialer

import (
	"context"
	"net"

	"github.com/frankli0324/go-fetch/internal/http"
)

var zeroDialer net.Dialer

func (d *CoreDialer) Dial(ctx context.Context, o http.Origin) (net.Conn, error) {
	addr, port := o.Host, o.Port
	network, dst := "tcp", o.Addr()
	dialer := zeroDialer
	dialer.Control = d.SocketConfig.control

	if cfg := d.ResolveConfig; cfg != nil {
		if cfg.Network == "ip4" {
			network = "tcp4"
		} else if cfg.Network == "ip6" {
			network = "tcp6"
		}
		if static, ok := cfg.StaticHosts[addr]; ok {
			dst = net.JoinHostPort(static, port)
		} else if cfg.CustomDNSServer != "" && net.ParseIP(addr) == nil {
			ips, err := d.lookup(ctx, cfg, addr)
			if err != nil {
				return nil, err
			}
			dst = net.JoinHostPort(ips[0].String(), port)
		}
	}
	return dialer.DialContext(ctx, network, dst)
}
