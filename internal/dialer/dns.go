package dialer

import (
	"context"
	"net"
)

// ResolveConfig controls how the host of an origin becomes the address
// that is dialed. StaticHosts wins over CustomDNSServer, IP literals are
// never looked up.
type ResolveConfig struct {
	CustomDNSServer string            // host:port of the DNS server
	Network         string            // one of "ip4", "ip6", default is "ip"
	StaticHosts     map[string]string // lower case host to IP, like /etc/hosts
}

func (c *ResolveConfig) Clone() *ResolveConfig {
	if c == nil {
		return nil
	}
	hosts := make(map[string]string, len(c.StaticHosts))
	for k, v := range c.StaticHosts {
		hosts[k] = v
	}
	return &ResolveConfig{
		CustomDNSServer: c.CustomDNSServer,
		Network:         c.Network,
		StaticHosts:     hosts,
	}
}

// network returns the network passed to [net.Resolver.LookupIP].
func (c *ResolveConfig) network() string {
	if c.Network == "" {
		return "ip"
	}
	return c.Network
}

// serverResolver sends every query to server instead of the servers of the
// system configuration (e.g. /etc/resolv.conf).
func serverResolver(server string) *net.Resolver {
	return &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
			return zeroDialer.DialContext(ctx, network, server)
		},
	}
}

func (d *CoreDialer) lookup(ctx context.Context, cfg *ResolveConfig, host string) ([]net.IP, error) {
	ips, err := d.LookupIPServer(ctx, cfg.network(), host, cfg.CustomDNSServer)
	if err == nil && len(ips) == 0 {
		err = &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
	}
	return ips, err
}

// LookupIPServer resolves host on the DNS server dns. Custom [Dialer]s
// wrapping a *[CoreDialer] may reuse it.
func (d *CoreDialer) LookupIPServer(ctx context.Context, network, host, dns string) ([]net.IP, error) {
	return serverResolver(dns).LookupIP(ctx, network, host)
}
