package http

import (
	"net"
	"net/url"
	"strings"
)

var schemes = map[string]string{
	"http": "80", "https": "443",
}

// Origin identifies a connection endpoint. Two requests may share a
// connection iff their origins are equal.
type Origin struct {
	Scheme string
	Host   string
	Port   string
}

// OriginOf derives the origin of u, filling in the default port of the scheme.
func OriginOf(u *url.URL) Origin {
	o := Origin{
		Scheme: strings.ToLower(u.Scheme),
		Host:   strings.ToLower(u.Hostname()),
		Port:   u.Port(),
	}
	if o.Port == "" {
		o.Port = schemes[o.Scheme]
	}
	return o
}

// Addr is the host:port pair to dial.
func (o Origin) Addr() string {
	return net.JoinHostPort(o.Host, o.Port)
}

func (o Origin) String() string {
	return o.Scheme + "://" + o.Addr()
}
