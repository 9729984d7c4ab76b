// Package dialer exposes the connection openers of the client.
//
// A Dialer only opens byte streams. It never keeps connections around, the
// client owns the single idle connection per origin, so a Dialer can be
// swapped with Client.UseDialer at any time.
package dialer

import (
	"github.com/frankli0324/go-fetch/internal/dialer"
)

// Dialer opens the raw stream to an origin, e.g. a TCP connection.
type Dialer = dialer.Dialer

// CoreDialer is the [Dialer] of a zero value Client. Its TLSConfig is the
// base config of every secure connection the client makes.
type CoreDialer = dialer.CoreDialer

// ResolveConfig replaces system name resolution for a CoreDialer, either
// with a static table or with a custom DNS server queried by the pure Go
// resolver.
type ResolveConfig = dialer.ResolveConfig

// SocketConfig sets socket options on new connections.
type SocketConfig = dialer.SocketConfig

// TLSFactory performs the client side TLS handshake.
type TLSFactory = dialer.TLSFactory

var NewTLSFactory = dialer.NewTLSFactory
