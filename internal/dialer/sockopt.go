package dialer

// SocketConfig tunes sockets of new connections, zero fields keep the
// system defaults. It is ignored on platforms without BSD socket options.
type SocketConfig struct {
	ReceiveBuffer int  // SO_RCVBUF
	SendBuffer    int  // SO_SNDBUF
	ReuseAddr     bool // SO_REUSEADDR
}

func (c *SocketConfig) Clone() *SocketConfig {
	if c == nil {
		return nil
	}
	cc := *c
	return &cc
}
