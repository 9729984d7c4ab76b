//go:build !(darwin || linux || freebsd || netbsd || openbsd)

package dialer

import "syscall"

func (c *SocketConfig) control(network, address string, rc syscall.RawConn) error {
	return nil
}
