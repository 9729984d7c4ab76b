//go:build darwin || linux || freebsd || netbsd || openbsd

package dialer

import (
	"syscall"

	"golang.org/x/sys/unix"
)

func (c *SocketConfig) control(network, address string, rc syscall.RawConn) error {
	if c == nil {
		return nil
	}
	var serr error
	err := rc.Control(func(fd uintptr) {
		if c.ReuseAddr {
			if serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); serr != nil {
				return
			}
		}
		if c.ReceiveBuffer > 0 {
			if serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, c.ReceiveBuffer); serr != nil {
				return
			}
		}
		if c.SendBuffer > 0 {
			serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, c.SendBuffer)
		}
	})
	if err != nil {
		return err
	}
	return serr
}
