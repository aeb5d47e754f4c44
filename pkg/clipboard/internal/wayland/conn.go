//go:build linux

package wayland

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// conn is a buffered client connection to the compositor socket.
type conn struct {
	fd         int
	inBuf      []byte
	pendingFds []int
}

func dial(sockPath string) (*conn, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	if err := unix.Connect(fd, &unix.SockaddrUnix{Name: sockPath}); err != nil {
		unix.Close(fd) //nolint:errcheck
		return nil, err
	}
	return &conn{fd: fd}, nil
}

func (c *conn) close() {
	for _, fd := range c.pendingFds {
		unix.Close(fd) //nolint:errcheck
	}
	unix.Close(c.fd) //nolint:errcheck
}

func (c *conn) send(object uint32, opcode uint16, args ...[]byte) error {
	_, err := unix.Write(c.fd, frame(object, opcode, args...))
	return err
}

// next blocks until a complete event is buffered and returns it together with
// any fd passed alongside it via SCM_RIGHTS.
func (c *conn) next() (message, error) {
	for {
		if msg, rest, ok := splitFrame(c.inBuf); ok {
			c.inBuf = rest
			if len(c.pendingFds) > 0 {
				msg.fd = c.pendingFds[0]
				c.pendingFds = c.pendingFds[1:]
			}
			return msg, nil
		}

		buf := make([]byte, 4096)
		oob := make([]byte, unix.CmsgSpace(4*8))
		n, oobn, _, _, err := unix.Recvmsg(c.fd, buf, oob, 0)
		if err != nil {
			return message{}, err
		}
		if n == 0 {
			return message{}, fmt.Errorf("wayland: connection closed")
		}
		c.inBuf = append(c.inBuf, buf[:n]...)

		if oobn > 0 {
			c.collectFds(oob[:oobn])
		}
	}
}

func (c *conn) collectFds(oob []byte) {
	scms, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return
	}
	for i := range scms {
		rights, err := unix.ParseUnixRights(&scms[i])
		if err == nil {
			c.pendingFds = append(c.pendingFds, rights...)
		}
	}
}

func closeFd(fd int) {
	if fd >= 0 {
		unix.Close(fd) //nolint:errcheck
	}
}
