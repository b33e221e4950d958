//go:build !windows

package upgrade

import (
	"net"

	"github.com/cterm-go/cterm/internal/fdpassing"
)

// sendFDs and recvFDs adapt the shared fdpassing primitive to this
// package's MaxFDs cap and *Error wrapping.
func sendFDs(conn *net.UnixConn, fds []int, data []byte) error {
	if len(fds) > MaxFDs {
		return newErr(ErrCapExceeded, "send_fds", nil)
	}
	if err := fdpassing.Send(conn, fds, data); err != nil {
		return newErr(ErrTransport, "sendmsg", err)
	}
	return nil
}

func recvFDs(conn *net.UnixConn, maxFDs int, buf []byte) ([]int, int, error) {
	fds, n, err := fdpassing.Recv(conn, maxFDs, buf)
	if err != nil {
		if err == fdpassing.ErrTooManyFDs {
			return nil, 0, newErr(ErrCapExceeded, "recv_fds", err)
		}
		return nil, n, newErr(ErrTransport, "recvmsg", err)
	}
	return fds, n, nil
}

func closeFDs(fds []int) {
	fdpassing.Close(fds)
}

func socketpairFDs() (int, int, error) {
	return fdpassing.Socketpair()
}
