//go:build !windows

package fdpassing

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// ErrTooManyFDs is returned when a send or receive would exceed MaxFDs or a
// caller-supplied stricter limit.
var ErrTooManyFDs = errors.New("fdpassing: too many file descriptors")

// Send writes data to conn with fds attached as an SCM_RIGHTS ancillary
// message. sendmsg requires at least one byte of data even when only
// descriptors are being sent.
func Send(conn *net.UnixConn, fds []int, data []byte) error {
	if len(fds) > MaxFDs {
		return ErrTooManyFDs
	}
	oob := unix.UnixRights(fds...)
	if len(data) == 0 {
		data = []byte{0}
	}
	n, oobn, err := conn.WriteMsgUnix(data, oob, nil)
	if err != nil {
		return fmt.Errorf("fdpassing: sendmsg: %w", err)
	}
	if n != len(data) || oobn != len(oob) {
		return fmt.Errorf("fdpassing: sendmsg: short write")
	}
	return nil
}

// Recv reads data plus any SCM_RIGHTS file descriptors from conn. maxFDs
// sizes the control-message buffer; a peer claiming more than maxFDs
// descriptors causes every received descriptor to be closed and
// ErrTooManyFDs returned.
func Recv(conn *net.UnixConn, maxFDs int, buf []byte) ([]int, int, error) {
	oob := make([]byte, unix.CmsgSpace(maxFDs*4))
	n, oobn, _, _, err := conn.ReadMsgUnix(buf, oob)
	if err != nil {
		return nil, 0, fmt.Errorf("fdpassing: recvmsg: %w", err)
	}

	msgs, err := unix.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		return nil, n, fmt.Errorf("fdpassing: parse control message: %w", err)
	}

	var fds []int
	for _, msg := range msgs {
		parsed, err := unix.ParseUnixRights(&msg)
		if err != nil {
			continue
		}
		fds = append(fds, parsed...)
	}
	if len(fds) > maxFDs {
		Close(fds)
		return nil, 0, ErrTooManyFDs
	}
	return fds, n, nil
}

// Close closes every descriptor in fds, ignoring errors.
func Close(fds []int) {
	for _, fd := range fds {
		unix.Close(fd)
	}
}

// Socketpair creates a connected pair of raw Unix domain socket descriptors,
// the Go equivalent of std::os::unix::net::UnixStream::pair().
func Socketpair() (int, int, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return 0, 0, err
	}
	return fds[0], fds[1], nil
}

// ClearCloexec removes FD_CLOEXEC from fd so it survives into a child
// process spawned after this call returns, without needing Go's ExtraFiles
// mechanism (which already clears it) — used when a raw fd must be passed
// via an explicit command-line argument instead.
func ClearCloexec(fd int) error {
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	if err != nil {
		return err
	}
	_, err = unix.FcntlInt(uintptr(fd), unix.F_SETFD, flags&^unix.FD_CLOEXEC)
	return err
}
