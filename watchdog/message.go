// Package watchdog supervises a cterm process from a lightweight parent: it
// spawns the child, hands it a socket the child uses to register its PTY
// file descriptors for safekeeping, and relaunches the child with a crash
// marker on unexpected exit — up to a bounded number of restarts — so that
// PTYs survive a crash the same way they survive a seamless upgrade.
//
// The watchdog is POSIX-only: it depends on SCM_RIGHTS descriptor passing,
// which has no Windows equivalent. A Windows build carries crash-marker
// persistence (crash.go) but not the supervising process itself.
//go:build !windows

package watchdog

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/cterm-go/cterm/internal/fdpassing"
)

// MessageKind identifies the wire messages exchanged between a supervised
// process and its watchdog over the socket passed via --supervised <fd>.
type MessageKind byte

const (
	// MsgRegisterFd registers a new PTY fd with the watchdog; it is
	// followed by the fd itself via SCM_RIGHTS.
	MsgRegisterFd MessageKind = 1
	// MsgUnregisterFd tells the watchdog a previously registered PTY
	// (identified by the id RegisterFd was given) is no longer needed.
	MsgUnregisterFd MessageKind = 2
	// MsgShutdown announces a graceful exit: no restart should follow.
	MsgShutdown MessageKind = 3
	// MsgHeartbeat is a liveness ping the watchdog simply acknowledges by
	// virtue of having read it.
	MsgHeartbeat MessageKind = 4
)

// RegisterFd sends a PTY fd to the watchdog on conn, tagged with id (chosen
// by the caller, e.g. a tab id) so a later UnregisterFd(id) tells the
// watchdog which fd to drop.
func RegisterFd(conn *net.UnixConn, id uint64, ptyFD int) error {
	buf := make([]byte, 9)
	buf[0] = byte(MsgRegisterFd)
	binary.LittleEndian.PutUint64(buf[1:], id)
	return fdpassing.Send(conn, []int{ptyFD}, buf)
}

// parseRegisterID extracts the id RegisterFd tagged its message with.
func parseRegisterID(buf []byte) (uint64, error) {
	if len(buf) < 9 {
		return 0, fmt.Errorf("watchdog: short RegisterFd message (%d bytes)", len(buf))
	}
	return binary.LittleEndian.Uint64(buf[1:9]), nil
}

// UnregisterFd tells the watchdog to close and forget the PTY registered
// under id.
func UnregisterFd(conn *net.UnixConn, id uint64) error {
	buf := make([]byte, 9)
	buf[0] = byte(MsgUnregisterFd)
	binary.LittleEndian.PutUint64(buf[1:], id)
	_, err := conn.Write(buf)
	return err
}

// NotifyShutdown tells the watchdog this process is exiting on purpose and
// should not be restarted.
func NotifyShutdown(conn *net.UnixConn) error {
	_, err := conn.Write([]byte{byte(MsgShutdown)})
	return err
}

// Heartbeat pings the watchdog to confirm this process is still alive.
func Heartbeat(conn *net.UnixConn) error {
	_, err := conn.Write([]byte{byte(MsgHeartbeat)})
	return err
}

func parseUnregisterID(buf []byte) (uint64, error) {
	if len(buf) < 9 {
		return 0, fmt.Errorf("watchdog: short UnregisterFd message (%d bytes)", len(buf))
	}
	return binary.LittleEndian.Uint64(buf[1:9]), nil
}
