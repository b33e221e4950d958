//go:build !windows

package upgrade

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
)

// ExecuteUpgrade spawns newBinary as a successor process, hands it state and
// fds over a freshly created socketpair via SCM_RIGHTS, and blocks until the
// successor acknowledges receipt with a single byte. The caller should exit
// once ExecuteUpgrade returns nil: the successor now owns the PTYs.
func ExecuteUpgrade(newBinary string, state *UpgradeState, fds []int, extraArgs ...string) error {
	if len(fds) > MaxFDs {
		return newErr(ErrCapExceeded, "execute_upgrade", fmt.Errorf("%d fds exceeds max %d", len(fds), MaxFDs))
	}

	stateBytes, err := json.Marshal(state)
	if err != nil {
		return newErr(ErrSerialization, "marshal", err)
	}
	if len(stateBytes) > MaxStateSize {
		return newErr(ErrSerialization, "marshal", fmt.Errorf("state is %d bytes, exceeds max %d", len(stateBytes), MaxStateSize))
	}

	parent, child, err := socketpair()
	if err != nil {
		return newErr(ErrTransport, "socketpair", err)
	}
	defer parent.Close()

	childFile, err := child.File()
	if err != nil {
		child.Close()
		return newErr(ErrTransport, "child_file", err)
	}
	defer childFile.Close()
	child.Close()

	// exec.Cmd.ExtraFiles always lands at fd 3 in the child for the first
	// entry, regardless of childFile's descriptor number in this process,
	// so that's what the successor is told to read from.
	const childUpgradeFD = 3
	args := append([]string{"--upgrade-receiver", fmt.Sprintf("%d", childUpgradeFD)}, extraArgs...)
	cmd := exec.Command(newBinary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{childFile}
	if err := cmd.Start(); err != nil {
		return newErr(ErrTransport, "spawn", err)
	}

	if err := sendFDs(parent, fds, stateBytes); err != nil {
		return err
	}

	ack := make([]byte, 1)
	if _, err := parent.Read(ack); err != nil {
		return newErr(ErrAck, "read_ack", err)
	}
	if ack[0] != 1 {
		return newErr(ErrAck, "read_ack", fmt.Errorf("unexpected ack byte %d", ack[0]))
	}
	return nil
}

// ReceiveUpgrade is run by a successor process started with
// --upgrade-receiver <fd>. It reads the predecessor's state and fds off the
// inherited socket and sends back the single-byte ack once it has them.
func ReceiveUpgrade(fd int) (*UpgradeState, []int, error) {
	file := os.NewFile(uintptr(fd), "upgrade-receiver")
	conn, err := net.FileConn(file)
	file.Close()
	if err != nil {
		return nil, nil, newErr(ErrTransport, "fileconn", err)
	}
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		conn.Close()
		return nil, nil, newErr(ErrTransport, "fileconn", fmt.Errorf("inherited fd %d is not a unix socket", fd))
	}
	defer unixConn.Close()

	buf := make([]byte, MaxStateSize)
	fds, n, err := recvFDs(unixConn, MaxFDs, buf)
	if err != nil {
		return nil, nil, err
	}

	var state UpgradeState
	if err := json.Unmarshal(buf[:n], &state); err != nil {
		closeFDs(fds)
		return nil, nil, newErr(ErrSerialization, "unmarshal", err)
	}
	if state.FormatVersion > FormatVersion {
		closeFDs(fds)
		return nil, nil, newErr(ErrSerialization, "unmarshal", fmt.Errorf("state format version %d is newer than supported %d", state.FormatVersion, FormatVersion))
	}

	if _, err := unixConn.Write([]byte{1}); err != nil {
		closeFDs(fds)
		return nil, nil, newErr(ErrAck, "write_ack", err)
	}

	return &state, fds, nil
}

// socketpair creates a connected pair of Unix domain sockets for the
// upgrade handshake.
func socketpair() (*net.UnixConn, *net.UnixConn, error) {
	a, b, err := socketpairFDs()
	if err != nil {
		return nil, nil, err
	}
	aFile := os.NewFile(uintptr(a), "upgrade-parent")
	bFile := os.NewFile(uintptr(b), "upgrade-child")
	defer aFile.Close()
	defer bFile.Close()

	aConn, err := net.FileConn(aFile)
	if err != nil {
		return nil, nil, err
	}
	bConn, err := net.FileConn(bFile)
	if err != nil {
		aConn.Close()
		return nil, nil, err
	}
	return aConn.(*net.UnixConn), bConn.(*net.UnixConn), nil
}
