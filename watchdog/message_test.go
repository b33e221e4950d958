//go:build !windows

package watchdog

import (
	"net"
	"os"
	"testing"

	"github.com/cterm-go/cterm/internal/fdpassing"
)

func pair(t *testing.T) (*net.UnixConn, *net.UnixConn) {
	t.Helper()
	a, b, err := fdpassing.Socketpair()
	if err != nil {
		t.Fatalf("Socketpair: %v", err)
	}
	aFile := os.NewFile(uintptr(a), "a")
	bFile := os.NewFile(uintptr(b), "b")
	defer aFile.Close()
	defer bFile.Close()

	aConn, err := net.FileConn(aFile)
	if err != nil {
		t.Fatalf("FileConn: %v", err)
	}
	bConn, err := net.FileConn(bFile)
	if err != nil {
		t.Fatalf("FileConn: %v", err)
	}
	return aConn.(*net.UnixConn), bConn.(*net.UnixConn)
}

func TestRegisterFd(t *testing.T) {
	client, server := pair(t)
	defer client.Close()
	defer server.Close()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	if err := RegisterFd(client, 7, int(r.Fd())); err != nil {
		t.Fatalf("RegisterFd: %v", err)
	}

	buf := make([]byte, 16)
	fds, n, err := fdpassing.Recv(server, 4, buf)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	defer fdpassing.Close(fds)

	if n == 0 || MessageKind(buf[0]) != MsgRegisterFd {
		t.Fatalf("expected MsgRegisterFd, got byte %v (n=%d)", buf[:n], n)
	}
	if len(fds) != 1 {
		t.Fatalf("expected 1 fd, got %d", len(fds))
	}
	id, err := parseRegisterID(buf[:n])
	if err != nil {
		t.Fatalf("parseRegisterID: %v", err)
	}
	if id != 7 {
		t.Errorf("expected id 7, got %d", id)
	}
}

func TestUnregisterFd(t *testing.T) {
	client, server := pair(t)
	defer client.Close()
	defer server.Close()

	if err := UnregisterFd(client, 42); err != nil {
		t.Fatalf("UnregisterFd: %v", err)
	}

	buf := make([]byte, 16)
	n, err := server.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if MessageKind(buf[0]) != MsgUnregisterFd {
		t.Fatalf("expected MsgUnregisterFd, got %v", buf[0])
	}
	id, err := parseUnregisterID(buf[:n])
	if err != nil {
		t.Fatalf("parseUnregisterID: %v", err)
	}
	if id != 42 {
		t.Errorf("expected id 42, got %d", id)
	}
}

func TestNotifyShutdownAndHeartbeat(t *testing.T) {
	client, server := pair(t)
	defer client.Close()
	defer server.Close()

	if err := NotifyShutdown(client); err != nil {
		t.Fatalf("NotifyShutdown: %v", err)
	}
	buf := make([]byte, 1)
	if _, err := server.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if MessageKind(buf[0]) != MsgShutdown {
		t.Errorf("expected MsgShutdown, got %v", buf[0])
	}

	if err := Heartbeat(client); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	if _, err := server.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if MessageKind(buf[0]) != MsgHeartbeat {
		t.Errorf("expected MsgHeartbeat, got %v", buf[0])
	}
}
