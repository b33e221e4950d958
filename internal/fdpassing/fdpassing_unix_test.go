//go:build !windows

package fdpassing

import (
	"net"
	"os"
	"testing"
)

func pair(t *testing.T) (*net.UnixConn, *net.UnixConn) {
	a, b, err := Socketpair()
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

func TestSendRecv(t *testing.T) {
	sender, receiver := pair(t)
	defer sender.Close()
	defer receiver.Close()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	if err := Send(sender, []int{int(r.Fd())}, []byte("ping")); err != nil {
		t.Fatalf("Send: %v", err)
	}

	buf := make([]byte, 32)
	fds, n, err := Recv(receiver, 4, buf)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	defer Close(fds)

	if string(buf[:n]) != "ping" {
		t.Errorf("expected %q, got %q", "ping", buf[:n])
	}
	if len(fds) != 1 {
		t.Fatalf("expected 1 fd, got %d", len(fds))
	}
}

func TestSendRecvTooManyFDs(t *testing.T) {
	sender, receiver := pair(t)
	defer sender.Close()
	defer receiver.Close()

	fds := make([]int, MaxFDs+1)
	if err := Send(sender, fds, []byte("x")); err != ErrTooManyFDs {
		t.Fatalf("expected ErrTooManyFDs, got %v", err)
	}
}
