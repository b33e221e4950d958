//go:build !windows

package pty

import (
	"bytes"
	"testing"
	"time"
)

func TestOpenWriteRead(t *testing.T) {
	p, err := Open(Config{
		Size:  Size{Rows: 24, Cols: 80},
		Shell: "/bin/cat",
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	if _, err := p.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	buf := make([]byte, 64)
	done := make(chan struct{})
	var n int
	var readErr error
	go func() {
		n, readErr = p.Read(buf)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pty echo")
	}
	if readErr != nil {
		t.Fatalf("Read: %v", readErr)
	}
	if !bytes.Contains(buf[:n], []byte("hello")) {
		t.Fatalf("expected echo of %q, got %q", "hello", buf[:n])
	}

	if p.ChildPID() <= 0 {
		t.Fatalf("expected positive child pid, got %d", p.ChildPID())
	}
}

func TestResize(t *testing.T) {
	p, err := Open(Config{Size: Size{Rows: 24, Cols: 80}, Shell: "/bin/cat"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	if err := p.Resize(Size{Rows: 40, Cols: 120}); err != nil {
		t.Fatalf("Resize: %v", err)
	}
}

func TestRawHandleRoundTrip(t *testing.T) {
	p, err := Open(Config{Size: Size{Rows: 24, Cols: 80}, Shell: "/bin/cat"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	hs, err := p.RawHandle()
	if err != nil {
		t.Fatalf("RawHandle: %v", err)
	}
	if len(hs.FDs) != 1 {
		t.Fatalf("expected exactly one fd, got %d", len(hs.FDs))
	}

	reconstructed, err := FromRaw(hs.FDs[0], p.ChildPID())
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}
	defer reconstructed.Close()

	if reconstructed.ChildPID() != p.ChildPID() {
		t.Fatalf("child pid mismatch: %d != %d", reconstructed.ChildPID(), p.ChildPID())
	}
	if !reconstructed.IsRunning() {
		t.Fatal("expected reconstructed pty's child to still be running")
	}
}

func TestIsRunningFalseAfterExit(t *testing.T) {
	p, err := Open(Config{Size: Size{Rows: 24, Cols: 80}, Shell: "/bin/true"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer p.Close()

	time.Sleep(100 * time.Millisecond)
	p.IsRunning() // reap
	if p.IsRunning() {
		t.Fatal("expected /bin/true to have exited")
	}
}
