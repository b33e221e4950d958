//go:build !windows

package session

import (
	"testing"
	"time"

	"github.com/cterm-go/cterm/pty"
	"github.com/cterm-go/cterm/term"
)

func waitForEvent(t *testing.T, s *Session, kind EventKind, timeout time.Duration) Event {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-s.Events():
			if !ok {
				t.Fatalf("event channel closed before seeing kind %d", kind)
			}
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for event kind %d", kind)
		}
	}
}

func TestSessionEchoesIntoTerminal(t *testing.T) {
	s, err := New(pty.Config{
		Size:  pty.Size{Rows: 24, Cols: 80},
		Shell: "/bin/cat",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if _, err := s.Write([]byte("hi\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	waitForEvent(t, s, EventContentChanged, 2*time.Second)

	if got := s.Term.Cell(0, 0); got == nil || got.Char != 'h' {
		t.Fatalf("expected echoed 'h' at (0,0), got %+v", got)
	}
}

func TestSessionHandleKeyWritesEncodedBytes(t *testing.T) {
	s, err := New(pty.Config{
		Size:  pty.Size{Rows: 24, Cols: 80},
		Shell: "/bin/cat",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if err := s.HandleKey(term.KeyUp, 0); err != nil {
		t.Fatalf("HandleKey: %v", err)
	}

	waitForEvent(t, s, EventContentChanged, 2*time.Second)
}

func TestSessionEmitsProcessExited(t *testing.T) {
	s, err := New(pty.Config{
		Size:  pty.Size{Rows: 24, Cols: 80},
		Shell: "/bin/sh",
		Args:  []string{"-c", "exit 3"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	ev := waitForEvent(t, s, EventProcessExited, 2*time.Second)
	if ev.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", ev.ExitCode)
	}
}
