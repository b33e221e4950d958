package watchdog

import (
	"testing"

	"github.com/cterm-go/cterm/upgrade"
)

func TestCrashStateRoundTrip(t *testing.T) {
	state := upgrade.NewUpgradeState("0.1.0")
	cs := NewCrashState(state, 1700000000)

	if err := WriteCrashState(cs); err != nil {
		t.Fatalf("WriteCrashState: %v", err)
	}
	defer ClearCrashState()

	restored, err := ReadCrashState()
	if err != nil {
		t.Fatalf("ReadCrashState: %v", err)
	}
	if restored.PID != cs.PID || restored.Timestamp != cs.Timestamp {
		t.Errorf("crash state did not round-trip: got %+v, want %+v", restored, cs)
	}
	if restored.State.CtermVersion != "0.1.0" {
		t.Errorf("expected embedded upgrade state to round-trip, got %q", restored.State.CtermVersion)
	}
}

func TestClearCrashStateIsIdempotent(t *testing.T) {
	if err := ClearCrashState(); err != nil {
		t.Fatalf("ClearCrashState on absent file: %v", err)
	}
	if err := ClearCrashState(); err != nil {
		t.Fatalf("second ClearCrashState: %v", err)
	}
}

func TestCrashMarkerRoundTrip(t *testing.T) {
	if err := WriteCrashMarker(139); err != nil {
		t.Fatalf("WriteCrashMarker: %v", err)
	}

	exitCode, pid, ok := ReadCrashMarker()
	if !ok {
		t.Fatal("expected crash marker to be present")
	}
	if exitCode != 139 {
		t.Errorf("expected exit code 139, got %d", exitCode)
	}
	if pid <= 0 {
		t.Errorf("expected positive pid, got %d", pid)
	}

	// Marker is consumed on read.
	if _, _, ok := ReadCrashMarker(); ok {
		t.Error("expected crash marker to be cleared after first read")
	}
}
