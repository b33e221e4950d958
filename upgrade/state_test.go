package upgrade

import (
	"encoding/json"
	"testing"

	"github.com/cterm-go/cterm/term"
)

func TestNewUpgradeState(t *testing.T) {
	state := NewUpgradeState("0.1.0")

	if state.FormatVersion != FormatVersion {
		t.Errorf("expected format version %d, got %d", FormatVersion, state.FormatVersion)
	}
	if state.CtermVersion != "0.1.0" {
		t.Errorf("expected version 0.1.0, got %s", state.CtermVersion)
	}
	if len(state.Windows) != 0 {
		t.Errorf("expected no windows, got %d", len(state.Windows))
	}
}

func TestUpgradeStateRoundTrip(t *testing.T) {
	state := NewUpgradeState("0.1.0")
	window := NewWindowState()
	window.X = 100
	window.Y = 200
	window.Width = 1024
	window.Height = 768
	window.Maximized = true
	state.Windows = append(state.Windows, window)

	bytes, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var restored UpgradeState
	if err := json.Unmarshal(bytes, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if len(restored.Windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(restored.Windows))
	}
	if restored.Windows[0].X != 100 || !restored.Windows[0].Maximized {
		t.Errorf("window geometry did not round-trip: %+v", restored.Windows[0])
	}
}

func TestCaptureTerminalSnapshotRoundTrip(t *testing.T) {
	tm := term.New(term.WithSize(24, 80))
	tm.Write([]byte("hello world"))

	snap := CaptureTerminalSnapshot(tm)
	if snap.Cols != 80 || snap.Rows != 24 {
		t.Fatalf("expected 80x24, got %dx%d", snap.Cols, snap.Rows)
	}
	if len(snap.Grid) != 24 {
		t.Fatalf("expected 24 grid rows, got %d", len(snap.Grid))
	}
	if snap.AlternateActive {
		t.Errorf("expected primary screen active")
	}
	if snap.AlternateGrid != nil {
		t.Errorf("expected no alternate grid capture while primary is active")
	}

	bytes, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored TerminalSnapshot
	if err := json.Unmarshal(bytes, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if restored.Cols != snap.Cols || restored.Rows != snap.Rows {
		t.Errorf("snapshot dimensions did not round-trip")
	}
}

func TestTerminalSnapshotRestoreRejectsSizeMismatch(t *testing.T) {
	tm := term.New(term.WithSize(24, 80))
	snap := TerminalSnapshot{Cols: 100, Rows: 30}

	if err := snap.Restore(tm); err == nil {
		t.Fatal("expected size mismatch error")
	}
}

func TestTerminalSnapshotRestoreAppliesModesAndTabStops(t *testing.T) {
	tm := term.New(term.WithSize(24, 80))
	snap := CaptureTerminalSnapshot(tm)
	snap.Modes = uint32(term.ModeLineWrap | term.ModeCursorKeys)
	snap.TabStops = make([]bool, 80)
	snap.TabStops[5] = true

	if err := snap.Restore(tm); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !tm.HasMode(term.ModeLineWrap) || !tm.HasMode(term.ModeCursorKeys) {
		t.Errorf("expected restored modes to be set")
	}
	stops := tm.TabStops()
	if !stops[5] {
		t.Errorf("expected tab stop at column 5 to be restored")
	}
}

func TestTerminalSnapshotRestoreReproducesGridContent(t *testing.T) {
	src := term.New(term.WithSize(24, 80))
	src.Write([]byte("\x1b[31mHello\x1b[0m"))
	src.Write([]byte("\x1b]0;My Title\x07"))

	snap := CaptureTerminalSnapshot(src)

	dst := term.New(term.WithSize(24, 80))
	if err := snap.Restore(dst); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	for col := 0; col < 5; col++ {
		srcCell, dstCell := src.Cell(0, col), dst.Cell(0, col)
		if srcCell.Char != dstCell.Char {
			t.Errorf("col %d: char mismatch %q vs %q", col, srcCell.Char, dstCell.Char)
		}
	}
	if dst.Title() != "My Title" {
		t.Errorf("expected restored title, got %q", dst.Title())
	}
	row, col := dst.CursorPos()
	srcRow, srcCol := src.CursorPos()
	if row != srcRow || col != srcCol {
		t.Errorf("expected cursor at (%d,%d), got (%d,%d)", srcRow, srcCol, row, col)
	}
}

func TestAlternateScreenSnapshotCapturesBothGrids(t *testing.T) {
	tm := term.New(term.WithSize(24, 80))
	tm.Write([]byte("primary content"))
	// Enter alternate screen (DECSET 1049).
	tm.Write([]byte("\x1b[?1049h"))
	tm.Write([]byte("alt content"))

	snap := CaptureTerminalSnapshot(tm)
	if !snap.AlternateActive {
		t.Fatal("expected alternate screen active")
	}
	if snap.AlternateGrid == nil {
		t.Fatal("expected alternate grid to be captured")
	}
	if snap.Grid == nil {
		t.Fatal("expected primary grid to still be captured while alternate is active")
	}
}
