// Package upgrade implements cterm's seamless self-upgrade protocol: a
// running process serializes its windows, tabs, and terminal state, passes
// its PTY file descriptors to a freshly spawned successor binary over a Unix
// domain socket (SCM_RIGHTS), and hands off control once the successor
// acknowledges receipt. No terminal session is lost across the swap.
package upgrade

import (
	"fmt"

	"github.com/cterm-go/cterm/term"
)

// FormatVersion is the current on-wire UpgradeState format. Receivers reject
// states with a newer major format than they understand; they tolerate
// unknown JSON fields from same-version senders so additive changes stay
// forward compatible.
const FormatVersion = 1

// UpgradeState is the complete payload handed from an outgoing process to
// its successor.
type UpgradeState struct {
	FormatVersion uint32        `json:"format_version"`
	CtermVersion  string        `json:"cterm_version"`
	Windows       []WindowState `json:"windows"`
}

// NewUpgradeState starts an empty state stamped with the current format
// version and the version string of the process creating it.
func NewUpgradeState(ctermVersion string) *UpgradeState {
	return &UpgradeState{
		FormatVersion: FormatVersion,
		CtermVersion:  ctermVersion,
		Windows:       []WindowState{},
	}
}

// WindowState captures one OS-level window: its geometry and the tabs
// inside it.
type WindowState struct {
	X          int        `json:"x"`
	Y          int        `json:"y"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	Maximized  bool       `json:"maximized"`
	Fullscreen bool       `json:"fullscreen"`
	Tabs       []TabState `json:"tabs"`
	ActiveTab  int        `json:"active_tab"`
}

// NewWindowState returns a window state with the teacher's historical
// default geometry, used when no live window geometry is available (e.g. a
// headless receiver reconstructing state for tests).
func NewWindowState() WindowState {
	return WindowState{Width: 800, Height: 600}
}

// TabState captures one tab: its terminal content plus enough process
// metadata to reattach the PTY the receiver inherits.
type TabState struct {
	ID         uint64           `json:"id"`
	Title      string           `json:"title"`
	Color      string           `json:"color,omitempty"`
	Terminal   TerminalSnapshot `json:"terminal"`
	PtyFDIndex int              `json:"pty_fd_index"`
	ChildPID   int              `json:"child_pid"`
	Cwd        string           `json:"cwd,omitempty"`
}

// TerminalSnapshot is the full state of one terminal's screen model, enough
// to reconstruct scrollback, cursor, modes, and the alternate-screen grid
// (if a fullscreen app was running) without replaying a single escape
// sequence.
type TerminalSnapshot struct {
	Cols            int                   `json:"cols"`
	Rows            int                   `json:"rows"`
	Grid            []term.SnapshotLine   `json:"grid"`
	Scrollback      [][]term.SnapshotCell `json:"scrollback,omitempty"`
	AlternateGrid   []term.SnapshotLine   `json:"alternate_grid,omitempty"`
	Cursor          CursorState           `json:"cursor"`
	SavedCursor     *CursorState          `json:"saved_cursor,omitempty"`
	ScrollTop       int                   `json:"scroll_top"`
	ScrollBottom    int                   `json:"scroll_bottom"`
	Modes           uint32                `json:"modes"`
	Title           string                `json:"title"`
	ScrollOffset    int                   `json:"scroll_offset"`
	TabStops        []bool                `json:"tab_stops"`
	AlternateActive bool                  `json:"alternate_active"`
	CursorStyle     int                   `json:"cursor_style"`
}

// CursorState is the JSON-serializable mirror of term.SavedCursor and the
// live cursor position, since term.SavedCursor's CellTemplate isn't itself
// tagged for our wire format independent of the rest of the snapshot.
type CursorState struct {
	Row        int  `json:"row"`
	Col        int  `json:"col"`
	Visible    bool `json:"visible"`
	OriginMode bool `json:"origin_mode"`
}

// CaptureTerminalSnapshot builds a TerminalSnapshot from a live terminal. It
// always captures the primary grid and includes the alternate grid only
// when the alternate screen is active at the moment of capture.
func CaptureTerminalSnapshot(t *term.Terminal) TerminalSnapshot {
	row, col := t.CursorPos()
	top, bottom := t.ScrollRegion()

	snap := TerminalSnapshot{
		Cols: t.Cols(),
		Rows: t.Rows(),
		Grid: t.PrimaryGridSnapshot(),
		Cursor: CursorState{
			Row:     row,
			Col:     col,
			Visible: t.CursorVisible(),
		},
		ScrollTop:       top,
		ScrollBottom:    bottom,
		Modes:           uint32(t.Modes()),
		Title:           t.Title(),
		ScrollOffset:    t.ViewportOffset(),
		TabStops:        t.TabStops(),
		AlternateActive: t.IsAlternateScreen(),
		CursorStyle:     int(t.CursorStyle()),
	}

	if t.IsAlternateScreen() {
		snap.AlternateGrid = t.AlternateGridSnapshot()
	}
	snap.Scrollback = t.ScrollbackSnapshot()

	if sc := t.SavedCursor(); sc != nil {
		snap.SavedCursor = &CursorState{Row: sc.Row, Col: sc.Col, OriginMode: sc.OriginMode}
	}

	return snap
}

// Restore applies a captured TerminalSnapshot onto a freshly constructed
// terminal of matching dimensions, replaying grid, scrollback, cursor, and
// modes without re-parsing a single escape sequence.
func (s TerminalSnapshot) Restore(t *term.Terminal) error {
	if t.Cols() != s.Cols || t.Rows() != s.Rows {
		return fmt.Errorf("upgrade: snapshot dimensions %dx%d do not match terminal %dx%d", s.Cols, s.Rows, t.Cols(), t.Rows())
	}

	t.RestoreGrid(s.Grid, false)
	if len(s.AlternateGrid) > 0 {
		t.RestoreGrid(s.AlternateGrid, true)
	}
	t.RestoreScrollback(s.Scrollback)

	t.SetModes(term.TerminalMode(s.Modes))
	t.SetTabStops(s.TabStops)
	t.SetTitle(s.Title)
	t.SetScrollRegionBounds(s.ScrollTop, s.ScrollBottom)
	t.SetCursorStyle(term.CursorStyle(s.CursorStyle))
	t.SetCursorPosition(s.Cursor.Row, s.Cursor.Col)
	t.SetCursorVisible(s.Cursor.Visible)
	t.SetAlternateScreenActive(s.AlternateActive)
	t.SetViewportOffset(s.ScrollOffset)

	if s.SavedCursor != nil {
		t.RestoreSavedCursor(&term.SavedCursor{Row: s.SavedCursor.Row, Col: s.SavedCursor.Col, OriginMode: s.SavedCursor.OriginMode})
	}
	return nil
}
