package term

import "testing"

func TestNewCell(t *testing.T) {
	cell := NewCell()

	if cell.Char != ' ' {
		t.Errorf("expected space, got %q", cell.Char)
	}
	if cell.Fg == nil || cell.Bg == nil {
		t.Error("expected default foreground/background colors, got nil")
	}
	if cell.Flags != 0 {
		t.Error("expected no flags")
	}
	if !cell.IsBlank() {
		t.Error("a freshly created cell should be blank")
	}
}

func TestCellReset(t *testing.T) {
	cell := NewCell()
	cell.Char = 'A'
	cell.SetFlag(CellFlagBold)
	cell.Hyperlink = &Hyperlink{ID: "1", URI: "https://example.com"}

	cell.Reset()

	if cell.Char != ' ' {
		t.Errorf("expected space after reset, got %q", cell.Char)
	}
	if cell.HasFlag(CellFlagBold) {
		t.Error("expected no flags after reset")
	}
	if cell.Hyperlink != nil {
		t.Error("expected hyperlink cleared after reset")
	}
	if !cell.IsBlank() {
		t.Error("expected reset cell to be blank")
	}
}

func TestCellFlags(t *testing.T) {
	cell := NewCell()

	cell.SetFlag(CellFlagBold)
	if !cell.HasFlag(CellFlagBold) {
		t.Error("expected bold flag")
	}

	cell.SetFlag(CellFlagItalic)
	if !cell.HasFlag(CellFlagBold) || !cell.HasFlag(CellFlagItalic) {
		t.Error("expected both flags")
	}

	cell.ClearFlag(CellFlagBold)
	if cell.HasFlag(CellFlagBold) {
		t.Error("expected bold flag to be cleared")
	}
	if !cell.HasFlag(CellFlagItalic) {
		t.Error("expected italic flag to remain")
	}
}

func TestCellDirty(t *testing.T) {
	cell := NewCell()

	if cell.IsDirty() {
		t.Error("expected cell not dirty initially")
	}

	cell.MarkDirty()
	if !cell.IsDirty() {
		t.Error("expected cell to be dirty")
	}

	cell.ClearDirty()
	if cell.IsDirty() {
		t.Error("expected cell not dirty after clear")
	}
}

func TestCellWide(t *testing.T) {
	cell := NewCell()

	cell.SetFlag(CellFlagWideChar)
	if !cell.IsWide() {
		t.Error("expected cell to be wide")
	}

	spacer := NewCell()
	spacer.SetFlag(CellFlagWideCharSpacer)
	if !spacer.IsWideSpacer() {
		t.Error("expected cell to be spacer")
	}
}

func TestCellIsBlank(t *testing.T) {
	blank := NewCell()
	if !blank.IsBlank() {
		t.Error("expected a default cell to be blank")
	}

	styled := NewCell()
	styled.SetFlag(CellFlagBold)
	if styled.IsBlank() {
		t.Error("a bold space is not blank — it carries styling")
	}

	written := NewCell()
	written.Char = 'x'
	if written.IsBlank() {
		t.Error("a non-space character is not blank")
	}

	linked := NewCell()
	linked.Hyperlink = &Hyperlink{ID: "1", URI: "https://example.com"}
	if linked.IsBlank() {
		t.Error("a hyperlinked space is not blank")
	}
}

func TestCellHasImage(t *testing.T) {
	cell := NewCell()
	if cell.HasImage() {
		t.Error("expected no image on a fresh cell")
	}

	cell.Image = &CellImage{ImageID: 1}
	if !cell.HasImage() {
		t.Error("expected HasImage to report the attached image")
	}
}

func TestCellCopy(t *testing.T) {
	cell := NewCell()
	cell.Char = 'X'
	cell.SetFlag(CellFlagBold | CellFlagItalic)

	copied := cell.Copy()

	if copied.Char != 'X' {
		t.Errorf("expected 'X', got %q", copied.Char)
	}
	if !copied.HasFlag(CellFlagBold) || !copied.HasFlag(CellFlagItalic) {
		t.Error("expected flags to be copied")
	}

	cell.Char = 'Y'
	if copied.Char != 'X' {
		t.Error("copy should be independent of the original")
	}
}
