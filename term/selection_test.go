package term

import "testing"

func TestSelectionWordExpandsToWordRun(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("foo-bar baz")

	// Anchor inside "foo-bar" (col 5, 'a' of bar); word chars include '-'.
	term.BeginSelection(Position{Row: 0, Col: 5}, SelectionWord)
	sel := term.FinishSelection(Position{Row: 0, Col: 5})

	if sel.Start.Col != 0 || sel.End.Col != 6 {
		t.Errorf("expected word run [0,6], got [%d,%d]", sel.Start.Col, sel.End.Col)
	}
	if got := term.GetSelectedText(); got != "foo-bar" {
		t.Errorf("GetSelectedText() = %q, want %q", got, "foo-bar")
	}
}

func TestSelectionWordSingleNonWordChar(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("a!b")

	term.BeginSelection(Position{Row: 0, Col: 1}, SelectionWord)
	sel := term.FinishSelection(Position{Row: 0, Col: 1})

	if sel.Start.Col != 1 || sel.End.Col != 1 {
		t.Errorf("expected single-column selection at col 1, got [%d,%d]", sel.Start.Col, sel.End.Col)
	}
}

func TestSelectionLineSnapsToWrappedGroup(t *testing.T) {
	term := New(WithSize(24, 10))
	// 20 chars with DECAWM on wraps row 0 into row 1.
	term.WriteString("0123456789abcdefghij")

	if !term.IsWrapped(1) {
		t.Fatalf("expected row 1 to be a wrapped continuation of row 0")
	}

	term.BeginSelection(Position{Row: 1, Col: 3}, SelectionLine)
	sel := term.FinishSelection(Position{Row: 1, Col: 3})

	if sel.Start.Row != 0 || sel.End.Row != 1 {
		t.Errorf("expected line selection to span rows 0..1, got %d..%d", sel.Start.Row, sel.End.Row)
	}
	if sel.Start.Col != 0 || sel.End.Col != term.Cols()-1 {
		t.Errorf("expected full-width columns, got [%d,%d]", sel.Start.Col, sel.End.Col)
	}

	if got := term.GetSelectedText(); got != "0123456789abcdefghij" {
		t.Errorf("GetSelectedText() = %q, want joined logical line without an inserted newline", got)
	}
}

func TestSelectionBlockIsRectangular(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("abcde\r\nfghij\r\nklmno")

	term.BeginSelection(Position{Row: 0, Col: 1}, SelectionBlock)
	term.ExtendSelection(Position{Row: 2, Col: 3})
	sel := term.FinishSelection(Position{Row: 2, Col: 3})

	if !term.IsSelected(1, 2) {
		t.Errorf("expected (1,2) to be inside the block selection")
	}
	if term.IsSelected(1, 4) {
		t.Errorf("expected (1,4) to be outside the block selection's column range")
	}

	want := "bcd\nghi\nlmn"
	if got := term.GetSelectedText(); got != want {
		t.Errorf("GetSelectedText() = %q, want %q", got, want)
	}
	_ = sel
}

func TestSelectionCharModeNormalizesBackwardDrag(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("Hello")

	term.BeginSelection(Position{Row: 0, Col: 4}, SelectionChar)
	term.ExtendSelection(Position{Row: 0, Col: 0})
	sel := term.FinishSelection(Position{Row: 0, Col: 0})

	if sel.Start.Col != 0 || sel.End.Col != 4 {
		t.Errorf("expected normalized range [0,4], got [%d,%d]", sel.Start.Col, sel.End.Col)
	}
	if got := term.GetSelectedText(); got != "Hello" {
		t.Errorf("GetSelectedText() = %q, want %q", got, "Hello")
	}
}
