package term

// CursorStyle is the DECSCUSR shape/blink pair requested by the application
// (or a UI collaborator acting on the user's behalf).
type CursorStyle int

const (
	CursorStyleBlinkingBlock CursorStyle = iota
	CursorStyleSteadyBlock
	CursorStyleBlinkingUnderline
	CursorStyleSteadyUnderline
	CursorStyleBlinkingBar
	CursorStyleSteadyBar
)

// Shape names the rendered form, ignoring blink — what a UI collaborator
// needs to pick a glyph.
func (s CursorStyle) Shape() string {
	switch s {
	case CursorStyleBlinkingUnderline, CursorStyleSteadyUnderline:
		return "underline"
	case CursorStyleBlinkingBar, CursorStyleSteadyBar:
		return "bar"
	default:
		return "block"
	}
}

// Blinks reports whether the style requests blinking.
func (s CursorStyle) Blinks() bool {
	switch s {
	case CursorStyleBlinkingBlock, CursorStyleBlinkingUnderline, CursorStyleBlinkingBar:
		return true
	default:
		return false
	}
}

// Cursor is the live cursor: grid position plus the rendering state a UI
// collaborator needs to draw it. Coordinates are 0-based.
type Cursor struct {
	Row, Col int
	Style    CursorStyle
	Visible  bool
}

// NewCursor places a cursor at the origin, visible, blinking block — the
// DEC terminal power-on default.
func NewCursor() *Cursor {
	return &Cursor{Style: CursorStyleBlinkingBlock, Visible: true}
}

// SavedCursor is the state captured by DECSC and by entry into the
// alternate screen, restored by DECRC / alternate-screen exit.
type SavedCursor struct {
	Row, Col     int
	Attrs        CellTemplate
	OriginMode   bool
	CharsetIndex int
	Charsets     [4]Charset
}

// CellTemplate holds the SGR state applied to the next cell written: colors
// and flags, carried forward from one Input call to the next until an SGR
// sequence changes it.
type CellTemplate struct {
	Cell
}

// NewCellTemplate returns the reset SGR state: default colors, no flags.
func NewCellTemplate() CellTemplate {
	return CellTemplate{Cell: NewCell()}
}

// Charset selects which glyph table a G-set slot maps to.
type Charset int

const (
	CharsetASCII Charset = iota
	CharsetLineDrawing
)

// CharsetIndex names one of the four G-set slots (G0-G3) SI/SO/LS2/LS3
// switch between.
type CharsetIndex int

const (
	CharsetIndexG0 CharsetIndex = iota
	CharsetIndexG1
	CharsetIndexG2
	CharsetIndexG3
)
