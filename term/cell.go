package term

import "image/color"

// CellFlags packs the boolean rendering attributes of a cell into one word;
// SGR sequences and the dirty tracker both set/clear individual bits rather
// than touching separate struct fields.
type CellFlags uint16

const (
	CellFlagBold CellFlags = 1 << iota
	CellFlagDim
	CellFlagItalic
	CellFlagUnderline
	CellFlagDoubleUnderline
	CellFlagCurlyUnderline
	CellFlagDottedUnderline
	CellFlagDashedUnderline
	CellFlagBlinkSlow
	CellFlagBlinkFast
	CellFlagReverse
	CellFlagHidden
	CellFlagStrike
	CellFlagWideChar
	CellFlagWideCharSpacer
	CellFlagDirty
)

// Cell is one grid position: a glyph plus everything needed to render it.
// A wide glyph (CellFlagWideChar) occupies this cell and leaves the next
// column as a CellFlagWideCharSpacer placeholder that render/copy logic
// must skip rather than treat as its own character.
type Cell struct {
	Char           rune
	Fg             color.Color
	Bg             color.Color
	UnderlineColor color.Color
	Flags          CellFlags
	Hyperlink      *Hyperlink
	Image          *CellImage
}

// Hyperlink associates a cell with an OSC 8 clickable URI.
type Hyperlink struct {
	ID  string
	URI string
}

// NewCell returns a space on the default foreground/background, the state
// an erase or a freshly grown row should carry.
func NewCell() Cell {
	return Cell{
		Char: ' ',
		Fg:   &NamedColor{Name: NamedColorForeground},
		Bg:   &NamedColor{Name: NamedColorBackground},
	}
}

// Reset returns the cell to NewCell's state in place, used by erase
// operations that must not allocate per cell.
func (c *Cell) Reset() {
	c.Char = ' '
	c.Fg = &NamedColor{Name: NamedColorForeground}
	c.Bg = &NamedColor{Name: NamedColorBackground}
	c.UnderlineColor = nil
	c.Flags = 0
	c.Hyperlink = nil
	c.Image = nil
}

// IsBlank reports whether the cell is an unstyled space — the trailing
// state scrollback trimming and line-wrap bookkeeping treat as "nothing
// here", as opposed to a space someone explicitly wrote with SGR attributes
// or a hyperlink attached.
func (c *Cell) IsBlank() bool {
	return c.Char == ' ' && c.Flags == 0 && c.Hyperlink == nil && c.Image == nil
}

func (c *Cell) HasFlag(flag CellFlags) bool  { return c.Flags&flag != 0 }
func (c *Cell) SetFlag(flag CellFlags)       { c.Flags |= flag }
func (c *Cell) ClearFlag(flag CellFlags)     { c.Flags &^= flag }

// IsDirty, MarkDirty, and ClearDirty drive the damage tracking a UI
// collaborator polls between frames instead of diffing the whole grid.
func (c *Cell) IsDirty() bool  { return c.HasFlag(CellFlagDirty) }
func (c *Cell) MarkDirty()     { c.SetFlag(CellFlagDirty) }
func (c *Cell) ClearDirty()    { c.ClearFlag(CellFlagDirty) }

// IsWide reports whether the cell holds a double-column glyph.
func (c *Cell) IsWide() bool { return c.HasFlag(CellFlagWideChar) }

// IsWideSpacer reports whether the cell is the placeholder half of a wide
// glyph and should be skipped by anything walking the row.
func (c *Cell) IsWideSpacer() bool { return c.HasFlag(CellFlagWideCharSpacer) }

// HasImage reports whether a sixel/kitty image occupies this cell.
func (c *Cell) HasImage() bool { return c.Image != nil }

// Copy returns an independent cell; the Hyperlink and Image pointers are
// shared (both are treated as immutable once attached), only the struct
// itself is duplicated.
func (c *Cell) Copy() Cell {
	return Cell{
		Char:           c.Char,
		Fg:             c.Fg,
		Bg:             c.Bg,
		UnderlineColor: c.UnderlineColor,
		Flags:          c.Flags,
		Hyperlink:      c.Hyperlink,
		Image:          c.Image,
	}
}
