package term

import (
	"encoding/base64"
	"fmt"
	"image/color"
)

// SnapshotDetail specifies the level of detail in a snapshot.
type SnapshotDetail string

const (
	// SnapshotDetailText returns plain text only.
	SnapshotDetailText SnapshotDetail = "text"
	// SnapshotDetailStyled returns text with style segments per line.
	SnapshotDetailStyled SnapshotDetail = "styled"
	// SnapshotDetailFull returns full cell-by-cell data.
	SnapshotDetailFull SnapshotDetail = "full"
)

// Snapshot represents a complete terminal screen capture.
type Snapshot struct {
	Size   SnapshotSize    `json:"size"`
	Cursor SnapshotCursor  `json:"cursor"`
	Lines  []SnapshotLine  `json:"lines"`
	Images []SnapshotImage `json:"images,omitempty"`
}

// SnapshotSize holds terminal dimensions.
type SnapshotSize struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// SnapshotCursor holds cursor state.
type SnapshotCursor struct {
	Row     int    `json:"row"`
	Col     int    `json:"col"`
	Visible bool   `json:"visible"`
	Style   string `json:"style"`
}

// SnapshotLine represents a single line in the snapshot.
type SnapshotLine struct {
	Text     string            `json:"text"`
	Segments []SnapshotSegment `json:"segments,omitempty"`
	Cells    []SnapshotCell    `json:"cells,omitempty"`
}

// SnapshotSegment represents a styled text segment within a line.
type SnapshotSegment struct {
	Text       string         `json:"text"`
	Fg         string         `json:"fg,omitempty"`
	Bg         string         `json:"bg,omitempty"`
	Attributes SnapshotAttrs  `json:"attrs,omitempty"`
	Hyperlink  *SnapshotLink  `json:"hyperlink,omitempty"`
}

// SnapshotCell represents a single cell with full attributes.
type SnapshotCell struct {
	Char       string         `json:"char"`
	Fg         string         `json:"fg"`
	Bg         string         `json:"bg"`
	Attributes SnapshotAttrs  `json:"attrs,omitempty"`
	Hyperlink  *SnapshotLink  `json:"hyperlink,omitempty"`
	Wide       bool           `json:"wide,omitempty"`
	WideSpacer bool           `json:"wide_spacer,omitempty"`
}

// SnapshotAttrs holds text formatting attributes.
type SnapshotAttrs struct {
	Bold          bool `json:"bold,omitempty"`
	Dim           bool `json:"dim,omitempty"`
	Italic        bool `json:"italic,omitempty"`
	Underline     bool `json:"underline,omitempty"`
	Blink         bool `json:"blink,omitempty"`
	Reverse       bool `json:"reverse,omitempty"`
	Hidden        bool `json:"hidden,omitempty"`
	Strikethrough bool `json:"strikethrough,omitempty"`
}

// SnapshotLink holds hyperlink information.
type SnapshotLink struct {
	ID  string `json:"id,omitempty"`
	URI string `json:"uri"`
}

// SnapshotImage holds image placement metadata (without pixel data).
type SnapshotImage struct {
	ID          uint32 `json:"id"`           // Unique image ID
	PlacementID uint32 `json:"placement_id"` // Unique placement ID
	Row         int    `json:"row"`          // Position row (cells)
	Col         int    `json:"col"`          // Position column (cells)
	Rows        int    `json:"rows"`         // Size in rows (cells)
	Cols        int    `json:"cols"`         // Size in columns (cells)
	PixelWidth  uint32 `json:"pixel_width"`  // Original image width (pixels)
	PixelHeight uint32 `json:"pixel_height"` // Original image height (pixels)
	ZIndex      int32  `json:"z_index"`      // Z-index for layering
}

// ImageSnapshot holds complete image data for retrieval.
type ImageSnapshot struct {
	ID     uint32 `json:"id"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Format string `json:"format"` // "rgba" (raw RGBA pixels, base64 encoded)
	Data   string `json:"data"`   // Base64 encoded image data
}

// GetImageData returns the image data for the given ID, or nil if not found.
func (t *Terminal) GetImageData(id uint32) *ImageSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	img := t.images.Image(id)
	if img == nil {
		return nil
	}

	return &ImageSnapshot{
		ID:     img.ID,
		Width:  img.Width,
		Height: img.Height,
		Format: "rgba",
		Data:   base64.StdEncoding.EncodeToString(img.Data),
	}
}

// Snapshot creates a snapshot of the current terminal state.
// The detail parameter controls how much information is included.
func (t *Terminal) Snapshot(detail SnapshotDetail) *Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := &Snapshot{
		Size: SnapshotSize{
			Rows: t.rows,
			Cols: t.cols,
		},
		Cursor: SnapshotCursor{
			Row:     t.cursor.Row,
			Col:     t.cursor.Col,
			Visible: t.cursor.Visible,
			Style:   cursorStyleToString(t.cursor.Style),
		},
		Lines: make([]SnapshotLine, t.rows),
	}

	for row := 0; row < t.rows; row++ {
		snap.Lines[row] = t.snapshotLine(row, detail)
	}

	// Include image placements
	snap.Images = t.snapshotImages()

	return snap
}

// PrimaryGridSnapshot captures the full cell-by-cell content of the primary
// grid, regardless of which buffer is currently active. Used by the upgrade
// protocol so a TerminalSnapshot always carries the main grid plus, when
// present, the alternate grid.
func (t *Terminal) PrimaryGridSnapshot() []SnapshotLine {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.gridSnapshotLocked(t.primaryBuffer)
}

// AlternateGridSnapshot captures the alternate grid's content. It never
// returns nil and does not tell whether the alternate screen was ever used:
// the alternate buffer always exists once the terminal is created, so
// callers gate inclusion on IsAlternateScreen() if they only want it when
// live.
func (t *Terminal) AlternateGridSnapshot() []SnapshotLine {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.gridSnapshotLocked(t.alternateBuffer)
}

func (t *Terminal) gridSnapshotLocked(buf *Buffer) []SnapshotLine {
	lines := make([]SnapshotLine, t.rows)
	for row := 0; row < t.rows; row++ {
		lines[row] = t.bufferLine(buf, row, SnapshotDetailFull)
	}
	return lines
}

// ScrollbackSnapshot returns every stored scrollback line, oldest first,
// rendered the same way a grid row is for Snapshot(SnapshotDetailFull): as
// JSON-safe SnapshotCell slices rather than raw Cell values, since Cell's
// color.Color fields don't round-trip through encoding/json on their own.
func (t *Terminal) ScrollbackSnapshot() [][]SnapshotCell {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := t.primaryBuffer.ScrollbackLen()
	lines := make([][]SnapshotCell, n)
	for i := 0; i < n; i++ {
		lines[i] = cellsToSnapshotCells(t.primaryBuffer.ScrollbackLine(i))
	}
	return lines
}

// cellsToSnapshotCells converts a raw row of cells (as stored in
// scrollback) to the same wire representation bufferLineToCells produces
// for live grid rows.
func cellsToSnapshotCells(cells []Cell) []SnapshotCell {
	out := make([]SnapshotCell, len(cells))
	for i := range cells {
		cell := &cells[i]
		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}
		out[i] = SnapshotCell{
			Char:       string(ch),
			Fg:         colorToHex(cell.Fg),
			Bg:         colorToHex(cell.Bg),
			Attributes: cellAttrsToSnapshot(cell),
			Hyperlink:  cellHyperlinkToSnapshot(cell),
			Wide:       cell.IsWide(),
			WideSpacer: cell.IsWideSpacer(),
		}
	}
	return out
}

// snapshotImages returns all image placements with metadata.
func (t *Terminal) snapshotImages() []SnapshotImage {
	placements := t.images.Placements()
	if len(placements) == 0 {
		return nil
	}

	images := make([]SnapshotImage, 0, len(placements))
	for _, p := range placements {
		img := t.images.Image(p.ImageID)
		if img == nil {
			continue
		}

		images = append(images, SnapshotImage{
			ID:          p.ImageID,
			PlacementID: p.ID,
			Row:         p.Row,
			Col:         p.Col,
			Rows:        p.Rows,
			Cols:        p.Cols,
			PixelWidth:  img.Width,
			PixelHeight: img.Height,
			ZIndex:      p.ZIndex,
		})
	}

	return images
}

// snapshotLine creates a snapshot of a single line.
func (t *Terminal) snapshotLine(row int, detail SnapshotDetail) SnapshotLine {
	return t.bufferLine(t.activeBuffer, row, detail)
}

// bufferLine snapshots a single line from an explicit buffer, so that both
// the primary and alternate grids can be captured independently (used by the
// upgrade snapshot, which must preserve whichever buffer is not currently
// active too).
func (t *Terminal) bufferLine(buf *Buffer, row int, detail SnapshotDetail) SnapshotLine {
	line := SnapshotLine{
		Text: buf.LineContent(row),
	}

	switch detail {
	case SnapshotDetailText:
		// Just text, already set

	case SnapshotDetailStyled:
		line.Segments = t.bufferLineToSegments(buf, row)

	case SnapshotDetailFull:
		line.Cells = t.bufferLineToCells(buf, row)
	}

	return line
}

// lineToSegments converts a line to styled segments (runs of same style).
func (t *Terminal) lineToSegments(row int) []SnapshotSegment {
	return t.bufferLineToSegments(t.activeBuffer, row)
}

func (t *Terminal) bufferLineToSegments(buf *Buffer, row int) []SnapshotSegment {
	var segments []SnapshotSegment
	var current *SnapshotSegment
	var currentChars []rune

	for col := 0; col < t.cols; col++ {
		cell := buf.Cell(row, col)
		if cell == nil {
			continue
		}
		if cell.IsWideSpacer() {
			continue
		}

		fg := colorToHex(cell.Fg)
		bg := colorToHex(cell.Bg)
		attrs := cellAttrsToSnapshot(cell)
		link := cellHyperlinkToSnapshot(cell)

		// Check if we need to start a new segment
		if current == nil || !segmentMatches(current, fg, bg, attrs, link) {
			// Save current segment if exists
			if current != nil && len(currentChars) > 0 {
				current.Text = string(currentChars)
				segments = append(segments, *current)
			}

			// Start new segment
			current = &SnapshotSegment{
				Fg:         fg,
				Bg:         bg,
				Attributes: attrs,
				Hyperlink:  link,
			}
			currentChars = nil
		}

		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}
		currentChars = append(currentChars, ch)
	}

	// Don't forget the last segment
	if current != nil && len(currentChars) > 0 {
		current.Text = string(currentChars)
		segments = append(segments, *current)
	}

	return segments
}

// lineToCells converts a line to full cell data.
func (t *Terminal) lineToCells(row int) []SnapshotCell {
	return t.bufferLineToCells(t.activeBuffer, row)
}

func (t *Terminal) bufferLineToCells(buf *Buffer, row int) []SnapshotCell {
	cells := make([]SnapshotCell, 0, t.cols)

	for col := 0; col < t.cols; col++ {
		cell := buf.Cell(row, col)
		if cell == nil {
			cells = append(cells, SnapshotCell{
				Char: " ",
				Fg:   colorToHex(nil),
				Bg:   colorToHex(nil),
			})
			continue
		}

		ch := cell.Char
		if ch == 0 {
			ch = ' '
		}

		sc := SnapshotCell{
			Char:       string(ch),
			Fg:         colorToHex(cell.Fg),
			Bg:         colorToHex(cell.Bg),
			Attributes: cellAttrsToSnapshot(cell),
			Hyperlink:  cellHyperlinkToSnapshot(cell),
			Wide:       cell.IsWide(),
			WideSpacer: cell.IsWideSpacer(),
		}

		cells = append(cells, sc)
	}

	return cells
}

// segmentMatches checks if segment matches the given style.
func segmentMatches(seg *SnapshotSegment, fg, bg string, attrs SnapshotAttrs, link *SnapshotLink) bool {
	if seg.Fg != fg || seg.Bg != bg {
		return false
	}
	if seg.Attributes != attrs {
		return false
	}
	// Compare hyperlinks
	if seg.Hyperlink == nil && link == nil {
		return true
	}
	if seg.Hyperlink == nil || link == nil {
		return false
	}
	return seg.Hyperlink.URI == link.URI && seg.Hyperlink.ID == link.ID
}

// colorToHex converts a color to hex string.
func colorToHex(c color.Color) string {
	if c == nil {
		return ""
	}

	rgba := resolveDefaultColor(c, true)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

// cellAttrsToSnapshot extracts cell attributes.
func cellAttrsToSnapshot(cell *Cell) SnapshotAttrs {
	return SnapshotAttrs{
		Bold:          cell.HasFlag(CellFlagBold),
		Dim:           cell.HasFlag(CellFlagDim),
		Italic:        cell.HasFlag(CellFlagItalic),
		Underline:     cell.HasFlag(CellFlagUnderline) || cell.HasFlag(CellFlagDoubleUnderline) || cell.HasFlag(CellFlagCurlyUnderline) || cell.HasFlag(CellFlagDottedUnderline) || cell.HasFlag(CellFlagDashedUnderline),
		Blink:         cell.HasFlag(CellFlagBlinkSlow) || cell.HasFlag(CellFlagBlinkFast),
		Reverse:       cell.HasFlag(CellFlagReverse),
		Hidden:        cell.HasFlag(CellFlagHidden),
		Strikethrough: cell.HasFlag(CellFlagStrike),
	}
}

// cellHyperlinkToSnapshot extracts hyperlink info.
func cellHyperlinkToSnapshot(cell *Cell) *SnapshotLink {
	if cell.Hyperlink == nil {
		return nil
	}
	return &SnapshotLink{
		ID:  cell.Hyperlink.ID,
		URI: cell.Hyperlink.URI,
	}
}

// RestoreGrid overwrites the primary (or, if alt is true, alternate) grid
// with cells decoded from a prior gridSnapshotLocked/ScrollbackSnapshot
// capture. It is the inverse of PrimaryGridSnapshot/AlternateGridSnapshot,
// used by the upgrade protocol to reattach a terminal without replaying a
// single escape sequence. Lines beyond the current row count are ignored;
// shorter captures leave trailing rows untouched.
func (t *Terminal) RestoreGrid(lines []SnapshotLine, alt bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	buf := t.primaryBuffer
	if alt {
		buf = t.alternateBuffer
	}
	for row := 0; row < len(lines) && row < t.rows; row++ {
		cells := lines[row].Cells
		for col := 0; col < len(cells) && col < t.cols; col++ {
			buf.SetCell(row, col, snapshotCellToCell(cells[col]))
		}
		buf.SetWrapped(row, false)
	}
}

// RestoreScrollback repopulates the primary buffer's scrollback, oldest
// line first, from a captured ScrollbackSnapshot.
func (t *Terminal) RestoreScrollback(lines [][]SnapshotCell) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, line := range lines {
		cells := make([]Cell, len(line))
		for i, sc := range line {
			cells[i] = snapshotCellToCell(sc)
		}
		t.primaryBuffer.scrollback.Push(cells)
	}
}

// SetCursorPosition forces the live cursor to (row, col), clamped to the
// current grid bounds. Used by upgrade reattachment after RestoreGrid.
func (t *Terminal) SetCursorPosition(row, col int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if row < 0 {
		row = 0
	}
	if row >= t.rows {
		row = t.rows - 1
	}
	if col < 0 {
		col = 0
	}
	if col >= t.cols {
		col = t.cols - 1
	}
	t.cursor.Row = row
	t.cursor.Col = col
}

// snapshotCellToCell decodes a SnapshotCell back into a live Cell. Colors
// round-trip as resolved RGBA rather than the original Color tag (NamedColor
// vs palette index vs explicit RGB). Not every attribute survives: any
// underline style comes back as a single underline, fast blink comes back as
// slow blink, and the underline color is not restored.
func snapshotCellToCell(sc SnapshotCell) Cell {
	ch := ' '
	if len(sc.Char) > 0 {
		r := []rune(sc.Char)
		ch = r[0]
	}
	cell := Cell{Char: ch}
	if rgba, ok := ParseHex(sc.Fg); ok {
		cell.Fg = rgba
	} else {
		cell.Fg = &NamedColor{Name: NamedColorForeground}
	}
	if rgba, ok := ParseHex(sc.Bg); ok {
		cell.Bg = rgba
	} else {
		cell.Bg = &NamedColor{Name: NamedColorBackground}
	}
	a := sc.Attributes
	if a.Bold {
		cell.Flags |= CellFlagBold
	}
	if a.Dim {
		cell.Flags |= CellFlagDim
	}
	if a.Italic {
		cell.Flags |= CellFlagItalic
	}
	if a.Underline {
		cell.Flags |= CellFlagUnderline
	}
	if a.Blink {
		cell.Flags |= CellFlagBlinkSlow
	}
	if a.Reverse {
		cell.Flags |= CellFlagReverse
	}
	if a.Hidden {
		cell.Flags |= CellFlagHidden
	}
	if a.Strikethrough {
		cell.Flags |= CellFlagStrike
	}
	if sc.Wide {
		cell.Flags |= CellFlagWideChar
	}
	if sc.WideSpacer {
		cell.Flags |= CellFlagWideCharSpacer
	}
	if sc.Hyperlink != nil {
		cell.Hyperlink = &Hyperlink{ID: sc.Hyperlink.ID, URI: sc.Hyperlink.URI}
	}
	return cell
}

// cursorStyleToString renders a style the way a snapshot JSON field expects.
func cursorStyleToString(style CursorStyle) string {
	return style.Shape()
}
