package term

import "github.com/unilibs/uniwidth"

// glyphWidth returns how many grid columns r occupies: 2 for wide glyphs
// (CJK ideographs, fullwidth forms, most emoji), 1 for ordinary glyphs, 0
// for zero-width runes (combining marks, most control codes).
func glyphWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// isDoubleWidth reports whether r must occupy two columns — the cell it
// writes to gets CellFlagWideChar and its right neighbor gets
// CellFlagWideCharSpacer.
func isDoubleWidth(r rune) bool {
	return glyphWidth(r) == 2
}

// StringWidth sums glyphWidth over every rune in s; used by selection copy
// and line-wrap math where byte length and column count diverge.
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}

// columnsUntilMargin returns how many columns remain between col and the
// right margin (cols-1), clamped to zero. A double-width glyph that would
// land with only one column left must wrap rather than split across the
// margin.
func columnsUntilMargin(col, cols int) int {
	remaining := cols - 1 - col
	if remaining < 0 {
		return 0
	}
	return remaining
}
