package term

import "fmt"

// Key identifies a logical key the UI collaborator wants encoded into bytes
// for the PTY. It deliberately has no dependency on any particular UI
// toolkit's key type; the UI layer translates its own events into this set.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
)

// Modifiers is a bitmask of held modifier keys at the time a Key was pressed.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
)

// param returns the xterm modifier parameter: 1 + shift + 2*alt + 4*ctrl.
func (m Modifiers) param() int {
	n := 1
	if m&ModShift != 0 {
		n += 1
	}
	if m&ModAlt != 0 {
		n += 2
	}
	if m&ModCtrl != 0 {
		n += 4
	}
	return n
}

// fKeyCode maps F1-F12 to their CSI ~ final codes, skipping 16 and 22 per the
// historical xterm numbering (F5 is 15, F6 jumps to 17, etc).
var fKeyCode = [12]int{11, 12, 13, 14, 15, 17, 18, 19, 20, 21, 23, 24}

// cursorFinal maps the arrow/Home/End family to their CSI final byte.
var cursorFinal = map[Key]byte{
	KeyUp: 'A', KeyDown: 'B', KeyRight: 'C', KeyLeft: 'D',
	KeyHome: 'H', KeyEnd: 'F',
}

// tildeCode maps PageUp/PageDown/Insert/Delete to their CSI n ~ code.
var tildeCode = map[Key]int{
	KeyPageUp: 5, KeyPageDown: 6, KeyInsert: 2, KeyDelete: 3,
}

// EncodeKey implements the canonical xterm keyboard encoder described in the
// key encoder table: DECCKM-conditional cursor keys, the "1;m" modifier
// parameter trick for function and cursor keys, and an Alt prefix of a
// leading ESC. Key has no keypad keys, so DECKPAM (ModeKeypadApplication)
// is not consulted; Ctrl-letter mapping to 0x01..0x1A is done by EncodeRune.
//
// Returns nil if the key has no defined encoding (the UI should do nothing).
func (t *Terminal) EncodeKey(key Key, mods Modifiers) []byte {
	var b []byte

	if final, ok := cursorFinal[key]; ok {
		appCursor := t.HasMode(ModeCursorKeys)
		m := mods.param()
		switch {
		case m > 1:
			b = []byte(fmt.Sprintf("\x1b[1;%d%c", m, final))
		case appCursor:
			b = []byte{0x1b, 'O', final}
		default:
			b = []byte{0x1b, '[', final}
		}
		return withAlt(b, mods)
	}

	if code, ok := tildeCode[key]; ok {
		m := mods.param()
		if m > 1 {
			b = []byte(fmt.Sprintf("\x1b[%d;%d~", code, m))
		} else {
			b = []byte(fmt.Sprintf("\x1b[%d~", code))
		}
		return withAlt(b, mods)
	}

	if key >= KeyF1 && key <= KeyF12 {
		code := fKeyCode[int(key-KeyF1)]
		m := mods.param()
		if m > 1 {
			b = []byte(fmt.Sprintf("\x1b[%d;%d~", code, m))
		} else {
			b = []byte(fmt.Sprintf("\x1b[%d~", code))
		}
		return withAlt(b, mods)
	}

	switch key {
	case KeyEnter:
		return withAlt([]byte{'\r'}, mods)
	case KeyTab:
		if mods&ModShift != 0 {
			return withAlt([]byte("\x1b[Z"), mods&^ModShift)
		}
		return withAlt([]byte{'\t'}, mods)
	case KeyBackspace:
		return withAlt([]byte{0x7f}, mods)
	case KeyEscape:
		return []byte{0x1b}
	}

	return nil
}

// withAlt prepends an ESC byte when the Alt modifier is held, per the
// "Alt-prefix means a leading ESC" rule. Any remaining modifier bits were
// already folded into the sequence by the caller.
func withAlt(b []byte, mods Modifiers) []byte {
	if mods&ModAlt == 0 {
		return b
	}
	out := make([]byte, 0, len(b)+1)
	out = append(out, 0x1b)
	out = append(out, b...)
	return out
}

// EncodeRune encodes a printable rune typed by the user, honoring Ctrl and
// Alt. Ctrl+A..Z maps to 0x01..0x1A; Ctrl+[ \ ] ^ _ maps to 0x1B..0x1F.
func (t *Terminal) EncodeRune(r rune, mods Modifiers) []byte {
	if mods&ModCtrl != 0 {
		switch {
		case r >= 'a' && r <= 'z':
			return withAlt([]byte{byte(r-'a') + 1}, mods&^ModCtrl)
		case r >= 'A' && r <= 'Z':
			return withAlt([]byte{byte(r-'A') + 1}, mods&^ModCtrl)
		case r >= '[' && r <= '_':
			return withAlt([]byte{byte(r-'[') + 0x1b}, mods&^ModCtrl)
		}
	}
	return withAlt([]byte(string(r)), mods&^ModCtrl)
}
