package term

import (
	"image/color"
	"reflect"

	"github.com/danielgatis/go-ansicode"
)

// Middleware intercepts calls into the ansicode.Handler implementation
// Terminal provides to the parser. Each field mirrors one handler method
// with a "func(args..., next func(args...))" shape: a caller can inspect or
// rewrite the arguments, decide whether to call next (the built-in
// behavior) at all, and run code before or after it. Unset fields mean
// "call the built-in behavior directly" — a Middleware with every field
// nil is a no-op.
//
// This is how a UI collaborator adds cross-cutting behavior — recording,
// metrics, selective suppression — without forking the parser dispatch in
// handler.go.
type Middleware struct {
	// Input/output shape
	Input          func(r rune, next func(rune))
	Bell           func(next func())
	Backspace      func(next func())
	CarriageReturn func(next func())
	LineFeed       func(next func())
	Tab            func(n int, next func(int))

	// Erase and line-edit
	ClearLine        func(mode ansicode.LineClearMode, next func(ansicode.LineClearMode))
	ClearScreen      func(mode ansicode.ClearMode, next func(ansicode.ClearMode))
	ClearTabs        func(mode ansicode.TabulationClearMode, next func(ansicode.TabulationClearMode))
	InsertBlank      func(n int, next func(int))
	InsertBlankLines func(n int, next func(int))
	DeleteChars      func(n int, next func(int))
	DeleteLines      func(n int, next func(int))
	EraseChars       func(n int, next func(int))

	// Cursor movement and state
	Goto                  func(row, col int, next func(int, int))
	GotoLine              func(row int, next func(int))
	GotoCol               func(col int, next func(int))
	MoveUp                func(n int, next func(int))
	MoveDown              func(n int, next func(int))
	MoveForward           func(n int, next func(int))
	MoveBackward          func(n int, next func(int))
	MoveUpCr              func(n int, next func(int))
	MoveDownCr            func(n int, next func(int))
	MoveForwardTabs       func(n int, next func(int))
	MoveBackwardTabs      func(n int, next func(int))
	SaveCursorPosition    func(next func())
	RestoreCursorPosition func(next func())
	SetCursorStyle        func(style ansicode.CursorStyle, next func(ansicode.CursorStyle))

	// Scrolling and region
	ScrollUp           func(n int, next func(int))
	ScrollDown         func(n int, next func(int))
	SetScrollingRegion func(top, bottom int, next func(int, int))
	ReverseIndex       func(next func())

	// Modes and charset
	SetMode                    func(mode ansicode.TerminalMode, next func(ansicode.TerminalMode))
	UnsetMode                  func(mode ansicode.TerminalMode, next func(ansicode.TerminalMode))
	SetTerminalCharAttribute   func(attr ansicode.TerminalCharAttribute, next func(ansicode.TerminalCharAttribute))
	ConfigureCharset           func(index ansicode.CharsetIndex, charset ansicode.Charset, next func(ansicode.CharsetIndex, ansicode.Charset))
	SetActiveCharset           func(n int, next func(int))
	SetKeypadApplicationMode   func(next func())
	UnsetKeypadApplicationMode func(next func())
	ResetState                 func(next func())
	Substitute                 func(next func())
	Decaln                     func(next func())

	// Keyboard protocol (CSI u / Kitty keyboard protocol)
	SetKeyboardMode       func(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior, next func(ansicode.KeyboardMode, ansicode.KeyboardModeBehavior))
	PushKeyboardMode      func(mode ansicode.KeyboardMode, next func(ansicode.KeyboardMode))
	PopKeyboardMode       func(n int, next func(int))
	ReportKeyboardMode    func(next func())
	SetModifyOtherKeys    func(modify ansicode.ModifyOtherKeys, next func(ansicode.ModifyOtherKeys))
	ReportModifyOtherKeys func(next func())

	// Reporting
	DeviceStatus     func(n int, next func(int))
	IdentifyTerminal func(b byte, next func(byte))

	// Colors and styling
	SetColor        func(index int, c color.Color, next func(int, color.Color))
	ResetColor      func(i int, next func(int))
	SetDynamicColor func(prefix string, index int, terminator string, next func(string, int, string))
	SetHyperlink    func(hyperlink *ansicode.Hyperlink, next func(*ansicode.Hyperlink))

	// Window and title (OSC 0/1/2, plus the title stack)
	SetTitle           func(title string, next func(string))
	PushTitle          func(next func())
	PopTitle           func(next func())
	TextAreaSizeChars  func(next func())
	TextAreaSizePixels func(next func())
	HorizontalTabSet   func(next func())

	// Clipboard (OSC 52)
	ClipboardLoad  func(clipboard byte, terminator string, next func(byte, string))
	ClipboardStore func(clipboard byte, data []byte, next func(byte, []byte))

	// Application/privacy/start-of-string strings
	ApplicationCommandReceived func(data []byte, next func([]byte))
	PrivacyMessageReceived     func(data []byte, next func([]byte))
	StartOfStringReceived      func(data []byte, next func([]byte))

	// Shell integration, working directory, Kitty user variables
	SemanticPromptMark  func(mark ansicode.ShellIntegrationMark, exitCode int, next func(ansicode.ShellIntegrationMark, int))
	SetWorkingDirectory func(uri string, next func(string))
	SetUserVar          func(name, value string, next func(string, string))

	// Graphics
	SixelReceived       func(params [][]uint16, data []byte, next func([][]uint16, []byte))
	DesktopNotification func(payload *NotificationPayload, next func(*NotificationPayload))
}

// Merge overlays every non-nil field of other onto m, so a caller can build
// a Middleware from several partial ones (e.g. a logging layer plus a
// recording layer) without either knowing the other's fields. Reflection
// keeps this in sync with the struct automatically as handler coverage
// grows, rather than needing a matching hand-written branch per field.
func (m *Middleware) Merge(other *Middleware) {
	if other == nil {
		return
	}

	dst := reflect.ValueOf(m).Elem()
	src := reflect.ValueOf(other).Elem()
	for i := 0; i < src.NumField(); i++ {
		if field := src.Field(i); !field.IsNil() {
			dst.Field(i).Set(field)
		}
	}
}
