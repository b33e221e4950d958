package term

import "io"

// ResponseProvider is where a Terminal writes sequences the application
// expects back: device-attribute replies, cursor position reports, OSC 52
// clipboard reads. A session wires this to the PTY's write end; tests wire
// it to a buffer.
type ResponseProvider = io.Writer

// NoopResponse discards everything written to it — useful for constructing
// a Terminal in isolation when write-back sequences don't matter.
type NoopResponse struct{}

func (NoopResponse) Write(p []byte) (int, error) { return len(p), nil }

// BellProvider is notified on BEL (0x07).
type BellProvider interface {
	Ring()
}

// TitleProvider is notified of OSC 0/1/2 window- and icon-title changes,
// including the title stack (XTWINOPS CSI 22 t / CSI 23 t, XTERM's
// pushTitle/popTitle extension).
type TitleProvider interface {
	SetTitle(title string)
	PushTitle()
	PopTitle()
}

// APCProvider receives the payload of an Application Program Command
// string (introduced by ESC _, terminated by ST).
type APCProvider interface {
	Receive(data []byte)
}

// PMProvider receives the payload of a Privacy Message string (ESC ^).
type PMProvider interface {
	Receive(data []byte)
}

// SOSProvider receives the payload of a Start-of-String string (ESC X).
type SOSProvider interface {
	Receive(data []byte)
}

// ClipboardProvider backs OSC 52: Read answers a query for the named
// clipboard ('c' clipboard, 'p' primary selection, 's' select), Write
// stores a value set by the application.
type ClipboardProvider interface {
	Read(clipboard byte) string
	Write(clipboard byte, data []byte)
}

// ScrollbackProvider stores rows scrolled off the top of the primary grid.
// The alternate screen uses NoopScrollback since DEC terminals never keep
// scrollback for it; the primary screen typically uses a ring-buffer-backed
// implementation capped by SetMaxLines.
type ScrollbackProvider interface {
	Push(line []Cell)
	Len() int
	Line(index int) []Cell
	Clear()
	SetMaxLines(max int)
	MaxLines() int
}

// RecordingProvider captures raw bytes as they arrive, before parsing —
// used to replay or inspect a session's exact input stream independent of
// the events the parser derived from it.
type RecordingProvider interface {
	Record(data []byte)
	Data() []byte
	Clear()
}

// NotificationProvider delivers OSC 9 / OSC 99 desktop notifications to
// whatever surfaces them to the user. Notify returns the response string to
// write back (used for the OSC 99 "?" query form, which asks what the
// terminal supports); an empty string means no response is sent.
type NotificationProvider interface {
	Notify(payload *NotificationPayload) string
}

// Noop* implementations let a Terminal run with any subset of providers
// unset: each swallows its calls rather than requiring a nil check at
// every call site in handler.go.
type (
	NoopBell         struct{}
	NoopTitle        struct{}
	NoopAPC          struct{}
	NoopPM           struct{}
	NoopSOS          struct{}
	NoopClipboard    struct{}
	NoopScrollback   struct{}
	NoopRecording    struct{}
	NoopNotification struct{}
)

func (NoopBell) Ring() {}

func (NoopTitle) SetTitle(title string) {}
func (NoopTitle) PushTitle()            {}
func (NoopTitle) PopTitle()             {}

func (NoopAPC) Receive(data []byte) {}
func (NoopPM) Receive(data []byte)  {}
func (NoopSOS) Receive(data []byte) {}

func (NoopClipboard) Read(clipboard byte) string        { return "" }
func (NoopClipboard) Write(clipboard byte, data []byte) {}

func (NoopScrollback) Push(line []Cell)      {}
func (NoopScrollback) Len() int              { return 0 }
func (NoopScrollback) Line(index int) []Cell { return nil }
func (NoopScrollback) Clear()                {}
func (NoopScrollback) SetMaxLines(max int)   {}
func (NoopScrollback) MaxLines() int         { return 0 }

func (NoopRecording) Record([]byte) {}
func (NoopRecording) Data() []byte  { return nil }
func (NoopRecording) Clear()        {}

func (NoopNotification) Notify(payload *NotificationPayload) string { return "" }

var (
	_ ResponseProvider     = NoopResponse{}
	_ BellProvider         = NoopBell{}
	_ TitleProvider        = NoopTitle{}
	_ APCProvider          = NoopAPC{}
	_ PMProvider           = NoopPM{}
	_ SOSProvider          = NoopSOS{}
	_ ClipboardProvider    = NoopClipboard{}
	_ ScrollbackProvider   = NoopScrollback{}
	_ RecordingProvider    = NoopRecording{}
	_ NotificationProvider = NoopNotification{}
)
