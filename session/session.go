// Package session composes a PTY and a headless terminal core into the
// facade the spec calls the Terminal: one type that owns the parser, the
// screen model, and the PTY it reads from and writes to, and that turns
// raw bytes and key presses into the other's currency (escape-sequence
// output on one side, encoded keystrokes on the other).
//
// term.Terminal stays PTY-agnostic by design, the same way
// danielgatis/go-headless-term stays agnostic of where its bytes come
// from; Session is the thin binding layer a real terminal emulator adds on
// top, grounded on how the teacher's own examples/basic wires a PTY reader
// loop into the headless core.
package session

import (
	"io"
	"sync"

	"github.com/cterm-go/cterm/pty"
	"github.com/cterm-go/cterm/term"
)

// EventKind identifies the kind of observable event a Session emits.
type EventKind int

const (
	EventTitleChanged EventKind = iota
	EventBell
	EventProcessExited
	EventContentChanged
	EventClipboardRequest
	EventImageAttached
)

// Event is one observable occurrence produced by processing PTY bytes, as
// described in §6 of the design: title changes, bell, process exit,
// content changes, and clipboard requests. EventImageAttached is declared
// but Session does not emit it.
type Event struct {
	Kind EventKind

	Title string // EventTitleChanged

	ExitCode int // EventProcessExited

	// EventClipboardRequest
	Clipboard byte   // 'c', 'p', or 's'
	Write     bool   // true: PTY is setting the clipboard; false: PTY wants to read it
	Data      []byte // payload when Write is true

	// EventImageAttached
	ImageID   uint32
	AnchorRow int
	AnchorCol int
}

// Session owns exactly one Terminal and one Pty, and serializes every
// access to the Terminal behind a single mutex, matching the "exactly one
// mutex per Terminal" locking discipline: the reader goroutine and any
// caller thread (UI event loop equivalent) both go through readLoop()/
// HandleKey()/HandleRune()/Resize() below.
type Session struct {
	mu        sync.Mutex
	Term      *term.Terminal
	Pty       pty.Pty
	events    chan Event
	clipboard *clipboardBridge
	closeCh   chan struct{}
	closeOnce sync.Once
}

// clipboardBridge turns Terminal's synchronous ClipboardProvider callback
// into an asynchronous Event on the session's event channel, since a
// clipboard *read* request (OSC 52 "?") has no answer available until a UI
// collaborator supplies one out of band.
type clipboardBridge struct {
	s *Session
	// pending holds data supplied by SetClipboardData, keyed by selection
	// byte, for the read path.
	mu      sync.Mutex
	pending map[byte]string
}

func newClipboardBridge(s *Session) *clipboardBridge {
	return &clipboardBridge{s: s, pending: map[byte]string{}}
}

func (c *clipboardBridge) Read(clipboard byte) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.emit(Event{Kind: EventClipboardRequest, Clipboard: clipboard, Write: false})
	return c.pending[clipboard]
}

func (c *clipboardBridge) Write(clipboard byte, data []byte) {
	c.s.emit(Event{Kind: EventClipboardRequest, Clipboard: clipboard, Write: true, Data: data})
}

// SetClipboardData supplies the answer to a pending read request (OSC 52
// "?"), so the next ClipboardLoad for that selection returns real content.
func (s *Session) SetClipboardData(clipboard byte, data string) {
	s.clipboard.mu.Lock()
	s.clipboard.pending[clipboard] = data
	s.clipboard.mu.Unlock()
}

type bellBridge struct{ s *Session }

func (b bellBridge) Ring() { b.s.emit(Event{Kind: EventBell}) }

type titleBridge struct {
	s     *Session
	stack []string
}

func (t *titleBridge) SetTitle(title string) {
	t.s.emit(Event{Kind: EventTitleChanged, Title: title})
}
func (t *titleBridge) PushTitle() { t.stack = append(t.stack, t.s.Term.Title()) }
func (t *titleBridge) PopTitle() {
	if len(t.stack) == 0 {
		return
	}
	last := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	t.s.Term.SetTitle(last)
}

// New opens a PTY per cfg and wires it to a freshly constructed Terminal of
// the given size. The returned Session owns both and starts the PTY reader
// goroutine immediately; call Events() to drain observable occurrences and
// Close() to tear both down.
func New(cfg pty.Config) (*Session, error) {
	p, err := pty.Open(cfg)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Pty:     p,
		events:  make(chan Event, 64),
		closeCh: make(chan struct{}),
	}
	s.clipboard = newClipboardBridge(s)
	s.Term = term.New(
		term.WithSize(cfg.Size.Rows, cfg.Size.Cols),
		term.WithResponse(writerFunc(func(b []byte) (int, error) { return s.Pty.Write(b) })),
		term.WithBell(bellBridge{s}),
		term.WithTitle(&titleBridge{s: s}),
		term.WithClipboard(s.clipboard),
	)
	go s.readLoop()
	return s, nil
}

func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		// Back-pressure from a UI collaborator that has stopped draining
		// events must never block the reader goroutine; drop rather than
		// stall PTY reads.
	}
}

// Events returns the channel of observable occurrences. It is closed once
// the reader goroutine exits (PTY closed or crashed).
func (s *Session) Events() <-chan Event { return s.events }

func (s *Session) readLoop() {
	buf := make([]byte, 32*1024)
	for {
		n, err := s.Pty.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.Term.Write(buf[:n])
			dirty := s.Term.HasDirty()
			if dirty {
				s.Term.ClearDirty()
			}
			s.mu.Unlock()
			if dirty {
				s.emit(Event{Kind: EventContentChanged})
			}
		}
		if err != nil {
			break
		}
		select {
		case <-s.closeCh:
			close(s.events)
			return
		default:
		}
	}

	code, _ := s.Pty.Wait()
	s.emit(Event{Kind: EventProcessExited, ExitCode: code})
	close(s.events)
}

// Write sends bytes to the PTY (e.g. pasted text or raw input bypassing
// the key encoder).
func (s *Session) Write(b []byte) (int, error) {
	return s.Pty.Write(b)
}

// HandleKey encodes key into the bytes xterm would send for it and writes
// them to the PTY, honoring DECCKM via the live Terminal modes (DECKPAM is
// not consulted).
func (s *Session) HandleKey(key term.Key, mods term.Modifiers) error {
	s.mu.Lock()
	b := s.Term.EncodeKey(key, mods)
	s.mu.Unlock()
	if b == nil {
		return nil
	}
	_, err := s.Pty.Write(b)
	return err
}

// HandleRune encodes a typed rune (honoring Ctrl/Alt) and writes it to the
// PTY.
func (s *Session) HandleRune(r rune, mods term.Modifiers) error {
	s.mu.Lock()
	b := s.Term.EncodeRune(r, mods)
	s.mu.Unlock()
	_, err := s.Pty.Write(b)
	return err
}

// Resize resizes the Terminal and the PTY together so neither drifts out
// of sync with the other.
func (s *Session) Resize(rows, cols int) error {
	s.mu.Lock()
	s.Term.Resize(rows, cols)
	s.mu.Unlock()
	return s.Pty.Resize(pty.Size{Rows: rows, Cols: cols})
}

// Close tears down the PTY, which in turn signals the child (SIGHUP on
// POSIX, pseudo-console close on Windows), and stops the reader goroutine.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closeCh)
		err = s.Pty.Close()
	})
	return err
}

// writerFunc adapts a function to io.Writer, avoiding an extra named type
// for the single PTY-write bridge used by WithResponse.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) { return f(b) }

var _ io.Writer = writerFunc(nil)
