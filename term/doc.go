// Package term is the cross-platform terminal emulator core: a parser and
// screen model that turns PTY output bytes into grid state and observable
// events, with no dependency on any windowing toolkit or rendering surface.
// It is embedded by package session, which pairs a Terminal with a pty.Pty
// and exposes the combination as the facade cmd/cterm and other UI
// collaborators actually talk to.
//
// # Minimal use
//
//	t := term.New(term.WithSize(24, 80))
//	t.WriteString("\x1b[31mHello \x1b[32mWorld\x1b[0m!")
//	fmt.Println(t.String()) // "Hello World!"
//
// Most callers go through session.New instead, which wires a Terminal to a
// spawned shell and turns its provider callbacks into a single Event
// channel.
//
// # Core types
//
//   - [Terminal]: parses ANSI/VT bytes and owns all screen state
//   - [Buffer]: the 2-D grid of [Cell], plus scrollback when primary
//   - [Cell]: one grid position — glyph, colors, flags, optional image/link
//   - [Cursor]: position and rendering style
//
// # Dual buffers
//
// A Terminal holds a primary buffer (with scrollback, if a
// [ScrollbackProvider] is configured) and an alternate buffer (used by
// full-screen applications — vim, less, htop — which never gets
// scrollback). CSI ?1049h/l switches between them; [Terminal.IsAlternateScreen]
// reports which is active.
//
// # Providers
//
// Terminal calls out to small provider interfaces instead of pushing every
// side effect through one monolithic event type; each has a Noop
// implementation so unconfigured providers are simply inert:
//
//   - [BellProvider], [TitleProvider]: BEL and OSC 0/1/2
//   - [ClipboardProvider]: OSC 52 read/write
//   - [APCProvider], [PMProvider], [SOSProvider]: the three string
//     types VT500 groups alongside OSC/DCS
//   - [ScrollbackProvider]: storage for rows scrolled off the primary grid
//   - [RecordingProvider]: a raw copy of bytes as they arrive
//   - [SemanticPromptHandler]: OSC 133 shell-integration prompt marks
//
// session bridges the callback-style providers this package exposes into
// its own asynchronous Event stream — see session.Session.Events.
//
// # Middleware
//
// [Middleware] wraps any handler method with a func(args..., next) shape,
// letting a caller observe or override individual ANSI operations (logging
// every Input call, suppressing Bell, rewriting SetTitle) without
// reimplementing the parser.
//
// # Snapshots and upgrade
//
// [Terminal.Snapshot] captures size, cursor, grid lines and image
// placements at one of three levels of detail (text only, styled segments,
// full cell data) for serialization; it does not include scrollback or mode
// state. [Terminal.PrimaryGridSnapshot], [Terminal.AlternateGridSnapshot]
// and [Terminal.ScrollbackSnapshot] capture full cell data that
// [Terminal.RestoreGrid] and [Terminal.RestoreScrollback] write back,
// which is how a terminal survives a seamless
// self-upgrade: a predecessor process snapshots its terminals, hands the
// snapshot and PTY descriptors to its successor, and the successor
// rehydrates a Terminal from the snapshot instead of starting blank.
//
// # Images
//
// Sixel (DCS q) and Kitty graphics protocol payloads decode into shared
// [ImageManager] storage; individual cells carry only a [CellImage]
// reference (placement ID plus UV rectangle) rather than embedding pixels.
package term
