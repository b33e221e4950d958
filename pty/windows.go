//go:build windows

package pty

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/x/conpty"
)

// windowsPty wraps a ConPTY pseudo-console. The "handle" the spec speaks of
// is, on this platform, the pseudo-console handle plus the input/output pipe
// handles plus the child process handle; conpty.ConPty already bundles these
// together, so RawHandle extracts what it exposes for inheritance.
type windowsPty struct {
	mu     sync.Mutex
	cp     *conpty.ConPty
	pid    int
	exited bool
	code   int
}

func Open(cfg Config) (Pty, error) {
	cp, err := conpty.New(int16(cfg.Size.Cols), int16(cfg.Size.Rows))
	if err != nil {
		return nil, newErr(ErrCreate, "open", err)
	}

	shell := cfg.Shell
	if shell == "" {
		shell = defaultShell()
	}
	cmdLine := shell
	for _, a := range cfg.Args {
		cmdLine += " " + a
	}

	pid, _, _, err := cp.Spawn(cmdLine, cfg.Cwd, childEnv(cfg.Env))
	if err != nil {
		cp.Close()
		return nil, newErr(ErrCreate, "spawn", err)
	}

	return &windowsPty{cp: cp, pid: int(pid)}, nil
}

// FromRaw reconstructs a Pty from a ConPTY and child process that were
// inherited through PROC_THREAD_ATTRIBUTE_HANDLE_LIST by a successor
// process during seamless upgrade.
func FromRaw(handles []uintptr, childPID int) (Pty, error) {
	cp, err := conpty.Inherit(handles)
	if err != nil {
		return nil, newErr(ErrCreate, "from_raw", err)
	}
	return &windowsPty{cp: cp, pid: childPID}, nil
}

func childEnv(extra []string) []string {
	hasTerm := false
	for _, e := range extra {
		if len(e) >= 5 && e[:5] == "TERM=" {
			hasTerm = true
		}
	}
	if !hasTerm {
		extra = append(extra, "TERM=xterm-256color")
	}
	return extra
}

func defaultShell() string {
	return "cmd.exe"
}

func (p *windowsPty) Write(b []byte) (int, error) {
	n, err := p.cp.Write(b)
	if err != nil {
		return n, newErr(ErrIO, "write", err)
	}
	return n, nil
}

func (p *windowsPty) Read(b []byte) (int, error) {
	return p.cp.Read(b)
}

func (p *windowsPty) Resize(size Size) error {
	if err := p.cp.Resize(int(size.Cols), int(size.Rows)); err != nil {
		return newErr(ErrIO, "resize", err)
	}
	return nil
}

func (p *windowsPty) ChildPID() int { return p.pid }

func (p *windowsPty) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.exited
}

func (p *windowsPty) Wait() (int, error) {
	code, err := p.cp.Wait()
	p.mu.Lock()
	p.exited = true
	p.code = int(code)
	p.mu.Unlock()
	return p.code, err
}

// Signal synthesizes the closest Windows console control event: Ctrl-C for
// SigINT/SigTERM, process termination for SigKILL/SigHUP (Windows consoles
// have no SIGHUP equivalent).
func (p *windowsPty) Signal(sig Signal) error {
	switch sig {
	case SigINT, SigTERM:
		return p.cp.SendCtrlEvent(conpty.CtrlC)
	case SigKILL, SigHUP:
		return p.cp.Kill()
	}
	return fmt.Errorf("pty: unsupported signal %d", sig)
}

func (p *windowsPty) Close() error {
	return p.cp.Close()
}

// RawHandle returns the pseudo-console, pipe, and process handles as a flat
// list for inheritance by a successor created with
// PROC_THREAD_ATTRIBUTE_HANDLE_LIST.
func (p *windowsPty) RawHandle() (HandleSet, error) {
	handles, err := p.cp.InheritableHandles()
	if err != nil {
		return HandleSet{}, newErr(ErrIO, "handles", err)
	}
	return HandleSet{FDs: handles}, nil
}
