//go:build !windows

package pty

import (
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strconv"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// posixPty is a POSIX pseudo-terminal: a master/slave pair plus the child
// process attached to the slave. Grounded on the sender/receiver contract of
// the seamless-upgrade protocol: master must be reachable as a raw,
// duplicable descriptor at all times.
type posixPty struct {
	mu       sync.Mutex
	master   *os.File
	cmd      *exec.Cmd // nil when reconstructed via FromRaw with no owned process handle
	pid      int
	waitOnce sync.Once
	waitErr  error
	exitCode int
	exited   bool
}

// Open allocates a master/slave pair, forks, and execs the configured shell
// in the child with the slave set as its controlling TTY on a new session.
func Open(cfg Config) (Pty, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, newErr(ErrCreate, "open", err)
	}
	defer slave.Close()

	if err := pty.Setsize(master, &pty.Winsize{
		Rows: uint16(cfg.Size.Rows),
		Cols: uint16(cfg.Size.Cols),
		X:    uint16(cfg.Size.PixelWidth),
		Y:    uint16(cfg.Size.PixelHeight),
	}); err != nil {
		master.Close()
		return nil, newErr(ErrCreate, "setsize", err)
	}

	shell := cfg.Shell
	if shell == "" {
		shell = defaultShell()
	}

	cmd := exec.Command(shell, cfg.Args...)
	cmd.Dir = cfg.Cwd
	cmd.Stdin = slave
	cmd.Stdout = slave
	cmd.Stderr = slave
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	}
	cmd.Env = childEnv(cfg.Env)

	if err := cmd.Start(); err != nil {
		master.Close()
		return nil, newErr(ErrCreate, "spawn", err)
	}

	return &posixPty{master: master, cmd: cmd, pid: cmd.Process.Pid}, nil
}

// FromRaw reconstructs a Pty from a master descriptor that was already open
// in another process and handed over via SCM_RIGHTS (see the upgrade and
// watchdog packages). The child process is not re-parented: the receiver
// only takes over the master end and the bookkeeping of its pid.
func FromRaw(fd uintptr, childPID int) (Pty, error) {
	f := os.NewFile(fd, "pty-master")
	if f == nil {
		return nil, newErr(ErrCreate, "from_raw", fmt.Errorf("invalid descriptor %d", fd))
	}
	return &posixPty{master: f, pid: childPID}, nil
}

func childEnv(extra []string) []string {
	env := os.Environ()
	hasTerm := false
	for _, e := range extra {
		if len(e) >= 5 && e[:5] == "TERM=" {
			hasTerm = true
		}
	}
	if !hasTerm {
		env = append(env, "TERM=xterm-256color")
	}
	env = append(env, extra...)
	return env
}

func defaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	if u, err := user.Current(); err == nil {
		if shell := lookupShellFromPasswd(u.Username); shell != "" {
			return shell
		}
	}
	return "/bin/sh"
}

// lookupShellFromPasswd does not read the passwd database: it always returns
// "", so the caller falls through to /bin/sh.
func lookupShellFromPasswd(string) string {
	return ""
}

func (p *posixPty) Write(b []byte) (int, error) {
	n, err := p.master.Write(b)
	if err != nil {
		return n, newErr(ErrIO, "write", err)
	}
	return n, nil
}

func (p *posixPty) Read(b []byte) (int, error) {
	n, err := p.master.Read(b)
	if err != nil {
		return n, err
	}
	return n, nil
}

func (p *posixPty) Resize(size Size) error {
	if err := pty.Setsize(p.master, &pty.Winsize{
		Rows: uint16(size.Rows),
		Cols: uint16(size.Cols),
		X:    uint16(size.PixelWidth),
		Y:    uint16(size.PixelHeight),
	}); err != nil {
		return newErr(ErrIO, "resize", err)
	}
	return nil
}

func (p *posixPty) ChildPID() int { return p.pid }

func (p *posixPty) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.exited {
		return false
	}
	if p.pid <= 0 {
		return false
	}
	var ws unix.WaitStatus
	pid, err := unix.Wait4(p.pid, &ws, unix.WNOHANG, nil)
	if err != nil || pid == 0 {
		return true
	}
	p.exited = true
	p.exitCode = ws.ExitStatus()
	return false
}

func (p *posixPty) Wait() (int, error) {
	p.waitOnce.Do(func() {
		if p.cmd != nil {
			err := p.cmd.Wait()
			p.mu.Lock()
			p.exited = true
			if p.cmd.ProcessState != nil {
				p.exitCode = p.cmd.ProcessState.ExitCode()
			} else if err != nil {
				p.exitCode = 1
			}
			p.mu.Unlock()
			p.waitErr = nil
			return
		}
		// Reconstructed PTY with no owned *exec.Cmd: poll via waitid-style
		// blocking wait4 on the bare pid.
		var ws unix.WaitStatus
		_, err := unix.Wait4(p.pid, &ws, 0, nil)
		p.mu.Lock()
		p.exited = true
		p.exitCode = ws.ExitStatus()
		p.mu.Unlock()
		p.waitErr = err
	})
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode, p.waitErr
}

func (p *posixPty) Signal(sig Signal) error {
	p.mu.Lock()
	exited := p.exited
	p.mu.Unlock()
	if p.pid <= 0 || exited {
		return newErr(ErrNotRunning, "signal", ErrNotRunningProcess)
	}
	var s syscall.Signal
	switch sig {
	case SigHUP:
		s = syscall.SIGHUP
	case SigINT:
		s = syscall.SIGINT
	case SigTERM:
		s = syscall.SIGTERM
	case SigKILL:
		s = syscall.SIGKILL
	}
	if err := syscall.Kill(p.pid, s); err != nil {
		return newErr(ErrIO, "signal", err)
	}
	return nil
}

// Close sends SIGHUP to the child (POSIX convention for a dropped
// controlling terminal) and closes the master descriptor.
func (p *posixPty) Close() error {
	if p.pid > 0 {
		_ = syscall.Kill(p.pid, syscall.SIGHUP)
	}
	return p.master.Close()
}

// RawHandle dup's the master descriptor and clears its close-on-exec flag so
// it survives being handed to a successor process via SCM_RIGHTS.
func (p *posixPty) RawHandle() (HandleSet, error) {
	fd, err := unix.Dup(int(p.master.Fd()))
	if err != nil {
		return HandleSet{}, newErr(ErrIO, "dup", err)
	}
	if err := unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return HandleSet{}, newErr(ErrIO, "clear_nonblock", err)
	}
	return HandleSet{FDs: []uintptr{uintptr(fd)}}, nil
}

// childPIDString is used by transports that need the pid serialized
// alongside its handle set.
func (p *posixPty) childPIDString() string { return strconv.Itoa(p.pid) }
