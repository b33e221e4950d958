//go:build !windows

package main

import (
	"fmt"
	"net"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cterm-go/cterm/pty"
	"github.com/cterm-go/cterm/session"
	"github.com/cterm-go/cterm/watchdog"
)

// watchCmd runs this binary as a watchdog, supervising a child invocation
// of itself (or any other cterm-protocol-compatible binary) across crashes.
// The watchdog protocol depends on SCM_RIGHTS descriptor passing and is
// POSIX-only; see watchdog.Run.
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "watch -- <binary> [args...]",
		Short:              "Supervise a cterm process, relaunching it on crash while keeping its PTYs alive",
		Args:               cobra.MinimumNArgs(1),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := watchdog.Run(args[0], args[1:])
			if err != nil {
				return err
			}
			os.Exit(code)
			return nil
		},
	}
}

// runSupervised is invoked with --supervised <fd> by the watchdog. It opens
// the same way runStandalone does but registers its PTY with the watchdog
// over the inherited socket so the PTY survives this process crashing, and
// tells the watchdog about a graceful exit instead of just disappearing.
func runSupervised(fd int) error {
	conn, err := watchdogConn(fd)
	if err != nil {
		return fmt.Errorf("cterm: supervised socket: %w", err)
	}
	defer conn.Close()

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	s, err := session.New(pty.Config{
		Size:  pty.Size{Rows: 24, Cols: 80},
		Shell: shell,
	})
	if err != nil {
		return fmt.Errorf("cterm: open session: %w", err)
	}
	defer s.Close()

	handleSet, err := s.Pty.RawHandle()
	if err != nil {
		log.Warn("cterm: could not duplicate pty handle for watchdog", "err", err)
	} else if len(handleSet.FDs) > 0 {
		if err := watchdog.RegisterFd(conn, 0, int(handleSet.FDs[0])); err != nil {
			log.Warn("cterm: register fd with watchdog failed", "err", err)
		}
	}

	for ev := range s.Events() {
		if ev.Kind == session.EventProcessExited {
			_ = watchdog.NotifyShutdown(conn)
			os.Exit(ev.ExitCode)
		}
	}
	return nil
}

// watchdogConn wraps the fd inherited via --supervised into a Unix socket
// connection, matching how the watchdog package itself reconstructs one on
// its side of the pair.
func watchdogConn(fd int) (*net.UnixConn, error) {
	file := os.NewFile(uintptr(fd), "supervised")
	conn, err := net.FileConn(file)
	file.Close()
	if err != nil {
		return nil, err
	}
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("cterm: inherited fd %d is not a unix socket", fd)
	}
	return unixConn, nil
}
