// Command cterm is the core-exposing binary: a thin CLI that wires the
// session, upgrade, and watchdog packages together the way a UI
// collaborator (a native app, a web frontend) would. It knows how to run a
// terminal session against a shell, reattach one handed over by a
// predecessor process mid-upgrade, and launch itself under a supervising
// watchdog. Everything else — windows, tabs, menus, config files — is the
// UI collaborator's job and deliberately lives outside this package.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cterm-go/cterm/pty"
	"github.com/cterm-go/cterm/session"
)

// Version is stamped at build time (ldflags) and travels in the upgrade
// state so a successor can log what it replaced.
var Version = "dev"

func main() {
	var supervisedFD int

	root := &cobra.Command{
		Use:     "cterm",
		Short:   "Headless terminal core: runs a shell session and supports seamless self-upgrade",
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case upgradeReceiverRequested():
				return runUpgradeReceiver()
			case supervisedFD >= 0:
				return runSupervised(supervisedFD)
			default:
				return runStandalone()
			}
		},
	}
	root.Flags().IntVar(&supervisedFD, "supervised", -1, "internal: fd of the watchdog supervision socket")
	addUpgradeReceiverFlags(root)

	root.AddCommand(watchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runStandalone opens a single session against the user's shell and pumps
// stdin/stdout through it, the minimal rendering a headless core can offer
// without a real UI collaborator attached. It exists so the binary is
// runnable on its own for manual testing of the core.
func runStandalone() error {
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

	for ev := range s.Events() {
		if ev.Kind == session.EventProcessExited {
			os.Exit(ev.ExitCode)
		}
	}
	return nil
}
