//go:build !windows

package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cterm-go/cterm/pty"
	"github.com/cterm-go/cterm/upgrade"
)

var upgradeReceiverFD int

// addUpgradeReceiverFlags registers the POSIX form of the upgrade-receiver
// flag: a single inherited socket fd carrying both the serialized state
// and the PTY descriptors via SCM_RIGHTS (see upgrade.ReceiveUpgrade).
func addUpgradeReceiverFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&upgradeReceiverFD, "upgrade-receiver", -1, "internal: fd to receive a seamless-upgrade handoff on")
}

func upgradeReceiverRequested() bool {
	return upgradeReceiverFD >= 0
}

// runUpgradeReceiver is invoked with --upgrade-receiver <fd> by a
// predecessor process executing upgrade.ExecuteUpgrade. It reads the
// serialized UpgradeState and the transferred PTY descriptors, reconstructs
// every terminal via pty.FromRaw, and then carries on as if it had opened
// those PTYs itself.
func runUpgradeReceiver() error {
	state, fds, err := upgrade.ReceiveUpgrade(upgradeReceiverFD)
	if err != nil {
		return fmt.Errorf("cterm: receive upgrade: %w", err)
	}

	log.Info("cterm: received upgrade state", "source_version", state.CtermVersion, "windows", len(state.Windows))

	for _, win := range state.Windows {
		for _, tab := range win.Tabs {
			if tab.PtyFDIndex < 0 || tab.PtyFDIndex >= len(fds) {
				log.Warn("cterm: tab references out-of-range fd index", "tab_id", tab.ID, "index", tab.PtyFDIndex)
				continue
			}
			p, err := pty.FromRaw(uintptr(fds[tab.PtyFDIndex]), tab.ChildPID)
			if err != nil {
				log.Warn("cterm: reattach pty failed", "tab_id", tab.ID, "err", err)
				continue
			}
			_ = p // a real UI collaborator would hand this to a new Session here.
		}
	}
	return nil
}
