//go:build windows

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cterm-go/cterm/pty"
	"github.com/cterm-go/cterm/upgrade"
)

var (
	upgradeReceiverPipe    string
	upgradeReceiverHandles string
)

// addUpgradeReceiverFlags registers the Windows form of the upgrade-receiver
// flags. There is no single inheritable fd carrying both the state and the
// handles as on POSIX: the state travels over a named pipe, and the
// pseudo-console/process handles are inherited directly via
// STARTUPINFOEX and just need their numeric values parsed back out of argv
// (see upgrade.ExecuteUpgrade on Windows).
func addUpgradeReceiverFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&upgradeReceiverPipe, "upgrade-receiver-pipe", "", "internal: named pipe to read the seamless-upgrade state from")
	cmd.Flags().StringVar(&upgradeReceiverHandles, "upgrade-receiver-handles", "", "internal: comma-separated inherited handle values")
}

func upgradeReceiverRequested() bool {
	return upgradeReceiverPipe != ""
}

func runUpgradeReceiver() error {
	handles, err := parseHandles(upgradeReceiverHandles)
	if err != nil {
		return fmt.Errorf("cterm: parse upgrade handles: %w", err)
	}

	state, handles, err := upgrade.ReceiveUpgrade(upgradeReceiverPipe, handles)
	if err != nil {
		return fmt.Errorf("cterm: receive upgrade: %w", err)
	}

	log.Info("cterm: received upgrade state", "source_version", state.CtermVersion, "windows", len(state.Windows))

	for _, win := range state.Windows {
		for _, tab := range win.Tabs {
			if tab.PtyFDIndex < 0 || tab.PtyFDIndex >= len(handles) {
				log.Warn("cterm: tab references out-of-range handle index", "tab_id", tab.ID, "index", tab.PtyFDIndex)
				continue
			}
			p, err := pty.FromRaw([]uintptr{handles[tab.PtyFDIndex]}, tab.ChildPID)
			if err != nil {
				log.Warn("cterm: reattach pty failed", "tab_id", tab.ID, "err", err)
				continue
			}
			_ = p // a real UI collaborator would hand this to a new Session here.
		}
	}
	return nil
}

func parseHandles(csv string) ([]uintptr, error) {
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	handles := make([]uintptr, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("handle %q: %w", p, err)
		}
		handles[i] = uintptr(v)
	}
	return handles, nil
}
