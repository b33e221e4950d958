//go:build windows

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// watchCmd is unavailable on Windows: the watchdog's crash-restart protocol
// passes PTY descriptors over SCM_RIGHTS, which Windows has no equivalent
// for. A Windows UI collaborator gets crash resilience from its own process
// supervision instead.
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "watch -- <binary> [args...]",
		Short:  "Unsupported on Windows",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("cterm: watch is not supported on windows")
		},
	}
}

func runSupervised(fd int) error {
	return fmt.Errorf("cterm: --supervised is not supported on windows")
}
