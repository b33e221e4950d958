//go:build windows

package upgrade

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ExecuteUpgrade on Windows has no SCM_RIGHTS equivalent, so it inherits
// handles directly through STARTUPINFOEX's PROC_THREAD_ATTRIBUTE_HANDLE_LIST
// (set up by charmbracelet/x/conpty when the successor calls conpty.Inherit)
// rather than passing them over a socket. The serialized state itself still
// travels over a named pipe the successor is told to open, conveyed as a
// command-line argument rather than an inherited socket fd.
func ExecuteUpgrade(newBinary string, state *UpgradeState, handles []uintptr, extraArgs ...string) error {
	if len(handles) > MaxFDs {
		return newErr(ErrCapExceeded, "execute_upgrade", fmt.Errorf("%d handles exceeds max %d", len(handles), MaxFDs))
	}

	stateBytes, err := json.Marshal(state)
	if err != nil {
		return newErr(ErrSerialization, "marshal", err)
	}
	if len(stateBytes) > MaxStateSize {
		return newErr(ErrSerialization, "marshal", fmt.Errorf("state is %d bytes, exceeds max %d", len(stateBytes), MaxStateSize))
	}

	pipeName, err := writeStateToPipe(stateBytes)
	if err != nil {
		return newErr(ErrTransport, "state_pipe", err)
	}

	handleArgs := make([]string, len(handles))
	for i, h := range handles {
		handleArgs[i] = fmt.Sprintf("%d", h)
	}
	args := append([]string{
		"--upgrade-receiver-pipe", pipeName,
		"--upgrade-receiver-handles", strings.Join(handleArgs, ","),
	}, extraArgs...)

	cmd := exec.Command(newBinary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return newErr(ErrTransport, "spawn", err)
	}
	return cmd.Wait()
}

// ReceiveUpgrade mirrors ExecuteUpgrade's handoff: it reads the state off
// the named pipe the predecessor created and returns the inherited handles
// verbatim, since conpty.Inherit has already made them usable in this
// process by the time main() parses --upgrade-receiver-handles.
func ReceiveUpgrade(pipeName string, handles []uintptr) (*UpgradeState, []uintptr, error) {
	stateBytes, err := readStateFromPipe(pipeName)
	if err != nil {
		return nil, nil, newErr(ErrTransport, "state_pipe", err)
	}

	var state UpgradeState
	if err := json.Unmarshal(stateBytes, &state); err != nil {
		return nil, nil, newErr(ErrSerialization, "unmarshal", err)
	}
	if state.FormatVersion > FormatVersion {
		return nil, nil, newErr(ErrSerialization, "unmarshal", fmt.Errorf("state format version %d is newer than supported %d", state.FormatVersion, FormatVersion))
	}
	return &state, handles, nil
}
