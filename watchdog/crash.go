package watchdog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cterm-go/cterm/upgrade"
)

// CrashState is what gets persisted to disk on a crash restart, reusing the
// upgrade package's wire format so the same state that seamless-upgrades a
// running process can also recover a crashed one.
type CrashState struct {
	State     *upgrade.UpgradeState `json:"state"`
	Timestamp int64                 `json:"timestamp"`
	PID       int                   `json:"pid"`
}

// NewCrashState stamps state with the current time and process id.
func NewCrashState(state *upgrade.UpgradeState, now int64) *CrashState {
	return &CrashState{State: state, Timestamp: now, PID: os.Getpid()}
}

func cacheDir() string {
	dir, err := xdg.CacheFile("cterm/placeholder")
	if err != nil {
		return filepath.Join(os.TempDir(), "cterm")
	}
	return filepath.Dir(dir)
}

// CrashStatePath is where the last known-good terminal state is persisted
// for recovery after a crash.
func CrashStatePath() string {
	return filepath.Join(cacheDir(), "crash_state.json")
}

// CrashMarkerPath is a sentinel file written right before a restart; its
// presence at the next startup is how the newly spawned process knows it
// is recovering from a crash rather than starting fresh.
func CrashMarkerPath() string {
	return filepath.Join(cacheDir(), "crash_marker")
}

// WriteCrashState persists state atomically (write to a temp file, then
// rename) so a reader never observes a half-written file.
func WriteCrashState(state *CrashState) error {
	path := CrashStatePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadCrashState loads the persisted crash state, if any.
func ReadCrashState() (*CrashState, error) {
	data, err := os.ReadFile(CrashStatePath())
	if err != nil {
		return nil, err
	}
	var state CrashState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// ClearCrashState removes the persisted crash state after a successful
// startup that didn't need it.
func ClearCrashState() error {
	err := os.Remove(CrashStatePath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// WriteCrashMarker records the given signal or exit code together with the
// pid of the calling process, for the next restart to discover.
func WriteCrashMarker(exitCode int) error {
	path := CrashMarkerPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(fmt.Sprintf("%d\n%d", exitCode, os.Getpid())), 0o600)
}

// ReadCrashMarker reads and deletes the crash marker, returning the exit
// code and the pid of the process that wrote it, if a marker exists.
func ReadCrashMarker() (exitCode, pid int, ok bool) {
	path := CrashMarkerPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, false
	}
	os.Remove(path)

	var readExitCode, readPID int
	if _, err := fmt.Sscanf(string(data), "%d\n%d", &readExitCode, &readPID); err != nil {
		return 0, 0, false
	}
	return readExitCode, readPID, true
}
