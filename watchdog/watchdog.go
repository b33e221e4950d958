//go:build !windows

package watchdog

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cterm-go/cterm/internal/fdpassing"
)

// MaxRestarts is how many times the watchdog will relaunch a crashing
// child before giving up.
const MaxRestarts = 5

// RestartDelay is how long the watchdog waits after a crash before
// relaunching, to avoid a tight crash loop pegging a CPU.
const RestartDelay = 100 * time.Millisecond

// Run spawns binaryPath with args plus a trailing "--supervised <fd>" flag,
// monitors it, and relaunches it on crash (non-zero or signaled exit) up to
// MaxRestarts times. PTY fds the child registers via RegisterFd are kept
// open by the watchdog across restarts; they are not passed to the
// relaunched child, which inherits only the supervision socket. Run returns
// once the child shuts down gracefully or restarts are exhausted.
func Run(binaryPath string, args []string) (int, error) {
	restarts := 0
	ptyFDs := map[uint64]int{}

	for {
		parentFD, childFD, err := fdpassing.Socketpair()
		if err != nil {
			return 1, fmt.Errorf("watchdog: socketpair: %w", err)
		}

		childFile := os.NewFile(uintptr(childFD), "watchdog-child")
		childArgs := append(append([]string{}, args...), "--supervised", "3")

		cmd := exec.Command(binaryPath, childArgs...)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		cmd.ExtraFiles = []*os.File{childFile}
		if err := cmd.Start(); err != nil {
			childFile.Close()
			closeAll(ptyFDs)
			return 1, fmt.Errorf("watchdog: spawn: %w", err)
		}
		childFile.Close()

		parentFile := os.NewFile(uintptr(parentFD), "watchdog-parent")
		conn, err := net.FileConn(parentFile)
		parentFile.Close()
		if err != nil {
			closeAll(ptyFDs)
			return 1, fmt.Errorf("watchdog: fileconn: %w", err)
		}
		sockConn := conn.(*net.UnixConn)

		log.Info("watchdog spawned child", "pid", cmd.Process.Pid, "restart", restarts)

		exitCode, graceful, err := monitorChild(cmd, sockConn, ptyFDs)
		sockConn.Close()
		if err != nil {
			closeAll(ptyFDs)
			return 1, err
		}

		if graceful {
			log.Info("watchdog: graceful shutdown")
			closeAll(ptyFDs)
			return exitCode, nil
		}

		if exitCode == 0 {
			log.Info("watchdog: child exited normally")
			closeAll(ptyFDs)
			return 0, nil
		}

		restarts++
		log.Warn("watchdog: child crashed", "exit_code", exitCode, "restart", restarts, "max_restarts", MaxRestarts)
		if restarts > MaxRestarts {
			log.Error("watchdog: max restarts exceeded, giving up")
			closeAll(ptyFDs)
			return 1, nil
		}

		if err := WriteCrashMarker(exitCode); err != nil {
			log.Warn("watchdog: failed to write crash marker", "err", err)
		}
		time.Sleep(RestartDelay)
	}
}

// monitorChild blocks until the child process exits or requests graceful
// shutdown, servicing RegisterFd/UnregisterFd/Heartbeat messages on sock in
// the meantime.
func monitorChild(cmd *exec.Cmd, sock *net.UnixConn, ptyFDs map[uint64]int) (exitCode int, graceful bool, err error) {
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	msgDone := make(chan struct{})
	msgGraceful := make(chan struct{}, 1)
	go func() {
		defer close(msgDone)
		buf := make([]byte, 1024)
		for {
			n, oobFDs, rerr := readMessage(sock, buf)
			if rerr != nil {
				return
			}
			if n == 0 {
				continue
			}
			switch MessageKind(buf[0]) {
			case MsgRegisterFd:
				if len(oobFDs) > 0 {
					id, perr := parseRegisterID(buf[:n])
					if perr != nil {
						fdpassing.Close(oobFDs)
						continue
					}
					ptyFDs[id] = oobFDs[0]
					log.Debug("watchdog: registered fd", "fd", oobFDs[0], "id", id)
				}
			case MsgUnregisterFd:
				id, perr := parseUnregisterID(buf[:n])
				if perr == nil {
					if fd, ok := ptyFDs[id]; ok {
						fdpassing.Close([]int{fd})
						delete(ptyFDs, id)
					}
				}
			case MsgShutdown:
				select {
				case msgGraceful <- struct{}{}:
				default:
				}
			case MsgHeartbeat:
			}
		}
	}()

	select {
	case werr := <-done:
		code := exitCodeFromError(werr)
		return code, false, nil
	case <-msgGraceful:
		<-done
		return 0, true, nil
	}
}

func readMessage(sock *net.UnixConn, buf []byte) (int, []int, error) {
	fds, n, err := fdpassing.Recv(sock, 1, buf)
	return n, fds, err
}

func exitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

func closeAll(fds map[uint64]int) {
	for id, fd := range fds {
		fdpassing.Close([]int{fd})
		delete(fds, id)
	}
}
