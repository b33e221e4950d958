//go:build windows

package upgrade

import (
	"fmt"
	"io"

	"github.com/Microsoft/go-winio"
)

// writeStateToPipe listens on a freshly named pipe, writes data to the
// first connection it accepts, and returns the pipe's name for the
// successor to dial. Windows has no anonymous-socketpair equivalent that
// also carries handle rights, so the serialized state rides a side channel
// separate from the handle inheritance PROC_THREAD_ATTRIBUTE_HANDLE_LIST
// performs.
func writeStateToPipe(data []byte) (string, error) {
	name := fmt.Sprintf(`\\.\pipe\cterm-upgrade-%d`, pipeCounter.next())
	ln, err := winio.ListenPipe(name, nil)
	if err != nil {
		return "", err
	}
	go func() {
		defer ln.Close()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write(data)
	}()
	return name, nil
}

func readStateFromPipe(name string) ([]byte, error) {
	conn, err := winio.DialPipe(name, nil)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return io.ReadAll(conn)
}

type counter struct{ ch chan int }

func (c counter) next() int {
	n := <-c.ch
	c.ch <- n + 1
	return n
}

var pipeCounter = func() counter {
	c := counter{ch: make(chan int, 1)}
	c.ch <- 0
	return c
}()
