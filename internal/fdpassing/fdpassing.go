// Package fdpassing carries file descriptors across Unix domain sockets via
// SCM_RIGHTS. It is the shared primitive both the upgrade protocol (passing
// PTY fds to a successor binary) and the watchdog protocol (passing PTY fds
// to a supervising parent) build on, mirroring how the original
// implementation kept this as one small core module reused by both
// call sites instead of duplicating the sendmsg/recvmsg dance.
package fdpassing

import "net"

// MaxFDs bounds how many descriptors a single message may carry. Both
// callers enforce their own protocol-level cap on top of this; it exists
// here as a hard backstop against a malformed or hostile peer's control
// message claiming an enormous FD count.
const MaxFDs = 256
