//go:build unix

package app

import (
	"os"

	"golang.org/x/sys/unix"
)

// teardownSignals end the client's page: reconnects stop and the load is
// abandoned.
var teardownSignals = []os.Signal{unix.SIGINT, unix.SIGTERM}
