//go:build windows

package app

import (
	"os"

	"golang.org/x/sys/windows"
)

var teardownSignals = []os.Signal{windows.SIGINT, windows.SIGTERM}
