//go:build !unix && !windows

package app

import "os"

var teardownSignals = []os.Signal{os.Interrupt}
