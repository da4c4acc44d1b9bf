// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package fmtx

import (
	"os"
	"syscall"
)

// TerminationSignals stop the interactive loop; the terminal is restored
// before exit.
var TerminationSignals = []os.Signal{
	os.Interrupt,
	os.Signal(syscall.SIGTERM),
}
