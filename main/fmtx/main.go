// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// This is the FM transmitter control program.
package main

import (
	"fmt"
	"os"

	"github.com/platinasystems/fmtx/cmd/fmtx"
)

func main() {
	if err := (fmtx.Command{}).Main(os.Args[1:]...); err != nil {
		fmt.Fprintln(os.Stderr, "fmtx:", err)
		os.Exit(1)
	}
}
