// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package fm encodes and decodes the FM transmitter peripheral registers.
package fm

import "fmt"

// DefaultBase is the physical address of the transmitter register block.
const DefaultBase = 0x43c30000

// Register byte offsets.
const (
	VERSION = 0x00
	CTRL    = 0x04
	FREQ    = 0x08
	MPXLVL  = 0x0C
	LEFT    = 0x10
	RIGHT   = 0x14
	STATUS  = 0x18
	BALANCE = 0x1C
)

// Step is the DDS output frequency, in Hz, of one tuning word LSB.
const Step = 0.0286086784756944

// MaxFrequency is the exclusive upper bound of a settable carrier in Hz.
const MaxFrequency = 200e6

type Register struct {
	Name   string
	Offset uint32
}

var Registers = []Register{
	{"version", VERSION},
	{"ctrl", CTRL},
	{"freq", FREQ},
	{"mpxlvl", MPXLVL},
	{"left", LEFT},
	{"right", RIGHT},
	{"status", STATUS},
	{"balance", BALANCE},
}

// Word is a register value read for display.
type Word struct {
	Register
	Value uint32
}

func (w Word) String() string {
	return fmt.Sprintf("%#02x %-8s %#06x", w.Offset, w.Name, w.Value)
}
