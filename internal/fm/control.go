// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package fm

import "fmt"

type Preemphasis uint8

const (
	Bypass Preemphasis = iota
	Preemphasis50us
	Preemphasis75us
	nPreemphasis
)

func (p Preemphasis) String() string {
	switch p {
	case Bypass:
		return "Bypass"
	case Preemphasis50us:
		return "50 µs (Europe)"
	case Preemphasis75us:
		return "75 µs (America)"
	}
	return fmt.Sprintf("Preemphasis(%d)", uint8(p))
}

// Valid reports whether p is one of the three selectable modes.
func (p Preemphasis) Valid() bool { return p < nPreemphasis }

// Next returns the mode that follows p in the Bypass, 50µs, 75µs cycle.
func (p Preemphasis) Next() Preemphasis {
	if !p.Valid() {
		return Bypass
	}
	return (p + 1) % nPreemphasis
}

// Flag names a single bit switch of the control register.
type Flag uint8

const (
	TX Flag = iota
	Stereo
	RDS
	Mute
	nFlag
)

func (f Flag) String() string {
	if f < nFlag {
		return flagFields[f].Name
	}
	return fmt.Sprintf("Flag(%d)", uint8(f))
}

// Field describes a bit range of the control register. Values maps each
// reserved raw pattern of a multi-bit field to its mode; patterns missing
// from Values decode as the zero mode.
type Field struct {
	Name   string
	Shift  uint
	Width  uint
	Values map[uint32]Preemphasis
}

func (f Field) Mask() uint32           { return (1<<f.Width - 1) << f.Shift }
func (f Field) Get(word uint32) uint32 { return (word & f.Mask()) >> f.Shift }
func (f Field) Put(v uint32) uint32    { return (v << f.Shift) & f.Mask() }

var (
	TXField          = Field{Name: "tx", Shift: 0, Width: 1}
	StereoField      = Field{Name: "stereo", Shift: 1, Width: 1}
	RDSField         = Field{Name: "rds", Shift: 2, Width: 1}
	PreemphasisField = Field{
		Name:  "preemphasis",
		Shift: 3,
		Width: 2,
		Values: map[uint32]Preemphasis{
			0: Bypass,
			1: Preemphasis50us,
			2: Preemphasis75us,
		},
	}
	MuteField = Field{Name: "mute", Shift: 5, Width: 1}
)

// Control lists every defined CTRL field, low bit first.
var Control = []Field{
	TXField,
	StereoField,
	RDSField,
	PreemphasisField,
	MuteField,
}

var flagFields = [nFlag]Field{
	TX:     TXField,
	Stereo: StereoField,
	RDS:    RDSField,
	Mute:   MuteField,
}

// ControlMask covers all defined CTRL bits.
var ControlMask = func() (mask uint32) {
	for _, f := range Control {
		mask |= f.Mask()
	}
	return
}()

// State is the typed transmitter configuration.
type State struct {
	TX, Stereo, RDS, Mute bool
	Preemphasis           Preemphasis
	FrequencyHz           float64
}

func (s *State) flag(f Flag) *bool {
	switch f {
	case TX:
		return &s.TX
	case Stereo:
		return &s.Stereo
	case RDS:
		return &s.RDS
	case Mute:
		return &s.Mute
	}
	return nil
}

func (s State) Flag(f Flag) bool {
	if p := s.flag(f); p != nil {
		return *p
	}
	return false
}

func (s *State) SetFlag(f Flag, v bool) {
	if p := s.flag(f); p != nil {
		*p = v
	}
}

// FrequencyMHz is a convenience for display and settings.
func (s State) FrequencyMHz() float64 { return s.FrequencyHz / 1e6 }

// DecodeControl returns the flags and pre-emphasis of a CTRL word; the
// frequency is left zero.
func DecodeControl(word uint32) (s State) {
	for f := Flag(0); f < nFlag; f++ {
		s.SetFlag(f, flagFields[f].Get(word) != 0)
	}
	s.Preemphasis = PreemphasisField.Values[PreemphasisField.Get(word)]
	return
}

// EncodeControl returns the CTRL word of the state; undefined bits are zero.
func EncodeControl(s State) (word uint32) {
	for f := Flag(0); f < nFlag; f++ {
		if s.Flag(f) {
			word |= flagFields[f].Put(1)
		}
	}
	for pattern, mode := range PreemphasisField.Values {
		if mode == s.Preemphasis {
			word |= PreemphasisField.Put(pattern)
			break
		}
	}
	return
}
