// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package session owns the transmitter registers and the state cached from
// them.
package session

import (
	"time"

	"github.com/platinasystems/fmtx/internal/fm"
	"github.com/platinasystems/fmtx/internal/meter"
	"github.com/platinasystems/log"
)

// FramePeriod paces auto refresh at 25 polls per second.
const FramePeriod = time.Second / 25

// Registers is satisfied by *regs.Map.
type Registers interface {
	Read(offset uint32) uint32
	Write(offset, value uint32)
}

// Reading is one poll of the level registers with the held peaks.
type Reading struct {
	fm.Sample
	MPX   float64 // kHz
	Peaks meter.Peaks
}

// Session is the single owner of a transmitter's registers; it is not safe
// for concurrent use.
type Session struct {
	regs      Registers
	state     fm.State
	peaks     meter.PeakHolder
	lastFrame time.Time
}

func New(r Registers) *Session {
	return &Session{regs: r}
}

// State returns the cached state of the last refresh or change.
func (s *Session) State() fm.State { return s.state }

// Refresh reloads the cached state from the control and frequency
// registers.
func (s *Session) Refresh() fm.State {
	st := fm.DecodeControl(s.regs.Read(fm.CTRL))
	st.FrequencyHz = fm.Frequency(s.regs.Read(fm.FREQ))
	s.state = st
	return st
}

// SetFrequency tunes the carrier. An invalid frequency changes nothing and
// returns false.
func (s *Session) SetFrequency(hz float64) bool {
	if !fm.ValidFrequency(hz) {
		log.Printf("warn", "%g Hz: invalid frequency, kept %g Hz",
			hz, s.state.FrequencyHz)
		return false
	}
	w, _ := fm.TuningWord(hz)
	s.regs.Write(fm.FREQ, w)
	s.state.FrequencyHz = hz
	return true
}

// Toggle inverts one control flag. The control word is read back from the
// hardware first so bits changed elsewhere are kept.
func (s *Session) Toggle(f fm.Flag) fm.State {
	st := fm.DecodeControl(s.regs.Read(fm.CTRL))
	st.SetFlag(f, !st.Flag(f))
	return s.writeControl(st)
}

// CyclePreemphasis selects the next pre-emphasis mode after the one in the
// hardware.
func (s *Session) CyclePreemphasis() fm.State {
	st := fm.DecodeControl(s.regs.Read(fm.CTRL))
	st.Preemphasis = st.Preemphasis.Next()
	return s.writeControl(st)
}

func (s *Session) writeControl(st fm.State) fm.State {
	s.regs.Write(fm.CTRL, fm.EncodeControl(st))
	st.FrequencyHz = s.state.FrequencyHz
	s.state = st
	return st
}

// Apply pushes a whole state, e.g. from settings. The frequency is only
// written when valid; the control word always is.
func (s *Session) Apply(st fm.State) {
	if fm.ValidFrequency(st.FrequencyHz) {
		s.SetFrequency(st.FrequencyHz)
	}
	s.writeControl(st)
}

// Poll samples the level registers and updates the peaks. With throttle,
// it returns false without reading anything until FramePeriod has passed
// since the last frame.
func (s *Session) Poll(now time.Time, throttle bool) (Reading, bool) {
	if throttle && !s.lastFrame.IsZero() && now.Sub(s.lastFrame) < FramePeriod {
		return Reading{}, false
	}
	s.lastFrame = now
	r := Reading{Sample: fm.ReadSample(s.regs.Read)}
	r.MPX = r.Sample.MPXKHz()
	s.peaks.Update(now, r.MPX, int(r.Left), int(r.Right))
	r.Peaks = s.peaks.Peaks
	return r, true
}

// NextFrame returns when a throttled Poll next reads the levels.
func (s *Session) NextFrame() time.Time {
	return s.lastFrame.Add(FramePeriod)
}

// Dump reads every register of the map.
func (s *Session) Dump() []fm.Word {
	words := make([]fm.Word, 0, len(fm.Registers))
	for _, r := range fm.Registers {
		words = append(words, fm.Word{Register: r, Value: s.regs.Read(r.Offset)})
	}
	return words
}
