// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package session

import (
	"testing"
	"time"

	"github.com/platinasystems/fmtx/internal/fm"
)

type write struct{ offset, value uint32 }

type fakeRegs struct {
	words  map[uint32]uint32
	reads  int
	writes []write
}

func newFake() *fakeRegs {
	return &fakeRegs{words: make(map[uint32]uint32)}
}

func (f *fakeRegs) Read(offset uint32) uint32 {
	f.reads++
	return f.words[offset]
}

func (f *fakeRegs) Write(offset, value uint32) {
	f.words[offset] = value
	f.writes = append(f.writes, write{offset, value})
}

func TestRefresh(t *testing.T) {
	r := newFake()
	r.words[fm.CTRL] = 0x13 // tx, stereo, 75us
	r.words[fm.FREQ] = 3495442828
	s := New(r)
	st := s.Refresh()
	if !st.TX || !st.Stereo || st.RDS || st.Mute ||
		st.Preemphasis != fm.Preemphasis75us {
		t.Errorf("wrong: %+v", st)
	}
	if d := st.FrequencyHz - 100e6; d > fm.Step || d < -fm.Step {
		t.Error("wrong frequency:", st.FrequencyHz)
	}
	if s.State() != st {
		t.Error("state not cached")
	}
}

func TestSetFrequency(t *testing.T) {
	r := newFake()
	s := New(r)
	if !s.SetFrequency(100e6) {
		t.Fatal("rejected")
	}
	if len(r.writes) != 1 || r.writes[0] != (write{fm.FREQ, 3495442828}) {
		t.Error("wrong writes:", r.writes)
	}
	for _, hz := range []float64{-1, 0, 200e6, 250e6, 150e6} {
		if s.SetFrequency(hz) {
			t.Error(hz, "accepted")
		}
	}
	if len(r.writes) != 1 {
		t.Error("invalid frequency written:", r.writes)
	}
	if s.State().FrequencyHz != 100e6 {
		t.Error("previous frequency lost:", s.State().FrequencyHz)
	}
}

func TestToggleReadsHardware(t *testing.T) {
	r := newFake()
	s := New(r)
	s.Refresh()
	// changed behind the cached state
	r.words[fm.CTRL] = 0x21
	st := s.Toggle(fm.Stereo)
	if r.words[fm.CTRL] != 0x23 {
		t.Errorf("wrong: %#x", r.words[fm.CTRL])
	}
	if !st.TX || !st.Stereo || !st.Mute {
		t.Errorf("wrong: %+v", st)
	}
	s.Toggle(fm.TX)
	if r.words[fm.CTRL] != 0x22 {
		t.Errorf("wrong: %#x", r.words[fm.CTRL])
	}
	// undefined bits read back are not written
	r.words[fm.CTRL] = 0xffffff00
	s.Toggle(fm.RDS)
	if r.words[fm.CTRL] != 0x04 {
		t.Errorf("wrong: %#x", r.words[fm.CTRL])
	}
}

func TestCyclePreemphasis(t *testing.T) {
	r := newFake()
	s := New(r)
	r.words[fm.CTRL] = 0x01
	for _, want := range []uint32{0x09, 0x11, 0x01} {
		s.CyclePreemphasis()
		if r.words[fm.CTRL] != want {
			t.Errorf("wrong: %#x, want %#x", r.words[fm.CTRL], want)
		}
	}
	r.words[fm.CTRL] = 0x18 // reserved pattern reads as bypass
	if st := s.CyclePreemphasis(); st.Preemphasis != fm.Preemphasis50us {
		t.Error("wrong:", st.Preemphasis)
	}
}

func TestApply(t *testing.T) {
	r := newFake()
	s := New(r)
	s.Apply(fm.State{TX: true, Mute: true, FrequencyHz: 87.5e6,
		Preemphasis: fm.Preemphasis50us})
	if len(r.writes) != 2 || r.writes[0].offset != fm.FREQ ||
		r.writes[1] != (write{fm.CTRL, 0x29}) {
		t.Error("wrong writes:", r.writes)
	}
	r.writes = r.writes[:0]
	s.Apply(fm.State{FrequencyHz: 0})
	if len(r.writes) != 1 || r.writes[0] != (write{fm.CTRL, 0}) {
		t.Error("wrong writes:", r.writes)
	}
	if s.State().FrequencyHz != 87.5e6 {
		t.Error("frequency lost:", s.State().FrequencyHz)
	}
}

func TestPoll(t *testing.T) {
	r := newFake()
	r.words[fm.LEFT] = 0xc000  // -16384
	r.words[fm.RIGHT] = 0x1000 // 4096
	r.words[fm.MPXLVL] = 0x800000
	s := New(r)
	t0 := time.Now()
	rd, ok := s.Poll(t0, true)
	if !ok {
		t.Fatal("first frame throttled")
	}
	if rd.Left != -16384 || rd.Right != 4096 || rd.MPX != fm.DecodeMPX(0x800000) {
		t.Errorf("wrong: %+v", rd)
	}
	if rd.Peaks.Left != 16384 || rd.Peaks.Right != 4096 || rd.Peaks.MPX != rd.MPX {
		t.Errorf("wrong peaks: %+v", rd.Peaks)
	}

	if got := s.NextFrame(); !got.Equal(t0.Add(FramePeriod)) {
		t.Error("wrong next frame:", got.Sub(t0))
	}

	reads := r.reads
	if _, ok = s.Poll(t0.Add(FramePeriod/2), true); ok {
		t.Error("frame not throttled")
	}
	if r.reads != reads {
		t.Error("throttled frame read hardware")
	}
	if _, ok = s.Poll(t0.Add(FramePeriod/2), false); !ok {
		t.Error("unthrottled poll refused")
	}
	r.words[fm.LEFT] = 0x0100
	rd, ok = s.Poll(t0.Add(FramePeriod+FramePeriod/2), true)
	if !ok {
		t.Fatal("frame after period throttled")
	}
	if rd.Left != 256 || rd.Peaks.Left != 16384 {
		t.Errorf("peak not held: %+v", rd)
	}
}

func TestDump(t *testing.T) {
	r := newFake()
	r.words[fm.VERSION] = 0x00020007
	r.words[fm.BALANCE] = 5
	words := New(r).Dump()
	if len(words) != 8 {
		t.Fatal("wrong:", len(words))
	}
	if words[0].Value != 0x00020007 || words[7].Name != "balance" ||
		words[7].Value != 5 {
		t.Error("wrong:", words)
	}
}
