// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package console

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/platinasystems/fmtx/internal/fm"
	"github.com/platinasystems/fmtx/internal/publish"
	"github.com/platinasystems/fmtx/internal/session"
)

type fakeRegs struct {
	words map[uint32]uint32
	ctrl  []uint32
}

func newFake() *fakeRegs {
	return &fakeRegs{words: make(map[uint32]uint32)}
}

func (f *fakeRegs) Read(offset uint32) uint32 { return f.words[offset] }

func (f *fakeRegs) Write(offset, value uint32) {
	f.words[offset] = value
	if offset == fm.CTRL {
		f.ctrl = append(f.ctrl, value)
	}
}

func newConsole(r *fakeRegs, input string) (*Console, *bytes.Buffer) {
	in := strings.NewReader(input)
	out := new(bytes.Buffer)
	return &Console{
		Session:  session.New(r),
		Keys:     NewKeys(in),
		Out:      out,
		Prompt:   Lines(in, out),
		Settings: "/nonexistent/fm_transmitter.conf",
	}, out
}

func TestToggleKeys(t *testing.T) {
	r := newFake()
	c, out := newConsole(r, "12345xq1")
	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := []uint32{0x01, 0x03, 0x07, 0x27, 0x2f}
	if fmt.Sprint(r.ctrl) != fmt.Sprint(want) {
		t.Errorf("wrong: %#x", r.ctrl)
	}
	if !strings.Contains(out.String(), "● MUTED") {
		t.Error("mute not drawn")
	}
}

func TestCaseInsensitive(t *testing.T) {
	r := newFake()
	c, _ := newConsole(r, "A1Q2")
	c.Run(context.Background())
	if !c.Auto() {
		t.Error("A did not toggle auto")
	}
	if fmt.Sprint(r.ctrl) != "[1]" {
		t.Errorf("Q did not quit: %#x", r.ctrl)
	}
}

func TestCtrlCQuits(t *testing.T) {
	r := newFake()
	c, _ := newConsole(r, "\x031")
	c.Run(context.Background())
	if len(r.ctrl) != 0 {
		t.Error("ran past Ctrl-C")
	}
}

func TestEndOfInputQuits(t *testing.T) {
	r := newFake()
	c, _ := newConsole(r, "5")
	if err := c.Run(context.Background()); err != nil {
		t.Error(err)
	}
}

func TestFrequencyDialog(t *testing.T) {
	r := newFake()
	c, out := newConsole(r, "f100,1\nq")
	c.Run(context.Background())
	w, _ := fm.TuningWord(100.1e6)
	if r.words[fm.FREQ] != w {
		t.Errorf("wrong: %#x", r.words[fm.FREQ])
	}
	s := out.String()
	if !strings.Contains(s, "SET FREQUENCY") ||
		!strings.Contains(s, "Set to 100.100000 MHz") ||
		!strings.Contains(s, "100.1 MHz") {
		t.Error("wrong:", s)
	}
}

func TestFrequencyDialogInvalid(t *testing.T) {
	for _, input := range []string{"f250\nq", "f-3\nq", "fabc\nq"} {
		r := newFake()
		r.words[fm.FREQ] = 7
		c, out := newConsole(r, input)
		c.Run(context.Background())
		if r.words[fm.FREQ] != 7 {
			t.Errorf("%q: wrong: %#x", input, r.words[fm.FREQ])
		}
		if !strings.Contains(out.String(), "Invalid frequency") {
			t.Errorf("%q: not reported", input)
		}
	}
}

func TestFrequencyDialogEmpty(t *testing.T) {
	r := newFake()
	c, out := newConsole(r, "f\nq")
	c.Run(context.Background())
	if _, found := r.words[fm.FREQ]; found {
		t.Error("empty line tuned")
	}
	if strings.Contains(out.String(), "Invalid") {
		t.Error("empty line reported")
	}
}

func TestSaveLoad(t *testing.T) {
	r := newFake()
	c, out := newConsole(r, "1s1lq")
	c.Settings = filepath.Join(t.TempDir(), "fm_transmitter.conf")
	c.Run(context.Background())
	if r.words[fm.CTRL] != 0x01 {
		t.Errorf("wrong: %#x", r.words[fm.CTRL])
	}
	b, err := os.ReadFile(c.Settings)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(b), "TX=1\n") {
		t.Error("wrong:", string(b))
	}
	if !strings.Contains(out.String(), "Loaded") {
		t.Error("load not reported")
	}
}

func TestLoadMissing(t *testing.T) {
	r := newFake()
	c, out := newConsole(r, "lq")
	c.Run(context.Background())
	if len(r.ctrl) != 0 {
		t.Errorf("wrong: %#x", r.ctrl)
	}
	if !strings.Contains(out.String(), "no settings") {
		t.Error("not reported")
	}
}

// script plays keys; a zero waits out the timeout with no key.
type script struct {
	keys []byte
}

func (s *script) Key(timeout time.Duration) (byte, bool, error) {
	if len(s.keys) == 0 {
		return 'q', true, nil
	}
	k := s.keys[0]
	s.keys = s.keys[1:]
	if k == 0 {
		time.Sleep(timeout)
	}
	return k, k != 0, nil
}

type record map[string]int

func (r record) Publish(key string, value interface{}) error {
	r[key]++
	return nil
}

func (r record) Close() error { return nil }

func TestAutoRefresh(t *testing.T) {
	r := newFake()
	r.words[fm.LEFT] = 0x4000
	r.words[fm.MPXLVL] = 0x100000
	pub := make(record)
	out := new(bytes.Buffer)
	c := &Console{
		Session:   session.New(r),
		Keys:      &script{[]byte{'a', 0, 0, 0}},
		Out:       out,
		Publisher: pub,
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if pub[publish.MPX] < 2 {
		t.Error("levels not published per frame:", pub)
	}
	if pub[publish.TX] < 2 {
		t.Error("state not published:", pub)
	}
	if strings.Count(out.String(), Home)-strings.Count(out.String(), Clear) < 2 {
		t.Error("frames not drawn")
	}
	if !strings.Contains(out.String(), "[AUTO REFRESH]") {
		t.Error("mode not drawn")
	}
}

// slow takes Work to publish each MPX level and stamps when it did.
type slow struct {
	Work  time.Duration
	times []time.Time
}

func (s *slow) Publish(key string, value interface{}) error {
	if key == publish.MPX {
		s.times = append(s.times, time.Now())
		time.Sleep(s.Work)
	}
	return nil
}

func (s *slow) Close() error { return nil }

func TestAutoRefreshPace(t *testing.T) {
	keys := []byte{'a'}
	keys = append(keys, make([]byte, 12)...)
	pub := &slow{Work: 15 * time.Millisecond}
	c := &Console{
		Session:   session.New(newFake()),
		Keys:      &script{keys},
		Out:       new(bytes.Buffer),
		Publisher: pub,
	}
	if err := c.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	n := len(pub.times)
	if n < 5 {
		t.Fatal("too few frames:", n)
	}
	// the frame period includes the time spent publishing and drawing
	avg := pub.times[n-1].Sub(pub.times[0]) / time.Duration(n-1)
	if avg < session.FramePeriod-5*time.Millisecond ||
		avg > session.FramePeriod+10*time.Millisecond {
		t.Error("wrong frame period:", avg)
	}
}

type idle struct{}

func (idle) Key(timeout time.Duration) (byte, bool, error) {
	time.Sleep(timeout)
	return 0, false, nil
}

func TestContextStops(t *testing.T) {
	c := &Console{
		Session: session.New(newFake()),
		Keys:    idle{},
		Out:     new(bytes.Buffer),
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- c.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Error(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("not stopped")
	}
}

func TestRender(t *testing.T) {
	s := NewScreen()
	st := fm.State{TX: true, Stereo: true, FrequencyHz: 100e6,
		Preemphasis: fm.Preemphasis50us}
	manual := s.Render(st, session.Reading{}, false, "hello")
	for _, want := range []string{
		Title,
		"100.0 MHz",
		"● ON Air!",
		"[MANUAL]",
		"50 µs (Europe)",
		"-100.0 dBFS",
		"hello",
		"Auto(OFF)",
	} {
		if !strings.Contains(manual, want) {
			t.Errorf("%q missing:\n%s", want, manual)
		}
	}
	auto := s.Render(fm.State{}, session.Reading{}, true, "")
	for _, want := range []string{"○ No carrier", "[AUTO REFRESH]", "Auto(ON)"} {
		if !strings.Contains(auto, want) {
			t.Errorf("%q missing:\n%s", want, auto)
		}
	}
	s.Width = 40
	if !strings.Contains(s.Render(st, session.Reading{}, false, ""), Title) {
		t.Error("narrow header lost title")
	}
}
