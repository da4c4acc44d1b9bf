// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package console is the interactive transmitter menu: it maps keys to
// session verbs and draws the state and level meters.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/platinasystems/fmtx/internal/fm"
	"github.com/platinasystems/fmtx/internal/publish"
	"github.com/platinasystems/fmtx/internal/session"
	"github.com/platinasystems/fmtx/internal/settings"
	"github.com/platinasystems/log"
)

// KeySlice bounds each wait for a key in manual mode so that a stop is
// noticed promptly.
const KeySlice = 100 * time.Millisecond

const ctrlC = 0x03

type Console struct {
	Session *session.Session
	Keys    Keyboard
	Out     io.Writer
	// Prompt reads one line for the frequency dialog.
	Prompt   func(prompt string) (string, error)
	Settings string
	// Publisher, if not nil, receives the state after each change and
	// the levels of each auto refresh frame.
	Publisher publish.Publisher
	Screen    *Screen

	running atomic.Bool
	auto    bool
	message string
	reading session.Reading
}

// Stop ends Run before its next key wait or frame.
func (c *Console) Stop() { c.running.Store(false) }

// Auto reports whether the meters refresh without a key press.
func (c *Console) Auto() bool { return c.auto }

// Run draws the menu and handles keys until quit, Stop, the keyboard's end
// or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	if c.Screen == nil {
		c.Screen = NewScreen()
	}
	c.running.Store(true)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.running.Store(false)
		case <-done:
		}
	}()

	c.refresh()
	c.reading, _ = c.Session.Poll(time.Now(), false)
	c.draw(Clear)
	for c.running.Load() {
		timeout := KeySlice
		if c.auto {
			timeout = time.Until(c.Session.NextFrame())
			if timeout < 0 {
				timeout = 0
			}
		}
		key, ok, err := c.Keys.Key(timeout)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if ok {
			if c.Handle(key) {
				return nil
			}
			c.reading, _ = c.Session.Poll(time.Now(), false)
			c.draw(Clear)
		}
		if c.auto {
			if rd, ok := c.Session.Poll(time.Now(), true); ok {
				c.reading = rd
				c.publishLevels()
				c.draw(Home)
			}
		}
	}
	return nil
}

// Handle performs the action bound to key and reports whether it quits.
// Keys are not case sensitive; unbound keys are ignored.
func (c *Console) Handle(key byte) bool {
	c.message = ""
	switch key {
	case 'q', 'Q', ctrlC:
		return true
	case '1':
		c.Session.Toggle(fm.TX)
	case '2':
		c.Session.Toggle(fm.Stereo)
	case '3':
		c.Session.Toggle(fm.RDS)
	case '4':
		c.Session.Toggle(fm.Mute)
	case '5':
		c.Session.CyclePreemphasis()
	case 'f', 'F':
		c.frequency()
	case 'a', 'A':
		c.auto = !c.auto
	case 's', 'S':
		c.save()
	case 'l', 'L':
		c.load()
	default:
		return false
	}
	c.refresh()
	return false
}

func (c *Console) refresh() {
	st := c.Session.Refresh()
	if c.Publisher != nil {
		// failures are logged by the publisher
		publish.State(c.Publisher, st)
	}
}

func (c *Console) publishLevels() {
	if c.Publisher != nil {
		publish.Levels(c.Publisher, int(c.reading.Left),
			int(c.reading.Right), c.reading.MPX)
	}
}

func (c *Console) frequency() {
	st := c.Session.Refresh()
	io.WriteString(c.Out, Clear+c.Screen.Dialog(st))
	if c.Prompt == nil {
		return
	}
	line, err := c.Prompt("New frequency (MHz): ")
	if err != nil {
		return
	}
	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return
	}
	mhz, err := settings.ParseMHz(line)
	if err != nil || !c.Session.SetFrequency(mhz*1e6) {
		c.message = c.Screen.Off.Render("✗ Invalid frequency: " + line)
		return
	}
	c.message = c.Screen.On.Render(fmt.Sprintf("✓ Set to %.6f MHz", mhz))
}

func (c *Console) save() {
	st := c.Session.Refresh()
	if err := settings.Save(c.Settings, st); err != nil {
		log.Print("daemon", "err", err)
		c.message = c.Screen.Off.Render("✗ " + err.Error())
		return
	}
	c.message = c.Screen.On.Render("✓ Saved to " + c.Settings)
}

func (c *Console) load() {
	st, err := settings.Load(c.Settings, c.Session.Refresh())
	if err != nil {
		log.Print("daemon", "err", err)
		c.message = c.Screen.Off.Render("✗ " + err.Error())
		return
	}
	c.Session.Apply(st)
	c.message = c.Screen.On.Render("✓ Loaded " + c.Settings)
}

func (c *Console) draw(prefix string) {
	io.WriteString(c.Out, prefix+
		c.Screen.Render(c.Session.State(), c.reading, c.auto, c.message))
}
