// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package console

import (
	"fmt"
	"os"
	"time"

	"github.com/platinasystems/liner"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal is a tty in cbreak mode: keys arrive one at a time without echo
// while signals and output processing stay on.
type Terminal struct {
	f     *os.File
	saved unix.Termios
}

// Cbreak saves the tty settings of f and clears ICANON and ECHO.
func Cbreak(f *os.File) (*Terminal, error) {
	fd := int(f.Fd())
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, fmt.Errorf("TCGETS: %v", err)
	}
	tty := &Terminal{f: f, saved: *t}
	if err = tty.cbreak(); err != nil {
		return nil, err
	}
	return tty, nil
}

func (t *Terminal) cbreak() error {
	c := t.saved
	c.Lflag &^= unix.ICANON | unix.ECHO
	c.Cc[unix.VMIN] = 1
	c.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(int(t.f.Fd()), unix.TCSETS, &c); err != nil {
		return fmt.Errorf("TCSETS: %v", err)
	}
	return nil
}

// Restore returns the tty to the settings saved by Cbreak.
func (t *Terminal) Restore() error {
	err := unix.IoctlSetTermios(int(t.f.Fd()), unix.TCSETS, &t.saved)
	if err != nil {
		return fmt.Errorf("TCSETS: %v", err)
	}
	return nil
}

// Cooked runs fn with the saved settings, as for a line prompt, then
// returns to cbreak mode.
func (t *Terminal) Cooked(fn func() error) error {
	if err := t.Restore(); err != nil {
		return err
	}
	err := fn()
	if cerr := t.cbreak(); err == nil {
		err = cerr
	}
	return err
}

// Key waits up to timeout for a key; zero polls without waiting.
func (t *Terminal) Key(timeout time.Duration) (byte, bool, error) {
	fds := []unix.PollFd{{Fd: int32(t.f.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err == unix.EINTR {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("poll: %v", err)
	}
	if n == 0 {
		return 0, false, nil
	}
	var b [1]byte
	if _, err = t.f.Read(b[:]); err != nil {
		return 0, false, err
	}
	return b[0], true, nil
}

// Width is the tty's column count, or 80 if unknown.
func (t *Terminal) Width() int {
	w, _, err := term.GetSize(int(t.f.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// Prompt reads a line with the line editor in cooked mode. Ctrl-C aborts
// the prompt.
func (t *Terminal) Prompt(prompt string) (line string, err error) {
	err = t.Cooked(func() error {
		state := liner.NewLiner()
		defer state.Close()
		state.SetCtrlCAborts(true)
		line, err = state.Prompt(prompt)
		return err
	})
	return
}
