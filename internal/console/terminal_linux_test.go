// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package console

import (
	"testing"
	"time"

	"github.com/kr/pty"
	"golang.org/x/sys/unix"
)

func lflag(t *testing.T, fd uintptr) uint32 {
	tio, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	if err != nil {
		t.Fatal(err)
	}
	return tio.Lflag
}

func TestCbreak(t *testing.T) {
	ptm, tty, err := pty.Open()
	if err != nil {
		t.Skip(err)
	}
	defer ptm.Close()
	defer tty.Close()

	before := lflag(t, tty.Fd())
	if before&unix.ICANON == 0 {
		t.Skip("pty is not canonical")
	}
	term, err := Cbreak(tty)
	if err != nil {
		t.Fatal(err)
	}
	l := lflag(t, tty.Fd())
	if l&(unix.ICANON|unix.ECHO) != 0 {
		t.Errorf("wrong: %#x", l)
	}
	if l&unix.ISIG == 0 {
		t.Error("signals disabled")
	}

	var inside uint32
	term.Cooked(func() error {
		inside = lflag(t, tty.Fd())
		return nil
	})
	if inside != before {
		t.Errorf("cooked: wrong: %#x", inside)
	}
	if l = lflag(t, tty.Fd()); l&unix.ICANON != 0 {
		t.Error("cbreak not reentered")
	}

	if err = term.Restore(); err != nil {
		t.Fatal(err)
	}
	if l = lflag(t, tty.Fd()); l != before {
		t.Errorf("restore: wrong: %#x", l)
	}
}

func TestTerminalKey(t *testing.T) {
	ptm, tty, err := pty.Open()
	if err != nil {
		t.Skip(err)
	}
	defer ptm.Close()
	defer tty.Close()

	term, err := Cbreak(tty)
	if err != nil {
		t.Fatal(err)
	}
	defer term.Restore()

	if _, ok, err := term.Key(10 * time.Millisecond); ok || err != nil {
		t.Error("key without input:", ok, err)
	}
	// no newline; cbreak delivers each key
	if _, err = ptm.Write([]byte("5")); err != nil {
		t.Fatal(err)
	}
	key, ok, err := term.Key(time.Second)
	if err != nil || !ok || key != '5' {
		t.Errorf("wrong: %q %v %v", key, ok, err)
	}
	if w := term.Width(); w <= 0 {
		t.Error("wrong width:", w)
	}
}
