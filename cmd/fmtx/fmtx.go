// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package fmtx is the command that controls the FPGA FM transmitter.
package fmtx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/mattn/go-isatty"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/fmtx/internal/console"
	"github.com/platinasystems/fmtx/internal/devtree"
	"github.com/platinasystems/fmtx/internal/fm"
	"github.com/platinasystems/fmtx/internal/iomem"
	"github.com/platinasystems/fmtx/internal/lang"
	"github.com/platinasystems/fmtx/internal/publish"
	"github.com/platinasystems/fmtx/internal/regs"
	"github.com/platinasystems/fmtx/internal/session"
	"github.com/platinasystems/fmtx/internal/settings"
	"github.com/platinasystems/log"
	"github.com/platinasystems/parms"
)

type Command struct {
	// Stdout and Stderr default to those of the process.
	Stdout, Stderr io.Writer
}

func (Command) String() string { return "fmtx" }

func (Command) Usage() string {
	return `
	fmtx [-a | --auto] [-d | --dump] [-h | --help] [-publish]
		[-base ADDRESS | -dtb FILE [-compatible STRING]]
		[-mem FILE] [-config URL] [-redis HOST:PORT]`
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "control the FM transmitter",
		lang.RuRU: "управление FM-передатчиком",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Without options, fmtx shows the transmitter state and audio levels
	and changes them by key:

	1-4	toggle TX, stereo, RDS and mute
	5	cycle pre-emphasis: bypass, 50 µs, 75 µs
	F	set the carrier frequency in MHz
	A	toggle auto refresh of the levels at 25 Hz
	S	save the settings
	L	load and apply the settings
	Q	quit

	Audio levels are green to -12 dBFS, yellow to -9 dBFS, then red.
	MPX deviation is green to 60 kHz, yellow to 75 kHz, then red.

OPTIONS
	-a, --auto
		Apply the saved settings and exit.
	-d, --dump
		Print every transmitter register and exit.
	-h, --help
		Print this help and exit.
	-base ADDRESS
		Physical address of the register block [0x43c30000].
	-dtb FILE
		Find the register block in this flattened device tree.
	-compatible STRING
		Compatible string of the device tree node
		[xlnx,fm-transmitter-1.0].
	-mem FILE
		Memory device to map [/dev/mem].
	-config URL
		Settings file [/etc/fm_transmitter.conf].
	-publish
		Publish state and levels to the local goes redis server.
	-redis HOST:PORT
		Also set them in the "fmtx" hash of this redis server.`,
		lang.RuRU: `
ОПИСАНИЕ
	Без параметров fmtx показывает состояние передатчика и уровни
	звука и изменяет их клавишами:

	1-4	TX, стерео, RDS и отключение звука
	5	предыскажения: байпас, 50 мкс, 75 мкс
	F	частота несущей в МГц
	A	автообновление уровней 25 Гц
	S	сохранить настройки
	L	загрузить и применить настройки
	Q	выход

ПАРАМЕТРЫ
	-a, --auto
		Применить сохранённые настройки и выйти.
	-d, --dump
		Вывести все регистры передатчика и выйти.
	-h, --help
		Вывести эту справку и выйти.`,
	}
}

func (c Command) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

func (c Command) stderr() io.Writer {
	if c.Stderr != nil {
		return c.Stderr
	}
	return os.Stderr
}

func (c Command) Main(args ...string) error {
	flag, args := flags.New(args,
		[]string{"-a", "--auto"},
		[]string{"-d", "--dump"},
		[]string{"-h", "--help"},
		"-publish")
	parm, args := parms.New(args,
		"-base", "-dtb", "-compatible", "-mem", "-config", "-redis")

	if flag.ByName["-h"] {
		fmt.Fprintln(c.stdout(), "usage:", c.Usage())
		fmt.Fprintln(c.stdout(), c.Man())
		return nil
	}
	if len(args) > 0 {
		fmt.Fprintln(c.stderr(), "usage:", c.Usage())
		return fmt.Errorf("%v: unexpected", args)
	}
	for name, value := range map[string]string{
		"-compatible": devtree.Compatible,
		"-mem":        regs.DevMem,
		"-config":     settings.DefaultURL,
	} {
		if len(parm.ByName[name]) == 0 {
			parm.ByName[name] = value
		}
	}

	base, err := Base(parm.ByName["-base"], parm.ByName["-dtb"],
		parm.ByName["-compatible"])
	if err != nil {
		return err
	}
	if m, err := iomem.ReadFile(iomem.File); err == nil {
		if r, ok := m.Owner(uint64(base)); ok {
			log.Print("daemon", "info", fmt.Sprintf("%#x", base), ": ", r)
		}
	}
	m, err := regs.Open(parm.ByName["-mem"], base)
	if err != nil {
		log.Print("daemon", "err", err)
		if errors.Is(err, regs.ErrAccessDenied) ||
			errors.Is(err, regs.ErrMapFailed) {
			return fmt.Errorf("%w; run as root", err)
		}
		return err
	}
	defer m.Close()

	s := session.New(m)
	pub := Publisher(flag.ByName["-publish"], parm.ByName["-redis"])
	if pub != nil {
		defer pub.Close()
	}

	switch {
	case flag.ByName["-d"]:
		return c.dump(s, base)
	case flag.ByName["-a"]:
		return c.auto(s, parm.ByName["-config"], pub)
	}
	return c.interactive(s, parm.ByName["-config"], pub)
}

// Base returns the register block address: given as a number, found in a
// device tree, or else fm.DefaultBase.
func Base(addr, dtb, compatible string) (uint32, error) {
	if len(addr) > 0 {
		u, err := strconv.ParseUint(addr, 0, 32)
		if err != nil {
			return 0, fmt.Errorf("%s: %v", addr, err)
		}
		return uint32(u), nil
	}
	if len(dtb) > 0 {
		return devtree.Lookup(dtb, compatible)
	}
	return fm.DefaultBase, nil
}

// Publisher returns nil unless publishing to the local goes redis or to a
// remote server is requested. Only changed values are sent.
func Publisher(local bool, remote string) publish.Publisher {
	var m publish.Multi
	if local {
		l, err := publish.NewLocal()
		if err != nil {
			log.Print("daemon", "warn", "redis: ", err)
		} else {
			m = append(m, l)
		}
	}
	if len(remote) > 0 {
		m = append(m, publish.NewRemote(remote))
	}
	if len(m) == 0 {
		return nil
	}
	return publish.NewChanges(m)
}

func (c Command) dump(s *session.Session, base uint32) error {
	fmt.Fprintf(c.stdout(), "base %#08x\n", base)
	for _, w := range s.Dump() {
		fmt.Fprintln(c.stdout(), w)
	}
	return nil
}

func (c Command) auto(s *session.Session, config string,
	pub publish.Publisher) error {
	st, err := settings.Load(config, s.Refresh())
	if errors.Is(err, settings.ErrNoSettings) {
		fmt.Fprintln(c.stdout(), "No saved settings")
		return nil
	}
	if err != nil {
		return err
	}
	s.Apply(st)
	st = s.Refresh()
	if pub != nil {
		publish.State(pub, st)
	}
	log.Print("daemon", "info", "applied ", config)
	fmt.Fprintln(c.stdout(), "Settings applied")
	return nil
}

func (c Command) interactive(s *session.Session, config string,
	pub publish.Publisher) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return errors.New("stdin: not a terminal; use --auto or --dump")
	}
	tty, err := console.Cbreak(os.Stdin)
	if err != nil {
		return err
	}
	defer tty.Restore()

	ctx, stop := signal.NotifyContext(context.Background(),
		TerminationSignals...)
	defer stop()

	screen := console.NewScreen()
	screen.Width = tty.Width()
	con := &console.Console{
		Session:   s,
		Keys:      tty,
		Out:       c.stdout(),
		Prompt:    tty.Prompt,
		Settings:  config,
		Publisher: pub,
		Screen:    screen,
	}
	err = con.Run(ctx)
	fmt.Fprintln(c.stdout())
	return err
}
