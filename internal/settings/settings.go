// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package settings loads and saves the transmitter state as KEY=value lines
// at a URL.
package settings

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/platinasystems/fmtx/internal/fm"
	"github.com/platinasystems/log"
	"github.com/platinasystems/url"
)

// DefaultURL is where settings are kept unless another URL is given.
const DefaultURL = "/etc/fm_transmitter.conf"

const (
	TX          = "TX"
	Stereo      = "STEREO"
	RDS         = "RDS"
	Mute        = "MUTE"
	Preemphasis = "PREEMPHASIS"
	Frequency   = "FREQUENCY"
)

var ErrNoSettings = errors.New("no settings")

var flagKeys = map[string]fm.Flag{
	TX:     fm.TX,
	Stereo: fm.Stereo,
	RDS:    fm.RDS,
	Mute:   fm.Mute,
}

// Load reads settings from u over base. Keys missing from the file keep
// their base value.
func Load(u string, base fm.State) (fm.State, error) {
	r, err := url.Open(u)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || missing(u) {
			return base, fmt.Errorf("%s: %w", u, ErrNoSettings)
		}
		return base, err
	}
	defer r.Close()
	st, err := Parse(r, base, func(n int, line string, err error) {
		log.Print("daemon", "warn", u, ":", n, ": ", line, ": ", err)
	})
	if err != nil {
		return base, fmt.Errorf("%s: %w", u, err)
	}
	return st, nil
}

// missing reports whether u names a local file that does not exist.
func missing(u string) bool {
	if strings.Contains(u, "://") {
		return false
	}
	_, err := os.Stat(u)
	return errors.Is(err, fs.ErrNotExist)
}

// Parse applies each KEY=value line of r to base. Blank and # lines are
// ignored; a malformed line is reported to skip and the rest still apply.
func Parse(r io.Reader, base fm.State,
	skip func(n int, line string, err error)) (fm.State, error) {
	st := base
	scan := bufio.NewScanner(r)
	for n := 1; scan.Scan(); n++ {
		line := strings.TrimSpace(scan.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		if err := parseLine(&st, line); err != nil && skip != nil {
			skip(n, line, err)
		}
	}
	return st, scan.Err()
}

func parseLine(st *fm.State, line string) error {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return errors.New("missing =")
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if f, found := flagKeys[key]; found {
		i, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		st.SetFlag(f, i != 0)
		return nil
	}
	switch key {
	case Preemphasis:
		i, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		st.Preemphasis = fm.Bypass
		if p := fm.Preemphasis(i); i >= 0 && i < 256 && p.Valid() {
			st.Preemphasis = p
		}
	case Frequency:
		mhz, err := ParseMHz(value)
		if err != nil {
			return err
		}
		st.FrequencyHz = mhz * 1e6
	default:
		return fmt.Errorf("%q: unknown key", key)
	}
	return nil
}

// ParseMHz parses a decimal number with either '.' or ',' as the separator.
func ParseMHz(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

// Format writes the six settings lines of st.
func Format(w io.Writer, st fm.State) error {
	b := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}
	_, err := fmt.Fprintf(w, "%s=%d\n%s=%d\n%s=%d\n%s=%d\n%s=%d\n%s=%.6f\n",
		TX, b(st.TX),
		Stereo, b(st.Stereo),
		RDS, b(st.RDS),
		Mute, b(st.Mute),
		Preemphasis, int(st.Preemphasis),
		Frequency, st.FrequencyMHz())
	return err
}

// Save replaces the settings at u with st.
func Save(u string, st fm.State) error {
	w, err := url.Create(u)
	if err != nil {
		return err
	}
	if err = Format(w, st); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
