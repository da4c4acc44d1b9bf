// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package console

import (
	"io"
	"time"
)

// Keyboard delivers single key presses.
type Keyboard interface {
	// Key waits up to timeout for a key and reports whether one arrived.
	Key(timeout time.Duration) (byte, bool, error)
}

// Keys replays the bytes of a reader as key presses, one per call, without
// waiting. It returns io.EOF once the reader is drained.
type Keys struct {
	r io.Reader
}

func NewKeys(r io.Reader) *Keys { return &Keys{r} }

func (k *Keys) Key(time.Duration) (byte, bool, error) {
	var b [1]byte
	n, err := k.r.Read(b[:])
	if n == 1 {
		return b[0], true, nil
	}
	if err == nil {
		return 0, false, nil
	}
	return 0, false, err
}

// Lines prompts by reading one line from a reader, for use without a tty.
func Lines(r io.Reader, w io.Writer) func(string) (string, error) {
	return func(prompt string) (string, error) {
		io.WriteString(w, prompt)
		var line []byte
		var b [1]byte
		for {
			n, err := r.Read(b[:])
			if n == 1 {
				if b[0] == '\n' {
					return string(line), nil
				}
				line = append(line, b[0])
				continue
			}
			if err != nil {
				if err == io.EOF && len(line) > 0 {
					return string(line), nil
				}
				return "", err
			}
		}
	}
}
