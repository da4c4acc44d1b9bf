// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package publish exports the transmitter state and levels as redis keys.
package publish

import (
	"fmt"

	"github.com/platinasystems/fmtx/internal/fm"
	"github.com/platinasystems/fmtx/internal/meter"
	"github.com/platinasystems/redis"
	"github.com/platinasystems/redis/publisher"
)

const (
	TX          = "fmtx.tx"
	Stereo      = "fmtx.stereo"
	RDS         = "fmtx.rds"
	Mute        = "fmtx.mute"
	Preemphasis = "fmtx.preemphasis"
	Frequency   = "fmtx.frequency.units.MHz"
	Left        = "fmtx.left.units.dBFS"
	Right       = "fmtx.right.units.dBFS"
	MPX         = "fmtx.mpx.units.kHz"
)

type Publisher interface {
	Publish(key string, value interface{}) error
	Close() error
}

// Local publishes to the goes redis server of this machine.
type Local struct {
	pub *publisher.Publisher
}

func NewLocal() (*Local, error) {
	if err := redis.IsReady(); err != nil {
		return nil, err
	}
	pub, err := publisher.New()
	if err != nil {
		return nil, err
	}
	return &Local{pub}, nil
}

func (l *Local) Publish(key string, value interface{}) error {
	l.pub.Print(key, ": ", value)
	return nil
}

func (l *Local) Close() error {
	l.pub.Close()
	return nil
}

// Changes forwards only values that differ from the last one published
// for the same key.
type Changes struct {
	Publisher
	last map[string]string
}

func NewChanges(p Publisher) *Changes {
	return &Changes{Publisher: p, last: make(map[string]string)}
}

func (c *Changes) Publish(key string, value interface{}) error {
	s := fmt.Sprint(value)
	if v, found := c.last[key]; found && v == s {
		return nil
	}
	if err := c.Publisher.Publish(key, s); err != nil {
		return err
	}
	c.last[key] = s
	return nil
}

// Multi publishes to each of its members. It returns the first error only
// when no member took the value; members report their own failures.
type Multi []Publisher

func (m Multi) Publish(key string, value interface{}) error {
	var first error
	published := false
	for _, p := range m {
		if err := p.Publish(key, value); err == nil {
			published = true
		} else if first == nil {
			first = err
		}
	}
	if published {
		return nil
	}
	return first
}

func (m Multi) Close() error {
	var first error
	for _, p := range m {
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func each(p Publisher, kvs ...interface{}) error {
	var first error
	for i := 0; i+1 < len(kvs); i += 2 {
		err := p.Publish(kvs[i].(string), kvs[i+1])
		if err != nil && first == nil {
			first = err
		}
	}
	return first
}

// State publishes the control flags and carrier frequency.
func State(p Publisher, st fm.State) error {
	return each(p,
		TX, st.TX,
		Stereo, st.Stereo,
		RDS, st.RDS,
		Mute, st.Mute,
		Preemphasis, st.Preemphasis,
		Frequency, fmt.Sprintf("%.6f", st.FrequencyMHz()))
}

// Levels publishes the audio levels in dBFS and the deviation in kHz, to a
// tenth so that steady levels are not republished.
func Levels(p Publisher, left, right int, mpx float64) error {
	return each(p,
		Left, fmt.Sprintf("%.1f", meter.DBFS(left)),
		Right, fmt.Sprintf("%.1f", meter.DBFS(right)),
		MPX, fmt.Sprintf("%.1f", mpx))
}
