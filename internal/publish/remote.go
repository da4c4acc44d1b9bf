// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package publish

import (
	"errors"
	"fmt"
	"time"

	"github.com/garyburd/redigo/redis"
	"github.com/jpillora/backoff"
	"github.com/platinasystems/log"
)

// Hash is the redis hash that Remote sets its fields in.
const Hash = "fmtx"

const Timeout = 500 * time.Millisecond

// ErrBackoff is returned while Remote waits to redial a failed server.
var ErrBackoff = errors.New("redis: waiting to reconnect")

// Remote sets each key as a field of Hash on a redis server over TCP. After
// a failure it drops the connection and redials no sooner than the backoff
// allows; values published meanwhile are lost.
type Remote struct {
	Addr string
	Dial func() (redis.Conn, error)
	Now  func() time.Time

	conn  redis.Conn
	retry time.Time
	b     backoff.Backoff
}

func NewRemote(addr string) *Remote {
	return &Remote{
		Addr: addr,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr,
				redis.DialConnectTimeout(Timeout),
				redis.DialReadTimeout(Timeout),
				redis.DialWriteTimeout(Timeout))
		},
		Now: time.Now,
		b: backoff.Backoff{
			Min:    1 * time.Second,
			Max:    60 * time.Second,
			Factor: 2,
			Jitter: false,
		},
	}
}

func (r *Remote) fail(err error) error {
	d := r.b.Duration()
	r.retry = r.Now().Add(d)
	log.Print("daemon", "warn", r.Addr, ": ", err, "; retry in ", d)
	return err
}

func (r *Remote) Publish(key string, value interface{}) error {
	if r.conn == nil {
		if r.Now().Before(r.retry) {
			return ErrBackoff
		}
		conn, err := r.Dial()
		if err != nil {
			return r.fail(err)
		}
		r.conn = conn
	}
	_, err := r.conn.Do("HSET", Hash, key, fmt.Sprint(value))
	if err != nil {
		r.conn.Close()
		r.conn = nil
		return r.fail(err)
	}
	r.b.Reset()
	return nil
}

func (r *Remote) Close() error {
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	return err
}
