// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package regs maps a page of physical memory and provides 32-bit access to
// the peripheral registers within it.
package regs

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"
)

const (
	DevMem   = "/dev/mem"
	PageSize = 4096

	// Window is the size of the register block at base; it must lie
	// within the mapped page.
	Window = 0x20

	// Settle is the register latch time the peripheral needs after every
	// write; it is part of the hardware contract.
	Settle = time.Millisecond
)

var (
	ErrAccessDenied = errors.New("access denied")
	ErrMapFailed    = errors.New("map failed")
)

// Map is one page of device memory. The zero value and a nil *Map are
// unmapped; reads return 0 and writes are dropped.
type Map struct {
	base uint32
	off  uint32 // base offset within the page
	f    *os.File
	mem  []byte
}

// Open maps the page containing base from the given memory device, usually
// DevMem. The caller must have the privilege to open it. A base whose
// register Window crosses into the next page is refused with ErrMapFailed.
func Open(dev string, base uint32) (*Map, error) {
	page := base &^ (PageSize - 1)
	if base-page+Window > PageSize {
		return nil, fmt.Errorf("%s@%#x: %w: registers cross the page",
			dev, base, ErrMapFailed)
	}
	f, err := os.OpenFile(dev, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", dev, ErrAccessDenied, err)
	}
	mem, err := syscall.Mmap(int(f.Fd()), int64(page), PageSize,
		syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s@%#x: %w: %v", dev, page, ErrMapFailed, err)
	}
	return &Map{
		base: base,
		off:  base - page,
		f:    f,
		mem:  mem,
	}, nil
}

func (m *Map) Base() uint32 {
	if m == nil {
		return 0
	}
	return m.base
}

func (m *Map) word(offset uint32) *uint32 {
	if m == nil || m.mem == nil || offset&3 != 0 {
		return nil
	}
	i := uint64(m.off) + uint64(offset)
	if i+4 > uint64(len(m.mem)) {
		return nil
	}
	return (*uint32)(unsafe.Pointer(&m.mem[i]))
}

// Read returns the register word at the byte offset from base.
func (m *Map) Read(offset uint32) uint32 {
	p := m.word(offset)
	if p == nil {
		return 0
	}
	return atomic.LoadUint32(p)
}

// Write stores the register word then waits Settle.
func (m *Map) Write(offset, value uint32) {
	p := m.word(offset)
	if p == nil {
		return
	}
	atomic.StoreUint32(p, value)
	time.Sleep(Settle)
}

// Close unmaps the page and releases the device. It may be called more than
// once.
func (m *Map) Close() (err error) {
	if m == nil {
		return nil
	}
	if m.mem != nil {
		err = syscall.Munmap(m.mem)
		m.mem = nil
	}
	if m.f != nil {
		if cerr := m.f.Close(); err == nil {
			err = cerr
		}
		m.f = nil
	}
	return
}
