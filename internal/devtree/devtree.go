// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package devtree finds a peripheral's register base in a flattened device
// tree blob.
package devtree

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/platinasystems/fdt"
)

// Compatible is the string the transmitter's node is matched by unless
// another is given.
const Compatible = "xlnx,fm-transmitter-1.0"

var ErrNotFound = errors.New("no compatible node")

// Lookup reads the blob in fn and returns the base of the first node
// compatible with the given string.
func Lookup(fn, compatible string) (uint32, error) {
	b, err := os.ReadFile(fn)
	if err != nil {
		return 0, err
	}
	base, err := Find(b, compatible)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", fn, err)
	}
	return base, nil
}

// Find returns the first reg address of the node compatible with the given
// string. Nodes are searched depth first in name order.
func Find(blob []byte, compatible string) (uint32, error) {
	t := &fdt.Tree{Debug: false, IsLittleEndian: false}
	t.Parse(blob)
	if t.RootNode == nil {
		return 0, errors.New("malformed device tree")
	}
	n, cells := find(t.RootNode, compatible, 1)
	if n == nil {
		return 0, fmt.Errorf("%s: %w", compatible, ErrNotFound)
	}
	return reg(n, cells)
}

// find returns the matching node and the #address-cells of its parent.
func find(n *fdt.Node, compatible string, cells uint32) (*fdt.Node, uint32) {
	if IsCompatible(n, compatible) {
		return n, cells
	}
	if v, found := n.Properties["#address-cells"]; found && len(v) == 4 {
		cells = binary.BigEndian.Uint32(v)
	}
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if m, c := find(n.Children[name], compatible, cells); m != nil {
			return m, c
		}
	}
	return nil, 0
}

// IsCompatible reports whether one of the node's compatible strings is s.
func IsCompatible(n *fdt.Node, s string) bool {
	v, found := n.Properties["compatible"]
	if !found {
		return false
	}
	for _, c := range strings.Split(string(v), "\x00") {
		if c == s {
			return true
		}
	}
	return false
}

func reg(n *fdt.Node, cells uint32) (uint32, error) {
	v := n.Properties["reg"]
	switch {
	case cells == 1 && len(v) >= 4:
		return binary.BigEndian.Uint32(v), nil
	case cells == 2 && len(v) >= 8:
		addr := binary.BigEndian.Uint64(v)
		if addr>>32 != 0 {
			return 0, fmt.Errorf("%s: %#x: beyond 32-bit address space",
				n.Name, addr)
		}
		return uint32(addr), nil
	}
	return 0, fmt.Errorf("%s: reg: unsupported with %d address cells",
		n.Name, cells)
}
