// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package iomem parses /proc/iomem and anything else of similar structure.
package iomem

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const File = "/proc/iomem"

// Resource is one line of the map. Depth is the nesting level given by the
// line's indentation; a resource lies within the last shallower one before
// it.
type Resource struct {
	Name       string
	Start, End uint64
	Depth      int
}

func (r Resource) String() string {
	return fmt.Sprintf("%08x-%08x : %s", r.Start, r.End, r.Name)
}

// Contains reports whether addr lies in the resource; the end is inclusive.
func (r Resource) Contains(addr uint64) bool {
	return r.Start <= addr && addr <= r.End
}

type Map []Resource

// Parse reads resources in file order, skipping lines that are not
// "START-END : NAME".
func Parse(r io.Reader) (Map, error) {
	var m Map
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		indent := len(line) - len(strings.TrimLeft(line, " "))
		fields := strings.SplitN(line, ":", 2)
		if len(fields) != 2 {
			continue
		}
		var res Resource
		n, err := fmt.Sscanf(strings.TrimSpace(fields[0]), "%x-%x",
			&res.Start, &res.End)
		if n != 2 || err != nil {
			continue
		}
		res.Name = strings.TrimSpace(fields[1])
		res.Depth = indent / 2
		m = append(m, res)
	}
	return m, scanner.Err()
}

func ReadFile(fn string) (Map, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Owners returns the chain of resources containing addr, outermost first.
// Without privilege the kernel reports every range as zero, so nothing
// contains an address other than 0.
func (m Map) Owners(addr uint64) []Resource {
	var chain []Resource
	for _, r := range m {
		if r.Depth > len(chain) || !r.Contains(addr) {
			continue
		}
		chain = append(chain[:r.Depth], r)
	}
	return chain
}

// Owner returns the innermost resource containing addr.
func (m Map) Owner(addr uint64) (Resource, bool) {
	chain := m.Owners(addr)
	if len(chain) == 0 {
		return Resource{}, false
	}
	return chain[len(chain)-1], true
}
