// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package fm

import "math"

// TuningWord returns the FREQ register value nearest hz. It is not ok for a
// negative frequency or one beyond the reach of the 32-bit register; the
// caller must then leave the carrier alone.
func TuningWord(hz float64) (uint32, bool) {
	if hz < 0 || math.IsNaN(hz) {
		return 0, false
	}
	w := math.Round(hz / Step)
	if w > math.MaxUint32 {
		return 0, false
	}
	return uint32(w), true
}

// Frequency returns the carrier in Hz of a FREQ register value.
func Frequency(word uint32) float64 { return float64(word) * Step }

// ValidFrequency reports whether hz is within (0, MaxFrequency) and has a
// tuning word.
func ValidFrequency(hz float64) bool {
	if !(hz > 0 && hz < MaxFrequency) {
		return false
	}
	_, ok := TuningWord(hz)
	return ok
}
