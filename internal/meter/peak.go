// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package meter

import (
	"math"
	"time"
)

// HoldWindow is how long a peak is held after it was last raised.
const HoldWindow = 500 * time.Millisecond

type Peaks struct {
	MPX         float64 // kHz
	Left, Right int     // sample magnitudes
}

// PeakHolder keeps the highest levels seen within a HoldWindow of the last
// raise. The three channels share one window; raising any of them extends
// the hold of all three.
type PeakHolder struct {
	Peaks
	last time.Time
}

// Update folds one poll into the held peaks. Once the window has elapsed the
// peaks restart from the current sample instead of growing further. The
// audio arguments are sample values; their magnitudes are held.
func (h *PeakHolder) Update(now time.Time, mpx float64, left, right int) {
	left, right = magnitude(left), magnitude(right)
	mpx = math.Abs(mpx)
	if h.last.IsZero() || now.Sub(h.last) >= HoldWindow {
		h.Peaks = Peaks{MPX: mpx, Left: left, Right: right}
		h.last = now
		return
	}
	if mpx > h.MPX {
		h.MPX = mpx
		h.last = now
	}
	if left > h.Left {
		h.Left = left
		h.last = now
	}
	if right > h.Right {
		h.Right = right
		h.last = now
	}
}

// Last returns when a peak was last raised or reset.
func (h *PeakHolder) Last() time.Time { return h.last }

// IsAudioPeak reports whether an audio sample sits on a held peak above the
// green zone.
func IsAudioPeak(sample, peak int) bool {
	return magnitude(sample) == peak && float64(peak) > GreenMax
}

// IsMPXPeak reports whether an MPX level is within 0.1 kHz of its held peak
// and above the green zone.
func IsMPXPeak(khz, peak float64) bool {
	return math.Abs(khz-peak) < 0.1 && khz > MPXGreenMax
}
