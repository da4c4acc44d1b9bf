// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package meter converts transmitter level samples to display units, color
// zones and bar lengths.
package meter

import (
	"math"

	"github.com/platinasystems/fmtx/internal/fm"
)

// FloorDB is the level reported for silence; it is below every zone.
const FloorDB = -100.0

// Audio zone thresholds in dBFS.
const (
	GreenDB  = -12.0
	YellowDB = -9.0
)

// MPX zone thresholds and full scale in kHz deviation.
const (
	MPXGreenMax  = 60.0
	MPXYellowMax = 75.0
	MPXFullScale = 100.0
)

// Linear amplitude of the audio zone thresholds.
var (
	GreenMax  = Linear(GreenDB)
	YellowMax = Linear(YellowDB)
)

type Zone uint8

const (
	Green Zone = iota
	Yellow
	Red
	nZone
)

func (z Zone) String() string {
	switch z {
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Red:
		return "red"
	}
	return "unknown"
}

// Linear returns the sample magnitude of a dBFS level.
func Linear(db float64) float64 { return math.Pow(10, db/20) * fm.FullScale }

func magnitude(sample int) int {
	if sample < 0 {
		sample = -sample
	}
	if sample > fm.FullScale {
		sample = fm.FullScale
	}
	return sample
}

// DBFS returns the level of sample relative to full scale.
func DBFS(sample int) float64 {
	if sample == 0 {
		return FloorDB
	}
	return 20 * math.Log10(float64(magnitude(sample))/fm.FullScale)
}

func ClassifyAudio(sample int) Zone {
	m := float64(magnitude(sample))
	switch {
	case m <= GreenMax:
		return Green
	case m <= YellowMax:
		return Yellow
	}
	return Red
}

func ClassifyMPX(khz float64) Zone {
	switch {
	case khz <= MPXGreenMax:
		return Green
	case khz <= MPXYellowMax:
		return Yellow
	}
	return Red
}

func clamp(n, width int) int {
	if n > width {
		return width
	}
	if n < 0 {
		return 0
	}
	return n
}

// AudioBar returns the number of filled cells of a width cell audio bar.
// The first width-1 cells scale linearly up to YellowMax; the last cell
// alone spans the red zone up to full scale, whatever the width.
func AudioBar(sample, width int) int {
	if width <= 0 {
		return 0
	}
	m := float64(magnitude(sample))
	linear := float64(width - 1)
	var cells float64
	if m <= YellowMax {
		cells = m * linear / YellowMax
	} else {
		cells = linear + (m-YellowMax)/(fm.FullScale-YellowMax)
		cells = math.Min(cells, float64(width))
	}
	return clamp(int(cells+0.5), width)
}

// AudioGreenCells is the index of the first yellow cell of an audio bar.
func AudioGreenCells(width int) int {
	if width <= 1 {
		return 0
	}
	return int(GreenMax * float64(width-1) / YellowMax)
}

// AudioZoneOf returns the zone color of cell i of an audio bar.
func AudioZoneOf(i, width int) Zone {
	switch {
	case i < AudioGreenCells(width):
		return Green
	case i < width-1:
		return Yellow
	}
	return Red
}

// MPXBar returns the number of filled cells of a width cell MPX bar scaled
// uniformly over [0, MPXFullScale].
func MPXBar(khz float64, width int) int {
	if width <= 0 || math.IsNaN(khz) {
		return 0
	}
	cells := khz / MPXFullScale * float64(width)
	if cells >= float64(width) {
		return width
	}
	return clamp(int(cells), width)
}

// MPXZoneCells returns the indexes of the first yellow and first red cells
// of an MPX bar.
func MPXZoneCells(width int) (green, yellow int) {
	green = int(MPXGreenMax / MPXFullScale * float64(width))
	yellow = int(MPXYellowMax / MPXFullScale * float64(width))
	return
}

// MPXZoneOf returns the zone color of cell i of an MPX bar.
func MPXZoneOf(i, width int) Zone {
	green, yellow := MPXZoneCells(width)
	switch {
	case i < green:
		return Green
	case i < yellow:
		return Yellow
	}
	return Red
}
