// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package meter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	Filled     = "█"
	Background = "░"
	PeakMark   = "▲"

	// Width of the bars drawn by the console.
	Width = 16
)

// Styles colors bar cells and readouts by zone.
type Styles struct {
	Zone [nZone]lipgloss.Style
}

// ANSI Color reference
// 1	Red
// 2	Green
// 3	Yellow
func NewStyles() Styles {
	return Styles{
		Zone: [nZone]lipgloss.Style{
			Green:  lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(2)),
			Yellow: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)),
			Red:    lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(1)),
		},
	}
}

func (s Styles) bar(filled, width int, zoneOf func(i, width int) Zone) string {
	sb := new(strings.Builder)
	run := new(strings.Builder)
	var runZone Zone
	flush := func() {
		if run.Len() > 0 {
			sb.WriteString(s.Zone[runZone].Render(run.String()))
			run.Reset()
		}
	}
	for i := 0; i < width; i++ {
		z := zoneOf(i, width)
		if z != runZone {
			flush()
		}
		runZone = z
		if i < filled {
			run.WriteString(Filled)
		} else {
			run.WriteString(Background)
		}
	}
	flush()
	return sb.String()
}

// AudioBar renders the bar of an audio sample.
func (s Styles) AudioBar(sample, width int) string {
	return s.bar(AudioBar(sample, width), width, AudioZoneOf)
}

// MPXBar renders the bar of an MPX level in kHz.
func (s Styles) MPXBar(khz float64, width int) string {
	return s.bar(MPXBar(khz, width), width, MPXZoneOf)
}

// Audio renders one channel line: bar, level in dBFS and the peak mark.
func (s Styles) Audio(label string, sample, peak int) string {
	z := s.Zone[ClassifyAudio(sample)]
	line := fmt.Sprintf("%5s: %s %s", label, s.AudioBar(sample, Width),
		z.Render(fmt.Sprintf("%6.1f dBFS", DBFS(sample))))
	if IsAudioPeak(sample, peak) {
		line += " " + s.Zone[ClassifyAudio(peak)].Render(PeakMark)
	}
	return line
}

// MPX renders the MPX line: bar, deviation in kHz and the peak mark.
func (s Styles) MPX(khz, peak float64) string {
	z := s.Zone[ClassifyMPX(khz)]
	line := fmt.Sprintf("%5s: %s %s", "MPX", s.MPXBar(khz, Width),
		z.Render(fmt.Sprintf("%6.1f kHz", khz)))
	if IsMPXPeak(khz, peak) {
		line += " " + z.Render(PeakMark)
	}
	return line
}

// AudioLegend labels the zone boundaries under an audio bar.
func (s Styles) AudioLegend() string {
	return strings.Repeat(" ", 7) +
		s.Zone[Green].Render("-12dB") +
		s.Zone[Yellow].Render(strings.Repeat(" ", 5)+"-9dB") +
		s.Zone[Red].Render(" O")
}

// MPXLegend labels the zone boundaries under the MPX bar.
func (s Styles) MPXLegend() string {
	return s.Zone[Green].Render("       60") +
		s.Zone[Yellow].Render("        75") +
		s.Zone[Red].Render(" 100")
}
