// Copyright © 2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/platinasystems/fmtx/internal/fm"
	"github.com/platinasystems/fmtx/internal/meter"
	"github.com/platinasystems/fmtx/internal/session"
)

const (
	Home  = "\033[H"
	Clear = "\033[2J\033[H"
)

const Title = "FM TRANSMITTER"

// Screen holds the styles of the menu drawn around the meters.
type Screen struct {
	meter.Styles
	// Width is the terminal's column count; zero sizes the header to its
	// title.
	Width int
	Header, Section, Frequency, Key, Label, On, Off, Muted lipgloss.Style
}

// ANSI Color reference
// 1	Red
// 2	Green
// 3	Yellow
// 4	Blue
// 5	Magenta
// 6	Cyan
func NewScreen() *Screen {
	return &Screen{
		Styles: meter.NewStyles(),
		Header: lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.ANSIColor(4)).
			Padding(0, 3),
		Section: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.ANSIColor(4)),
		Frequency: lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.ANSIColor(6)),
		Key:   lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(3)),
		Label: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6)),
		On:    lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(2)),
		Off:   lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(1)),
		Muted: lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(5)),
	}
}

type line struct {
	key   string
	label string
	on    bool
	yes   string
	no    string
}

func (s *Screen) status(l line) string {
	style, text := s.Off, l.no
	if l.on {
		style, text = s.On, l.yes
	}
	return fmt.Sprintf("%s %s %s", s.Key.Render("["+l.key+"]"),
		s.Label.Render(fmt.Sprintf("%-7s", l.label+":")),
		style.Render(text))
}

// Render draws the whole menu for one frame. The message, if any, is shown
// above the key help.
func (s *Screen) Render(st fm.State, rd session.Reading, auto bool,
	message string) string {
	sb := new(strings.Builder)
	fmt.Fprintln(sb, s.header().Render(Title))
	fmt.Fprintln(sb)
	fmt.Fprintf(sb, "  ═══ %s ═══\n\n",
		s.Frequency.Render(fmt.Sprintf("%.1f MHz", st.FrequencyMHz())))

	for _, l := range []line{
		{"1", "TX", st.TX, "● ON Air!", "○ No carrier"},
		{"2", "STEREO", st.Stereo, "● ON", "○ OFF"},
		{"3", "RDS", st.RDS, "● ON", "○ OFF"},
	} {
		fmt.Fprintln(sb, s.status(l))
	}
	mute := s.status(line{"4", "MUTE", false, "", "○ OFF"})
	if st.Mute {
		mute = fmt.Sprintf("%s %s %s", s.Key.Render("[4]"),
			s.Label.Render(fmt.Sprintf("%-7s", "MUTE:")),
			s.Muted.Render("● MUTED"))
	}
	fmt.Fprintln(sb, mute)
	pre := s.Zone[meter.Yellow]
	if st.Preemphasis != fm.Bypass {
		pre = s.On
	}
	fmt.Fprintf(sb, "%s %s %s\n\n", s.Key.Render("[5]"),
		s.Label.Render(fmt.Sprintf("%-7s", "PRE:")),
		pre.Render(st.Preemphasis.String()))

	mode := s.Zone[meter.Yellow].Render("[MANUAL]")
	if auto {
		mode = s.On.Render("[AUTO REFRESH]")
	}
	fmt.Fprintln(sb, s.Section.Render("AUDIO LEVELS"), mode)
	fmt.Fprintln(sb, s.Audio("L", int(rd.Left), rd.Peaks.Left))
	fmt.Fprintln(sb, s.Audio("R", int(rd.Right), rd.Peaks.Right))
	fmt.Fprintln(sb, s.AudioLegend())
	fmt.Fprintln(sb)
	fmt.Fprintln(sb, s.MPX(rd.MPX, rd.Peaks.MPX))
	fmt.Fprintln(sb, s.MPXLegend())
	fmt.Fprintln(sb)

	if len(message) > 0 {
		fmt.Fprintln(sb, message)
	}
	autoState := s.Off.Render("OFF")
	if auto {
		autoState = s.On.Render("ON")
	}
	fmt.Fprintf(sb, "%s Toggles  %s Freq  %s Auto(%s)  %s Load  %s Save  %s Quit\n",
		s.Key.Render("[1-5]"), s.Key.Render("[F]"), s.Key.Render("[A]"),
		autoState, s.Key.Render("[L]"), s.Key.Render("[S]"),
		s.Key.Render("[Q]"))
	if !auto {
		fmt.Fprintf(sb, "\n%s ", s.On.Render(">"))
	}
	return sb.String()
}

// header spans the terminal, up to 66 columns.
func (s *Screen) header() lipgloss.Style {
	if s.Width <= 2 {
		return s.Header
	}
	w := min(s.Width, 66)
	// the border is outside the style's width
	return s.Header.Width(w - 2).Align(lipgloss.Center)
}

// Dialog draws the frequency prompt's heading.
func (s *Screen) Dialog(st fm.State) string {
	return fmt.Sprintf("%s\n\nCurrent: %s\n\n",
		s.header().Render("SET FREQUENCY"),
		s.Frequency.Render(fmt.Sprintf("%.6f MHz", st.FrequencyMHz())))
}
