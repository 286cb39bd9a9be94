package progress

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/linuxmatters/atmosplit/internal/audio"
)

const (
	// BarWidth is the number of cells in the bar.
	BarWidth = 30
	// labelColumn is the cell where the percentage label starts.
	labelColumn = 12
	padChar     = '•'
)

// Zone classifies a bar cell.
type Zone int

const (
	ZoneDone Zone = iota
	ZoneActive
	ZonePending
)

// Cell is one character of the bar.
type Cell struct {
	Zone  Zone
	Char  rune
	Label bool // part of the percentage label
}

type zoneStyle struct {
	cell  lipgloss.Style
	label lipgloss.Style
	char  rune
}

var zoneStyles = map[Zone]zoneStyle{
	ZoneDone: {
		cell:  lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("4")),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("4")),
		char:  ' ',
	},
	ZoneActive: {
		cell:  lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3")),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3")),
		char:  padChar,
	},
	ZonePending: {
		cell:  lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("0")),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Background(lipgloss.Color("0")),
		char:  padChar,
	},
}

// Label formats percent right-aligned to five characters, padded with '•'.
func Label(percent float64) string {
	num := strconv.FormatFloat(percent, 'f', 1, 64)
	if pad := 5 - len(num); pad > 0 {
		num = strings.Repeat(string(padChar), pad) + num
	}
	return num + "%"
}

// Bar lays out the cells for percent. The cell at the fill edge is the
// active zone; a full bar is entirely done. The percentage label is overlaid
// from labelColumn, except for its padding.
func Bar(percent float64) []Cell {
	percent = max(0, min(100, percent))
	filled := int(BarWidth * percent / 100)
	label := []rune(Label(percent))

	cells := make([]Cell, BarWidth)
	for i := range cells {
		var zone Zone
		switch {
		case filled == BarWidth, i < filled-1:
			zone = ZoneDone
		case i == filled-1:
			zone = ZoneActive
		default:
			zone = ZonePending
		}

		cell := Cell{Zone: zone, Char: zoneStyles[zone].char}
		if j := i - labelColumn; j >= 0 && j < len(label) && label[j] != padChar {
			cell.Char = label[j]
			cell.Label = true
		}
		cells[i] = cell
	}
	return cells
}

// RenderBar draws the cells with a colour per zone.
func RenderBar(cells []Cell) string {
	var b strings.Builder
	for _, c := range cells {
		style := zoneStyles[c.Zone]
		if c.Label {
			b.WriteString(style.label.Render(string(c.Char)))
		} else {
			b.WriteString(style.cell.Render(string(c.Char)))
		}
	}
	return b.String()
}

// Render produces the status line
// "<elapsed> >> <bar> time=<position> total=<total>".
// The most recent update wins; callers may pass updates in any order.
func Render(elapsed time.Duration, u Update) string {
	total := "--:--:--"
	if u.Total > 0 {
		total = audio.FormatClock(u.Total, false)
	}
	return fmt.Sprintf("%s >> %s time=%s total=%s",
		audio.FormatClock(elapsed.Seconds(), false),
		RenderBar(Bar(u.Percent)),
		audio.FormatClock(u.Seconds, false),
		total)
}
