package view

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/nbrumont/fly/internal/input/key"
	"github.com/nbrumont/fly/internal/input/keymap"
)

const helpLine = "q-p a-; z-/ 1-6 tap   shift holds   ←/→ layer   tab follow   esc quit"

var (
	styleTitle  = tcell.StyleDefault.Bold(true)
	styleLabel  = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleReport = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleDim    = tcell.StyleDefault.Dim(true)
)

func (v *Viewer) draw(host Host) {
	v.screen.Clear()

	km := host.Keymap()
	shown := v.shown(host)
	mode := "active"
	if v.pinned >= 0 {
		mode = "pinned"
	}

	y := 0
	v.text(0, y, styleTitle, fmt.Sprintf("fly  %s  L%d (%s)", km.Name, shown, mode))
	y++
	v.text(0, y, styleDim, fmt.Sprintf("layers %s   pending %d", host.Layers(), host.Pending()))
	y += 2

	var grid bytes.Buffer
	if err := keymap.Render(&grid, km.Layers[shown]); err != nil {
		v.text(0, y, styleDim, err.Error())
		y++
	}
	for _, line := range strings.Split(strings.TrimRight(grid.String(), "\n"), "\n") {
		v.text(0, y, tcell.StyleDefault, line)
		y++
	}
	y++

	frame := host.Report()
	v.text(0, y, styleLabel, "HID")
	v.text(6, y, styleReport, frame.String())
	v.text(32, y, styleDim, fmt.Sprintf("% X", frame.Bytes()))
	y++
	v.text(0, y, styleLabel, "held")
	v.text(6, y, tcell.StyleDefault, v.heldNames())
	y += 2

	v.text(0, y, styleLabel, "recent")
	y++
	recent := v.Recent()
	for i := len(recent) - 1; i >= 0; i-- {
		v.text(2, y, tcell.StyleDefault, recent[i])
		y++
	}
	y++

	v.text(0, y, styleDim, helpLine)
	v.screen.Show()
}

func (v *Viewer) heldNames() string {
	if len(v.held) == 0 {
		return "-"
	}
	positions := make([]key.Position, 0, len(v.held))
	for pos := range v.held {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })

	names := make([]string, len(positions))
	for i, pos := range positions {
		names[i] = keymap.PositionName(pos)
	}
	return strings.Join(names, " ")
}

// text draws s from (x, y), clipped to the screen.
func (v *Viewer) text(x, y int, style tcell.Style, s string) {
	width, height := v.screen.Size()
	if y < 0 || y >= height {
		return
	}
	for _, r := range s {
		if x >= width {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
