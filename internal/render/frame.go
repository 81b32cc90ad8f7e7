package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/robinovitch61/vl/internal/color"
	"github.com/robinovitch61/vl/internal/listview"
	"github.com/robinovitch61/vl/internal/pool"
	"github.com/robinovitch61/vl/internal/style"
)

const continuation = "┆"

// Frame draws s into width by height cells. Instances are drawn where r has them, which is not their layout
// offset while they are animated. Pending indices are left blank
func Frame(s listview.Snapshot, r *Renderer, st style.Styles, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if s.Orientation == listview.Horizontal {
		return horizontal(s, r, st, width, height)
	}
	return vertical(s, r, st, width, height)
}

// cell rounds a view position to a cell
func cell(v float64) int {
	return int(math.Floor(v + 0.5))
}

func drawnAt(r *Renderer, inst *pool.Instance, offset float64) float64 {
	if r == nil {
		return offset
	}
	if pos, ok := r.Position(inst); ok {
		return pos
	}
	return offset
}

func labelText(section string) string {
	return "── " + section + " ──"
}

func labelStyle(base lipgloss.Style, section string) lipgloss.Style {
	return base.Foreground(lipgloss.Color(color.SectionColor(section)))
}

// fit truncates or pads s to exactly width cells
func fit(s string, width int) string {
	s = truncate.StringWithTail(s, uint(width), "…")
	if w := runewidth.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

func vertical(s listview.Snapshot, r *Renderer, st style.Styles, width, height int) string {
	lines := make([]string, height)
	blank := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = blank
	}
	put := func(y int, text string, ls lipgloss.Style) {
		if y < 0 || y >= height {
			return
		}
		lines[y] = ls.Render(fit(text, width))
	}
	rowLines := func(inst *pool.Instance, pos, size float64, ls lipgloss.Style) {
		y := cell(pos - s.Origin)
		for k := 0; k < max(cell(size), 1); k++ {
			text := Text(inst)
			if k > 0 {
				text = "  " + continuation
			}
			put(y+k, text, ls)
		}
	}

	for _, row := range s.Rows {
		if row.Label {
			put(cell(row.LabelOffset-s.Origin), labelText(row.Section), labelStyle(st.Label, row.Section))
		}
	}
	for _, inst := range s.Removing {
		if r == nil {
			continue
		}
		if pos, ok := r.Position(inst); ok {
			rowLines(inst, pos, inst.Size(), st.Removing)
		}
	}
	for _, row := range s.Rows {
		ls := st.Row
		if row.Current {
			ls = st.CurrentRow
		}
		rowLines(row.Instance, drawnAt(r, row.Instance, row.Offset), row.Size, ls)
	}
	for _, l := range s.Floating {
		put(cell(l.Offset-s.Origin), labelText(l.Section), labelStyle(st.FloatingLabel, l.Section))
	}
	return strings.Join(lines, "\n")
}

// canvas is a grid of cells, each holding one rendered rune or nothing for the tail of a wide rune
type canvas struct {
	cells [][]string
	width int
}

func newCanvas(width, height int) canvas {
	c := canvas{cells: make([][]string, height), width: width}
	for y := range c.cells {
		c.cells[y] = make([]string, width)
		for x := range c.cells[y] {
			c.cells[y][x] = " "
		}
	}
	return c
}

func (c canvas) put(x, y int, text string, ls lipgloss.Style) {
	if y < 0 || y >= len(c.cells) {
		return
	}
	for _, ru := range text {
		w := runewidth.RuneWidth(ru)
		if w == 0 {
			continue
		}
		if x >= 0 && x+w <= c.width {
			c.cells[y][x] = ls.Render(string(ru))
			for k := 1; k < w; k++ {
				c.cells[y][x+k] = ""
			}
		}
		x += w
	}
}

func (c canvas) String() string {
	lines := make([]string, len(c.cells))
	for y, row := range c.cells {
		lines[y] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

// horizontal draws items along one line, with section labels on the line above when there is room
func horizontal(s listview.Snapshot, r *Renderer, st style.Styles, width, height int) string {
	c := newCanvas(width, height)
	itemLine := 0
	if height > 1 && s.LabelSize > 0 {
		itemLine = 1
		for _, row := range s.Rows {
			if row.Label {
				c.put(cell(row.LabelOffset-s.Origin), 0, labelText(row.Section), labelStyle(st.Label, row.Section))
			}
		}
	}
	for _, inst := range s.Removing {
		if r == nil {
			continue
		}
		if pos, ok := r.Position(inst); ok {
			c.put(cell(pos-s.Origin), itemLine, Text(inst), st.Removing)
		}
	}
	for _, row := range s.Rows {
		ls := st.Row
		if row.Current {
			ls = st.CurrentRow
		}
		c.put(cell(drawnAt(r, row.Instance, row.Offset)-s.Origin), itemLine, Text(row.Instance), ls)
	}
	if itemLine > 0 {
		for _, l := range s.Floating {
			c.put(cell(l.Offset-s.Origin), 0, labelText(l.Section), labelStyle(st.FloatingLabel, l.Section))
		}
	}
	return c.String()
}

// Describe lists the layout of s, one line per materialized item
func Describe(s listview.Snapshot) []string {
	out := []string{
		fmt.Sprintf("# %s %s count=%d current=%d origin=%g view=%g content=%g",
			s.Orientation, s.LayoutDirection, s.Count, s.Current, s.Origin, s.ViewSize, s.ContentSize),
	}
	for _, row := range s.Rows {
		marker := " "
		if row.Current {
			marker = "*"
		}
		out = append(out, fmt.Sprintf("%s %5d %8g %6g %-12s %s", marker, row.Index, row.Offset, row.Size, row.Section, Text(row.Instance)))
	}
	return out
}
