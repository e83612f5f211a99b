// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

// Axis labels the shared horizontal axis of a plot.
type Axis struct {
	Name string
	From string
	To   string
}

type valueRange struct {
	min float64
	max float64
}

type lineStyle struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelTop        = "max"
	axisLabelBottom     = "min"
	axisSeparator       = " │ "
	scaleNote           = "Each series is scaled to its own min/max."
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var (
	seriesColors = []lipgloss.Color{"#36C5D6", "#C89A3A", "#B36BD9", "#5FB85F"}
	titleStyle   = lipgloss.NewStyle().Bold(true)
)

// PlotSeries renders the series as braille curves over a shared x axis.
// Color is used when w is a terminal or forceColor is set, unless NO_COLOR is present.
func PlotSeries(w io.Writer, title string, series []Series, axis Axis, width, height int, forceColor bool) error {
	series = nonEmptySeries(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	useColor := shouldUseColor(w, forceColor)
	ranges := make([]valueRange, len(series))
	layers := make([][][]uint8, len(series))
	for i, s := range series {
		values := resampleSeries(s.Values, width)
		ranges[i] = seriesRange(s.Values)
		layers[i] = rasterize(values, ranges[i], lineStyles[i%len(lineStyles)], width, height)
	}

	var out strings.Builder
	if title != "" {
		if useColor {
			title = titleStyle.Render(title)
		}
		out.WriteString(title + "\n")
	}
	out.WriteString(scaleNote + "\n")
	for i, s := range series {
		fmt.Fprintf(&out, "%s: min=%.2f max=%.2f\n", s.Name, ranges[i].min, ranges[i].max)
	}

	labelWidth := max(len(axisLabelTop), len(axisLabelBottom))
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = axisLabelTop
		case height - 1:
			label = axisLabelBottom
		}
		fmt.Fprintf(&out, "%*s%s", labelWidth, label, axisSeparator)
		for x := 0; x < width; x++ {
			mask, layer := composeCell(layers, x, y)
			ch := brailleFromMask(mask)
			if useColor && layer >= 0 {
				style := lipgloss.NewStyle().Foreground(seriesColors[layer%len(seriesColors)])
				out.WriteString(style.Render(string(ch)))
			} else {
				out.WriteRune(ch)
			}
		}
		out.WriteByte('\n')
	}
	out.WriteString(renderXAxis(axis, labelWidth, width))
	out.WriteString(renderLegend(series, useColor) + "\n\n")

	_, err := io.WriteString(w, out.String())
	return err
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axisWidth := len(axisLabelTop) + runewidth.StringWidth(axisSeparator)
	return max(totalWidth-axisWidth, minPlotWidth)
}

func nonEmptySeries(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func rasterize(values []float64, r valueRange, style lineStyle, width, height int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	dotRows := height * 4
	prevX, prevY := -1, -1
	for x, v := range values {
		px, py := x*2, valueToRow(v, r.min, r.max, dotRows)
		if prevX >= 0 {
			drawLine(prevX, prevY, px, py, func(dx, dy int) {
				if style.shouldPlot(dx) {
					setBrailleDot(cells, dx, dy)
				}
			})
		} else if style.shouldPlot(px) {
			setBrailleDot(cells, px, py)
		}
		prevX, prevY = px, py
	}
	return cells
}

func renderXAxis(axis Axis, labelWidth, width int) string {
	if axis.From == "" && axis.To == "" {
		return ""
	}
	indent := strings.Repeat(" ", labelWidth+runewidth.StringWidth(axisSeparator))
	gap := width - runewidth.StringWidth(axis.From) - runewidth.StringWidth(axis.To)
	if gap < 1 {
		gap = 1
	}
	line := indent + axis.From + strings.Repeat(" ", gap) + axis.To + "\n"
	if axis.Name != "" {
		line += indent + axis.Name + "\n"
	}
	return line
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func composeCell(layers [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	first := -1
	for i, cells := range layers {
		if y >= len(cells) || x >= len(cells[y]) {
			continue
		}
		if cells[y][x] == 0 {
			continue
		}
		if first == -1 {
			first = i
		}
		mask |= cells[y][x]
	}
	return mask, first
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

// resampleSeries stretches or averages values onto width columns.
func resampleSeries(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	out := make([]float64, width)
	switch {
	case len(values) == width:
		copy(out, values)
	case len(values) > width:
		for i := range out {
			start := i * len(values) / width
			end := max((i+1)*len(values)/width, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case len(values) == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		last := len(values) - 1
		for i := range out {
			pos := float64(i) * float64(last) / float64(width-1)
			idx := int(math.Floor(pos))
			if idx >= last {
				out[i] = values[last]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func seriesRange(values []float64) valueRange {
	r := valueRange{min: math.Inf(1), max: math.Inf(-1)}
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		r.min = math.Min(r.min, v)
		r.max = math.Max(r.max, v)
	}
	if math.IsInf(r.min, 1) || math.IsInf(r.max, -1) {
		return valueRange{min: -1, max: 1}
	}
	if math.Abs(r.max-r.min) < 1e-9 {
		r.min--
		r.max++
	}
	return r
}

func valueToRow(v, minVal, maxVal float64, rows int) int {
	if rows <= 1 || math.IsNaN(v) {
		return 0
	}
	pos := (v - minVal) / (maxVal - minVal)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	marker := brailleFromMask(0x01)
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", marker, s.Name, lineStyles[i%len(lineStyles)].name)
		if useColor {
			label = lipgloss.NewStyle().Foreground(seriesColors[i%len(seriesColors)]).Render(label)
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// drawLine walks a Bresenham line between two dot coordinates.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy > 0 {
		dy = -dy
	}
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cellX, cellY := x/2, y/4
	if cellY >= len(cells) || cellX >= len(cells[cellY]) {
		return
	}
	cells[cellY][cellX] |= brailleDotMask(x%2, y%4)
}

// brailleDotMask maps a dot inside a 2x4 cell to its Unicode braille bit.
func brailleDotMask(x, y int) uint8 {
	left := [4]uint8{0x01, 0x02, 0x04, 0x40}
	right := [4]uint8{0x08, 0x10, 0x20, 0x80}
	if y < 0 || y > 3 {
		return 0
	}
	if x == 0 {
		return left[y]
	}
	return right[y]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
