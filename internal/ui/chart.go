package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fsr-scope.klederson.com/internal/config"
	"fsr-scope.klederson.com/internal/sensor"
	"fsr-scope.klederson.com/internal/zoom"
)

// ChartData is the input of the chart panel.
type ChartData struct {
	Title     string
	Samples   []sensor.Sample // windowed view, one category each
	Visible   [config.ChannelCount]bool
	Overlays  [][]sensor.Sample
	Threshold float64
	Drag      zoom.Drag
	Active    bool // highlight the border while a drag is in progress
}

const (
	glyphPoint     = '●'
	glyphLine      = '·'
	glyphOverlay   = '┄'
	glyphThreshold = '╌'
	glyphGrid      = '┈'
	glyphAxis      = '─'
)

type cell struct {
	r     rune
	style *lipgloss.Style
}

// RenderChartPanel draws the chart inside a bordered panel of w x h cells
// whose top-left corner sits at screen cell (x, y). The returned geometry
// locates the plot on screen for hit testing.
func RenderChartPanel(x, y, w, h int, data ChartData) (string, Geometry) {
	innerW, innerH := chartInner(w, h)
	plotW := innerW - config.YAxisGutter

	labels := make([]string, len(data.Samples))
	for i, s := range data.Samples {
		labels[i] = s.Label
	}
	geo := PlotGeometry(x, y, w, h, labels)

	title := StylePanelTitle.Render(truncRaw(data.Title, max(innerW-2, 1)))
	lines := []string{title}
	lines = append(lines, renderPlot(geo, data)...)
	lines = append(lines, strings.Repeat(" ", config.YAxisGutter)+StyleAxis.Render(strings.Repeat(string(glyphAxis), plotW)))
	lines = append(lines, strings.Repeat(" ", config.YAxisGutter)+StyleAxis.Render(xLabels(geo)))

	border := StylePanelBorder
	if data.Active {
		border = StylePanelActive
	}
	rendered := border.Width(innerW).Height(innerH).Render(strings.Join(lines, "\n"))
	return clampLines(rendered, h), geo
}

// PlotGeometry returns where RenderChartPanel places the plot for a panel of
// w x h cells at (x, y) showing the given category labels.
func PlotGeometry(x, y, w, h int, labels []string) Geometry {
	innerW, innerH := chartInner(w, h)
	return Geometry{
		X:      x + 1 + config.YAxisGutter,
		Y:      y + 2,
		Width:  innerW - config.YAxisGutter,
		Height: max(innerH-3, 2), // title row, axis row, label row
		Labels: labels,
	}
}

func chartInner(w, h int) (innerW, innerH int) {
	return max(w-2, config.YAxisGutter+2), max(h-2, config.MinChartRows)
}

// renderPlot draws the plot rows with the Y axis gutter on the left.
// Draw order, lowest first: grid, threshold, overlays, live channels.
func renderPlot(geo Geometry, data ChartData) []string {
	grid := make([][]cell, geo.Height)
	for r := range grid {
		grid[r] = make([]cell, geo.Width)
		for c := range grid[r] {
			grid[r][c] = cell{r: ' '}
		}
	}
	set := func(col, row int, r rune, st *lipgloss.Style) {
		if row >= 0 && row < geo.Height && col >= 0 && col < geo.Width {
			grid[row][col] = cell{r: r, style: st}
		}
	}

	gridStyle, thrStyle, ovStyle := StyleGrid, StyleThreshold, lipgloss.NewStyle().Foreground(ColorOverlayDim)
	for _, v := range []float64{1024, 2048, 3072} {
		row := geo.Row(v, config.ValueMin, config.ValueMax)
		for c := 0; c < geo.Width; c += 2 {
			set(c, row, glyphGrid, &gridStyle)
		}
	}

	thrRow := geo.Row(data.Threshold, config.ValueMin, config.ValueMax)
	for c := 0; c < geo.Width; c++ {
		set(c, thrRow, glyphThreshold, &thrStyle)
	}

	for _, ov := range data.Overlays {
		for ch := range config.ChannelCount {
			if !data.Visible[ch] {
				continue
			}
			for c := 0; c < geo.Width; c++ {
				v, ok := sampleAt(ov, float64(c)/float64(max(geo.Width-1, 1)))
				if !ok {
					break
				}
				set(c, geo.Row(v[ch], config.ValueMin, config.ValueMax), glyphOverlay, &ovStyle)
			}
		}
	}

	chStyles := make([]lipgloss.Style, config.ChannelCount)
	hotStyles := make([]lipgloss.Style, config.ChannelCount)
	for ch := range chStyles {
		chStyles[ch] = ChannelStyle(ch)
		hotStyles[ch] = ChannelStyle(ch).Bold(true).Underline(true)
	}
	n := len(data.Samples)
	for ch := range config.ChannelCount {
		if !data.Visible[ch] || n == 0 {
			continue
		}
		for c := 0; c < geo.Width; c++ {
			v, _ := sampleAt(data.Samples, float64(c)/float64(max(geo.Width-1, 1)))
			set(c, geo.Row(v[ch], config.ValueMin, config.ValueMax), glyphLine, &chStyles[ch])
		}
		for i, s := range data.Samples {
			st := &chStyles[ch]
			if s.Values[ch] > data.Threshold {
				st = &hotStyles[ch]
			}
			set(geo.Column(i), geo.Row(s.Values[ch], config.ValueMin, config.ValueMax), glyphPoint, st)
		}
	}

	lo, hi, highlight := dragColumns(geo, data.Drag)
	selStyle := lipgloss.NewStyle().Background(ColorSelection)

	out := make([]string, geo.Height)
	for r := 0; r < geo.Height; r++ {
		var sb strings.Builder
		sb.WriteString(yLabel(r, geo, data.Threshold, thrRow))
		for c, cl := range grid[r] {
			st := lipgloss.NewStyle()
			if cl.style != nil {
				st = *cl.style
			}
			if highlight && c >= lo && c <= hi {
				st = st.Background(ColorSelection)
				if cl.style == nil {
					st = selStyle
				}
			}
			if cl.style == nil && !(highlight && c >= lo && c <= hi) {
				sb.WriteRune(cl.r)
				continue
			}
			sb.WriteString(st.Render(string(cl.r)))
		}
		out[r] = sb.String()
	}
	return out
}

// sampleAt linearly interpolates samples at fraction f of their span.
func sampleAt(samples []sensor.Sample, f float64) ([config.ChannelCount]float64, bool) {
	var zero [config.ChannelCount]float64
	n := len(samples)
	if n == 0 {
		return zero, false
	}
	if n == 1 {
		return samples[0].Values, true
	}
	pos := math.Max(0, math.Min(1, f)) * float64(n-1)
	i := int(pos)
	if i >= n-1 {
		return samples[n-1].Values, true
	}
	t := pos - float64(i)
	var out [config.ChannelCount]float64
	for ch := range out {
		a, b := samples[i].Values[ch], samples[i+1].Values[ch]
		out[ch] = a + (b-a)*t
	}
	return out, true
}

// dragColumns returns the plot columns spanned by the drag in progress.
func dragColumns(geo Geometry, d zoom.Drag) (lo, hi int, ok bool) {
	if !d.Active || d.Anchor == "" {
		return 0, 0, false
	}
	a := zoom.IndexOf(geo.Labels, d.Anchor)
	if a < 0 {
		return 0, 0, false
	}
	b := a
	if d.Cursor != "" {
		if i := zoom.IndexOf(geo.Labels, d.Cursor); i >= 0 {
			b = i
		}
	}
	lo, hi = geo.Column(min(a, b)), geo.Column(max(a, b))
	return lo, hi, true
}

// yLabel renders the gutter for plot row r: the range ends and the
// threshold value. The threshold wins when it shares a row with a range end.
func yLabel(r int, geo Geometry, threshold float64, thrRow int) string {
	w := config.YAxisGutter - 1
	if r == thrRow {
		return StyleThreshold.Render(fmt.Sprintf("%*.0f", w, threshold)) + StyleAxis.Render("┤")
	}
	var text string
	switch r {
	case 0:
		text = fmt.Sprintf("%*.0f", w, config.ValueMax)
	case geo.Height - 1:
		text = fmt.Sprintf("%*.0f", w, config.ValueMin)
	default:
		text = strings.Repeat(" ", w)
	}
	return StyleAxis.Render(text + "│")
}

// xLabels places category labels under their columns, skipping any that
// would overlap the previous one.
func xLabels(geo Geometry) string {
	line := []rune(strings.Repeat(" ", geo.Width))
	next := 0
	for i, l := range geo.Labels {
		col := geo.Column(i)
		start := col - len(l)/2
		start = max(start, 0)
		if start+len(l) > geo.Width {
			start = geo.Width - len(l)
		}
		if start < next || start < 0 {
			continue
		}
		copy(line[start:], []rune(l))
		next = start + len(l) + 1
	}
	return string(line)
}
