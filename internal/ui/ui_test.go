package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"fsr-scope.klederson.com/internal/config"
	"fsr-scope.klederson.com/internal/dashboard"
	"fsr-scope.klederson.com/internal/overlay"
	"fsr-scope.klederson.com/internal/sensor"
	"fsr-scope.klederson.com/internal/zoom"
)

func labels(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("L%02d", i)
	}
	return out
}

func testSamples(n int) []sensor.Sample {
	base := time.Date(2025, 1, 15, 14, 30, 0, 0, time.Local)
	out := make([]sensor.Sample, n)
	for i := range out {
		v := float64(i * 100)
		out[i] = sensor.NewSample(base.Add(time.Duration(i)*time.Second), [config.ChannelCount]float64{v, v + 50, v + 100})
	}
	return out
}

func TestGeometryColumnsSpanPlot(t *testing.T) {
	g := Geometry{Width: 30, Height: 10, Labels: labels(4)}
	want := []int{0, 10, 19, 29}
	for i, w := range want {
		if got := g.Column(i); got != w {
			t.Errorf("Column(%d) = %d, want %d", i, got, w)
		}
	}
	for i := range want {
		if got := g.Category(g.Column(i)); got != i {
			t.Errorf("Category(Column(%d)) = %d", i, got)
		}
	}
}

func TestGeometryHitTest(t *testing.T) {
	g := Geometry{X: 10, Y: 3, Width: 30, Height: 10, Labels: labels(4)}
	tests := []struct {
		name string
		x, y int
		want string
	}{
		{"first column", 10, 3, "L00"},
		{"last column", 39, 12, "L03"},
		{"near second", 21, 5, "L01"},
		{"left of plot", 9, 5, ""},
		{"right of plot", 40, 5, ""},
		{"above plot", 15, 2, ""},
		{"below plot", 15, 13, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.HitTest(tt.x, tt.y); got != tt.want {
				t.Errorf("HitTest(%d, %d) = %q, want %q", tt.x, tt.y, got, tt.want)
			}
		})
	}

	empty := Geometry{X: 0, Y: 0, Width: 10, Height: 5}
	if got := empty.HitTest(2, 2); got != "" {
		t.Errorf("HitTest on empty chart = %q", got)
	}
}

func TestGeometryRow(t *testing.T) {
	g := Geometry{Width: 10, Height: 11}
	tests := []struct {
		v    float64
		want int
	}{
		{0, 10},
		{4095, 0},
		{2047.5, 5},
		{-100, 10},
		{9000, 0},
	}
	for _, tt := range tests {
		if got := g.Row(tt.v, 0, 4095); got != tt.want {
			t.Errorf("Row(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestRenderChartPanelGeometry(t *testing.T) {
	data := ChartData{
		Title:     "LIVE",
		Samples:   testSamples(5),
		Visible:   [config.ChannelCount]bool{true, true, true},
		Threshold: 2048,
	}
	out, geo := RenderChartPanel(0, 6, 60, 20, data)

	if got := len(strings.Split(out, "\n")); got != 20 {
		t.Errorf("rendered %d lines, want 20", got)
	}
	if geo.X != 1+config.YAxisGutter || geo.Y != 8 {
		t.Errorf("plot origin = (%d, %d)", geo.X, geo.Y)
	}
	if geo.Width != 60-2-config.YAxisGutter {
		t.Errorf("plot width = %d", geo.Width)
	}
	if geo.Height != 20-2-3 {
		t.Errorf("plot height = %d", geo.Height)
	}
	if len(geo.Labels) != 5 || geo.Labels[0] != data.Samples[0].Label {
		t.Errorf("labels = %v", geo.Labels)
	}
	if got := geo.HitTest(geo.X+geo.Width-1, geo.Y); got != data.Samples[4].Label {
		t.Errorf("last column hits %q", got)
	}
	for _, l := range strings.Split(out, "\n") {
		if w := lipgloss.Width(l); w > 60 {
			t.Errorf("line wider than panel: %d", w)
		}
	}
}

func TestRenderChartPanelEmpty(t *testing.T) {
	out, geo := RenderChartPanel(0, 0, 40, 12, ChartData{Threshold: 2048})
	if out == "" {
		t.Fatal("empty render")
	}
	if len(geo.Labels) != 0 {
		t.Errorf("labels = %v", geo.Labels)
	}
	if got := geo.HitTest(geo.X, geo.Y); got != "" {
		t.Errorf("HitTest on empty chart = %q", got)
	}
}

func TestSampleAtInterpolates(t *testing.T) {
	s := testSamples(3) // channel 0: 0, 100, 200
	tests := []struct {
		f    float64
		want float64
	}{
		{0, 0},
		{0.25, 50},
		{0.5, 100},
		{1, 200},
		{2, 200},
	}
	for _, tt := range tests {
		v, ok := sampleAt(s, tt.f)
		if !ok || v[0] != tt.want {
			t.Errorf("sampleAt(%v) = %v, %v, want %v", tt.f, v[0], ok, tt.want)
		}
	}
	if _, ok := sampleAt(nil, 0.5); ok {
		t.Error("sampleAt(nil) reported ok")
	}
}

func TestDragColumns(t *testing.T) {
	g := Geometry{Width: 31, Height: 5, Labels: labels(4)}
	lo, hi, ok := dragColumns(g, zoom.Drag{Anchor: "L03", Cursor: "L01", Active: true})
	if !ok || lo != 10 || hi != 30 {
		t.Errorf("dragColumns = %d, %d, %v", lo, hi, ok)
	}
	if _, _, ok := dragColumns(g, zoom.Drag{Anchor: "nope", Active: true}); ok {
		t.Error("unknown anchor highlighted")
	}
	if _, _, ok := dragColumns(g, zoom.Drag{}); ok {
		t.Error("inactive drag highlighted")
	}
}

func TestYLabelShowsThresholdOnRangeEnds(t *testing.T) {
	geo := Geometry{Width: 10, Height: 5}
	tests := []struct {
		name      string
		threshold float64
		row       int
		want      string
	}{
		{"threshold on top row", 4000, 0, "4000┤"},
		{"threshold on bottom row", 100, 4, "100┤"},
		{"top row without threshold", 2048, 0, "4095│"},
		{"bottom row without threshold", 2048, 4, "0│"},
		{"threshold mid range", 2048, 2, "2048┤"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thrRow := geo.Row(tt.threshold, config.ValueMin, config.ValueMax)
			if got := yLabel(tt.row, geo, tt.threshold, thrRow); !strings.Contains(got, tt.want) {
				t.Errorf("yLabel(%d) = %q, want it to contain %q", tt.row, got, tt.want)
			}
		})
	}
}

func TestXLabelsSkipOverlaps(t *testing.T) {
	g := Geometry{Width: 12, Labels: []string{"AAAA", "BBBB", "CCCC", "DDDD"}}
	got := xLabels(g)
	if want := "AAAA CCCC   "; got != want {
		t.Errorf("xLabels = %q, want %q", got, want)
	}
}

func TestRenderControls(t *testing.T) {
	ds := []overlay.Dataset{
		{ID: "a", Label: "data_20250115_1430.csv"},
		{ID: "b", Label: "data_20250114_0915.csv"},
	}
	out := RenderControls(40, 16, ControlsData{
		Visible:   [config.ChannelCount]bool{true, false, true},
		Datasets:  ds,
		Active:    map[string]bool{"b": true},
		Cursor:    1,
		Threshold: 2048,
	})
	if got := len(strings.Split(out, "\n")); got != 16 {
		t.Errorf("rendered %d lines, want 16", got)
	}
	for _, want := range []string{"Capteur 2", "2048", ">> [x] data_20250114_0915.csv", "DATASETS [2]"} {
		if !strings.Contains(out, want) {
			t.Errorf("controls missing %q", want)
		}
	}
}

func TestTruncRaw(t *testing.T) {
	if got := truncRaw("Médiane", 3); got != "Méd" {
		t.Errorf("truncRaw = %q", got)
	}
	if got := truncRaw("ab", 4); got != "ab  " {
		t.Errorf("truncRaw = %q", got)
	}
}

func TestComputeLayout(t *testing.T) {
	l := ComputeLayout(120, 40, 0, false)
	if l.ReadoutY != 1 || l.BodyY != 1+config.ReadoutRows {
		t.Errorf("rows = %+v", l)
	}
	if l.ChartW+l.ControlsW != 120 {
		t.Errorf("widths = %d + %d", l.ChartW, l.ControlsW)
	}
	if l.BodyH != 40-l.BodyY-2 {
		t.Errorf("BodyH = %d", l.BodyH)
	}

	c := ComputeLayout(120, 40, 1, true)
	if c.BodyY != 1 || c.ChartW != 120 || c.ControlsW != 0 {
		t.Errorf("compact = %+v", c)
	}
}

func TestRenderToast(t *testing.T) {
	n := dashboard.ErrorNotice("Export failed", fmt.Errorf("disk full"))
	if got := RenderToast(60, &n); !strings.Contains(got, "Export failed: disk full") {
		t.Errorf("toast = %q", got)
	}
	if got := RenderToast(10, nil); strings.TrimSpace(got) != "" {
		t.Errorf("empty toast = %q", got)
	}
}
