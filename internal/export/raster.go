package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"fsr-scope.klederson.com/internal/config"
	"fsr-scope.klederson.com/internal/sensor"
)

// OverlaySeries is a historical dataset drawn dashed under the live data.
type OverlaySeries struct {
	Label   string
	Samples []sensor.Sample
}

// ChartView is everything needed to draw the chart as currently shown.
type ChartView struct {
	Title     string
	Samples   []sensor.Sample // windowed view
	Visible   [config.ChannelCount]bool
	Overlays  []OverlaySeries
	Threshold float64
	Caption   string // stamped bottom-left, empty for none
}

// Rasterizer renders a chart view to PNG bytes.
type Rasterizer interface {
	Rasterize(view ChartView) ([]byte, error)
}

// ChartRasterizer draws with go-chart.
type ChartRasterizer struct {
	Width  int
	Height int
}

// NewChartRasterizer returns a rasterizer at the default export size.
func NewChartRasterizer() *ChartRasterizer {
	return &ChartRasterizer{Width: config.RasterWidth, Height: config.RasterHeight}
}

const maxXTicks = 10

// Rasterize renders view. Live channels are solid, overlays dashed and
// dimmed, the threshold a dashed horizontal line. The X axis spans the view's
// indices, labelled with sample labels.
func (r *ChartRasterizer) Rasterize(view ChartView) ([]byte, error) {
	n := len(view.Samples)
	xMax := float64(max(n-1, 1))

	var series []chart.Series
	for _, ov := range view.Overlays {
		series = append(series, overlaySeries(ov, view.Visible, xMax)...)
	}
	for ch := range config.ChannelCount {
		if !view.Visible[ch] || n == 0 {
			continue
		}
		xs, ys := make([]float64, n), make([]float64, n)
		for i, s := range view.Samples {
			xs[i], ys[i] = float64(i), s.Values[ch]
		}
		if n == 1 {
			// go-chart needs two points to draw a line
			xs, ys = append(xs, xMax), append(ys, ys[0])
		}
		series = append(series, chart.ContinuousSeries{
			Name:    config.ChannelLabels[ch],
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: hexColor(config.ChannelColors[ch], 255),
				StrokeWidth: 2,
			},
		})
	}
	series = append(series, chart.ContinuousSeries{
		Name:    fmt.Sprintf("Seuil %.0f", view.Threshold),
		XValues: []float64{0, xMax},
		YValues: []float64{view.Threshold, view.Threshold},
		Style: chart.Style{
			StrokeColor:     hexColor(config.ThresholdColor, 255),
			StrokeWidth:     1,
			StrokeDashArray: []float64{5, 5},
		},
	})

	padBottom := 20
	if view.Caption != "" {
		padBottom += 18
	}
	ch := chart.Chart{
		Title:      view.Title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 30, Left: 16, Right: 12, Bottom: padBottom}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
			Ticks: xTicks(view.Samples),
		},
		YAxis: chart.YAxis{
			Name:  "Valeur",
			Range: &chart.ContinuousRange{Min: config.ValueMin, Max: config.ValueMax},
			Ticks: yTicks(),
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	if view.Caption == "" {
		return buf.Bytes(), nil
	}

	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	var out bytes.Buffer
	if err := png.Encode(&out, drawCaption(img, view.Caption)); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return out.Bytes(), nil
}

// overlaySeries stretches each overlay across the full X range by its own
// index fraction, one dashed series per visible channel.
func overlaySeries(ov OverlaySeries, visible [config.ChannelCount]bool, xMax float64) []chart.Series {
	m := len(ov.Samples)
	if m == 0 {
		return nil
	}
	xs := make([]float64, m)
	for i := range xs {
		if m == 1 {
			xs[i] = 0
			continue
		}
		xs[i] = float64(i) * xMax / float64(m-1)
	}

	var out []chart.Series
	for ch := range config.ChannelCount {
		if !visible[ch] {
			continue
		}
		ys := make([]float64, m)
		for i, s := range ov.Samples {
			ys[i] = s.Values[ch]
		}
		cx, cy := xs, ys
		if m == 1 {
			cx, cy = []float64{0, xMax}, []float64{ys[0], ys[0]}
		}
		out = append(out, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s %s", ov.Label, config.ChannelLabels[ch]),
			XValues: cx,
			YValues: cy,
			Style: chart.Style{
				StrokeColor:     hexColor(config.ChannelColors[ch], 110),
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
		})
	}
	return out
}

func xTicks(samples []sensor.Sample) []chart.Tick {
	n := len(samples)
	if n == 0 {
		return []chart.Tick{{Value: 0, Label: ""}, {Value: 1, Label: ""}}
	}
	step := max(1, (n+maxXTicks-1)/maxXTicks)
	var ticks []chart.Tick
	for i := 0; i < n; i += step {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: samples[i].Label})
	}
	if last := n - 1; last%step != 0 {
		ticks = append(ticks, chart.Tick{Value: float64(last), Label: samples[last].Label})
	}
	if len(ticks) == 1 {
		ticks = append(ticks, chart.Tick{Value: 1, Label: ""})
	}
	return ticks
}

func yTicks() []chart.Tick {
	var ticks []chart.Tick
	for v := config.ValueMin; v < config.ValueMax; v += 1024 {
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
	}
	return append(ticks, chart.Tick{Value: config.ValueMax, Label: fmt.Sprintf("%.0f", config.ValueMax)})
}

// hexColor parses "#RRGGBB" into a go-chart color with the given alpha.
func hexColor(hex string, alpha uint8) drawing.Color {
	c := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
	c.A = alpha
	return c
}

// drawCaption stamps text on a dark strip in the bottom-left corner.
func drawCaption(img image.Image, text string) image.Image {
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	face := basicfont.Face7x13
	pad := 6
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.White), Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := b.Min.X + 8
	y := b.Max.Y - 6

	bg := image.NewUniform(color.RGBA{A: 200})
	rect := image.Rect(x-pad, y-face.Metrics().Ascent.Ceil()-pad, x+tw+pad, y+pad/2)
	draw.Draw(rgba, rect, bg, image.Point{}, draw.Over)

	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}
