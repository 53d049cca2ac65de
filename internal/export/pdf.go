package export

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"

	"fsr-scope.klederson.com/internal/buffer"
	"fsr-scope.klederson.com/internal/config"
)

const chartImage = "chart"

// BuildReport lays out the chart image across A4 pages at full page width,
// continuing onto new pages while image height remains, then appends a
// metrics page.
func BuildReport(chartPNG []byte, m buffer.Metrics) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	info := pdf.RegisterImageOptionsReader(chartImage, opts, bytes.NewReader(chartPNG))
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("register chart image: %w", err)
	}
	if info == nil || info.Width() <= 0 {
		return nil, fmt.Errorf("register chart image: empty image")
	}

	imgWidth := config.ImageWidthMM
	imgHeight := info.Height() * imgWidth / info.Width()
	heightLeft := imgHeight
	position := 0.0

	pdf.AddPage()
	pdf.ImageOptions(chartImage, 0, position, imgWidth, imgHeight, false, opts, 0, "")
	heightLeft -= config.PageHeightMM

	for heightLeft >= 0 {
		position = heightLeft - imgHeight
		pdf.AddPage()
		pdf.ImageOptions(chartImage, 0, position, imgWidth, imgHeight, false, opts, 0, "")
		heightLeft -= config.PageHeightMM
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 16)
	for i, line := range MetricsLines(m) {
		pdf.Text(20, 30+float64(i)*20, tr(line))
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout report: %w", err)
	}
	return pdf, nil
}

// WriteReport builds the report and writes it to w.
func WriteReport(w io.Writer, chartPNG []byte, m buffer.Metrics) error {
	pdf, err := BuildReport(chartPNG, m)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// MetricsLines returns the metrics page text: a heading then one line per
// channel with zero decimals.
func MetricsLines(m buffer.Metrics) []string {
	lines := []string{"Métriques des capteurs:"}
	for i, c := range m.Channels {
		lines = append(lines, fmt.Sprintf("%s - Moyenne: %s, Médiane: %s",
			config.ChannelLabels[i], FormatStat(c.Mean), FormatStat(c.Median)))
	}
	return lines
}

// FormatStat prints v rounded half away from zero, or "n/a" for NaN.
func FormatStat(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.0f", math.Round(v))
}
