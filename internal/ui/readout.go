package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fsr-scope.klederson.com/internal/buffer"
	"fsr-scope.klederson.com/internal/config"
	"fsr-scope.klederson.com/internal/export"
	"fsr-scope.klederson.com/internal/sensor"
)

// ReadoutData is the input of the readout panel.
type ReadoutData struct {
	Latest    sensor.Sample
	HasLatest bool
	Metrics   buffer.Metrics
	Threshold float64
	Visible   [config.ChannelCount]bool
}

// RenderReadout renders one line per sensor: the newest value followed by
// the mean and median of the recorded history.
func RenderReadout(width int, d ReadoutData) string {
	innerH := config.ReadoutRows - 2
	innerW := max(width-4, 10)

	lines := make([]string, 0, innerH)
	for ch := range config.ChannelCount {
		name := truncRaw(config.ChannelLabels[ch], 10)
		nameStyle := ChannelStyle(ch)
		if !d.Visible[ch] {
			nameStyle = StyleCheckOff
		}

		now := "----"
		nowStyle := StyleValue
		if d.HasLatest {
			v := d.Latest.Channel(ch)
			now = fmt.Sprintf("%4.0f", v)
			if v > d.Threshold {
				nowStyle = StyleAboveThreshold
			}
		}

		st := d.Metrics.Channels[ch]
		line := fmt.Sprintf("%s %s %s  %s %s  %s %s",
			nameStyle.Render(name),
			StyleLabel.Render("now"), nowStyle.Render(now),
			StyleLabel.Render("moy"), StyleValue.Render(fmt.Sprintf("%7s", export.FormatStat(st.Mean))),
			StyleLabel.Render("méd"), StyleValue.Render(fmt.Sprintf("%7s", export.FormatStat(st.Median))),
		)
		lines = append(lines, line)
	}
	if len(lines) > innerH {
		lines = lines[:innerH]
	}

	title := StyleLabel.Render(fmt.Sprintf(" n=%d", d.Metrics.Count))
	body := strings.Join(lines, "\n")
	if innerW > 50 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", title)
	}
	return clampLines(StylePanelBorder.Width(width-2).Height(innerH).Render(body), config.ReadoutRows)
}
