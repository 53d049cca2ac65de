package ui

import (
	"fmt"
	"strings"

	"fsr-scope.klederson.com/internal/config"
	"fsr-scope.klederson.com/internal/overlay"
)

// ControlsData is the input of the controls panel.
type ControlsData struct {
	Visible   [config.ChannelCount]bool
	Datasets  []overlay.Dataset
	Active    map[string]bool // dataset IDs currently overlaid
	Cursor    int
	Threshold float64
	Editing   bool   // threshold input has focus
	Input     string // rendered threshold input
}

// RenderControls renders the sensor toggles, the threshold line and the
// scrollable dataset list. The header stays fixed; only the datasets scroll.
func RenderControls(width, height int, d ControlsData) string {
	innerW := max(width-4, 10)
	innerH := max(height-2, config.ControlsRows)

	header := []string{StylePanelTitle.Render("CONTROLS")}
	for ch := range config.ChannelCount {
		box := StyleCheckOff.Render("[ ]")
		if d.Visible[ch] {
			box = StyleCheckOn.Render("[x]")
		}
		label := truncRaw(fmt.Sprintf("%d %s", ch+1, config.ChannelLabels[ch]), innerW-5)
		header = append(header, " "+box+" "+ChannelStyle(ch).Render(label))
	}
	if d.Editing {
		header = append(header, " "+StyleLabel.Render("Seuil ")+d.Input)
	} else {
		header = append(header, " "+StyleLabel.Render("Seuil ")+StyleThreshold.Render(fmt.Sprintf("%.0f", d.Threshold)))
	}
	header = append(header, StyleGrid.Render(strings.Repeat("-", innerW)))
	header = append(header, StyleLabel.Render(fmt.Sprintf(" DATASETS [%d]", len(d.Datasets))))

	space := max(innerH-len(header), 1)

	var rows []string
	if len(d.Datasets) == 0 {
		rows = append(rows, StyleHelp.Render(" No sessions yet"))
	} else {
		start := 0
		if d.Cursor >= space {
			start = d.Cursor - space + 1
		}
		for i := start; i < len(d.Datasets) && len(rows) < space; i++ {
			rows = append(rows, renderDatasetRow(d.Datasets[i], innerW, i == d.Cursor, d.Active[d.Datasets[i].ID]))
		}
	}
	for len(rows) < space {
		rows = append(rows, "")
	}

	all := append(header, rows...)
	if len(all) > innerH {
		all = all[:innerH]
	}
	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(strings.Join(all, "\n"))
	return clampLines(rendered, height)
}

func renderDatasetRow(ds overlay.Dataset, maxW int, isCursor, active bool) string {
	cursor := "  "
	if isCursor {
		cursor = ">>"
	}
	check := "[ ]"
	if active {
		check = "[x]"
	}
	raw := truncRaw(fmt.Sprintf("%s %s %s", cursor, check, ds.Label), maxW)

	switch {
	case isCursor:
		return StyleCursorLine.Render(raw)
	case active:
		return StyleCheckOn.Render(raw)
	default:
		return StyleCheckOff.Render(raw)
	}
}

// truncRaw pads or truncates a raw string to exactly w runes.
func truncRaw(s string, w int) string {
	r := []rune(s)
	if len(r) > w {
		return string(r[:w])
	}
	if len(r) < w {
		return s + strings.Repeat(" ", w-len(r))
	}
	return s
}

// clampLines forces rendered output to exactly n lines. lipgloss Height
// only sets a minimum.
func clampLines(rendered string, n int) string {
	lines := strings.Split(rendered, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
