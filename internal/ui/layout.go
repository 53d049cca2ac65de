package ui

import (
	"github.com/charmbracelet/lipgloss"

	"fsr-scope.klederson.com/internal/config"
)

// Layout places the panels on screen. Rows are absolute screen rows.
type Layout struct {
	Width     int
	Compact   bool // chart only, shown while zoomed
	ReadoutY  int
	BodyY     int
	BodyH     int
	ChartW    int
	ControlsW int
}

const minControlsW = 26

// ComputeLayout splits a width x height screen: menu bar on top, then the
// readout, then the chart beside the controls, then toast, help and status
// lines at the bottom.
func ComputeLayout(width, height, helpRows int, compact bool) Layout {
	l := Layout{Width: width, Compact: compact}
	y := 1 // menu bar
	if !compact {
		l.ReadoutY = y
		y += config.ReadoutRows
	}
	l.BodyY = y
	footer := 2 + helpRows // toast + status + help
	l.BodyH = max(height-y-footer, config.MinChartRows+2)

	l.ChartW = width
	if !compact {
		l.ControlsW = max(width/4, minControlsW)
		l.ChartW = max(width-l.ControlsW, config.YAxisGutter+10)
	}
	return l
}

// ComposeLayout stacks the rendered parts. Empty parts are skipped.
func ComposeLayout(l Layout, menuBar, readout, chartPanel, controls, toast, help, statusBar string) string {
	middle := chartPanel
	if !l.Compact && controls != "" {
		middle = lipgloss.JoinHorizontal(lipgloss.Top, chartPanel, controls)
	}
	parts := []string{menuBar}
	if !l.Compact && readout != "" {
		parts = append(parts, readout)
	}
	parts = append(parts, middle, toast)
	if help != "" {
		parts = append(parts, help)
	}
	parts = append(parts, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
