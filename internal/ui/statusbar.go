package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusData is the input of the status bar.
type StatusData struct {
	WindowLen  int
	WindowSize int
	History    int
	Zoom       string // "start - end" of the committed selection, empty when none
	Overlays   int
	Threshold  float64
	ExportDir  string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, d StatusData) string {
	zoom := StyleMenuLabel.Render("[FULL]")
	if d.Zoom != "" {
		zoom = StylePaused.Render("[ZOOM " + d.Zoom + "]")
	}

	info := fmt.Sprintf(" Window: %d/%d  History: %d  Overlays: %d  Seuil: %.0f  Exports: %s",
		d.WindowLen, d.WindowSize, d.History, d.Overlays, d.Threshold, d.ExportDir)

	content := zoom + StyleStatusBar.Foreground(ColorGreen).Render(info)
	gap := max(width-lipgloss.Width(content)-2, 0)
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
