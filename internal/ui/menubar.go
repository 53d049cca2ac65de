package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"fsr-scope.klederson.com/internal/config"
)

// MenuData is the input of the menu bar.
type MenuData struct {
	Source    string
	Connected bool
	Preview   bool
	Recording bool
	Paused    bool
	Elapsed   string
	Duration  string // empty when recording has no time limit
}

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, d MenuData) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"R", "ec"},
		{"E", "xport"},
		{"S", "hot"},
		{"P", "df"},
		{"?", "help"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	var link string
	switch {
	case d.Connected:
		link = StyleLive.Render("LIVE")
	case d.Preview:
		link = StylePaused.Render("PREVIEW")
	default:
		link = StyleOffline.Render("OFFLINE")
	}

	rec := ""
	switch {
	case d.Recording && d.Paused:
		rec = StylePaused.Render("PAUSED " + d.Elapsed)
	case d.Recording:
		clock := d.Elapsed
		if d.Duration != "" {
			clock += "/" + d.Duration
		}
		rec = StyleRecording.Render("● REC " + clock)
	}

	right := link + "  " + StyleMenuLabel.Render("Source: "+d.Source) + " "
	if rec != "" {
		right = rec + "  " + right
	}
	left := StyleMenuKey.Render(title) + menu

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right)-2, 0)
	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
