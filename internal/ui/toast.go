package ui

import (
	"github.com/charmbracelet/lipgloss"

	"fsr-scope.klederson.com/internal/dashboard"
)

// RenderToast renders a notice as a single line, or an empty line when
// there is nothing to show.
func RenderToast(width int, n *dashboard.Notice) string {
	if n == nil {
		return lipgloss.NewStyle().Width(width).Render("")
	}
	style := StyleToastInfo
	icon := "i"
	switch n.Level {
	case dashboard.LevelSuccess:
		style, icon = StyleToastSuccess, "+"
	case dashboard.LevelWarning:
		style, icon = StyleToastWarning, "!"
	case dashboard.LevelError:
		style, icon = StyleToastError, "x"
	}
	return style.Render(truncRaw(" ["+icon+"] "+n.String(), max(width, 1)))
}
