package ui

import (
	"github.com/charmbracelet/lipgloss"

	"fsr-scope.klederson.com/internal/config"
)

// Scope color palette
var (
	ColorPhosphor    = lipgloss.Color("#00FF41")
	ColorGreen       = lipgloss.Color("#00CC33")
	ColorMidGreen    = lipgloss.Color("#008F11")
	ColorDimGreen    = lipgloss.Color("#004A0A")
	ColorGrid        = lipgloss.Color("#1F3A24")
	ColorBorderNorm  = lipgloss.Color("#00AA22")
	ColorBorderHot   = lipgloss.Color("#00FF41")
	ColorSelection   = lipgloss.Color("#0F3D1A")
	ColorThreshold   = lipgloss.Color(config.ThresholdColor)
	ColorError       = lipgloss.Color("#FF3300")
	ColorWarning     = lipgloss.Color("#FFAA00")
	ColorRecording   = lipgloss.Color("#FF3B3B")
	ColorOverlayDim  = lipgloss.Color("#4A5A4E")
	ColorBarBackdrop = lipgloss.Color("#002200")
)

// ChannelColors mirror config.ChannelColors as terminal colors.
var ChannelColors = func() [config.ChannelCount]lipgloss.Color {
	var out [config.ChannelCount]lipgloss.Color
	for i, hex := range config.ChannelColors {
		out[i] = lipgloss.Color(hex)
	}
	return out
}()

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(ColorBarBackdrop).
			Foreground(ColorPhosphor).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorPhosphor).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleStatusBar = lipgloss.NewStyle().
			Background(ColorBarBackdrop).
			Foreground(ColorGreen).
			Padding(0, 1)

	StyleLive = lipgloss.NewStyle().
			Foreground(ColorPhosphor).
			Bold(true)

	StylePaused = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	StyleRecording = lipgloss.NewStyle().
			Foreground(ColorRecording).
			Bold(true)

	StyleOffline = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderNorm)

	StylePanelActive = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderHot)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorPhosphor).
			Bold(true).
			Padding(0, 1)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorPhosphor).
			Bold(true)

	StyleAxis = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleGrid = lipgloss.NewStyle().
			Foreground(ColorGrid)

	StyleThreshold = lipgloss.NewStyle().
			Foreground(ColorThreshold)

	StyleAboveThreshold = lipgloss.NewStyle().
				Foreground(ColorThreshold).
				Bold(true)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDimGreen)

	StyleCursorLine = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(ColorPhosphor).
			Bold(true)

	StyleCheckOn = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleCheckOff = lipgloss.NewStyle().
			Foreground(ColorDimGreen)

	StyleToastInfo = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleToastSuccess = lipgloss.NewStyle().
				Foreground(ColorPhosphor).
				Bold(true)

	StyleToastWarning = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	StyleToastError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)
)

// ChannelStyle returns the foreground style of channel i.
func ChannelStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ChannelColors[i])
}
