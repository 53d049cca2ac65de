package config

import "time"

const (
	// Sensor channels
	ChannelCount = 3
	ValueMin     = 0.0
	ValueMax     = 4095.0 // 12-bit ADC full scale

	// Live window
	DefaultWindowSize = 30 // samples kept in the live chart
	PreviewSamples    = 10 // samples shown before any source connects

	// Alert threshold
	DefaultThreshold = 2048.0
	ThresholdStep    = 64.0 // +/- keys

	// Display
	TargetFPS       = 10
	NoticeTTL       = 3 * time.Second // how long a notification stays on screen
	YAxisGutter     = 6               // columns reserved for Y axis labels
	MinChartRows    = 6
	ReadoutRows     = 5 // bordered readout panel
	ControlsRows    = 6 // bordered controls panel
	OverlayPoints   = 50
	OverlayInterval = time.Second

	// Sources
	DefaultSampleInterval = time.Second
	StreamMaxLine         = 4096 // bytes per input line

	// Recording
	DefaultRecordingDuration = 60 * time.Second

	// Export
	DateStampLayout = "20060102_1504"
	ImageWidthMM    = 210.0
	PageHeightMM    = 295.0
	RasterWidth     = 1200
	RasterHeight    = 600

	// App
	AppName    = "FSR-SCOPE"
	AppVersion = "1.0"
)

// DurationPresets are the recording durations cycled by the d key; 0 means
// no limit.
var DurationPresets = []time.Duration{
	30 * time.Second,
	60 * time.Second,
	2 * time.Minute,
	5 * time.Minute,
	0,
}

// ChannelLabels are the display names used on screen and in exports.
var ChannelLabels = [ChannelCount]string{"Capteur 1", "Capteur 2", "Capteur 3"}

// ChannelColors are hex RGB colors per channel, shared by the terminal chart
// and rendered exports.
var ChannelColors = [ChannelCount]string{"#00BFFF", "#39FF14", "#FFB000"}

// ThresholdColor draws the alert threshold line.
const ThresholdColor = "#FF3B3B"
