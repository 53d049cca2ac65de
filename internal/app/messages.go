package app

import (
	"time"

	"fsr-scope.klederson.com/internal/overlay"
	"fsr-scope.klederson.com/internal/sensor"
)

// TickMsg triggers a frame update and advances the recording timer.
type TickMsg time.Time

// ExportResultMsg reports a finished export.
type ExportResultMsg struct {
	Op   string
	Path string
	Err  error
}

// OverlayLoadedMsg carries a dataset read in the background.
type OverlayLoadedMsg struct {
	Dataset overlay.Dataset
	Samples []sensor.Sample
	Err     error
}

// clearNoticeMsg hides the toast unless a newer notice replaced it.
type clearNoticeMsg struct {
	seq int
}
