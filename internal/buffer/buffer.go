// Package buffer keeps the live window of recent readings alongside the
// full session history, and computes per-channel statistics over them.
package buffer

import (
	"fsr-scope.klederson.com/internal/config"
	"fsr-scope.klederson.com/internal/sensor"
)

// Buffer holds the live window (the most recent windowSize samples) and the
// unbounded session history. Not safe for concurrent use; the dashboard
// mutates it from the Bubble Tea update loop only.
type Buffer struct {
	window  *Ring[sensor.Sample]
	history []sensor.Sample
}

// New creates a buffer with a live window of windowSize samples. Values
// below one fall back to the default window.
func New(windowSize int) *Buffer {
	if windowSize < 1 {
		windowSize = config.DefaultWindowSize
	}
	return &Buffer{window: NewRing[sensor.Sample](windowSize)}
}

// Append records s in the history and the live window, evicting the single
// oldest window entry when full.
func (b *Buffer) Append(s sensor.Sample) {
	b.history = append(b.history, s)
	b.window.Push(s)
}

// Reset clears the window and the history.
func (b *Buffer) Reset() {
	b.window.Clear()
	b.history = nil
}

// Window returns the live window in arrival order.
func (b *Buffer) Window() []sensor.Sample {
	return b.window.Values()
}

// All returns a copy of the full session history in arrival order.
func (b *Buffer) All() []sensor.Sample {
	if len(b.history) == 0 {
		return nil
	}
	out := make([]sensor.Sample, len(b.history))
	copy(out, b.history)
	return out
}

// Latest returns the newest sample, if any.
func (b *Buffer) Latest() (sensor.Sample, bool) {
	return b.window.Last()
}

// Len returns the live window length.
func (b *Buffer) Len() int { return b.window.Len() }

// HistoryLen returns the number of samples recorded since the last reset.
func (b *Buffer) HistoryLen() int { return len(b.history) }

// WindowSize returns the configured window capacity.
func (b *Buffer) WindowSize() int { return b.window.Cap() }
