// Package sensor holds the reading type shared by every package and the
// sources that deliver readings to the Bubble Tea program.
package sensor

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"fsr-scope.klederson.com/internal/config"
)

// LabelLayout formats live sample labels.
const LabelLayout = "15:04:05"

// Sample is one reading of all channels. Label is the category shown on the
// time axis and is not required to be unique.
type Sample struct {
	Timestamp int64 // epoch milliseconds
	Label     string
	Values    [config.ChannelCount]float64
}

// NewSample stamps values with t.
func NewSample(t time.Time, values [config.ChannelCount]float64) Sample {
	return Sample{
		Timestamp: t.UnixMilli(),
		Label:     t.Format(LabelLayout),
		Values:    values,
	}
}

// Time returns the sample timestamp as a time.Time.
func (s Sample) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// Channel returns one channel value, or 0 for an out-of-range index.
func (s Sample) Channel(i int) float64 {
	if i < 0 || i >= len(s.Values) {
		return 0
	}
	return s.Values[i]
}

// PreviewSamples returns n placeholder readings spaced one second apart and
// ending just before now, labelled 00:00, 00:01, ... They fill the chart
// until a source connects.
func PreviewSamples(now time.Time, n int) []Sample {
	out := make([]Sample, n)
	for i := range out {
		out[i] = Sample{
			Timestamp: now.Add(-time.Duration(n-i) * time.Second).UnixMilli(),
			Label:     fmt.Sprintf("00:%02d", i),
			Values: [config.ChannelCount]float64{
				rand.Float64()*2000 + 1000,
				rand.Float64()*2000 + 500,
				rand.Float64()*2000 + 800,
			},
		}
	}
	return out
}

// Clamp limits v to the ADC range. NaN maps to the range floor.
func Clamp(v float64) float64 {
	if math.IsNaN(v) || v < config.ValueMin {
		return config.ValueMin
	}
	if v > config.ValueMax {
		return config.ValueMax
	}
	return v
}
