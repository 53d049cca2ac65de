package buffer

import (
	"math"
	"slices"

	"fsr-scope.klederson.com/internal/config"
	"fsr-scope.klederson.com/internal/sensor"
)

// ChannelStats summarizes one channel.
type ChannelStats struct {
	Mean   float64
	Median float64
}

// Metrics holds per-channel statistics. With Count == 0 every field is NaN.
type Metrics struct {
	Count    int
	Channels [config.ChannelCount]ChannelStats
}

// Empty reports whether the metrics were computed over no samples.
func (m Metrics) Empty() bool { return m.Count == 0 }

// ComputeMetrics returns the arithmetic mean and median of each channel.
// The median is the element at index n/2 of the sorted values, so for an
// even count it is the upper of the two middle values, not their average.
func ComputeMetrics(samples []sensor.Sample) Metrics {
	m := Metrics{Count: len(samples)}
	if len(samples) == 0 {
		for i := range m.Channels {
			m.Channels[i] = ChannelStats{Mean: math.NaN(), Median: math.NaN()}
		}
		return m
	}

	values := make([]float64, len(samples))
	for ch := range m.Channels {
		sum := 0.0
		for i, s := range samples {
			values[i] = s.Values[ch]
			sum += s.Values[ch]
		}
		slices.Sort(values)
		m.Channels[ch] = ChannelStats{
			Mean:   sum / float64(len(samples)),
			Median: values[len(values)/2],
		}
	}
	return m
}
