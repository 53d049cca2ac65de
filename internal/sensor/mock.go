package sensor

import (
	"context"
	"math"
	"math/rand"
	"time"

	"fsr-scope.klederson.com/internal/config"
)

// MockName identifies the demo source in notices and logs.
const MockName = "demo"

type mockChannel struct {
	base      float64
	amplitude float64
	phase     float64
	speed     float64 // radians per second
}

// MockSource synthesizes pressure-like readings for demo mode.
type MockSource struct {
	interval time.Duration
	channels [config.ChannelCount]mockChannel
	now      func() time.Time
	cancel   context.CancelFunc
}

// NewMockSource creates a demo source emitting one sample per interval.
func NewMockSource(interval time.Duration) *MockSource {
	if interval <= 0 {
		interval = config.DefaultSampleInterval
	}
	s := &MockSource{interval: interval, now: time.Now}
	for i := range s.channels {
		s.channels[i] = mockChannel{
			base:      1200 + rand.Float64()*1200, // 1200 to 2400
			amplitude: 400 + rand.Float64()*800,
			phase:     rand.Float64() * 2 * math.Pi,
			speed:     0.2 + rand.Float64()*0.4,
		}
	}
	return s
}

func (s *MockSource) Name() string { return MockName }

// Start announces the connection and begins emitting in a goroutine.
func (s *MockSource) Start(out Sender) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	// Send blocks until the program runs, so announce from the goroutine
	go func() {
		out.Send(ConnectionMsg{Source: MockName, Connected: true})
		s.loop(ctx, out)
	}()
	return nil
}

func (s *MockSource) loop(ctx context.Context, out Sender) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	t := 0.0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t += s.interval.Seconds()
			out.Send(SampleMsg{Sample: NewSample(s.now(), s.values(t))})
		}
	}
}

// values returns the reading at t seconds: a sinusoid plus noise per
// channel, clamped to the ADC range.
func (s *MockSource) values(t float64) [config.ChannelCount]float64 {
	var v [config.ChannelCount]float64
	for i, c := range s.channels {
		raw := c.base + c.amplitude*math.Sin(t*c.speed+c.phase) + (rand.Float64()-0.5)*120
		v[i] = math.Round(Clamp(raw))
	}
	return v
}

// Stop halts the emitter. Safe to call before Start.
func (s *MockSource) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}
