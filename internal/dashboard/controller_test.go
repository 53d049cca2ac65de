package dashboard

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"fsr-scope.klederson.com/internal/overlay"
	"fsr-scope.klederson.com/internal/sensor"
	"fsr-scope.klederson.com/internal/zoom"
)

func sample(i int, v float64) sensor.Sample {
	return sensor.Sample{
		Timestamp: int64(i) * 1000,
		Label:     fmt.Sprintf("00:%02d", i),
		Values:    [3]float64{v, v, v},
	}
}

// recordingController returns a connected controller that is recording.
func recordingController(t *testing.T, opts Options) *Controller {
	t.Helper()
	if opts.WindowSize == 0 {
		opts.WindowSize = 30
	}
	c := New(opts, nil)
	c.Apply(SetConnected{Source: "test", Connected: true})
	c.Apply(ToggleRecording{})
	if !c.Recording() {
		t.Fatal("recording did not start")
	}
	return c
}

func fill(c *Controller, n int) {
	for i := 0; i < n; i++ {
		c.Apply(AppendSample{Sample: sample(i, float64(i))})
	}
}

func TestAppendGating(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Controller)
		want  int
	}{
		{"disconnected", func(c *Controller) { c.Apply(ToggleRecording{}) }, 0},
		{"not recording", func(c *Controller) { c.Apply(SetConnected{Connected: true}) }, 0},
		{"paused", func(c *Controller) {
			c.Apply(SetConnected{Connected: true})
			c.Apply(ToggleRecording{})
			c.Apply(TogglePause{})
		}, 0},
		{"recording", func(c *Controller) {
			c.Apply(SetConnected{Connected: true})
			c.Apply(ToggleRecording{})
		}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Options{WindowSize: 30}, nil)
			tt.setup(c)
			fill(c, 3)
			if got := len(c.History()); got != tt.want {
				t.Errorf("history = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWindowCappedHistoryComplete(t *testing.T) {
	c := recordingController(t, Options{WindowSize: 30})
	fill(c, 45)
	if len(c.Window()) != 30 {
		t.Errorf("window = %d, want 30", len(c.Window()))
	}
	if len(c.History()) != 45 {
		t.Errorf("history = %d, want 45", len(c.History()))
	}
}

func TestPreviewReplacedByFirstReading(t *testing.T) {
	c := New(Options{WindowSize: 30}, nil)
	c.SeedPreview(sensor.PreviewSamples(time.Now(), 10))
	if !c.Preview() || len(c.Window()) != 10 {
		t.Fatalf("preview not seeded: preview=%v len=%d", c.Preview(), len(c.Window()))
	}

	c.Apply(SetConnected{Connected: true})
	c.Apply(ToggleRecording{})
	c.Apply(AppendSample{Sample: sample(1, 100)})

	if c.Preview() {
		t.Error("preview flag still set")
	}
	if h := c.History(); len(h) != 1 || h[0].Values[0] != 100 {
		t.Errorf("history = %+v, want only the real reading", h)
	}

	c.SeedPreview(sensor.PreviewSamples(time.Now(), 10))
	if len(c.History()) != 1 {
		t.Error("preview seeded while connected")
	}
}

func TestDragToZoom(t *testing.T) {
	c := recordingController(t, Options{})
	fill(c, 30)

	c.Apply(DragStart{Label: "00:05"})
	if !c.Drag().Active {
		t.Fatal("drag not active after start")
	}
	c.Apply(DragMove{Label: "00:12"})
	notices := c.Apply(DragEnd{})

	sel, ok := c.Selection()
	if !ok || sel != (zoom.Range{Start: 5, End: 12}) {
		t.Fatalf("selection = %+v, %v", sel, ok)
	}
	if !c.Zoomed() {
		t.Error("zoomed flag not set")
	}
	if c.Drag() != (zoom.Drag{}) {
		t.Error("drag not cleared")
	}
	if len(notices) != 1 || !strings.Contains(notices[0].Body, "00:05 - 00:12") {
		t.Errorf("notices = %+v", notices)
	}

	view := c.WindowedView()
	if len(view) != 8 || view[0].Label != "00:05" || view[7].Label != "00:12" {
		t.Errorf("windowed view = %d samples from %s", len(view), view[0].Label)
	}
}

func TestDragWithoutMoveIsSilent(t *testing.T) {
	c := recordingController(t, Options{})
	fill(c, 10)

	c.Apply(DragStart{Label: "00:03"})
	if n := c.Apply(DragEnd{}); len(n) != 0 {
		t.Errorf("notices = %+v", n)
	}
	if _, ok := c.Selection(); ok {
		t.Error("selection committed")
	}
	if len(c.WindowedView()) != 10 {
		t.Error("view narrowed without selection")
	}
}

func TestToggleZoom(t *testing.T) {
	c := recordingController(t, Options{})
	fill(c, 10)

	c.Apply(ToggleZoom{})
	if !c.Zoomed() || len(c.WindowedView()) != 10 {
		t.Errorf("toggle without selection: zoomed=%v view=%d", c.Zoomed(), len(c.WindowedView()))
	}
	c.Apply(ToggleZoom{})

	c.Apply(DragStart{Label: "00:02"})
	c.Apply(DragMove{Label: "00:04"})
	c.Apply(DragEnd{})
	c.Apply(ToggleZoom{})
	if _, ok := c.Selection(); ok || c.Zoomed() {
		t.Error("toggle with selection should clear it")
	}
}

func TestResetClearsEverything(t *testing.T) {
	c := recordingController(t, Options{})
	fill(c, 20)
	c.Apply(DragStart{Label: "00:01"})
	c.Apply(DragMove{Label: "00:09"})
	c.Apply(DragEnd{})
	c.Apply(AddOverlay{Dataset: overlay.Dataset{ID: "a", Label: "A"}, Samples: []sensor.Sample{sample(0, 1)}})

	for i := 0; i < 2; i++ {
		n := c.Apply(Reset{})
		if len(n) != 1 || n[0].Title != "Reset" {
			t.Errorf("reset notices = %+v", n)
		}
		if len(c.Window()) != 0 || len(c.History()) != 0 {
			t.Error("buffer not cleared")
		}
		if _, ok := c.Selection(); ok || c.Zoomed() {
			t.Error("zoom not cleared")
		}
		if len(c.Overlays()) != 0 {
			t.Error("overlays not cleared")
		}
		if c.Elapsed() != 0 {
			t.Error("timer not cleared")
		}
	}
	if !c.Metrics().Empty() {
		t.Error("metrics not empty after reset")
	}
}

func TestOverlaysToggle(t *testing.T) {
	c := New(Options{}, nil)
	ds := overlay.Dataset{ID: "session1", Label: "data_20250115_1430.csv"}

	n := c.Apply(AddOverlay{Dataset: ds, Samples: []sensor.Sample{sample(0, 1)}})
	if len(n) != 1 || !c.HasOverlay("session1") {
		t.Fatalf("overlay not added: %+v", n)
	}
	if n := c.Apply(AddOverlay{Dataset: ds, Samples: []sensor.Sample{sample(0, 2), sample(1, 3)}}); len(n) != 0 {
		t.Error("re-adding produced a notice")
	}
	if len(c.Overlays()) != 1 || len(c.Overlays()[0].Samples) != 2 {
		t.Errorf("overlays = %+v", c.Overlays())
	}

	c.Apply(AddOverlay{Dataset: overlay.Dataset{ID: "b"}})
	c.Apply(RemoveOverlay{ID: "session1"})
	if c.HasOverlay("session1") || !c.HasOverlay("b") {
		t.Error("wrong overlay removed")
	}
	if n := c.Apply(RemoveOverlay{ID: "missing"}); n != nil {
		t.Error("removing an unknown overlay produced a notice")
	}
}

func TestSensorVisibilityAndThreshold(t *testing.T) {
	c := New(Options{Threshold: 2048}, nil)
	c.Apply(ToggleSensor{Channel: 1})
	c.Apply(ToggleSensor{Channel: 7})
	if c.Visible() != [3]bool{true, false, true} {
		t.Errorf("visible = %v", c.Visible())
	}

	tests := []struct{ in, want float64 }{{1000, 1000}, {-3, 0}, {9000, 4095}}
	for _, tt := range tests {
		c.Apply(SetThreshold{Value: tt.in})
		if c.Threshold() != tt.want {
			t.Errorf("SetThreshold(%v) -> %v, want %v", tt.in, c.Threshold(), tt.want)
		}
	}

	c.Apply(SetThreshold{Value: math.NaN()})
	if c.Threshold() != 4095 {
		t.Errorf("NaN threshold applied: %v", c.Threshold())
	}
}

func TestSetDurationChangesAutoStop(t *testing.T) {
	start := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	clock := start

	c := New(Options{RecordingDuration: time.Minute}, nil)
	c.now = func() time.Time { return clock }

	n := c.Apply(SetDuration{Value: 5 * time.Second})
	if c.Duration() != 5*time.Second || len(n) != 1 || n[0].Body != "0:05" {
		t.Fatalf("duration = %v, notices = %+v", c.Duration(), n)
	}

	c.Apply(ToggleRecording{})
	clock = start.Add(6 * time.Second)
	c.Apply(Tick{Now: clock})
	if c.Recording() {
		t.Fatal("recording did not stop at the new duration")
	}

	n = c.Apply(SetDuration{Value: 0})
	if c.Duration() != 0 || len(n) != 1 || n[0].Body != "No limit" {
		t.Fatalf("duration = %v, notices = %+v", c.Duration(), n)
	}
	c.Apply(ToggleRecording{})
	clock = start.Add(time.Hour)
	c.Apply(Tick{Now: clock})
	if !c.Recording() {
		t.Error("unlimited recording stopped")
	}

	c.Apply(SetDuration{Value: -time.Second})
	if c.Duration() != 0 {
		t.Errorf("negative duration = %v", c.Duration())
	}
}

func TestRecordingTimer(t *testing.T) {
	start := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	clock := start

	c := New(Options{RecordingDuration: 10 * time.Second}, nil)
	c.now = func() time.Time { return clock }
	c.Apply(SetConnected{Connected: true})
	c.Apply(ToggleRecording{})

	clock = start.Add(3 * time.Second)
	c.Apply(Tick{Now: clock})
	if c.Elapsed() != 3*time.Second {
		t.Fatalf("elapsed = %v, want 3s", c.Elapsed())
	}

	c.Apply(TogglePause{})
	clock = start.Add(8 * time.Second)
	c.Apply(Tick{Now: clock})
	if c.Elapsed() != 3*time.Second {
		t.Fatalf("elapsed while paused = %v, want 3s", c.Elapsed())
	}

	c.Apply(TogglePause{})
	clock = start.Add(20 * time.Second)
	n := c.Apply(Tick{Now: clock})
	if c.Recording() {
		t.Fatal("recording did not auto-stop at the configured duration")
	}
	if c.Elapsed() != 10*time.Second {
		t.Errorf("elapsed = %v, want capped at 10s", c.Elapsed())
	}
	if len(n) != 1 || n[0].Level != LevelSuccess {
		t.Errorf("auto-stop notices = %+v", n)
	}

	c.Apply(ToggleRecording{})
	if c.Elapsed() != 0 || c.Paused() {
		t.Error("starting a recording must reset the timer and pause flag")
	}
}

func TestStopAndPauseRequireRecording(t *testing.T) {
	c := New(Options{}, nil)
	if n := c.Apply(TogglePause{}); n != nil || c.Paused() {
		t.Error("pause applied while not recording")
	}
	if n := c.Apply(StopRecording{}); n != nil {
		t.Error("stop produced a notice while not recording")
	}

	c.Apply(ToggleRecording{})
	c.Apply(TogglePause{})
	c.Apply(StopRecording{})
	if c.Recording() || c.Paused() {
		t.Error("stop must clear recording and pause")
	}
}

func TestConnectionNotices(t *testing.T) {
	c := New(Options{}, nil)

	n := c.Apply(SetConnected{Source: "demo", Connected: true})
	if len(n) != 1 || n[0].Level != LevelSuccess || !c.Connected() || c.Source() != "demo" {
		t.Errorf("connect: %+v", n)
	}
	if n := c.Apply(SetConnected{Source: "demo", Connected: true}); n != nil {
		t.Error("repeated connect produced a notice")
	}

	n = c.Apply(SetConnected{Source: "demo", Connected: false, Err: errors.New("eof")})
	if len(n) != 1 || n[0].Level != LevelError || c.Connected() {
		t.Errorf("failure: %+v", n)
	}

	c.Apply(SetConnected{Source: "x", Connected: true})
	n = c.Apply(SetConnected{Source: "x", Connected: false})
	if len(n) != 1 || n[0].Level != LevelWarning {
		t.Errorf("disconnect: %+v", n)
	}
}

func TestMetricsOverHistory(t *testing.T) {
	c := recordingController(t, Options{WindowSize: 2})
	for i, v := range []float64{1000, 800, 1400, 1200} {
		c.Apply(AppendSample{Sample: sample(i, v)})
	}
	m := c.Metrics()
	if m.Count != 4 || m.Channels[0].Median != 1200 || m.Channels[0].Mean != 1100 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{59 * time.Second, "0:59"},
		{61*time.Second + 900*time.Millisecond, "1:01"},
		{10 * time.Minute, "10:00"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
