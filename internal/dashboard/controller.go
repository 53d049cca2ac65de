// Package dashboard owns the application state: the reading buffer, the zoom
// selection, overlays, threshold, sensor visibility and the recording
// session. Every change goes through Apply, one command at a time.
package dashboard

import (
	"errors"
	"fmt"
	"math"
	"time"

	"fsr-scope.klederson.com/internal/buffer"
	"fsr-scope.klederson.com/internal/config"
	"fsr-scope.klederson.com/internal/logging"
	"fsr-scope.klederson.com/internal/overlay"
	"fsr-scope.klederson.com/internal/sensor"
	"fsr-scope.klederson.com/internal/zoom"
)

// Options configures a Controller. Fixed for its lifetime.
type Options struct {
	WindowSize        int
	Threshold         float64
	RecordingDuration time.Duration // 0 disables auto-stop
}

// Overlay is a loaded historical dataset.
type Overlay struct {
	Dataset overlay.Dataset
	Samples []sensor.Sample
}

// Controller holds the dashboard state. Not safe for concurrent use; the
// Bubble Tea update loop is its only caller.
type Controller struct {
	buf       *buffer.Buffer
	zoom      zoom.Controller
	visible   [config.ChannelCount]bool
	overlays  []Overlay
	threshold float64

	source    string
	connected bool
	preview   bool

	recording bool
	paused    bool
	elapsed   time.Duration
	lastTick  time.Time
	duration  time.Duration

	now func() time.Time
	log *logging.Logger
}

// New creates a controller with every channel visible.
func New(opts Options, log *logging.Logger) *Controller {
	if log == nil {
		log = logging.NopLogger()
	}
	c := &Controller{
		buf:       buffer.New(opts.WindowSize),
		threshold: clampThreshold(opts.Threshold),
		duration:  opts.RecordingDuration,
		now:       time.Now,
		log:       log.WithComponent("dashboard"),
	}
	for i := range c.visible {
		c.visible[i] = true
	}
	return c
}

// SeedPreview fills the buffer with placeholder readings while no source is
// connected. They are discarded on the first real reading.
func (c *Controller) SeedPreview(samples []sensor.Sample) {
	if c.connected {
		return
	}
	c.buf.Reset()
	for _, s := range samples {
		c.buf.Append(s)
	}
	c.preview = len(samples) > 0
}

// Apply executes cmd and returns the notices it produced.
func (c *Controller) Apply(cmd Command) []Notice {
	switch cmd := cmd.(type) {
	case AppendSample:
		c.appendSample(cmd.Sample)
	case Reset:
		return c.reset()
	case DragStart:
		c.zoom.PointerDown(cmd.Label)
	case DragMove:
		c.zoom.PointerMove(cmd.Label)
	case DragEnd:
		return c.dragEnd()
	case ToggleZoom:
		c.zoom.Toggle()
	case ToggleSensor:
		if cmd.Channel >= 0 && cmd.Channel < len(c.visible) {
			c.visible[cmd.Channel] = !c.visible[cmd.Channel]
		}
	case AddOverlay:
		return c.addOverlay(cmd.Dataset, cmd.Samples)
	case RemoveOverlay:
		return c.removeOverlay(cmd.ID)
	case SetThreshold:
		if !math.IsNaN(cmd.Value) {
			c.threshold = clampThreshold(cmd.Value)
		}
	case SetDuration:
		return c.setDuration(cmd.Value)
	case ToggleRecording:
		return c.toggleRecording()
	case TogglePause:
		return c.togglePause()
	case StopRecording:
		return c.stopRecording(success("Recording finished", "Session saved"))
	case SetConnected:
		return c.setConnected(cmd)
	case Tick:
		return c.tick(cmd.Now)
	default:
		c.log.Warn("unknown command", "type", fmt.Sprintf("%T", cmd))
	}
	return nil
}

// Readings are kept only while connected, recording and not paused.
// Anything else is dropped.
func (c *Controller) appendSample(s sensor.Sample) {
	if !c.connected || !c.recording || c.paused {
		return
	}
	if c.preview {
		c.buf.Reset()
		c.zoom.Clear()
		c.preview = false
	}
	c.buf.Append(s)
}

func (c *Controller) reset() []Notice {
	c.buf.Reset()
	c.zoom.Clear()
	c.overlays = nil
	c.preview = false
	c.elapsed = 0
	c.lastTick = time.Time{}
	c.log.Info("dashboard reset")
	return []Notice{info("Reset", "All data cleared")}
}

func (c *Controller) dragEnd() []Notice {
	labels := labelsOf(c.buf.Window())
	r, err := c.zoom.PointerUp(labels)
	if err != nil {
		if !errors.Is(err, zoom.ErrNoDrag) {
			c.log.Debug("selection not applied", "reason", err)
		}
		return nil
	}
	c.log.Debug("zoom applied", "start", r.Start, "end", r.End)
	return []Notice{info("Zoom applied", fmt.Sprintf("Selected %s - %s", labels[r.Start], labels[r.End]))}
}

func (c *Controller) addOverlay(ds overlay.Dataset, samples []sensor.Sample) []Notice {
	for i, o := range c.overlays {
		if o.Dataset.ID == ds.ID {
			c.overlays[i].Samples = samples
			return nil
		}
	}
	c.overlays = append(c.overlays, Overlay{Dataset: ds, Samples: samples})
	return []Notice{info("Dataset added", ds.Label+" shown dashed")}
}

func (c *Controller) removeOverlay(id string) []Notice {
	for i, o := range c.overlays {
		if o.Dataset.ID == id {
			c.overlays = append(c.overlays[:i:i], c.overlays[i+1:]...)
			return []Notice{info("Dataset removed", o.Dataset.Label+" hidden")}
		}
	}
	return nil
}

func (c *Controller) toggleRecording() []Notice {
	if c.recording {
		return c.stopRecording(info("Recording stopped", "Data capture ended"))
	}
	c.recording = true
	c.paused = false
	c.elapsed = 0
	c.lastTick = c.now()
	c.log.Info("recording started", "source", c.source)
	return []Notice{success("Recording started", "Readings are now being recorded")}
}

func (c *Controller) togglePause() []Notice {
	if !c.recording {
		return nil
	}
	c.paused = !c.paused
	c.lastTick = c.now()
	title := "Recording paused"
	if !c.paused {
		title = "Recording resumed"
	}
	return []Notice{info(title, "Elapsed "+FormatElapsed(c.elapsed))}
}

func (c *Controller) stopRecording(n Notice) []Notice {
	if !c.recording {
		return nil
	}
	c.recording = false
	c.paused = false
	c.log.Info("recording stopped", "elapsed", c.elapsed.String(), "samples", c.buf.HistoryLen())
	return []Notice{n}
}

func (c *Controller) setConnected(cmd SetConnected) []Notice {
	was := c.connected
	c.connected = cmd.Connected
	c.source = cmd.Source

	switch {
	case cmd.Connected && !was:
		c.log.Info("source connected", "source", cmd.Source)
		return []Notice{success("Connected", cmd.Source)}
	case !cmd.Connected && cmd.Err != nil:
		c.log.Warn("source failed", "source", cmd.Source, "error", cmd.Err)
		return []Notice{{Title: "Source error", Body: cmd.Err.Error(), Level: LevelError}}
	case !cmd.Connected && was:
		c.log.Info("source disconnected", "source", cmd.Source)
		return []Notice{warning("Disconnected", cmd.Source)}
	}
	return nil
}

func (c *Controller) setDuration(d time.Duration) []Notice {
	c.duration = max(d, 0)
	c.log.Info("recording duration changed", "duration", c.duration.String())
	if c.duration == 0 {
		return []Notice{info("Recording duration", "No limit")}
	}
	return []Notice{info("Recording duration", FormatElapsed(c.duration))}
}

func (c *Controller) tick(now time.Time) []Notice {
	if c.recording && !c.paused && !c.lastTick.IsZero() && now.After(c.lastTick) {
		c.elapsed += now.Sub(c.lastTick)
	}
	c.lastTick = now

	if c.recording && c.duration > 0 && c.elapsed >= c.duration {
		c.elapsed = c.duration
		return c.stopRecording(success("Recording finished", "Reached "+FormatElapsed(c.duration)))
	}
	return nil
}

func labelsOf(samples []sensor.Sample) []string {
	out := make([]string, len(samples))
	for i, s := range samples {
		out[i] = s.Label
	}
	return out
}

func clampThreshold(v float64) float64 {
	return sensor.Clamp(v)
}

// WindowedView returns the live window narrowed to the committed selection.
func (c *Controller) WindowedView() []sensor.Sample {
	sel, ok := c.zoom.Selection()
	return zoom.Slice(c.buf.Window(), sel, ok)
}

// Window returns the whole live window.
func (c *Controller) Window() []sensor.Sample { return c.buf.Window() }

// WindowSize returns the live window capacity.
func (c *Controller) WindowSize() int { return c.buf.WindowSize() }

// History returns every reading recorded since the last reset.
func (c *Controller) History() []sensor.Sample { return c.buf.All() }

// Latest returns the newest reading, if any.
func (c *Controller) Latest() (sensor.Sample, bool) { return c.buf.Latest() }

// Metrics summarizes the full history.
func (c *Controller) Metrics() buffer.Metrics { return buffer.ComputeMetrics(c.buf.All()) }

// Selection returns the committed zoom range.
func (c *Controller) Selection() (zoom.Range, bool) { return c.zoom.Selection() }

// Drag returns the zoom gesture in progress.
func (c *Controller) Drag() zoom.Drag { return c.zoom.Drag() }

// Zoomed reports the presentational zoomed flag.
func (c *Controller) Zoomed() bool { return c.zoom.Zoomed() }

// Visible reports per-channel visibility.
func (c *Controller) Visible() [config.ChannelCount]bool { return c.visible }

// Overlays returns the active overlays in the order they were added.
func (c *Controller) Overlays() []Overlay { return c.overlays }

// HasOverlay reports whether the dataset is currently shown.
func (c *Controller) HasOverlay(id string) bool {
	for _, o := range c.overlays {
		if o.Dataset.ID == id {
			return true
		}
	}
	return false
}

// Threshold returns the alert threshold.
func (c *Controller) Threshold() float64 { return c.threshold }

// Connected reports whether a source is delivering readings.
func (c *Controller) Connected() bool { return c.connected }

// Source names the current source.
func (c *Controller) Source() string { return c.source }

// Preview reports whether the buffer holds placeholder readings.
func (c *Controller) Preview() bool { return c.preview }

// Recording reports whether readings are being recorded.
func (c *Controller) Recording() bool { return c.recording }

// Paused reports whether recording is paused.
func (c *Controller) Paused() bool { return c.paused }

// Elapsed returns the recording time, excluding pauses.
func (c *Controller) Elapsed() time.Duration { return c.elapsed }

// Duration returns the auto-stop duration, 0 when disabled.
func (c *Controller) Duration() time.Duration { return c.duration }

// FormatElapsed renders d as M:SS.
func FormatElapsed(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
