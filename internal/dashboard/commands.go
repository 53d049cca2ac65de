package dashboard

import (
	"time"

	"fsr-scope.klederson.com/internal/overlay"
	"fsr-scope.klederson.com/internal/sensor"
)

// Command is one user or source event. Commands are applied one at a time,
// in arrival order, by Controller.Apply.
type Command interface {
	command()
}

type (
	// AppendSample offers a reading from the source.
	AppendSample struct{ Sample sensor.Sample }
	// Reset clears readings, selection, overlays and the recording timer.
	Reset struct{}

	// DragStart, DragMove and DragEnd carry the chart label under the
	// pointer; an empty label means the pointer is outside the plot.
	DragStart  struct{ Label string }
	DragMove   struct{ Label string }
	DragEnd    struct{}
	ToggleZoom struct{}

	ToggleSensor struct{ Channel int }
	AddOverlay   struct {
		Dataset overlay.Dataset
		Samples []sensor.Sample
	}
	RemoveOverlay struct{ ID string }
	SetThreshold  struct{ Value float64 }
	// SetDuration changes the auto-stop duration; 0 disables it.
	SetDuration   struct{ Value time.Duration }

	ToggleRecording struct{}
	TogglePause     struct{}
	StopRecording   struct{}

	SetConnected struct {
		Source    string
		Connected bool
		Err       error
	}
	// Tick advances the recording timer to Now.
	Tick struct{ Now time.Time }
)

func (AppendSample) command()    {}
func (Reset) command()           {}
func (DragStart) command()       {}
func (DragMove) command()        {}
func (DragEnd) command()         {}
func (ToggleZoom) command()      {}
func (ToggleSensor) command()    {}
func (AddOverlay) command()      {}
func (RemoveOverlay) command()   {}
func (SetThreshold) command()    {}
func (SetDuration) command()     {}
func (ToggleRecording) command() {}
func (TogglePause) command()     {}
func (StopRecording) command()   {}
func (SetConnected) command()    {}
func (Tick) command()            {}
