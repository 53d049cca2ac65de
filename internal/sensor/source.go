package sensor

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"fsr-scope.klederson.com/internal/config"
	"fsr-scope.klederson.com/internal/logging"
)

// Sender delivers messages into the running program. *tea.Program
// satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Source is an external producer of readings. Start must not block; the
// source pushes SampleMsg and ConnectionMsg values through the sender from
// its own goroutine until Stop is called.
type Source interface {
	Start(s Sender) error
	Stop()
	Name() string
}

// NewSource builds the source selected by the settings.
func NewSource(cfg config.SourceSettings, log *logging.Logger) (Source, error) {
	switch cfg.Kind {
	case config.SourceDemo:
		return NewMockSource(cfg.SampleInterval()), nil
	case config.SourceStream:
		return NewStreamSource(cfg.Input, log), nil
	case config.SourceBLE:
		return NewBLESource(cfg.BLEName, cfg.BLEService, cfg.BLECharacteristic, log)
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Kind)
	}
}
