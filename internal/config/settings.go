package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Source kinds accepted by source.kind.
const (
	SourceDemo   = "demo"
	SourceStream = "stream"
	SourceBLE    = "ble"
)

// Settings is the runtime configuration, loaded through viper from flags,
// FSRSCOPE_* environment variables and an optional config.yaml.
type Settings struct {
	Source    SourceSettings    `mapstructure:"source"`
	Display   DisplaySettings   `mapstructure:"display"`
	Recording RecordingSettings `mapstructure:"recording"`
	Export    ExportSettings    `mapstructure:"export"`
	Datasets  DatasetSettings   `mapstructure:"datasets"`
	Logging   LoggingSettings   `mapstructure:"logging"`
}

// SourceSettings selects and parameterizes the sensor source.
type SourceSettings struct {
	// Kind is one of "demo", "stream", "ble"
	Kind string `mapstructure:"kind"`
	// Input is the file or device read by the stream source ("-" is stdin)
	Input string `mapstructure:"input"`
	// BLEName is the advertised local name of the sensor peripheral
	BLEName string `mapstructure:"ble_name"`
	// BLEService and BLECharacteristic are the UUIDs of the notify characteristic
	BLEService        string `mapstructure:"ble_service"`
	BLECharacteristic string `mapstructure:"ble_characteristic"`
	// IntervalMs is the demo source emission period
	IntervalMs int `mapstructure:"interval_ms"`
}

// DisplaySettings holds chart configuration fixed at startup.
type DisplaySettings struct {
	// WindowSize caps the live window; static for the process lifetime
	WindowSize int     `mapstructure:"window_size"`
	Threshold  float64 `mapstructure:"threshold"`
}

// RecordingSettings controls the recording timer.
type RecordingSettings struct {
	// DurationSec stops recording automatically once reached (0 = never)
	DurationSec int `mapstructure:"duration_sec"`
}

// ExportSettings controls where exports are written.
type ExportSettings struct {
	// Dir defaults to <data dir>/exports when empty
	Dir string `mapstructure:"dir"`
}

// DatasetSettings controls where historical overlays are discovered.
type DatasetSettings struct {
	// Dir defaults to the export directory when empty
	Dir string `mapstructure:"dir"`
}

// LoggingSettings controls the debug log.
type LoggingSettings struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		Source: SourceSettings{
			Kind:              SourceDemo,
			Input:             "-",
			BLEName:           "FSR-Sensor",
			BLEService:        "6e400001-b5a3-f393-e0a9-e50e24dcca9e", // Nordic UART service
			BLECharacteristic: "6e400003-b5a3-f393-e0a9-e50e24dcca9e", // NUS TX (notify)
			IntervalMs:        int(DefaultSampleInterval / time.Millisecond),
		},
		Display: DisplaySettings{
			WindowSize: DefaultWindowSize,
			Threshold:  DefaultThreshold,
		},
		Recording: RecordingSettings{
			DurationSec: int(DefaultRecordingDuration / time.Second),
		},
		Export:   ExportSettings{Dir: ""},
		Datasets: DatasetSettings{Dir: ""},
		Logging: LoggingSettings{
			Enabled: true,
			Level:   "info",
		},
	}
}

// SetDefaults registers every default with viper so that env overrides work
// for keys absent from the config file.
func SetDefaults() {
	d := Default()

	viper.SetDefault("source.kind", d.Source.Kind)
	viper.SetDefault("source.input", d.Source.Input)
	viper.SetDefault("source.ble_name", d.Source.BLEName)
	viper.SetDefault("source.ble_service", d.Source.BLEService)
	viper.SetDefault("source.ble_characteristic", d.Source.BLECharacteristic)
	viper.SetDefault("source.interval_ms", d.Source.IntervalMs)

	viper.SetDefault("display.window_size", d.Display.WindowSize)
	viper.SetDefault("display.threshold", d.Display.Threshold)

	viper.SetDefault("recording.duration_sec", d.Recording.DurationSec)

	viper.SetDefault("export.dir", d.Export.Dir)
	viper.SetDefault("datasets.dir", d.Datasets.Dir)

	viper.SetDefault("logging.enabled", d.Logging.Enabled)
	viper.SetDefault("logging.level", d.Logging.Level)
}

// Load unmarshals the current viper state and validates it.
func Load() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate reports the first invalid field.
func (s *Settings) Validate() error {
	switch s.Source.Kind {
	case SourceDemo, SourceStream, SourceBLE:
	default:
		return fmt.Errorf("source.kind: unknown source %q (want demo, stream or ble)", s.Source.Kind)
	}
	if s.Source.Kind == SourceStream && s.Source.Input == "" {
		return fmt.Errorf("source.input: required for the stream source")
	}
	if s.Source.Kind == SourceBLE && s.Source.BLEName == "" {
		return fmt.Errorf("source.ble_name: required for the ble source")
	}
	if s.Source.IntervalMs <= 0 {
		return fmt.Errorf("source.interval_ms: must be positive, got %d", s.Source.IntervalMs)
	}
	if s.Display.WindowSize < 2 {
		return fmt.Errorf("display.window_size: must be at least 2, got %d", s.Display.WindowSize)
	}
	if math.IsNaN(s.Display.Threshold) || s.Display.Threshold < ValueMin || s.Display.Threshold > ValueMax {
		return fmt.Errorf("display.threshold: %.0f outside %.0f-%.0f", s.Display.Threshold, ValueMin, ValueMax)
	}
	if s.Recording.DurationSec < 0 {
		return fmt.Errorf("recording.duration_sec: must not be negative")
	}
	switch strings.ToUpper(s.Logging.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("logging.level: unknown level %q", s.Logging.Level)
	}
	return nil
}

// SampleInterval returns the demo emission period.
func (s *SourceSettings) SampleInterval() time.Duration {
	return time.Duration(s.IntervalMs) * time.Millisecond
}

// RecordingDuration returns the auto-stop duration (0 = disabled).
func (r *RecordingSettings) RecordingDuration() time.Duration {
	return time.Duration(r.DurationSec) * time.Second
}

// ExportDir resolves the export directory.
func (s *Settings) ExportDir() string {
	if s.Export.Dir == "" {
		return filepath.Join(DataDir(), "exports")
	}
	return expandHome(s.Export.Dir)
}

// DatasetDir resolves the overlay dataset directory.
func (s *Settings) DatasetDir() string {
	if s.Datasets.Dir == "" {
		return s.ExportDir()
	}
	return expandHome(s.Datasets.Dir)
}

// ConfigDir returns the directory searched for config.yaml.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fsr-scope")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fsr-scope"
	}
	return filepath.Join(home, ".config", "fsr-scope")
}

// DataDir returns the directory holding the debug log and default exports.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fsr-scope"
	}
	return filepath.Join(home, ".fsr-scope")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
