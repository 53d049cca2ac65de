package app

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Record     key.Binding
	Pause      key.Binding
	Stop       key.Binding
	Reset      key.Binding
	Zoom       key.Binding
	Sensor1    key.Binding
	Sensor2    key.Binding
	Sensor3    key.Binding
	Up         key.Binding
	Down       key.Binding
	Overlay    key.Binding
	Threshold  key.Binding
	ThreshUp   key.Binding
	ThreshDown key.Binding
	Duration   key.Binding
	ExportCSV  key.Binding
	Screenshot key.Binding
	Report     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Record, k.Pause, k.Zoom, k.ExportCSV, k.Report, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Record, k.Pause, k.Stop, k.Reset, k.Duration},
		{k.Sensor1, k.Sensor2, k.Sensor3, k.Zoom},
		{k.Up, k.Down, k.Overlay},
		{k.Threshold, k.ThreshUp, k.ThreshDown},
		{k.ExportCSV, k.Screenshot, k.Report},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Record: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "record"),
	),
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause"),
	),
	Stop: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "stop"),
	),
	Reset: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "reset"),
	),
	Zoom: key.NewBinding(
		key.WithKeys("z"),
		key.WithHelp("z", "zoom"),
	),
	Sensor1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "sensor 1"),
	),
	Sensor2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "sensor 2"),
	),
	Sensor3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "sensor 3"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Overlay: key.NewBinding(
		key.WithKeys("enter", "o"),
		key.WithHelp("enter", "overlay"),
	),
	Threshold: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "threshold"),
	),
	ThreshUp: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "threshold up"),
	),
	ThreshDown: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "threshold down"),
	),
	Duration: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "duration"),
	),
	ExportCSV: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "csv"),
	),
	Screenshot: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "png"),
	),
	Report: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pdf"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
