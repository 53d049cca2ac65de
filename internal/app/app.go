package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fsr-scope.klederson.com/internal/config"
	"fsr-scope.klederson.com/internal/dashboard"
	"fsr-scope.klederson.com/internal/export"
	"fsr-scope.klederson.com/internal/logging"
	"fsr-scope.klederson.com/internal/overlay"
	"fsr-scope.klederson.com/internal/sensor"
	"fsr-scope.klederson.com/internal/ui"
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	ctrl     *dashboard.Controller
	exporter *export.Exporter
	source   sensor.Source
	watcher  *overlay.Watcher
	log      *logging.Logger
}

// Options wires the model to its collaborators.
type Options struct {
	Settings *config.Settings
	Source   sensor.Source
	Exporter *export.Exporter
	Watcher  *overlay.Watcher // nil disables live catalog updates
	Datasets []overlay.Dataset
	Log      *logging.Logger
}

// AppModel is the root Bubble Tea model for the dashboard.
type AppModel struct {
	width  int
	height int

	help      help.Model
	threshold textinput.Model
	editing   bool

	datasets []overlay.Dataset
	cursor   int

	notice    *dashboard.Notice
	noticeSeq int

	exportDir string
	now       func() time.Time

	shared *shared
}

// New creates the model and seeds the preview readings shown until the
// source connects.
func New(opts Options) AppModel {
	s := opts.Settings
	if s == nil {
		s = config.Default()
	}
	log := opts.Log
	if log == nil {
		log = logging.NopLogger()
	}

	ctrl := dashboard.New(dashboard.Options{
		WindowSize:        s.Display.WindowSize,
		Threshold:         s.Display.Threshold,
		RecordingDuration: s.Recording.RecordingDuration(),
	}, log)
	ctrl.SeedPreview(sensor.PreviewSamples(time.Now(), config.PreviewSamples))

	exp := opts.Exporter
	if exp == nil {
		exp = export.NewExporter(s.ExportDir(), nil, log)
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "0-4095"
	ti.CharLimit = 6
	ti.Width = 8

	return AppModel{
		help:      help.New(),
		threshold: ti,
		datasets:  opts.Datasets,
		exportDir: exp.Dir,
		now:       time.Now,
		shared: &shared{
			ctrl:     ctrl,
			exporter: exp,
			source:   opts.Source,
			watcher:  opts.Watcher,
			log:      log.WithComponent("app"),
		},
	}
}

func (m AppModel) Init() tea.Cmd {
	return tickCmd()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.handleThresholdInput(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if cmd := m.mouseCommand(msg); cmd != nil {
			return m.apply(cmd)
		}
		return m, nil

	case TickMsg:
		next, cmd := m.apply(dashboard.Tick{Now: time.Time(msg)})
		return next, tea.Batch(cmd, tickCmd())

	case sensor.SampleMsg:
		return m.apply(dashboard.AppendSample{Sample: msg.Sample})

	case sensor.ConnectionMsg:
		return m.apply(dashboard.SetConnected{Source: msg.Source, Connected: msg.Connected, Err: msg.Err})

	case overlay.CatalogChangedMsg:
		m.datasets = msg.Datasets
		m.cursor = max(0, min(m.cursor, len(m.datasets)-1))
		return m, nil

	case OverlayLoadedMsg:
		if msg.Err != nil {
			m.shared.log.Warn("overlay load failed", "dataset", msg.Dataset.ID, "error", msg.Err)
			return m.notify(dashboard.ErrorNotice("Dataset unavailable", msg.Err))
		}
		return m.apply(dashboard.AddOverlay{Dataset: msg.Dataset, Samples: msg.Samples})

	case ExportResultMsg:
		if msg.Err != nil {
			return m.notify(dashboard.ErrorNotice("Export failed", msg.Err))
		}
		return m.notify(dashboard.SuccessNotice(exportTitle(msg.Op), msg.Path))

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = nil
		}
		return m, nil
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl := m.shared.ctrl

	switch {
	case key.Matches(msg, keys.Quit):
		m.Stop()
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, keys.Record):
		return m.apply(dashboard.ToggleRecording{})
	case key.Matches(msg, keys.Pause):
		return m.apply(dashboard.TogglePause{})
	case key.Matches(msg, keys.Stop):
		return m.apply(dashboard.StopRecording{})
	case key.Matches(msg, keys.Reset):
		return m.apply(dashboard.Reset{})
	case key.Matches(msg, keys.Zoom):
		return m.apply(dashboard.ToggleZoom{})

	case key.Matches(msg, keys.Sensor1):
		return m.apply(dashboard.ToggleSensor{Channel: 0})
	case key.Matches(msg, keys.Sensor2):
		return m.apply(dashboard.ToggleSensor{Channel: 1})
	case key.Matches(msg, keys.Sensor3):
		return m.apply(dashboard.ToggleSensor{Channel: 2})

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.datasets)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Overlay):
		return m.toggleOverlay()

	case key.Matches(msg, keys.Threshold):
		m.editing = true
		m.threshold.SetValue(strconv.FormatFloat(ctrl.Threshold(), 'f', 0, 64))
		m.threshold.CursorEnd()
		return m, m.threshold.Focus()
	case key.Matches(msg, keys.ThreshUp):
		return m.apply(dashboard.SetThreshold{Value: ctrl.Threshold() + config.ThresholdStep})
	case key.Matches(msg, keys.ThreshDown):
		return m.apply(dashboard.SetThreshold{Value: ctrl.Threshold() - config.ThresholdStep})
	case key.Matches(msg, keys.Duration):
		return m.apply(dashboard.SetDuration{Value: nextDuration(ctrl.Duration())})

	case key.Matches(msg, keys.ExportCSV):
		return m, m.exportCSV()
	case key.Matches(msg, keys.Screenshot):
		return m, m.exportScreenshot()
	case key.Matches(msg, keys.Report):
		return m, m.exportReport()
	}
	return m, nil
}

func (m AppModel) handleThresholdInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.threshold.Blur()
		return m, nil
	case tea.KeyEnter:
		m.editing = false
		m.threshold.Blur()
		raw := strings.TrimSpace(m.threshold.Value())
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return m.notify(dashboard.ErrorNotice("Invalid threshold", fmt.Errorf("%q is not a number", raw)))
		}
		return m.apply(dashboard.SetThreshold{Value: v})
	}
	var cmd tea.Cmd
	m.threshold, cmd = m.threshold.Update(msg)
	return m, cmd
}

// nextDuration returns the preset after cur, wrapping around. A duration that
// is not a preset moves to the first one.
func nextDuration(cur time.Duration) time.Duration {
	for i, d := range config.DurationPresets {
		if d == cur {
			return config.DurationPresets[(i+1)%len(config.DurationPresets)]
		}
	}
	return config.DurationPresets[0]
}

// mouseCommand translates a mouse event on the chart into a drag command.
// Presses outside the plot start nothing; releases anywhere end the drag.
func (m AppModel) mouseCommand(msg tea.MouseMsg) dashboard.Command {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		label := m.chartGeometry().HitTest(msg.X, msg.Y)
		if label == "" {
			return nil
		}
		return dashboard.DragStart{Label: label}
	case tea.MouseActionMotion:
		if !m.shared.ctrl.Drag().Active {
			return nil
		}
		return dashboard.DragMove{Label: m.chartGeometry().HitTest(msg.X, msg.Y)}
	case tea.MouseActionRelease:
		if !m.shared.ctrl.Drag().Active {
			return nil
		}
		return dashboard.DragEnd{}
	}
	return nil
}

func (m AppModel) toggleOverlay() (tea.Model, tea.Cmd) {
	if m.cursor < 0 || m.cursor >= len(m.datasets) {
		return m, nil
	}
	ds := m.datasets[m.cursor]
	if m.shared.ctrl.HasOverlay(ds.ID) {
		return m.apply(dashboard.RemoveOverlay{ID: ds.ID})
	}
	now := m.now()
	return m, func() tea.Msg {
		samples, err := overlay.Load(ds, now)
		return OverlayLoadedMsg{Dataset: ds, Samples: samples, Err: err}
	}
}

// apply runs a dashboard command and shows the last notice it produced.
func (m AppModel) apply(cmd dashboard.Command) (tea.Model, tea.Cmd) {
	notices := m.shared.ctrl.Apply(cmd)
	if len(notices) == 0 {
		return m, nil
	}
	return m.notify(notices[len(notices)-1])
}

func (m AppModel) notify(n dashboard.Notice) (tea.Model, tea.Cmd) {
	m.notice = &n
	m.noticeSeq++
	seq := m.noticeSeq
	return m, tea.Tick(config.NoticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

// chartView snapshots what the chart shows for rasterized exports.
func (m AppModel) chartView() export.ChartView {
	ctrl := m.shared.ctrl
	view := export.ChartView{
		Title:     m.chartTitle(),
		Samples:   ctrl.WindowedView(),
		Visible:   ctrl.Visible(),
		Threshold: ctrl.Threshold(),
		Caption:   fmt.Sprintf("%s %s", config.AppName, m.now().Format("2006-01-02 15:04:05")),
	}
	for _, o := range ctrl.Overlays() {
		view.Overlays = append(view.Overlays, export.OverlaySeries{Label: o.Dataset.Label, Samples: o.Samples})
	}
	return view
}

func (m AppModel) exportCSV() tea.Cmd {
	exp, samples := m.shared.exporter, m.shared.ctrl.History()
	return func() tea.Msg {
		path, err := exp.ExportCSV(samples)
		return ExportResultMsg{Op: export.OpCSV, Path: path, Err: err}
	}
}

func (m AppModel) exportScreenshot() tea.Cmd {
	exp, view := m.shared.exporter, m.chartView()
	return func() tea.Msg {
		path, err := exp.Screenshot(view)
		return ExportResultMsg{Op: export.OpScreenshot, Path: path, Err: err}
	}
}

func (m AppModel) exportReport() tea.Cmd {
	exp, view, metrics := m.shared.exporter, m.chartView(), m.shared.ctrl.Metrics()
	return func() tea.Msg {
		path, err := exp.Report(view, metrics)
		return ExportResultMsg{Op: export.OpReport, Path: path, Err: err}
	}
}

func exportTitle(op string) string {
	switch op {
	case export.OpCSV:
		return "CSV exported"
	case export.OpScreenshot:
		return "Screenshot saved"
	case export.OpReport:
		return "Report saved"
	default:
		return "Exported"
	}
}

func (m AppModel) chartTitle() string {
	ctrl := m.shared.ctrl
	switch {
	case ctrl.Preview():
		return "PREVIEW"
	case ctrl.Zoomed():
		if sel := m.selectionLabel(); sel != "" {
			return "ZOOM " + sel
		}
		return "ZOOM"
	default:
		return "LIVE"
	}
}

// selectionLabel renders the committed selection as "start - end".
func (m AppModel) selectionLabel() string {
	sel, ok := m.shared.ctrl.Selection()
	w := m.shared.ctrl.Window()
	if !ok || sel.Start >= len(w) {
		return ""
	}
	return fmt.Sprintf("%s - %s", w[sel.Start].Label, w[min(sel.End, len(w)-1)].Label)
}

func (m AppModel) helpView() string {
	return ui.StyleHelp.Render(m.help.View(keys))
}

func (m AppModel) layout() ui.Layout {
	return ui.ComputeLayout(m.width, m.height, lipgloss.Height(m.helpView()), m.shared.ctrl.Zoomed())
}

// chartGeometry locates the plot exactly as View draws it.
func (m AppModel) chartGeometry() ui.Geometry {
	l := m.layout()
	view := m.shared.ctrl.WindowedView()
	labels := make([]string, len(view))
	for i, s := range view {
		labels[i] = s.Label
	}
	return ui.PlotGeometry(0, l.BodyY, l.ChartW, l.BodyH, labels)
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing " + config.AppName + "..."
	}
	ctrl := m.shared.ctrl
	l := m.layout()

	duration := ""
	if ctrl.Duration() > 0 {
		duration = dashboard.FormatElapsed(ctrl.Duration())
	}
	menuBar := ui.RenderMenuBar(m.width, ui.MenuData{
		Source:    m.sourceName(),
		Connected: ctrl.Connected(),
		Preview:   ctrl.Preview(),
		Recording: ctrl.Recording(),
		Paused:    ctrl.Paused(),
		Elapsed:   dashboard.FormatElapsed(ctrl.Elapsed()),
		Duration:  duration,
	})

	latest, hasLatest := ctrl.Latest()
	readout := ""
	if !l.Compact {
		readout = ui.RenderReadout(m.width, ui.ReadoutData{
			Latest:    latest,
			HasLatest: hasLatest,
			Metrics:   ctrl.Metrics(),
			Threshold: ctrl.Threshold(),
			Visible:   ctrl.Visible(),
		})
	}

	chartData := ui.ChartData{
		Title:     m.chartTitle(),
		Samples:   ctrl.WindowedView(),
		Visible:   ctrl.Visible(),
		Threshold: ctrl.Threshold(),
		Drag:      ctrl.Drag(),
		Active:    ctrl.Drag().Active,
	}
	for _, o := range ctrl.Overlays() {
		chartData.Overlays = append(chartData.Overlays, o.Samples)
	}
	chartPanel, _ := ui.RenderChartPanel(0, l.BodyY, l.ChartW, l.BodyH, chartData)

	controls := ""
	if !l.Compact {
		active := make(map[string]bool, len(ctrl.Overlays()))
		for _, o := range ctrl.Overlays() {
			active[o.Dataset.ID] = true
		}
		controls = ui.RenderControls(l.ControlsW, l.BodyH, ui.ControlsData{
			Visible:   ctrl.Visible(),
			Datasets:  m.datasets,
			Active:    active,
			Cursor:    m.cursor,
			Threshold: ctrl.Threshold(),
			Editing:   m.editing,
			Input:     m.threshold.View(),
		})
	}

	statusBar := ui.RenderStatusBar(m.width, ui.StatusData{
		WindowLen:  len(ctrl.Window()),
		WindowSize: ctrl.WindowSize(),
		History:    len(ctrl.History()),
		Zoom:       m.selectionLabel(),
		Overlays:   len(ctrl.Overlays()),
		Threshold:  ctrl.Threshold(),
		ExportDir:  m.exportDir,
	})

	return ui.ComposeLayout(l, menuBar, readout, chartPanel, controls,
		ui.RenderToast(m.width, m.notice), m.helpView(), statusBar)
}

func (m AppModel) sourceName() string {
	if m.shared.source != nil {
		return m.shared.source.Name()
	}
	if s := m.shared.ctrl.Source(); s != "" {
		return s
	}
	return "none"
}

// StartSources starts the sensor source and the dataset watcher. Must be
// called before p.Run().
func (m *AppModel) StartSources(p sensor.Sender) error {
	if m.shared.watcher != nil {
		m.shared.watcher.Start(p)
	}
	if m.shared.source == nil {
		return nil
	}
	m.shared.log.Info("starting source", "source", m.shared.source.Name())
	if err := m.shared.source.Start(p); err != nil {
		return fmt.Errorf("start %s: %w", m.shared.source.Name(), err)
	}
	return nil
}

// Stop releases the source and the watcher.
func (m AppModel) Stop() {
	if m.shared.source != nil {
		m.shared.source.Stop()
	}
	if m.shared.watcher != nil {
		m.shared.watcher.Stop()
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
