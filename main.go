package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fsr-scope.klederson.com/internal/app"
	"fsr-scope.klederson.com/internal/buffer"
	"fsr-scope.klederson.com/internal/config"
	"fsr-scope.klederson.com/internal/export"
	"fsr-scope.klederson.com/internal/logging"
	"fsr-scope.klederson.com/internal/overlay"
	"fsr-scope.klederson.com/internal/sensor"
)

var (
	flagDemo      bool
	flagReportOut string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fsr-scope",
		Short: "FSR-SCOPE - terminal dashboard for three-channel force sensor telemetry",
		Long: `FSR-SCOPE plots live readings from three force-sensitive resistors,
keeps the full session history, and exports it as CSV, PNG or PDF.

Readings come from a simulated sensor (--demo), a line stream such as a
serial tty or a pipe (--source stream --input PATH), or a Bluetooth LE
peripheral (--source ble --ble-name NAME).

Drag across the chart with the mouse to zoom into a range of samples.`,
		SilenceUsage: true,
		RunE:         run,
	}

	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default "+config.ConfigDir()+"/config.yaml)")
	pf.String("export-dir", "", "Directory for CSV, PNG and PDF exports")
	pf.String("log-level", "", "Debug log level: debug, info, warn, error")

	f := rootCmd.Flags()
	f.BoolVar(&flagDemo, "demo", false, "Use the simulated sensor (no hardware required)")
	f.String("source", "", "Reading source: demo, stream or ble")
	f.String("input", "", "Stream source path, - for stdin")
	f.String("ble-name", "", "Advertised name of the BLE sensor")
	f.Float64("threshold", 0, "Alert threshold (0-4095)")

	_ = viper.BindPFlag("config", pf.Lookup("config"))
	_ = viper.BindPFlag("export.dir", pf.Lookup("export-dir"))
	_ = viper.BindPFlag("logging.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("source.kind", f.Lookup("source"))
	_ = viper.BindPFlag("source.input", f.Lookup("input"))
	_ = viper.BindPFlag("source.ble_name", f.Lookup("ble-name"))
	_ = viper.BindPFlag("display.threshold", f.Lookup("threshold"))

	reportCmd := &cobra.Command{
		Use:   "report CSV",
		Short: "Render the chart PNG and PDF report of an exported session",
		Args:  cobra.ExactArgs(1),
		RunE:  runReport,
	}
	reportCmd.Flags().StringVarP(&flagReportOut, "out", "o", "", "Output directory (default: export directory)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s v%s\n", config.AppName, config.AppVersion)
		},
	}

	rootCmd.AddCommand(reportCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("FSRSCOPE")
	// FSRSCOPE_SOURCE_KIND for source.kind
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine
	_ = viper.ReadInConfig()
}

func loadSettings() (*config.Settings, error) {
	if flagDemo {
		viper.Set("source.kind", config.SourceDemo)
	}
	s, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return s, nil
}

func newLogger(s *config.Settings) *logging.Logger {
	if !s.Logging.Enabled {
		return logging.NopLogger()
	}
	log, err := logging.NewLogger(config.DataDir(), s.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: debug log disabled: %v\n", err)
		return logging.NopLogger()
	}
	return log.WithSession(uuid.NewString())
}

func run(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	log := newLogger(settings)
	defer log.Close()

	log.Info("starting", "version", config.AppVersion, "source", settings.Source.Kind,
		"export_dir", settings.ExportDir())

	source, err := sensor.NewSource(settings.Source, log)
	if err != nil {
		return err
	}

	demo := settings.Source.Kind == config.SourceDemo
	datasetDir := settings.DatasetDir()
	datasets, err := overlay.Catalog(datasetDir, demo)
	if err != nil {
		log.Warn("dataset scan failed", "dir", datasetDir, "error", err)
	}
	watcher, err := overlay.NewWatcher(datasetDir, demo, log)
	if err != nil {
		log.Warn("dataset watch disabled", "dir", datasetDir, "error", err)
		watcher = nil
	}

	model := app.New(app.Options{
		Settings: settings,
		Source:   source,
		Exporter: export.NewExporter(settings.ExportDir(), export.NewChartRasterizer(), log),
		Watcher:  watcher,
		Datasets: datasets,
		Log:      log,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}
	if settings.Source.Kind == config.SourceStream && settings.Source.Input == "-" {
		// Readings arrive on stdin; keys come from the terminal
		opts = append(opts, tea.WithInputTTY())
	}
	p := tea.NewProgram(model, opts...)

	// Sources need the program to deliver readings
	if err := model.StartSources(p); err != nil {
		log.Error("source failed to start", "error", err)
		model.Stop()
		fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
		if settings.Source.Kind == config.SourceBLE {
			fmt.Fprintln(os.Stderr, "Bluetooth access requires elevated permissions.")
			fmt.Fprintln(os.Stderr, "Try one of:")
			fmt.Fprintln(os.Stderr, "  sudo fsr-scope --source ble")
			fmt.Fprintln(os.Stderr, "  sudo setcap cap_net_admin+ep $(which fsr-scope)")
		}
		fmt.Fprintln(os.Stderr, "  fsr-scope --demo    (simulated sensor, no hardware needed)")
		return err
	}
	defer model.Stop()

	_, err = p.Run()
	return err
}

func runReport(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	log := newLogger(settings)
	defer log.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	samples, err := export.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	dir := flagReportOut
	if dir == "" {
		dir = settings.ExportDir()
	}
	exp := export.NewExporter(dir, export.NewChartRasterizer(), log)

	view := export.ChartView{
		Title:     args[0],
		Samples:   samples,
		Visible:   [config.ChannelCount]bool{true, true, true},
		Threshold: settings.Display.Threshold,
	}
	png, err := exp.Screenshot(view)
	if err != nil {
		return err
	}
	pdf, err := exp.Report(view, buffer.ComputeMetrics(samples))
	if err != nil {
		return err
	}
	fmt.Println(png)
	fmt.Println(pdf)
	return nil
}
