package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fsr-scope.klederson.com/internal/buffer"
	"fsr-scope.klederson.com/internal/logging"
	"fsr-scope.klederson.com/internal/sensor"
)

// Export operations, used as Failure.Op.
const (
	OpCSV        = "csv"
	OpScreenshot = "screenshot"
	OpReport     = "report"
)

// Failure wraps any error raised while producing an export. Nothing is
// retried; the caller reports it.
type Failure struct {
	Op  string
	Err error
}

func (f *Failure) Error() string { return fmt.Sprintf("export %s: %v", f.Op, f.Err) }
func (f *Failure) Unwrap() error { return f.Err }

// Exporter writes exports into Dir.
type Exporter struct {
	Dir        string
	Rasterizer Rasterizer
	Now        func() time.Time
	log        *logging.Logger
}

// NewExporter creates an exporter writing into dir.
func NewExporter(dir string, r Rasterizer, log *logging.Logger) *Exporter {
	if r == nil {
		r = NewChartRasterizer()
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Exporter{Dir: dir, Rasterizer: r, Now: time.Now, log: log.WithComponent("export")}
}

// ExportCSV writes every sample to data_YYYYMMDD_HHMM.csv and returns the
// path.
func (e *Exporter) ExportCSV(samples []sensor.Sample) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, samples); err != nil {
		return "", e.fail(OpCSV, err)
	}
	path, err := e.write(CSVFileName(e.Now()), buf.Bytes())
	if err != nil {
		return "", e.fail(OpCSV, err)
	}
	e.log.Info("csv exported", "path", path, "rows", len(samples))
	return path, nil
}

// Screenshot rasterizes view to chart-screenshot-{ms}.png.
func (e *Exporter) Screenshot(view ChartView) (string, error) {
	img, err := e.Rasterizer.Rasterize(view)
	if err != nil {
		return "", e.fail(OpScreenshot, err)
	}
	path, err := e.write(ScreenshotFileName(e.Now()), img)
	if err != nil {
		return "", e.fail(OpScreenshot, err)
	}
	e.log.Info("screenshot exported", "path", path, "bytes", len(img))
	return path, nil
}

// Report rasterizes view and writes the paginated PDF with m on the last
// page to fsr-report-{ms}.pdf.
func (e *Exporter) Report(view ChartView, m buffer.Metrics) (string, error) {
	img, err := e.Rasterizer.Rasterize(view)
	if err != nil {
		return "", e.fail(OpReport, err)
	}
	var buf bytes.Buffer
	if err := WriteReport(&buf, img, m); err != nil {
		return "", e.fail(OpReport, err)
	}
	path, err := e.write(ReportFileName(e.Now()), buf.Bytes())
	if err != nil {
		return "", e.fail(OpReport, err)
	}
	e.log.Info("report exported", "path", path, "samples", m.Count)
	return path, nil
}

func (e *Exporter) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(e.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return path, nil
}

func (e *Exporter) fail(op string, err error) error {
	e.log.Error("export failed", "op", op, "error", err)
	return &Failure{Op: op, Err: err}
}
