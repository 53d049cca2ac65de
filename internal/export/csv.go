// Package export writes the session to disk as CSV, a PNG chart image and a
// paginated PDF report.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"fsr-scope.klederson.com/internal/config"
	"fsr-scope.klederson.com/internal/sensor"
)

// TimestampColumn heads the first CSV column.
const TimestampColumn = "Timestamp (ms)"

// ErrBadHeader is returned by ReadCSV when the first row is not a session
// header.
var ErrBadHeader = errors.New("not a session CSV header")

// Header returns the CSV header row.
func Header() []string {
	h := make([]string, 0, config.ChannelCount+1)
	h = append(h, TimestampColumn)
	return append(h, config.ChannelLabels[:]...)
}

// WriteCSV writes the header and one row per sample, values in their
// shortest decimal form.
func WriteCSV(w io.Writer, samples []sensor.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	row := make([]string, config.ChannelCount+1)
	for _, s := range samples {
		row[0] = strconv.FormatInt(s.Timestamp, 10)
		for i, v := range s.Values {
			row[i+1] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file written by WriteCSV. Labels are derived from the
// timestamps.
func ReadCSV(r io.Reader) ([]sensor.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = config.ChannelCount + 1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrBadHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !strings.EqualFold(strings.TrimPrefix(header[0], "\ufeff"), TimestampColumn) {
		return nil, ErrBadHeader
	}

	var samples []sensor.Sample
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(samples)+2, err)
		}
		ts, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d timestamp: %w", len(samples)+2, err)
		}
		var values [config.ChannelCount]float64
		for i := range values {
			if values[i], err = strconv.ParseFloat(rec[i+1], 64); err != nil {
				return nil, fmt.Errorf("row %d %s: %w", len(samples)+2, config.ChannelLabels[i], err)
			}
		}
		samples = append(samples, sensor.NewSample(time.UnixMilli(ts), values))
	}
	return samples, nil
}

// CSVFileName returns data_YYYYMMDD_HHMM.csv for t in local time.
func CSVFileName(t time.Time) string {
	return "data_" + t.Local().Format(config.DateStampLayout) + ".csv"
}

// ScreenshotFileName returns chart-screenshot-{epoch ms}.png.
func ScreenshotFileName(t time.Time) string {
	return fmt.Sprintf("chart-screenshot-%d.png", t.UnixMilli())
}

// ReportFileName returns fsr-report-{epoch ms}.pdf.
func ReportFileName(t time.Time) string {
	return fmt.Sprintf("fsr-report-%d.pdf", t.UnixMilli())
}
