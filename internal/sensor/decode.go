package sensor

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"fsr-scope.klederson.com/internal/config"
)

// ErrSkip marks a line that carries no reading (blank, comment or a CSV
// header). Callers drop it silently.
var ErrSkip = errors.New("no reading on line")

// ParseLine decodes "v1,v2,v3" (stamped with now) or "ts,v1,v2,v3" with ts in
// epoch milliseconds. Fields may be separated by commas, semicolons or
// whitespace. Values are clamped to the ADC range.
func ParseLine(line string, now time.Time) (Sample, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Sample{}, ErrSkip
	}

	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})

	switch len(fields) {
	case config.ChannelCount:
	case config.ChannelCount + 1:
		ts, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			if _, ferr := strconv.ParseFloat(fields[0], 64); ferr != nil {
				return Sample{}, ErrSkip // header row such as "Timestamp (ms),..."
			}
			return Sample{}, fmt.Errorf("timestamp %q: %w", fields[0], err)
		}
		now = time.UnixMilli(ts)
		fields = fields[1:]
	default:
		if _, err := strconv.ParseFloat(fields[0], 64); err != nil {
			return Sample{}, ErrSkip
		}
		return Sample{}, fmt.Errorf("expected %d or %d fields, got %d", config.ChannelCount, config.ChannelCount+1, len(fields))
	}

	var values [config.ChannelCount]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Sample{}, fmt.Errorf("channel %d value %q: %w", i+1, f, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Sample{}, fmt.Errorf("channel %d value %q: not a finite number", i+1, f)
		}
		values[i] = Clamp(v)
	}
	return NewSample(now, values), nil
}

// lineBuffer reassembles newline-terminated lines from arbitrary chunks, as
// delivered by BLE notifications.
type lineBuffer struct {
	buf []byte
}

// Feed appends chunk and returns every completed line.
func (b *lineBuffer) Feed(chunk []byte) []string {
	b.buf = append(b.buf, chunk...)
	var lines []string
	for {
		i := bytes.IndexAny(b.buf, "\r\n")
		if i < 0 {
			break
		}
		if i > 0 {
			lines = append(lines, string(b.buf[:i]))
		}
		b.buf = b.buf[i+1:]
	}
	if len(b.buf) > config.StreamMaxLine {
		b.buf = b.buf[:0]
	}
	return lines
}
