// Package overlay finds, loads and simulates historical sessions that can be
// drawn dashed behind the live chart.
package overlay

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"time"

	"fsr-scope.klederson.com/internal/config"
	"fsr-scope.klederson.com/internal/export"
	"fsr-scope.klederson.com/internal/sensor"
)

// FilePattern matches session CSV exports.
const FilePattern = "data_*.csv"

// Dataset is one selectable historical session. Simulated datasets have no
// Path and are generated on load.
type Dataset struct {
	ID        string
	Label     string
	Path      string
	Simulated bool
	ModTime   time.Time
}

// demoDatasets are offered in demo mode so overlays can be tried without
// any recorded sessions.
var demoDatasets = []Dataset{
	{ID: "session1", Label: "data_20250115_1430.csv", Simulated: true},
	{ID: "session2", Label: "data_20250114_0915.csv", Simulated: true},
	{ID: "session3", Label: "data_20250113_1642.csv", Simulated: true},
}

// Scan lists session CSVs in dir, newest first. A missing directory yields
// an empty list.
func Scan(dir string) ([]Dataset, error) {
	matches, err := filepath.Glob(filepath.Join(dir, FilePattern))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	out := make([]Dataset, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		name := filepath.Base(path)
		out = append(out, Dataset{ID: "file:" + name, Label: name, Path: path, ModTime: info.ModTime()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].ModTime.After(out[j].ModTime)
		}
		return out[i].Label > out[j].Label
	})
	return out, nil
}

// Catalog returns the datasets in dir followed, in demo mode, by the
// simulated sessions.
func Catalog(dir string, demo bool) ([]Dataset, error) {
	files, err := Scan(dir)
	if err != nil {
		return nil, err
	}
	if demo {
		files = append(files, demoDatasets...)
	}
	return files, nil
}

// Load returns the samples of ds. Simulated datasets are regenerated on
// every load.
func Load(ds Dataset, now time.Time) ([]sensor.Sample, error) {
	if ds.Simulated {
		return Simulate(now, rand.New(rand.NewSource(now.UnixNano()))), nil
	}
	f, err := os.Open(ds.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ds.Label, err)
	}
	defer f.Close()

	samples, err := export.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ds.Label, err)
	}
	return samples, nil
}

// Simulate generates a 50-second session ending at now, one sample per
// second, labelled by elapsed MM:SS.
func Simulate(now time.Time, r *rand.Rand) []sensor.Sample {
	n := config.OverlayPoints
	base := now.Add(-time.Duration(n) * config.OverlayInterval)

	out := make([]sensor.Sample, n)
	for i := range out {
		out[i] = sensor.Sample{
			Timestamp: base.Add(time.Duration(i) * config.OverlayInterval).UnixMilli(),
			Label:     fmt.Sprintf("%02d:%02d", i/60, i%60),
			Values: [config.ChannelCount]float64{
				sensor.Clamp(r.Float64()*3000 + 500),
				sensor.Clamp(r.Float64()*3000 + 800),
				sensor.Clamp(r.Float64()*3000 + 1200),
			},
		}
	}
	return out
}

// IsSessionFile reports whether path names a session CSV export.
func IsSessionFile(path string) bool {
	ok, _ := filepath.Match(FilePattern, filepath.Base(path))
	return ok
}
