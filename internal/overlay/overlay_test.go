package overlay

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"fsr-scope.klederson.com/internal/export"
	"fsr-scope.klederson.com/internal/sensor"
)

func writeSession(t *testing.T, dir, name string, mod time.Time, samples []sensor.Sample) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := export.WriteCSV(f, samples); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if !mod.IsZero() {
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestScanOrdersNewestFirst(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	writeSession(t, dir, "data_20250113_1642.csv", base.Add(-2*time.Hour), nil)
	writeSession(t, dir, "data_20250115_1430.csv", base, nil)
	writeSession(t, dir, "notes.csv", base.Add(time.Hour), nil)
	if err := os.Mkdir(filepath.Join(dir, "data_dir.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d datasets, want 2: %+v", len(got), got)
	}
	if got[0].Label != "data_20250115_1430.csv" || got[1].Label != "data_20250113_1642.csv" {
		t.Errorf("order = %s, %s", got[0].Label, got[1].Label)
	}
	if got[0].ID != "file:data_20250115_1430.csv" || got[0].Simulated {
		t.Errorf("dataset = %+v", got[0])
	}
}

func TestScanMissingDir(t *testing.T) {
	got, err := Scan(filepath.Join(t.TempDir(), "nope"))
	if err != nil || len(got) != 0 {
		t.Fatalf("Scan(missing) = %v, %v", got, err)
	}
}

func TestCatalogDemoAppendsSimulated(t *testing.T) {
	dir := t.TempDir()
	writeSession(t, dir, "data_20250101_0000.csv", time.Time{}, nil)

	plain, _ := Catalog(dir, false)
	demo, _ := Catalog(dir, true)
	if len(plain) != 1 || len(demo) != 4 {
		t.Fatalf("plain=%d demo=%d, want 1 and 4", len(plain), len(demo))
	}
	if demo[1].ID != "session1" || demo[1].Label != "data_20250115_1430.csv" || !demo[1].Simulated {
		t.Errorf("first simulated = %+v", demo[1])
	}
}

func TestSimulate(t *testing.T) {
	now := time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)
	got := Simulate(now, rand.New(rand.NewSource(1)))
	if len(got) != 50 {
		t.Fatalf("len = %d, want 50", len(got))
	}
	if got[0].Label != "00:00" || got[49].Label != "00:49" {
		t.Errorf("labels %q..%q", got[0].Label, got[49].Label)
	}
	if got[1].Timestamp-got[0].Timestamp != 1000 {
		t.Errorf("spacing = %d ms", got[1].Timestamp-got[0].Timestamp)
	}
	if got[49].Timestamp >= now.UnixMilli() {
		t.Error("last sample not before now")
	}
	mins := [3]float64{500, 800, 1200}
	for _, s := range got {
		for c, v := range s.Values {
			if v < mins[c] || v > 4095 {
				t.Errorf("channel %d value %v out of range", c, v)
			}
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	want := []sensor.Sample{
		sensor.NewSample(time.UnixMilli(1736947805000), [3]float64{1, 2, 3}),
		sensor.NewSample(time.UnixMilli(1736947806000), [3]float64{4, 5, 6}),
	}
	path := writeSession(t, dir, "data_20250115_1430.csv", time.Time{}, want)

	got, err := Load(Dataset{Label: "x", Path: path}, time.Now())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 || got[1] != want[1] {
		t.Errorf("Load = %+v", got)
	}

	sim, err := Load(demoDatasets[0], time.Now())
	if err != nil || len(sim) != 50 {
		t.Errorf("simulated load = %d samples, %v", len(sim), err)
	}

	if _, err := Load(Dataset{Label: "gone", Path: filepath.Join(dir, "gone.csv")}, time.Now()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestIsSessionFile(t *testing.T) {
	tests := map[string]bool{
		"/x/data_20250115_1430.csv": true,
		"data_a.csv":                true,
		"chart-screenshot-1.png":    false,
		"/x/data_1.csv.tmp":         false,
		"fsr-report-1.pdf":          false,
	}
	for path, want := range tests {
		if got := IsSessionFile(path); got != want {
			t.Errorf("IsSessionFile(%q) = %v, want %v", path, got, want)
		}
	}
}

type chanSender struct {
	msgs chan tea.Msg
}

func (c *chanSender) Send(msg tea.Msg) { c.msgs <- msg }

func TestWatcherReportsNewExports(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	w, err := NewWatcher(dir, false, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Stop()

	out := &chanSender{msgs: make(chan tea.Msg, 4)}
	w.Start(out)

	writeSession(t, dir, "data_20250115_1430.csv", time.Time{}, nil)

	select {
	case msg := <-out.msgs:
		changed, ok := msg.(CatalogChangedMsg)
		if !ok {
			t.Fatalf("got %T, want CatalogChangedMsg", msg)
		}
		if len(changed.Datasets) != 1 || changed.Datasets[0].Label != "data_20250115_1430.csv" {
			t.Errorf("datasets = %+v", changed.Datasets)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no CatalogChangedMsg after creating a session file")
	}
}
