package overlay

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"fsr-scope.klederson.com/internal/logging"
	"fsr-scope.klederson.com/internal/sensor"
)

const debounce = 100 * time.Millisecond

// CatalogChangedMsg carries the rescanned dataset list after session files
// appear or disappear.
type CatalogChangedMsg struct {
	Datasets []Dataset
}

// Watcher rescans the dataset directory when session CSVs change.
type Watcher struct {
	dir     string
	demo    bool
	watcher *fsnotify.Watcher
	log     *logging.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewWatcher watches dir, creating it if needed.
func NewWatcher(dir string, demo bool, log *logging.Logger) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dataset directory: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Watcher{
		dir:     dir,
		demo:    demo,
		watcher: fw,
		log:     log.WithComponent("overlay"),
		stopCh:  make(chan struct{}),
	}, nil
}

// Start forwards catalog changes to out until Stop.
func (w *Watcher) Start(out sensor.Sender) {
	go w.loop(out)
}

// Stop ends the watch. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.watcher.Close()
	})
}

func (w *Watcher) loop(out sensor.Sender) {
	// Exports arrive as create followed by writes
	timer := time.NewTimer(0)
	<-timer.C
	pending := false

	for {
		select {
		case <-w.stopCh:
			timer.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !IsSessionFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending = true
			timer.Reset(debounce)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			datasets, err := Catalog(w.dir, w.demo)
			if err != nil {
				w.log.Warn("dataset rescan failed", "dir", w.dir, "error", err)
				continue
			}
			w.log.Debug("dataset catalog changed", "count", len(datasets))
			out.Send(CatalogChangedMsg{Datasets: datasets})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("dataset watcher error", "error", err)
		}
	}
}
