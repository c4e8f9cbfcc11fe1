package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-timeline-clock/internal/util"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 150 * time.Millisecond

// ReloadEvent reports that the config file changed on disk.
type ReloadEvent struct {
	Path      string
	Operation string
}

// Watcher watches one config file. It watches the parent directory so
// editors that replace the file by rename are still noticed.
type Watcher struct {
	watcher     *fsnotify.Watcher
	path        string
	debounce    time.Duration
	events      chan ReloadEvent
	fingerprint string
}

func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		watcher:  watcher,
		path:     abs,
		debounce: debounce,
		events:   make(chan ReloadEvent, 1),
	}
	// Missing files have no fingerprint; their creation always reloads
	w.fingerprint, _ = util.FileFingerprint(abs)

	go w.processEvents()

	return w, nil
}

func (w *Watcher) processEvents() {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending ReloadEvent
	)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			pending = ReloadEvent{Path: w.path, Operation: event.Op.String()}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if !w.changed() {
				util.LogDebugf("Config file touched without changes: %s", pending.Path)
				continue
			}
			util.LogDebugf("Config file changed: %s (%s)", pending.Path, pending.Operation)
			// A reload is already queued when the channel is full
			select {
			case w.events <- pending:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("Config watch error: " + err.Error())
		}
	}
}

// changed compares the file content against the last reported version.
func (w *Watcher) changed() bool {
	fingerprint, err := util.FileFingerprint(w.path)
	if err != nil {
		// Let the loader report the problem
		return true
	}
	if fingerprint == w.fingerprint {
		return false
	}
	w.fingerprint = fingerprint
	return true
}

func (w *Watcher) Events() <-chan ReloadEvent {
	return w.events
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
