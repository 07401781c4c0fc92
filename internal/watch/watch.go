// Package watch triggers an export whenever the scene snapshot is saved.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wildstar-studios/auto-exporter/internal/metrics"
)

// Trigger is run once per debounced save.
type Trigger func(ctx context.Context) error

// Watcher observes one file. The parent directory is watched so that
// editors which save through a rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	trigger  Trigger
	logger   *slog.Logger
	fw       *fsnotify.Watcher
}

// New starts watching path. Call Run to process events.
func New(path string, debounce time.Duration, trigger Trigger, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolving %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch: adding %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		trigger:  trigger,
		logger:   logger,
		fw:       fw,
	}, nil
}

// Run dispatches debounced saves to the trigger until ctx is cancelled.
// Trigger errors are logged; they never stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fw.Close() }()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	w.logger.Info("watching for saves", "path", w.path, "debounce", w.debounce)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("save detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			metrics.Inc(metrics.WatchTriggers)
			if err := w.trigger(ctx); err != nil {
				w.logger.Error("auto export failed", "path", w.path, "error", err)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("watch event overflow", "error", err)
				continue
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
