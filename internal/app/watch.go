package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/AJ-Gonzalez/black-orchid/internal/registry"
	"github.com/AJ-Gonzalez/black-orchid/internal/unit"
)

// debounceWindow batches bursts of filesystem events (editors write, rename,
// and chmod in quick succession) into one rebuild.
const debounceWindow = 300 * time.Millisecond

// restartTimer arms t to fire once after d. A tick the timer delivered since
// the last receive is discarded first, so a burst of events never produces a
// second, immediate rebuild from a stale tick.
func restartTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

// watch subscribes to the existing module roots and triggers a full rebuild
// after unit files change. A rebuild that loses the busy race is retried on
// the next tick.
func (a *App) watch(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		a.logger.Error("Watcher unavailable, hot reload limited to explicit tools.", "error", err)
		return
	}
	defer watcher.Close()

	watched := 0
	for _, root := range a.registry.Roots() {
		if real, err := filepath.EvalSymlinks(root.Path); err == nil {
			if err := watcher.Add(real); err == nil {
				watched++
			}
		}
	}
	if watched == 0 {
		a.logger.Warn("No module roots exist yet, watcher idle.")
		return
	}
	a.logger.Info("Watching module roots for changes.", "roots", watched)

	debounce := time.NewTimer(debounceWindow)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, unit.Extension) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			restartTimer(debounce, debounceWindow)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			a.logger.Warn("Watcher error.", "error", err)

		case <-debounce.C:
			summary, err := a.registry.RebuildAll(ctx)
			if errors.Is(err, registry.ErrRebuildBusy) {
				restartTimer(debounce, debounceWindow)
				continue
			}
			if err != nil {
				a.logger.Error("Watch-triggered rebuild failed.", "error", err)
				continue
			}
			a.logger.Info("Modules reloaded after filesystem change.", "summary", summary.String())
		}
	}
}
