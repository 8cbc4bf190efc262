// Package watch re-runs the whole pipeline when source content changes.
// Every trigger re-invokes refresh from stage one; there is deliberately no
// resume-from-midpoint, since mirror sync is only safe as a full pass.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docmirror/internal/logfields"
	"git.home.luguber.info/inful/docmirror/internal/registry"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses rapid bursts of filesystem events into one refresh.
const DefaultDebounce = 2 * time.Second

// Watcher monitors the included subdirectories of resolved sources and
// invokes a refresh callback after changes settle.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	refresh  func(context.Context)
}

// NewWatcher creates a watcher over the given sources. fsnotify does not
// recurse, so every directory under each included path is registered
// individually; directories created later are added as events arrive.
func NewWatcher(sources []registry.ResolvedSource, refresh func(context.Context)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{watcher: fsw, debounce: DefaultDebounce, refresh: refresh}

	for _, src := range sources {
		for _, inc := range src.Include {
			root := filepath.Join(src.RootDir, inc.Path)
			if err := w.addRecursive(root); err != nil {
				fsw.Close()
				return nil, err
			}
			slog.Info("Watching source path", logfields.Source(src.Name), logfields.Path(root))
		}
	}
	return w, nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// Run blocks until ctx is canceled, invoking the refresh callback after each
// debounced burst of events.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, func() {
			select {
			case fire <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			// New directories need registration before their events flow.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.addRecursive(event.Name)
				}
			}
			slog.Debug("Source change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		case <-fire:
			w.refresh(ctx)
		}
	}
}
