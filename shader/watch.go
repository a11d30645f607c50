package shader

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"render-sandbox/internal/logging"
)

// Watcher reports edits to shader source files. It never touches the GPU:
// the render loop polls Changed and calls Program.Reload on its own thread.
type Watcher struct {
	w       *fsnotify.Watcher
	files   map[string]bool
	changed chan struct{}
	done    chan struct{}
}

// Watch starts watching the given files. Their parent directories are
// watched rather than the files themselves, so editors that save by
// renaming a temporary file are still picked up.
func Watch(paths ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		w:       fw,
		files:   make(map[string]bool, len(paths)),
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.w.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.files[abs] {
				continue
			}
			logging.Logger().Debug("shader source changed", "path", event.Name, "op", event.Op.String())
			select {
			case w.changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			logging.Logger().Warn("shader watcher error", "err", err)
		}
	}
}

// Changed receives a value after one or more watched files changed. Bursts
// of events are coalesced into a single notification.
func (w *Watcher) Changed() <-chan struct{} { return w.changed }

// Close stops watching and waits for the event goroutine to exit.
func (w *Watcher) Close() error {
	err := w.w.Close()
	<-w.done
	return err
}
