package doc

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"DraftBoard/internal/shape"
)

// debounceWindow coalesces the burst of write events most editors emit
// when saving a file.
const debounceWindow = 100 * time.Millisecond

// Watcher reloads a document whenever the file changes on disk. The
// callback runs on the watcher goroutine; callers hand the shapes off to
// the canvas-owning goroutine themselves.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Watch starts watching path and calls onReload with the freshly parsed
// shapes after each change. Parse failures are logged and skipped so a
// half-saved file never clobbers the canvas.
func Watch(path string, onReload func([]shape.Shape)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors that rename-over the
	// target would otherwise drop the watch after the first save.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{path: path, watcher: fw, done: make(chan struct{})}
	go w.loop(onReload)
	return w, nil
}

func (w *Watcher) loop(onReload func([]shape.Shape)) {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				fire = timer.C
			} else {
				timer.Reset(debounceWindow)
			}
		case <-fire:
			timer = nil
			fire = nil
			shapes, err := Load(w.path)
			if err != nil {
				log.Printf("[doc] Reload of %s failed: %v", w.path, err)
				continue
			}
			log.Printf("[doc] Reloaded %s (%d shapes)", w.path, len(shapes))
			onReload(shapes)
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
