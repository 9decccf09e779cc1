// Package watcher reloads the served tree when its source changes on disk.
package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/CageChen/webshell/internal/source"
	"github.com/CageChen/webshell/internal/vfs"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce groups bursts of events (editors often write a file in
// several steps) into one reload.
const DefaultDebounce = 200 * time.Millisecond

// Event describes a completed reload.
type Event struct {
	Source string
	Nodes  int
	Err    error
}

// Callback is a function called after every reload attempt
type Callback func(Event)

// Watcher monitors the paths of a tree source and swaps in a freshly loaded
// tree after changes. A failed reload keeps the previous tree.
type Watcher struct {
	watcher  *fsnotify.Watcher
	src      source.Source
	holder   *vfs.Holder
	log      logrus.FieldLogger
	debounce time.Duration

	// files limits events to these names when a watched path is a file.
	files map[string]bool

	mu        sync.RWMutex
	callbacks []Callback
	timer     *time.Timer
	done      chan struct{}
}

// New creates a watcher for src that installs reloaded trees into holder.
func New(src source.Source, holder *vfs.Holder, log logrus.FieldLogger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:  w,
		src:      src,
		holder:   holder,
		log:      log,
		debounce: DefaultDebounce,
		files:    make(map[string]bool),
		done:     make(chan struct{}),
	}, nil
}

// OnReload registers a callback for reload events
func (w *Watcher) OnReload(cb Callback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Start begins watching. Files are watched through their parent directory so
// that replace-by-rename saves are seen.
func (w *Watcher) Start() error {
	for _, path := range w.src.WatchPaths() {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			w.files[path] = true
			if err := w.watcher.Add(filepath.Dir(path)); err != nil {
				return err
			}
			continue
		}
		err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() && !w.excluded(p) {
				if err := w.watcher.Add(p); err != nil {
					w.log.WithError(err).Warnf("cannot watch %s", p)
				}
			}
			return nil
		})
		if err != nil {
			w.log.WithError(err).Warnf("failed to walk %s", path)
		}
	}

	go w.eventLoop()
	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	close(w.done)
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) excluded(path string) bool {
	if l, ok := w.src.(*source.Local); ok {
		return l.Excluded(path)
	}
	return false
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if len(w.files) > 0 && !w.files[event.Name] {
		return
	}
	if w.excluded(event.Name) {
		return
	}
	if event.Op&fsnotify.Chmod == event.Op {
		return
	}

	// If a new directory is created, watch it
	if event.Op&fsnotify.Create == fsnotify.Create && isDir(event.Name) {
		_ = w.watcher.Add(event.Name)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.Reload)
}

// Reload loads the source and swaps the tree in on success.
func (w *Watcher) Reload() {
	e := Event{Source: w.src.String()}
	root, err := w.src.Load()
	if err != nil {
		e.Err = err
		w.log.WithError(err).Errorf("reloading %s failed, keeping previous tree", e.Source)
	} else {
		w.holder.Swap(root)
		e.Nodes = vfs.CountNodes(root)
		w.log.WithField("nodes", e.Nodes).Infof("reloaded %s", e.Source)
	}

	w.mu.RLock()
	callbacks := make([]Callback, len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.RUnlock()

	for _, cb := range callbacks {
		cb(e)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
