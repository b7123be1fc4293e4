package defs

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long a file must be quiet before it is reported.
const debounce = 100 * time.Millisecond

// Watcher reports changed definition files under a set of directories.
type Watcher struct {
	watcher *fsnotify.Watcher
	exts    []string
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches dirs for writes, creates and renames of files with one
// of exts (DefaultExtensions when empty).
func NewWatcher(exts []string, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	watcher := &Watcher{
		watcher: w,
		exts:    exts,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes its channels.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// run forwards a file name once it has been quiet for the debounce window,
// so a create followed by writes is reported once with its final contents.
func (w *Watcher) run() {
	defer close(w.done)
	pending := make(map[string]time.Time)
	tick := time.NewTicker(debounce / 2)
	defer tick.Stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !w.isDefinitionFile(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()
		case now := <-tick.C:
			for name, t := range pending {
				if now.Sub(t) < debounce {
					continue
				}
				delete(pending, name)
				select {
				case w.Events <- name:
				case <-w.closeCh:
					return
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) isDefinitionFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range w.exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Reloader applies watcher events to the stores. Pump is meant to be called
// from the host's update loop so reloads never overlap with instantiation.
type Reloader struct {
	Watcher  *Watcher
	Actors   *Store
	Levels   *LevelStore
	ActorDir string
	LevelDir string
	Logger   *slog.Logger
}

// Pump drains pending events without blocking and reloads each changed
// file. Removed files keep their definitions loaded.
func (r *Reloader) Pump() []LoadResult {
	var results []LoadResult
	for {
		select {
		case name, ok := <-r.Watcher.Events:
			if !ok {
				return results
			}
			if res, ok := r.reload(name); ok {
				results = append(results, res)
			}
		case err, ok := <-r.Watcher.Errors:
			if ok && err != nil {
				r.logger().Error("defs: watch error", "err", err)
			}
		default:
			return results
		}
	}
}

func (r *Reloader) reload(name string) (LoadResult, bool) {
	dir, file := filepath.Dir(name), filepath.Base(name)
	var load func(string) error
	switch {
	case r.Actors != nil && sameDir(dir, r.ActorDir):
		load = r.Actors.LoadFile
	case r.Levels != nil && sameDir(dir, r.LevelDir):
		load = r.Levels.LoadFile
	default:
		return LoadResult{}, false
	}

	if _, err := os.Stat(name); errors.Is(err, os.ErrNotExist) {
		r.logger().Info("defs: definition file removed, keeping loaded definitions", "file", name)
		return LoadResult{}, false
	}

	err := load(file)
	if err != nil {
		r.logger().Error("defs: error reloading definition file", "file", name, "err", err)
	} else {
		r.logger().Info("defs: reloaded definition file", "file", name)
	}
	return LoadResult{File: file, Name: baseName(file), Err: err}, true
}

func (r *Reloader) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func sameDir(a, b string) bool {
	if b == "" {
		return false
	}
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}
