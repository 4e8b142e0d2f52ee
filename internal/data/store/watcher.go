package store

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-talkshow/internal/util"
)

// ReloadEvent reports the outcome of a reload triggered by a file change
type ReloadEvent struct {
	Changed bool
	Err     error
}

// Watcher reloads a store whenever its file is written, created or replaced
type Watcher struct {
	watcher *fsnotify.Watcher
	store   *Store
	events  chan ReloadEvent
	done    chan struct{}
}

// NewWatcher watches the directory of the store's file
func NewWatcher(store *Store) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// editors and writers often replace the file, so watch its directory
	if err := watcher.Add(filepath.Dir(store.Path())); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &Watcher{
		watcher: watcher,
		store:   store,
		events:  make(chan ReloadEvent, 16),
		done:    make(chan struct{}),
	}
	go w.processEvents()
	return w, nil
}

func (w *Watcher) processEvents() {
	defer close(w.done)
	target := filepath.Clean(w.store.Path())

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			changed, err := w.store.ReloadIfChanged()
			if err != nil {
				util.LogWarnf("Failed to reload storage file after %s: %v", event.Op, err)
			} else if changed {
				util.LogInfof("Storage file changed (%s), reloaded", event.Op)
			}
			w.emit(ReloadEvent{Changed: changed, Err: err})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

func (w *Watcher) emit(event ReloadEvent) {
	select {
	case w.events <- event:
	default:
	}
}

// Events delivers reload outcomes; events are dropped when nobody reads
func (w *Watcher) Events() <-chan ReloadEvent {
	return w.events
}

func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
