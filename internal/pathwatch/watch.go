// Package pathwatch provides file system change notifications.
package pathwatch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// DefaultDebounce is how long a Watcher waits for a burst of changes to a file to settle
// before sending a notification.
const DefaultDebounce = 50 * time.Millisecond

// A Watcher keeps track of a set of paths and sends notifications on user-provided
// channels whenever the file at one of them is written, created, removed or renamed.
// The specific nature of the change is not reported; it is up to the user to determine
// what happened.
//
// Files are watched through their parent directory, so a file that doesn't exist yet can
// be watched as long as its directory does. Notifications are sent without blocking; a
// notification for a channel that is full is dropped.
//
// Any errors that the Watcher encounters while monitoring the paths are delivered on the
// channel returned by Errors.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	files    map[string][]chan<- struct{}
	dirs     map[string]int
	errors   chan error
	control  chan func()
	quit     chan struct{}
}

// NewWatcher starts a new watcher.
// When no longer in use, the user should call Close to release resources associated with it.
func NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: DefaultDebounce,
		files:    map[string][]chan<- struct{}{},
		dirs:     map[string]int{},
		errors:   make(chan error, 10),
		control:  make(chan func(), 10),
		quit:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Add begins sending change notifications for a path on the given channel.
// Multiple calls to Add for the same path, but different channels, are permitted;
// in that case, the notifications will be sent on all of them.
func (w *Watcher) Add(path string, ch chan<- struct{}) {
	path, err := filepath.Abs(path)
	if err != nil {
		w.reportError(err)
		return
	}
	w.control <- func() {
		if _, ok := w.files[path]; !ok {
			dir := filepath.Dir(path)
			if w.dirs[dir] == 0 {
				if err := w.fsw.Add(dir); err != nil {
					w.reportError(errors.Wrapf(err, "watching %s", dir))
					return
				}
			}
			w.dirs[dir]++
		}
		w.files[path] = append(w.files[path], ch)
	}
}

// Remove stops sending change notifications for a path on the given channel.
// It does not cancel other calls to Add made for the same path, but different
// channels.
func (w *Watcher) Remove(path string, ch chan<- struct{}) {
	path, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.control <- func() {
		observers := w.files[path]
		for i, ob := range observers {
			if ob != ch {
				continue
			}
			if len(observers) > 1 {
				n := len(observers) - 1
				observers[i] = observers[n]
				w.files[path] = observers[:n]
				return
			}
			delete(w.files, path)
			dir := filepath.Dir(path)
			if w.dirs[dir]--; w.dirs[dir] == 0 {
				delete(w.dirs, dir)
				w.fsw.Remove(dir)
			}
			return
		}
	}
}

// Errors returns a channel on which the Watcher delivers errors it encounters.
func (w *Watcher) Errors() <-chan error { return w.errors }

// Close stops delivering change notifications for any paths and releases all resources
// associated with the watcher.
func (w *Watcher) Close() error {
	close(w.quit)
	return w.fsw.Close()
}

func (w *Watcher) reportError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

func (w *Watcher) run() {
	pending := map[string]bool{}
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			name := filepath.Clean(ev.Name)
			if _, watched := w.files[name]; !watched || ev.Op&relevantOps == 0 {
				continue
			}
			pending[name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			for name := range pending {
				for _, ob := range w.files[name] {
					select {
					case ob <- struct{}{}:
					default:
					}
				}
			}
			clear(pending)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		case f := <-w.control:
			f()
		case <-w.quit:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
