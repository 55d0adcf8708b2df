package assets

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"reelcaption/internal/logging"
)

// Subscription delivers change signals for one watched file. Signals are
// coalesced: a burst of writes produces at most one pending signal.
type Subscription struct {
	C <-chan struct{}

	cancel func()
	once   sync.Once
}

// Cancel stops delivery. It is safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// NewSubscription builds a Subscription around a signal channel. Tests and
// alternative watchers use it.
func NewSubscription(c <-chan struct{}, cancel func()) *Subscription {
	if cancel == nil {
		cancel = func() {}
	}
	return &Subscription{C: c, cancel: cancel}
}

// Watcher signals when files under a static directory change.
type Watcher struct {
	registry *Registry
	logger   *slog.Logger
	fsw      *fsnotify.Watcher

	mu     sync.Mutex
	subs   map[string]map[int]chan struct{}
	dirs   map[string]int
	nextID int
	done   chan struct{}
	closed bool
}

// NewWatcher starts an fsnotify watcher for the registry's directory tree.
func NewWatcher(registry *Registry, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	w := &Watcher{
		registry: registry,
		logger:   logging.NewComponentLogger(logger, "assets"),
		fsw:      fsw,
		subs:     make(map[string]map[int]chan struct{}),
		dirs:     make(map[string]int),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Watch subscribes to changes of the file identified by id. The file does not
// need to exist yet; creation is reported like any other change.
func (w *Watcher) Watch(id string) (*Subscription, error) {
	target := w.registry.Path(id)
	dir := filepath.Dir(target)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, errors.New("watch: watcher closed")
	}
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++

	ch := make(chan struct{}, 1)
	w.nextID++
	subID := w.nextID
	if w.subs[target] == nil {
		w.subs[target] = make(map[int]chan struct{})
	}
	w.subs[target][subID] = ch

	return NewSubscription(ch, func() { w.unsubscribe(target, dir, subID) }), nil
}

func (w *Watcher) unsubscribe(target, dir string, subID int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.subs[target], subID)
	if len(w.subs[target]) == 0 {
		delete(w.subs, target)
	}
	if w.closed {
		return
	}
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if err := w.fsw.Remove(dir); err != nil {
			w.logger.Debug("remove watch failed", logging.String("dir", dir), logging.Error(err))
		}
	}
}

// Close stops the watcher. Outstanding subscriptions stop receiving signals.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			w.notify(filepath.Clean(event.Name))
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.WarnWithContext(w.logger, "file watcher error", "asset_watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "transcript changes may be missed until the next write"),
			)
		}
	}
}

func (w *Watcher) notify(target string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs[target] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
