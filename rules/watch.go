package rules

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/birkland/rdftype"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a rules file must be quiet before it is reloaded
const DefaultDebounce = 250 * time.Millisecond

// ReloadFunc is invoked after each reload triggered by a Watcher, with either the freshly
// loaded rules or the reason loading failed.
type ReloadFunc func(*rdftype.RuleSet, error)

// Watcher reloads a Loader whenever one of its candidate rules files changes on disk, so
// that editing the rules in use, or creating or removing an application override of the
// engine defaults, takes effect.
//
// Directories are watched rather than files, so editors that save by writing a temp file
// and renaming it over the original are noticed.  A config directory that does not exist
// yet is noticed when it is created, as long as its parent exists.
type Watcher struct {
	mu         sync.Mutex
	loader     *Loader
	watcher    *fsnotify.Watcher
	path       string
	candidates map[string]bool
	awaiting   map[string]bool // config directories to watch once created
	onReload   ReloadFunc
	debounce time.Duration
	log      *zap.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// WatcherOption configures a Watcher
type WatcherOption func(*Watcher)

// WithDebounce sets how long changes must settle before the rules are reloaded
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatchLogger sets the watcher's logger
func WithWatchLogger(log *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		if log != nil {
			w.log = log
		}
	}
}

// NewWatcher creates a watcher for the loader's candidate rules files.  The loader must
// currently resolve to some rules.  onReload may be nil.
func NewWatcher(l *Loader, onReload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	source, err := l.Source()
	if err != nil {
		return nil, errors.Wrap(err, "nothing to watch")
	}

	path := source
	if source != BundledSource {
		if path, err = filepath.Abs(source); err != nil {
			return nil, errors.Wrapf(err, "could not calculate absolute path of %s", source)
		}
	}

	candidates := make(map[string]bool)
	for _, c := range l.Candidates() {
		abs, err := filepath.Abs(c)
		if err != nil {
			return nil, errors.Wrapf(err, "could not calculate absolute path of %s", c)
		}
		candidates[abs] = true
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "could not create file watcher")
	}

	w := &Watcher{
		loader:     l,
		watcher:    fw,
		path:       path,
		candidates: candidates,
		awaiting:   make(map[string]bool),
		onReload:   onReload,
		debounce:   DefaultDebounce,
		log:        zap.NewNop(),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Path is the rules file in use when the watcher was created, possibly BundledSource
func (w *Watcher) Path() string {
	return w.path
}

// Start begins watching.  It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	var watched []string
	for c := range w.candidates {
		dir := filepath.Dir(c)
		target := dir
		if !isDir(dir) {
			target = filepath.Dir(dir)
			if !isDir(target) {
				w.log.Debug("not watching rules location", zap.String("path", c))
				continue
			}
			w.awaiting[dir] = true
		}
		if err := w.watcher.Add(target); err != nil {
			return errors.Wrapf(err, "could not watch %s", target)
		}
		watched = append(watched, target)
	}

	if len(watched) == 0 {
		return errors.Errorf("none of the locations of %s can be watched", w.path)
	}

	w.running = true
	w.log.Info("watching rdf:type rules", zap.String("path", w.path), zap.Strings("dirs", watched))

	go w.run(ctx)
	return nil
}

// Stop stops watching, and waits for the watch loop to exit
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}

	if err := w.watcher.Close(); err != nil {
		w.log.Warn("error closing file watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 2
	if tick <= 0 {
		tick = w.debounce
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	var pending bool
	var last time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("rules changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			pending = true
			last = time.Now()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher error", zap.Error(err))

		case <-ticker.C:
			if pending && time.Since(last) >= w.debounce {
				pending = false
				w.reload()
			}
		}
	}
}

func (w *Watcher) reload() {
	rs, err := w.loader.Reload()
	if err != nil {
		w.log.Warn("keeping previous rdf:type rules", zap.Error(err))
	}
	if w.onReload != nil {
		w.onReload(rs, err)
	}
}

// relevant decides whether an event may change which rules are in effect.  A newly created
// config directory is watched from then on.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	name := filepath.Clean(event.Name)

	if w.candidates[name] {
		return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0
	}

	if w.awaiting[name] && event.Op&fsnotify.Create != 0 && isDir(name) {
		if err := w.watcher.Add(name); err != nil {
			w.log.Warn("could not watch new config directory", zap.String("dir", name), zap.Error(err))
			return false
		}
		delete(w.awaiting, name)
		return true
	}

	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
