package rules

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/birkland/rdftype"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ConfigFile is the name of the rules file
const ConfigFile = "rdf_type_validation.yml"

// ConfigDir is the directory, relative to an application or engine root, containing the rules file
const ConfigDir = "config"

// BundledSource names DefaultConfig when it is the source of a Loader's rules
const BundledSource = "<bundled>"

// Loader resolves, loads and caches the rules used for validation.
//
// A Loader is safe for concurrent use.  The rules file is read at most once until the
// Loader is Reset or Reloaded.
type Loader struct {
	mu         sync.RWMutex
	path       string // explicitly configured rules file
	appRoot    string
	engineRoot string
	bundled    bool
	rules      *rdftype.RuleSet
	loadedFrom string
	log        *zap.Logger
}

// Option configures a Loader
type Option func(*Loader)

// WithAppRoot sets the host application root, whose config directory is searched first
func WithAppRoot(dir string) Option {
	return func(l *Loader) {
		l.appRoot = dir
	}
}

// WithEngineRoot sets the engine root, whose config directory holds the shipped default rules
func WithEngineRoot(dir string) Option {
	return func(l *Loader) {
		l.engineRoot = dir
	}
}

// WithBundledDefault makes DefaultConfig the last resort, used when no rules file exists
// under the application or engine roots.  An explicitly configured file is never replaced.
func WithBundledDefault() Option {
	return func(l *Loader) {
		l.bundled = true
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLoader creates a Loader.  Nothing is read until rules are first requested.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DefaultPaths lists the candidate rules files for the given application and engine roots,
// from most specific to most generic.  Empty roots are skipped.
func DefaultPaths(appRoot, engineRoot string) []string {
	var paths []string
	for _, root := range []string{appRoot, engineRoot} {
		if root != "" {
			paths = append(paths, filepath.Join(root, ConfigDir, ConfigFile))
		}
	}
	return paths
}

// Configure sets the rules file explicitly.  It fails with rdftype.ErrConfigNotFound, leaving
// the Loader untouched, if path is not an existing file.  Already cached rules are kept
// until Reset or Reload.
func (l *Loader) Configure(path string) error {
	if !isFile(path) {
		return errors.Wrapf(rdftype.ErrConfigNotFound, "%s is not a file", path)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.path = path
	return nil
}

// Source returns the rules file the Loader would read: the configured file, if any,
// otherwise the first default path that exists, otherwise BundledSource if enabled.
func (l *Loader) Source() (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.resolve()
}

// Candidates lists every rules file the Loader may resolve to, most specific first.  It
// is just the configured file, if there is one.  BundledSource is not included.
func (l *Loader) Candidates() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.path != "" {
		return []string{l.path}
	}
	return DefaultPaths(l.appRoot, l.engineRoot)
}

// LoadedFrom returns the file the cached rules were read from, if any
func (l *Loader) LoadedFrom() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loadedFrom
}

// Rules returns the cached rules, loading them on first use
func (l *Loader) Rules() (*rdftype.RuleSet, error) {
	l.mu.RLock()
	rs := l.rules
	l.mu.RUnlock()

	if rs != nil {
		return rs, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.rules != nil {
		return l.rules, nil
	}

	return l.load()
}

// Reset drops the cached rules, so the next call to Rules reads the rules file again
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rules = nil
	l.loadedFrom = ""
}

// Reload reads the rules file again.  If that fails, the previously cached rules are kept.
func (l *Loader) Reload() (*rdftype.RuleSet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

// load reads and caches rules.  Must be called with the write lock held.
func (l *Loader) load() (*rdftype.RuleSet, error) {
	path, err := l.resolve()
	if err != nil {
		return nil, err
	}

	var rs *rdftype.RuleSet
	if path == BundledSource {
		rs, err = Parse(bytes.NewReader(DefaultConfig))
		err = errors.Wrap(err, "could not parse bundled rules")
	} else {
		rs, err = LoadFile(path)
	}
	if err != nil {
		l.log.Error("could not load rdf:type rules", zap.String("path", path), zap.Error(err))
		return nil, err
	}

	l.rules = rs
	l.loadedFrom = path
	l.log.Info("loaded rdf:type rules", zap.String("path", path), zap.Int("rules", rs.Len()))

	return rs, nil
}

func (l *Loader) resolve() (string, error) {
	if l.path != "" {
		return l.path, nil
	}

	paths := DefaultPaths(l.appRoot, l.engineRoot)
	for _, p := range paths {
		if isFile(p) {
			return p, nil
		}
	}

	if l.bundled {
		return BundledSource, nil
	}

	return "", errors.Wrapf(rdftype.ErrConfigNotFound, "searched [%s]", strings.Join(paths, ", "))
}

// LoadFile reads and parses a rules file, without caching
func LoadFile(path string) (rs *rdftype.RuleSet, err error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(rdftype.ErrConfigNotFound, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not open rules file %s", path)
	}
	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = errors.Wrapf(e, "error closing rules file %s", path)
		}
	}()

	rs, err = Parse(file)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse rules file %s", path)
	}

	return rs, nil
}

func isFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
