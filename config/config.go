// Package config loads project configuration for the linter and hands it out
// as immutable versioned snapshots. In-flight analysis runs keep the snapshot
// they started with; a reload produces a new version without disturbing them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileName is the project configuration file looked up in the working
// directory.
const FileName = "js-lint.yaml"

// FileNameAlt is the alternate spelling of the configuration file.
const FileNameAlt = "js-lint.yml"

// DefaultWorkers is used when the configuration does not set a worker count.
const DefaultWorkers = 4

// Config is the raw shape of the project configuration file.
type Config struct {
	// DisabledRules lists rule codes (e.g. "lint/js/noVar") to skip.
	DisabledRules []string `koanf:"disabled-rules"`
	// Globals lists identifiers assumed to be declared elsewhere.
	Globals []string `koanf:"globals"`
	// Fix makes the check command apply fixes by default.
	Fix bool `koanf:"fix"`
	// Workers bounds per-file analysis parallelism.
	Workers int `koanf:"workers"`
}

// Snapshot is an immutable view of the configuration at a version. All
// methods are safe on a nil receiver, which behaves like the defaults.
type Snapshot struct {
	Version int
	Config

	disabled map[string]bool
	globals  map[string]bool
}

func newSnapshot(version int, c Config) *Snapshot {
	s := &Snapshot{
		Version:  version,
		Config:   c,
		disabled: make(map[string]bool, len(c.DisabledRules)),
		globals:  make(map[string]bool, len(c.Globals)),
	}
	for _, id := range c.DisabledRules {
		s.disabled[id] = true
	}
	for _, name := range c.Globals {
		s.globals[name] = true
	}
	return s
}

// RuleDisabled reports whether the rule code is disabled by configuration.
func (s *Snapshot) RuleDisabled(code string) bool {
	return s != nil && s.disabled[code]
}

// IsGlobal reports whether the identifier is a configured ambient global.
func (s *Snapshot) IsGlobal(name string) bool {
	return s != nil && s.globals[name]
}

// WorkerCount returns the configured worker bound, or DefaultWorkers.
func (s *Snapshot) WorkerCount() int {
	if s == nil || s.Workers <= 0 {
		return DefaultWorkers
	}
	return s.Workers
}

// Store owns the current snapshot. Load and Reload swap it atomically and
// bump the version; Current never blocks.
type Store struct {
	mu      sync.Mutex
	path    string
	version int
	current atomic.Pointer[Snapshot]
}

// NewStore returns a store whose current snapshot holds the defaults.
func NewStore() *Store {
	st := &Store{version: 1}
	st.current.Store(newSnapshot(1, defaults()))
	return st
}

func defaults() Config {
	k := koanf.New(".")
	// confmap carries the baked-in defaults so file values overlay them.
	_ = k.Load(confmap.Provider(map[string]interface{}{
		"workers": DefaultWorkers,
		"fix":     false,
	}, "."), nil)

	var c Config
	_ = k.Unmarshal("", &c)
	return c
}

// LoadDir looks for js-lint.yaml or js-lint.yml in dir and loads it. A
// missing file is not an error; the defaults stay current.
func (st *Store) LoadDir(dir string) error {
	path := findConfigFile(dir)
	if path == "" {
		return nil
	}
	return st.LoadFile(path)
}

// LoadFile loads the given configuration file and publishes a new snapshot.
func (st *Store) LoadFile(path string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.path = path
	return st.reloadLocked()
}

// Reload re-reads the last loaded file and publishes a new snapshot. Runs
// holding the previous snapshot are unaffected.
func (st *Store) Reload() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.path == "" {
		return nil
	}
	return st.reloadLocked()
}

func (st *Store) reloadLocked() error {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"workers": DefaultWorkers,
		"fix":     false,
	}, "."), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := k.Load(file.Provider(st.path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", st.path, err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return fmt.Errorf("failed to unmarshal config file %s: %w", st.path, err)
	}

	st.version++
	st.current.Store(newSnapshot(st.version, c))
	return nil
}

// Current returns the latest snapshot. Safe on a nil store.
func (st *Store) Current() *Snapshot {
	if st == nil {
		return nil
	}
	return st.current.Load()
}

func findConfigFile(dir string) string {
	for _, name := range []string{FileName, FileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
