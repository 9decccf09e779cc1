// Package store provides the key-value persistence used for terminal session state.
package store

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// KV is a string key-value store.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Memory keeps values for the lifetime of the process.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// YAMLFile keeps values in memory and rewrites a YAML file on every Set, so
// sessions survive a server restart.
type YAMLFile struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
}

// OpenYAMLFile loads the store at path. A missing file yields an empty store.
func OpenYAMLFile(path string) (*YAMLFile, error) {
	f := &YAMLFile{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, errors.Wrapf(err, "reading session store %s", path)
	}
	if err := yaml.Unmarshal(data, &f.values); err != nil {
		return nil, errors.Wrapf(err, "parsing session store %s", path)
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	return f, nil
}

// Get returns the value stored under key.
func (f *YAMLFile) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok
}

// Set stores value under key and writes the file. The in-memory value is only
// updated when the write succeeds.
func (f *YAMLFile) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make(map[string]string, len(f.values)+1)
	for k, v := range f.values {
		next[k] = v
	}
	next[key] = value

	if err := f.save(next); err != nil {
		return err
	}
	f.values = next
	return nil
}

func (f *YAMLFile) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return errors.Wrap(err, "creating session store directory")
	}
	data, err := yaml.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "encoding session store")
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, "writing session store %s", f.path)
	}
	return errors.Wrapf(os.Rename(tmp, f.path), "replacing session store %s", f.path)
}

// Scoped prefixes every key so several sessions can share one backing store.
type Scoped struct {
	kv     KV
	prefix string
}

// NewScoped returns a view of kv whose keys live under scope.
func NewScoped(kv KV, scope string) *Scoped {
	return &Scoped{kv: kv, prefix: scope + "/"}
}

// Get returns the value stored under key in this scope.
func (s *Scoped) Get(key string) (string, bool) {
	return s.kv.Get(s.prefix + key)
}

// Set stores value under key in this scope.
func (s *Scoped) Set(key, value string) error {
	return s.kv.Set(s.prefix+key, value)
}
