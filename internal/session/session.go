// Package session keeps one shell per browser session.
package session

import (
	"sync"

	"github.com/CageChen/webshell/internal/shell"
	"github.com/CageChen/webshell/internal/store"
	"github.com/CageChen/webshell/internal/vfs"
	"github.com/google/uuid"
)

// Session serializes access to one shell.
type Session struct {
	ID string

	mu sync.Mutex
	sh *shell.Shell
}

// Execute runs one input line.
func (s *Session) Execute(line string) shell.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sh.Execute(line)
}

// Cwd returns the session's current directory.
func (s *Session) Cwd() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sh.Cwd()
}

// Manager creates sessions on demand. Each session persists its cursor in
// the shared store under its own scope.
type Manager struct {
	tree vfs.Tree
	kv   store.KV
	opts []shell.Option

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a Manager serving tree.
func NewManager(tree vfs.Tree, kv store.KV, opts ...shell.Option) *Manager {
	return &Manager{
		tree:     tree,
		kv:       kv,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating it if needed. An id that is not
// a valid UUID is replaced by a fresh one; callers should hand the returned
// session's ID back to the client.
func (m *Manager) Get(id string) *Session {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := &Session{
		ID: id,
		sh: shell.New(m.tree, store.NewScoped(m.kv, id), m.opts...),
	}
	m.sessions[id] = s
	return s
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
