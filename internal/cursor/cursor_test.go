package cursor

import (
	"errors"
	"testing"

	"github.com/CageChen/webshell/internal/vfs"
)

type mapStore struct {
	values map[string]string
	sets   int
	err    error
}

func newMapStore() *mapStore {
	return &mapStore{values: map[string]string{}}
}

func (s *mapStore) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *mapStore) Set(key, value string) error {
	if s.err != nil {
		return s.err
	}
	s.sets++
	s.values[key] = value
	return nil
}

func testTree() *vfs.Directory {
	b := vfs.NewBuilder()
	b.File("a.txt", "a")
	b.Dir("b").File("c.txt", "c")
	return b.MustBuild()
}

func TestNewDefaultsToRoot(t *testing.T) {
	c := New(testTree(), newMapStore())
	if c.CurrentPath() != "/" {
		t.Errorf("expected /, got %s", c.CurrentPath())
	}
}

func TestNewRestoresPersistedPath(t *testing.T) {
	store := newMapStore()
	store.values[Key] = "/b"

	c := New(testTree(), store)
	if c.CurrentPath() != "/b/" {
		t.Errorf("expected /b/, got %s", c.CurrentPath())
	}
}

func TestNewIgnoresStalePersistedPath(t *testing.T) {
	store := newMapStore()
	store.values[Key] = "/gone/"

	c := New(testTree(), store)
	if c.CurrentPath() != "/" {
		t.Errorf("expected fallback to /, got %s", c.CurrentPath())
	}
}

func TestSetCurrentPath(t *testing.T) {
	store := newMapStore()
	c := New(testTree(), store)

	if err := c.SetCurrentPath("b"); err != nil {
		t.Fatalf("SetCurrentPath failed: %v", err)
	}
	if c.CurrentPath() != "/b/" {
		t.Errorf("expected /b/, got %s", c.CurrentPath())
	}
	if store.values[Key] != "/b/" {
		t.Errorf("expected persisted /b/, got %q", store.values[Key])
	}

	if err := c.SetCurrentPath(".."); err != nil {
		t.Fatalf("SetCurrentPath(..) failed: %v", err)
	}
	if c.CurrentPath() != "/" {
		t.Errorf("expected /, got %s", c.CurrentPath())
	}
}

func TestSetCurrentPathOnFileLeavesCursor(t *testing.T) {
	store := newMapStore()
	c := New(testTree(), store)
	if err := c.SetCurrentPath("/b/"); err != nil {
		t.Fatal(err)
	}
	before := c.CurrentPath()
	setsBefore := store.sets

	err := c.SetCurrentPath("c.txt")
	if !errors.Is(err, vfs.ErrNotADirectory) {
		t.Fatalf("expected not a directory, got %v", err)
	}
	if c.CurrentPath() != before {
		t.Errorf("cursor moved from %s to %s", before, c.CurrentPath())
	}
	if store.sets != setsBefore {
		t.Error("failed change must not be persisted")
	}
}

func TestSetCurrentPathAboveRoot(t *testing.T) {
	c := New(testTree(), newMapStore())
	if err := c.SetCurrentPath(".."); !errors.Is(err, vfs.ErrInvalidPath) {
		t.Fatalf("expected invalid path, got %v", err)
	}
	if c.CurrentPath() != "/" {
		t.Errorf("expected /, got %s", c.CurrentPath())
	}
}

func TestSetCurrentPathStoreFailure(t *testing.T) {
	store := newMapStore()
	store.err = errors.New("disk full")
	c := New(testTree(), store)

	if err := c.SetCurrentPath("b"); err == nil {
		t.Fatal("expected store error")
	}
	if c.CurrentPath() != "/" {
		t.Errorf("expected cursor unchanged, got %s", c.CurrentPath())
	}
}

func TestResolveRelativeToCursor(t *testing.T) {
	c := New(testTree(), newMapStore())
	if err := c.SetCurrentPath("b"); err != nil {
		t.Fatal(err)
	}

	res, err := c.Resolve("c.txt")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if res.Path != "/b/c.txt" {
		t.Errorf("expected /b/c.txt, got %s", res.Path)
	}
	if _, err := c.ResolveDirectory("c.txt"); !errors.Is(err, vfs.ErrNotADirectory) {
		t.Errorf("expected not a directory, got %v", err)
	}
}
