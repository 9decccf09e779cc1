package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemory(t *testing.T) {
	m := NewMemory()
	if _, ok := m.Get("k"); ok {
		t.Fatal("expected missing key")
	}
	if err := m.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	if v, ok := m.Get("k"); !ok || v != "v" {
		t.Errorf("expected v, got %q (%v)", v, ok)
	}
}

func TestYAMLFileSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions", "store.yaml")

	f, err := OpenYAMLFile(path)
	if err != nil {
		t.Fatalf("OpenYAMLFile failed: %v", err)
	}
	if err := f.Set("abc/currentPath", "/projects/"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened, err := OpenYAMLFile(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if v, ok := reopened.Get("abc/currentPath"); !ok || v != "/projects/" {
		t.Errorf("expected /projects/, got %q (%v)", v, ok)
	}
}

func TestYAMLFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.yaml")
	if err := os.WriteFile(path, []byte("- not\n- a map\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenYAMLFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestScoped(t *testing.T) {
	m := NewMemory()
	a := NewScoped(m, "a")
	b := NewScoped(m, "b")

	if err := a.Set("currentPath", "/x/"); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.Get("currentPath"); ok {
		t.Error("scopes must not share keys")
	}
	if v, _ := m.Get("a/currentPath"); v != "/x/" {
		t.Errorf("expected prefixed key, got %q", v)
	}
}
