package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/CageChen/webshell/internal/source"
	"github.com/CageChen/webshell/internal/vfs"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestReloadOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	if err := os.WriteFile(path, []byte("a: one\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := &source.YAMLFile{Path: path}
	root, err := src.Load()
	if err != nil {
		t.Fatal(err)
	}
	holder := vfs.NewHolder(root)

	logger, _ := test.NewNullLogger()
	w, err := New(src, holder, logger)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	w.debounce = 10 * time.Millisecond

	events := make(chan Event, 4)
	w.OnReload(func(e Event) { events <- e })
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = w.Stop() }()

	if err := os.WriteFile(path, []byte("a: one\nb: two\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case e := <-events:
		if e.Err != nil {
			t.Fatalf("reload failed: %v", e.Err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	if _, err := vfs.ResolveNode(holder.Root(), "/b", "/"); err != nil {
		t.Errorf("expected reloaded tree to contain /b: %v", err)
	}
}

func TestReloadKeepsTreeOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	if err := os.WriteFile(path, []byte("- broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	previous := vfs.NewBuilder().MustBuild()
	holder := vfs.NewHolder(previous)
	logger, hook := test.NewNullLogger()

	w, err := New(&source.YAMLFile{Path: path}, holder, logger)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = w.watcher.Close() }()

	var got Event
	w.OnReload(func(e Event) { got = e })
	w.Reload()

	if got.Err == nil {
		t.Error("expected reload error")
	}
	if holder.Root() != previous {
		t.Error("failed reload must keep the previous tree")
	}
	if hook.LastEntry() == nil || hook.LastEntry().Level != logrus.ErrorLevel {
		t.Error("expected an error log entry")
	}
}
