package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if !cfg.Watch {
		t.Error("expected watch to be true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %s", cfg.LogLevel)
	}
	if cfg.Tree.MaxFileSize <= 0 {
		t.Error("expected a positive max file size")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfigAt(tmpFile)
	cfg.Port = 9999
	cfg.Tree.File = "/srv/tree.hcl"
	cfg.SessionStore = "/var/lib/webshell/sessions.yaml"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Port != 9999 {
		t.Errorf("expected port 9999, got %d", loaded.Port)
	}
	if loaded.Tree.File != "/srv/tree.hcl" {
		t.Errorf("expected tree file, got %q", loaded.Tree.File)
	}
	if loaded.SessionStore != cfg.SessionStore {
		t.Errorf("expected session store %q, got %q", cfg.SessionStore, loaded.SessionStore)
	}
	if loaded.GetConfigFilePath() != tmpFile {
		t.Errorf("expected config path %s, got %s", tmpFile, loaded.GetConfigFilePath())
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webshell.yaml")
	if err := os.WriteFile(path, []byte("port: 3000\ntree:\n  path: ./site\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 3000 || cfg.Tree.Path != "./site" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !cfg.Watch || cfg.Prompt != "guest@webshell" {
		t.Errorf("expected defaults to survive, got %+v", cfg)
	}
}

func TestLoadExplicitErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("port: [1"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tree.File = "tree.yaml"
	cfg.Port = 3000

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Flags(fs)
	if err := fs.Parse([]string{"--path", "./docs", "--exclude", "*.tmp,.git", "--watch=false"}); err != nil {
		t.Fatal(err)
	}
	if err := cfg.ApplyFlags(fs); err != nil {
		t.Fatalf("ApplyFlags failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("unset flag overrode port: %d", cfg.Port)
	}
	if cfg.Tree.Path != "./docs" || cfg.Tree.File != "" {
		t.Errorf("expected --path to replace the tree file, got %+v", cfg.Tree)
	}
	if len(cfg.Tree.Exclude) != 2 || cfg.Tree.Exclude[0] != "*.tmp" {
		t.Errorf("unexpected excludes %v", cfg.Tree.Exclude)
	}
	if cfg.Watch {
		t.Error("expected watch to be disabled")
	}

	opts := cfg.SourceOptions()
	if opts.Path != "./docs" || opts.MaxFileSize != cfg.Tree.MaxFileSize {
		t.Errorf("unexpected source options %+v", opts)
	}
}

func TestDefaultConfigAtFallsBackToUserPath(t *testing.T) {
	if got := DefaultConfigAt("").GetConfigFilePath(); got != GetConfigPath() {
		t.Errorf("expected %s, got %s", GetConfigPath(), got)
	}
}
