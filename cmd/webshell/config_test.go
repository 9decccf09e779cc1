package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CageChen/webshell/internal/config"
	"github.com/spf13/pflag"
)

func initFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("init", pflag.ContinueOnError)
	config.Flags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webshell", "config.yaml")

	var out bytes.Buffer
	if err := initConfig(path, false, initFlags(t, "--port", "9090"), &out); err != nil {
		t.Fatalf("initConfig failed: %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Errorf("expected written path in output, got %q", out.String())
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.Prompt != config.DefaultConfig().Prompt {
		t.Errorf("expected default prompt, got %q", cfg.Prompt)
	}
}

func TestInitConfigKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	var out bytes.Buffer

	if err := initConfig(path, false, initFlags(t), &out); err != nil {
		t.Fatalf("initConfig failed: %v", err)
	}
	if err := initConfig(path, false, initFlags(t, "--port", "1234"), &out); err == nil {
		t.Fatal("expected error for existing file")
	}
	if err := initConfig(path, true, initFlags(t, "--port", "1234"), &out); err != nil {
		t.Fatalf("initConfig with force failed: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 1234 {
		t.Errorf("expected port 1234, got %d", cfg.Port)
	}
}
