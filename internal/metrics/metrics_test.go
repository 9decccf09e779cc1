package metrics

import (
	"fmt"
	"testing"

	"github.com/CageChen/webshell/internal/shell"
	"github.com/CageChen/webshell/internal/vfs"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCommandExecuted(t *testing.T) {
	o := Observer{}

	before := testutil.ToFloat64(commandsTotal.WithLabelValues("ls", "ok"))
	o.CommandExecuted("ls", nil)
	if got := testutil.ToFloat64(commandsTotal.WithLabelValues("ls", "ok")); got != before+1 {
		t.Errorf("expected ls/ok to grow by 1, got %v -> %v", before, got)
	}

	before = testutil.ToFloat64(commandsTotal.WithLabelValues("unknown", "unknown"))
	o.CommandExecuted("frobnicate", fmt.Errorf("wrapped: %w", shell.ErrUnknownCommand))
	if got := testutil.ToFloat64(commandsTotal.WithLabelValues("unknown", "unknown")); got != before+1 {
		t.Errorf("expected unknown/unknown to grow by 1, got %v -> %v", before, got)
	}
}

func TestResolveFailuresByKind(t *testing.T) {
	before := testutil.ToFloat64(resolveFailuresTotal.WithLabelValues("not_a_directory"))
	Observer{}.CommandExecuted("cd", &vfs.PathError{Kind: vfs.NotADirectory, Path: "/a.txt"})

	if got := testutil.ToFloat64(resolveFailuresTotal.WithLabelValues("not_a_directory")); got != before+1 {
		t.Errorf("expected not_a_directory to grow by 1, got %v -> %v", before, got)
	}
	if got := testutil.ToFloat64(commandsTotal.WithLabelValues("cd", "error")); got < 1 {
		t.Errorf("expected cd/error to be counted, got %v", got)
	}
}

func TestSetTreeNodes(t *testing.T) {
	SetTreeNodes(42)
	if got := testutil.ToFloat64(treeNodes); got != 42 {
		t.Errorf("expected 42, got %v", got)
	}
}
