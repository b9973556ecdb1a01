package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

func TestNewRegistry_SeedsBuiltins(t *testing.T) {
	r := NewRegistry("")
	if !r.Exists("go") {
		t.Error("expected built-in 'go' descriptor")
	}
	if len(r.List()) != len(builtinDescriptors) {
		t.Errorf("expected %d descriptors, got %d", len(builtinDescriptors), len(r.List()))
	}
}

func TestGet_UnknownReturnsNotFound(t *testing.T) {
	r := NewRegistry("")
	_, err := r.Get("cobol")
	if !xerrors.Is(err, xerrors.KindNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestRegister_PersistsYAMLAndMarkdown(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry(dir)
	d := model.AgentDescriptor{Name: "zig", DisplayName: "Zig Engineer", Language: "zig"}
	if err := r.Register(d); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !r.Exists("zig") {
		t.Error("expected zig to be registered in memory")
	}

	reloaded := NewRegistry(dir)
	if err := reloaded.LoadDir(); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	got, err := reloaded.Get("zig")
	if err != nil {
		t.Fatalf("Get after reload: %v", err)
	}
	if got.Language != "zig" {
		t.Errorf("expected language zig, got %q", got.Language)
	}

	if _, err := os.Stat(filepath.Join(dir, "zig.md")); err != nil {
		t.Errorf("expected zig.md persona sidecar to exist: %v", err)
	}
}
