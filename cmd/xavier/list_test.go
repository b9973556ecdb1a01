package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestListCmd_RejectsUnknownKind(t *testing.T) {
	cmd := newListCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--config", "/nonexistent/xavier.yaml", "sprockets"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error for an unknown list kind")
	}
	if !strings.Contains(err.Error(), "unknown list kind") {
		t.Errorf("expected 'unknown list kind' error, got: %v", err)
	}
}

func TestListCmd_RequiresExactlyOneArg(t *testing.T) {
	cmd := newListCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error when no kind argument is given")
	}
}
