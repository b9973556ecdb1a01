package main

import (
	"bytes"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is way too long for the limit", 15, "this is way ..."},
		{"abc", 3, "abc"},
	}
	for _, tt := range tests {
		got := truncate(tt.input, tt.maxLen)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestStoryCreateCmd_RequiresRoleAndWant(t *testing.T) {
	cmd := newStoryCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"create", "Some story"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error when --role and --want are missing")
	}
}

func TestStoryEstimateCmd_AcceptsAtMostOneArg(t *testing.T) {
	cmd := newStoryCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"estimate", "STORY-1", "STORY-2"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error when more than one story id is given")
	}
}
