package main

import (
	"bytes"
	"testing"
)

func TestTaskCreateCmd_RequiresStory(t *testing.T) {
	cmd := newTaskCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"create", "Some task"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error when --story is missing")
	}
}

func TestTaskSplitCmd_RequiresTitles(t *testing.T) {
	cmd := newTaskCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"split", "TASK-1"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error when --titles is missing")
	}
}

func TestTaskAssignCmd_RequiresTwoArgs(t *testing.T) {
	cmd := newTaskCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"assign", "TASK-1"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected an error when the agent name argument is missing")
	}
}
