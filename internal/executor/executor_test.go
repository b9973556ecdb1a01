package executor

import (
	"context"
	"testing"

	"github.com/gumruyanzh/xavier/internal/events"
	"github.com/gumruyanzh/xavier/internal/model"
)

type fakeScaffolder struct {
	scaffoldErr error
	implementErr error
	scaffoldCalled, implementCalled bool
}

func (f *fakeScaffolder) ScaffoldTests(ctx context.Context, workDir string, task model.Task) error {
	f.scaffoldCalled = true
	return f.scaffoldErr
}
func (f *fakeScaffolder) Implement(ctx context.Context, workDir string, task model.Task) error {
	f.implementCalled = true
	return f.implementErr
}

func TestRun_CompletesWhenNoCommandsConfigured(t *testing.T) {
	dir := t.TempDir()
	var phases []string
	res, _, err := Run(context.Background(), Options{
		WorkDir: dir,
		Task:    model.Task{ID: "TASK-1", Title: "demo"},
		Agent:   model.AgentDescriptor{Name: "go"},
		Publish: func(e events.Event) {
			phases = append(phases, e.Data["phase"].(string))
		},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != "Completed" {
		t.Errorf("expected Completed, got %s (%s)", res.Status, res.Summary)
	}
	if len(phases) == 0 {
		t.Error("expected phase events to be published")
	}
}

func TestRun_BlocksOnInsufficientCoverage(t *testing.T) {
	dir := t.TempDir()
	res, _, err := Run(context.Background(), Options{
		WorkDir:         dir,
		Task:            model.Task{ID: "TASK-1", Title: "demo"},
		Agent:           model.AgentDescriptor{Name: "go"},
		CoverageMinimum: 101, // unreachable since no coverage command means 100
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != "Blocked" || res.Reason != "coverage" {
		t.Errorf("expected Blocked/coverage, got %+v", res)
	}
}

func TestRun_FailsWhenScaffoldErrors(t *testing.T) {
	dir := t.TempDir()
	s := &fakeScaffolder{scaffoldErr: errBoom}
	res, _, err := Run(context.Background(), Options{
		WorkDir: dir, Task: model.Task{ID: "TASK-1"}, Agent: model.AgentDescriptor{Name: "go"},
		Scaffolder: s,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != "Failed" {
		t.Errorf("expected Failed, got %s", res.Status)
	}
	if !s.scaffoldCalled || s.implementCalled {
		t.Error("expected ScaffoldTests to run and Implement to be skipped after its failure")
	}
}

func TestRun_RespectsCancellationAtPhaseBoundary(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, _, err := Run(ctx, Options{WorkDir: dir, Task: model.Task{ID: "TASK-1"}, Agent: model.AgentDescriptor{Name: "go"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != "Blocked" || res.Reason != "cancelled" {
		t.Errorf("expected Blocked/cancelled for a pre-cancelled context, got %+v", res)
	}
}

func TestParseCoveragePercent(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"coverage: 87.3% of statements", 87.3},
		{"total coverage 100.0%\n", 100.0},
		{"no coverage info here", 0},
	}
	for _, tt := range tests {
		if got := parseCoveragePercent(tt.in); got != tt.want {
			t.Errorf("parseCoveragePercent(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

var errBoom = fmtErrorf("boom")

func fmtErrorf(s string) error { return simpleError(s) }

type simpleError string

func (e simpleError) Error() string { return string(e) }
