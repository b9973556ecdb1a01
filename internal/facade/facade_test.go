package facade

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/gumruyanzh/xavier/internal/config"
	"github.com/gumruyanzh/xavier/internal/events"
	"github.com/gumruyanzh/xavier/internal/jirasync"
	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/scrum"
)

func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, args := range [][]string{
		{"git", "init", "-b", "main"},
		{"git", "config", "user.name", "Test"},
		{"git", "config", "user.email", "test@test.com"},
	} {
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("%v: %s\n%s", args, err, out)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# test\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, args := range [][]string{
		{"git", "add", "."},
		{"git", "commit", "-m", "initial"},
	} {
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("%v: %s\n%s", args, err, out)
		}
	}
	return dir
}

func newTestFacade(t *testing.T) *Facade {
	t.Helper()
	repo := initTestRepo(t)
	cfg, err := config.Parse([]byte("project:\n  name: Test Project\n  data_dir: data\n"))
	if err != nil {
		t.Fatalf("config.Parse: %v", err)
	}
	f, err := New(cfg, repo)
	if err != nil {
		t.Fatalf("facade.New: %v", err)
	}
	return f
}

func TestNew_OpensStoreRelativeToRepoDir(t *testing.T) {
	f := newTestFacade(t)
	if _, err := f.CreateStory(scrum.StoryFields{Title: "Login", Role: "user", Want: "to log in"}); err != nil {
		t.Fatalf("CreateStory: %v", err)
	}
}

func TestFacade_DelegateAssignsAnAgent(t *testing.T) {
	f := newTestFacade(t)
	st, _ := f.CreateStory(scrum.StoryFields{Title: "Story", Role: "u", Want: "w"})
	task, _ := f.CreateTask(scrum.TaskFields{StoryID: st.ID, Title: "Write a Python script using Flask"})

	result, err := f.Delegate(task.ID)
	if err != nil {
		t.Fatalf("Delegate: %v", err)
	}
	if result.AgentName != "python" {
		t.Errorf("expected python agent for a Flask task, got %s", result.AgentName)
	}
	reloaded, err := f.store.GetTask(task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if reloaded.AssignedAgent != "python" {
		t.Errorf("expected Delegate to persist the assignment, got %q", reloaded.AssignedAgent)
	}
}

func TestFacade_AssignAgentRejectsUnknownAgent(t *testing.T) {
	f := newTestFacade(t)
	st, _ := f.CreateStory(scrum.StoryFields{Title: "Story", Role: "u", Want: "w"})
	task, _ := f.CreateTask(scrum.TaskFields{StoryID: st.ID, Title: "x"})
	if _, err := f.AssignAgent(task.ID, "nonexistent-agent"); err == nil {
		t.Error("expected an error for an unregistered agent name")
	}
}

func TestFacade_EstimateAllEstimatesEveryUnestimatedStory(t *testing.T) {
	f := newTestFacade(t)
	f.CreateStory(scrum.StoryFields{Title: "Add OAuth integration and API endpoints", Role: "u", Want: "w"})
	f.CreateStory(scrum.StoryFields{Title: "Simple UI tweak", Role: "u", Want: "w"})

	estimated, err := f.Estimate("")
	if err != nil {
		t.Fatalf("Estimate(all): %v", err)
	}
	if len(estimated) != 2 {
		t.Errorf("expected both stories estimated, got %d", len(estimated))
	}
	for _, st := range estimated {
		if st.StoryPoints == 0 {
			t.Errorf("expected a non-zero estimate for %s", st.ID)
		}
	}
}

func TestFacade_ReestimateStoryOverridesManualEstimate(t *testing.T) {
	f := newTestFacade(t)
	st, err := f.CreateStory(scrum.StoryFields{Title: "Add OAuth integration and API endpoints", Role: "u", Want: "w"})
	if err != nil {
		t.Fatalf("CreateStory: %v", err)
	}
	if _, err := f.EstimateStory(st.ID, 1); err != nil {
		t.Fatalf("EstimateStory: %v", err)
	}

	reestimated, err := f.ReestimateStory(st.ID)
	if err != nil {
		t.Fatalf("ReestimateStory: %v", err)
	}
	if reestimated.StoryPoints == 1 {
		t.Error("expected ReestimateStory to override the manual 1-point estimate")
	}
}

func TestFacade_StatusReportsActiveSprintAndCounts(t *testing.T) {
	f := newTestFacade(t)
	st, _ := f.CreateStory(scrum.StoryFields{Title: "Story", Role: "u", Want: "w"})
	f.EstimateStory(st.ID, 5)
	sp, _ := f.PlanSprint("Sprint 1", "goal", 14, 20)
	f.StartSprint(sp.ID)

	status := f.Status()
	if status.ActiveSprint == nil || status.ActiveSprint.ID != sp.ID {
		t.Errorf("expected active sprint %s reported, got %+v", sp.ID, status.ActiveSprint)
	}
	if status.StoryCounts[model.StoryReady] != 1 {
		t.Errorf("expected 1 Ready story, got counts %+v", status.StoryCounts)
	}
}

func TestFacade_ListFiltersByStatus(t *testing.T) {
	f := newTestFacade(t)
	f.CreateStory(scrum.StoryFields{Title: "A", Role: "u", Want: "w"})
	f.CreateStory(scrum.StoryFields{Title: "B", Role: "u", Want: "w"})

	all, err := f.List(KindStories, Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	stories := all.([]model.Story)
	if len(stories) != 2 {
		t.Fatalf("expected 2 stories, got %d", len(stories))
	}

	filtered, err := f.List(KindStories, Filter{Status: model.StoryReady})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if filtered.([]model.Story) != nil {
		t.Errorf("expected no Ready stories yet, got %+v", filtered)
	}
}

func TestFacade_SubscribePublishesSprintStarted(t *testing.T) {
	f := newTestFacade(t)
	var received []events.Type
	f.Subscribe(func(e events.Event) { received = append(received, e.Type) })

	st, _ := f.CreateStory(scrum.StoryFields{Title: "Story", Role: "u", Want: "w"})
	f.EstimateStory(st.ID, 5)
	sp, _ := f.PlanSprint("Sprint 1", "goal", 14, 20)
	if _, err := f.StartSprint(sp.ID); err != nil {
		t.Fatalf("StartSprint: %v", err)
	}

	found := false
	for _, ty := range received {
		if ty == events.SprintStarted {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a SprintStarted event, got %+v", received)
	}
}

func TestFacade_JiraHookFiresOnSprintStateChanges(t *testing.T) {
	f := newTestFacade(t)
	var changes []jirasync.StateChange
	f.RegisterJiraHook(func(c jirasync.StateChange) { changes = append(changes, c) })

	st, _ := f.CreateStory(scrum.StoryFields{Title: "Story", Role: "u", Want: "w"})
	f.EstimateStory(st.ID, 5)
	sp, _ := f.PlanSprint("Sprint 1", "goal", 14, 20)
	if _, err := f.StartSprint(sp.ID); err != nil {
		t.Fatalf("StartSprint: %v", err)
	}
	if _, err := f.CompleteSprint(sp.ID, ""); err != nil {
		t.Fatalf("CompleteSprint: %v", err)
	}

	if len(changes) != 2 {
		t.Fatalf("expected 2 Jira state changes, got %d: %+v", len(changes), changes)
	}
	if changes[0].NewStatus != model.SprintActive || changes[1].NewStatus != model.SprintCompleted {
		t.Errorf("unexpected change sequence: %+v", changes)
	}
}

func TestFacade_ApplyJiraUpdateAppliesNormalizedStatus(t *testing.T) {
	f := newTestFacade(t)
	st, _ := f.CreateStory(scrum.StoryFields{Title: "Story", Role: "u", Want: "w"})

	if err := f.ApplyJiraUpdate(jirasync.ItemUpdate{Kind: "story", ID: st.ID, Status: model.StoryBlocked, ExternalID: "PROJ-1"}); err != nil {
		t.Fatalf("ApplyJiraUpdate: %v", err)
	}
	reloaded, err := f.store.GetStory(st.ID)
	if err != nil {
		t.Fatalf("GetStory: %v", err)
	}
	if reloaded.Status != model.StoryBlocked {
		t.Errorf("expected story Blocked after Jira update, got %s", reloaded.Status)
	}
}

func TestFacade_ApplyJiraUpdateRejectsUnknownKind(t *testing.T) {
	f := newTestFacade(t)
	if err := f.ApplyJiraUpdate(jirasync.ItemUpdate{Kind: "epic", ID: "EPIC-1", Status: "Done"}); err == nil {
		t.Error("expected an error for an unknown item kind")
	}
}

func TestFacade_StartRunsTheSprintToCompletion(t *testing.T) {
	f := newTestFacade(t)
	if err := f.registry.Register(model.AgentDescriptor{Name: "no-op-agent"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	st, _ := f.CreateStory(scrum.StoryFields{Title: "Story", Role: "u", Want: "w"})
	f.EstimateStory(st.ID, 3)
	task, _ := f.CreateTask(scrum.TaskFields{StoryID: st.ID, Title: "Do the thing"})
	if _, err := f.AssignAgent(task.ID, "no-op-agent"); err != nil {
		t.Fatalf("AssignAgent: %v", err)
	}

	sp, _ := f.PlanSprint("Sprint 1", "goal", 14, 20)
	f.StartSprint(sp.ID)

	if err := f.Start(context.Background(), sp.ID, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	reloadedTask, err := f.store.GetTask(task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if reloadedTask.Status != model.TaskCompleted {
		t.Errorf("expected task Completed, got %s", reloadedTask.Status)
	}
}
