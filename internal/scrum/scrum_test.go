package scrum

import (
	"testing"

	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/store"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	return NewManager(s, 20)
}

func TestCreateStory_RejectsMissingFields(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.CreateStory(StoryFields{}); !xerrors.Is(err, xerrors.KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateStory_DefaultsToBacklog(t *testing.T) {
	m := newTestManager(t)
	st, err := m.CreateStory(StoryFields{Title: "Login", Role: "user", Want: "to log in"})
	if err != nil {
		t.Fatalf("CreateStory: %v", err)
	}
	if st.Status != model.StoryBacklog {
		t.Errorf("expected Backlog status, got %s", st.Status)
	}
}

func TestCreateTask_RejectsUnknownStory(t *testing.T) {
	m := newTestManager(t)
	_, err := m.CreateTask(TaskFields{StoryID: "US-MISSING", Title: "x"})
	if !xerrors.Is(err, xerrors.KindNotFound) {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestCreateTask_RejectsUnknownDependency(t *testing.T) {
	m := newTestManager(t)
	st, _ := m.CreateStory(StoryFields{Title: "Login", Role: "user", Want: "to log in"})
	_, err := m.CreateTask(TaskFields{StoryID: st.ID, Title: "x", Dependencies: []string{"TASK-GHOST"}})
	if err == nil {
		t.Error("expected error for unknown dependency")
	}
}

func TestCreateBug_AutoAssignsPointsFromSeverity(t *testing.T) {
	m := newTestManager(t)
	b, err := m.CreateBug(BugFields{Title: "Crash on login", Severity: "Critical"})
	if err != nil {
		t.Fatalf("CreateBug: %v", err)
	}
	if b.StoryPoints != 8 {
		t.Errorf("expected 8 points for Critical severity, got %d", b.StoryPoints)
	}
}

func TestEstimateStory_AutoEstimatesWhenPointsZero(t *testing.T) {
	m := newTestManager(t)
	st, _ := m.CreateStory(StoryFields{
		Title: "Add OAuth authentication and API integration", Role: "user", Want: "secure login",
		AcceptanceCriteria: []string{"a", "b", "c", "d", "e", "f"},
	})
	estimated, err := m.EstimateStory(st.ID, 0)
	if err != nil {
		t.Fatalf("EstimateStory: %v", err)
	}
	if estimated.StoryPoints == 0 {
		t.Error("expected a non-zero auto-estimated point value")
	}
	if !model.IsValidStoryPoints(estimated.StoryPoints) {
		t.Errorf("expected a valid Fibonacci value, got %d", estimated.StoryPoints)
	}
}

func TestPlanSprint_FillsUpToVelocityTargetInPriorityOrder(t *testing.T) {
	m := newTestManager(t)
	low, _ := m.CreateStory(StoryFields{Title: "Low priority", Role: "u", Want: "w", Priority: model.PriorityLow})
	high, _ := m.CreateStory(StoryFields{Title: "High priority", Role: "u", Want: "w", Priority: model.PriorityHigh})
	m.EstimateStory(low.ID, 13)
	m.EstimateStory(high.ID, 13)

	sp, err := m.PlanSprint("Sprint 1", "ship it", 14, 13)
	if err != nil {
		t.Fatalf("PlanSprint: %v", err)
	}
	if len(sp.CommittedItems) != 1 || sp.CommittedItems[0].ID != high.ID {
		t.Errorf("expected only the high-priority story committed, got %+v", sp.CommittedItems)
	}
}

func TestPlanSprint_ExcludesUnestimatedStories(t *testing.T) {
	m := newTestManager(t)
	m.CreateStory(StoryFields{Title: "Unestimated", Role: "u", Want: "w"})
	sp, err := m.PlanSprint("Sprint 1", "goal", 14, 20)
	if err != nil {
		t.Fatalf("PlanSprint: %v", err)
	}
	if len(sp.CommittedItems) != 0 {
		t.Error("expected unestimated stories to be excluded from planning")
	}
}

func TestStartSprint_RejectsSecondActiveSprint(t *testing.T) {
	m := newTestManager(t)
	sp1, _ := m.PlanSprint("Sprint 1", "goal", 14, 20)
	sp2, _ := m.PlanSprint("Sprint 2", "goal", 14, 20)
	if _, err := m.StartSprint(sp1.ID); err != nil {
		t.Fatalf("StartSprint sp1: %v", err)
	}
	if _, err := m.StartSprint(sp2.ID); !xerrors.Is(err, xerrors.KindConflict) {
		t.Errorf("expected conflict starting a second sprint, got %v", err)
	}
}

func TestCompleteSprint_ReturnsUnfinishedItemsToBacklog(t *testing.T) {
	m := newTestManager(t)
	st, _ := m.CreateStory(StoryFields{Title: "Story", Role: "u", Want: "w"})
	m.EstimateStory(st.ID, 5)
	sp, _ := m.PlanSprint("Sprint 1", "goal", 14, 20)
	m.StartSprint(sp.ID)

	done, err := m.CompleteSprint(sp.ID, "went fine")
	if err != nil {
		t.Fatalf("CompleteSprint: %v", err)
	}
	if done.Status != model.SprintCompleted {
		t.Errorf("expected Completed status, got %s", done.Status)
	}
	reloadedStory, _ := m.store.GetStory(st.ID)
	if reloadedStory.Status != model.StoryBacklog {
		t.Errorf("expected unfinished story returned to Backlog, got %s", reloadedStory.Status)
	}
	if reloadedStory.StoryPoints != 5 {
		t.Errorf("expected estimate preserved, got %d", reloadedStory.StoryPoints)
	}
}

func TestVelocity_ZeroWithNoHistory(t *testing.T) {
	m := newTestManager(t)
	if v := m.Velocity(3); v != 0 {
		t.Errorf("expected 0 velocity with no history, got %v", v)
	}
}

func TestSplitTask_DistributesHoursAndPreservesDependents(t *testing.T) {
	m := newTestManager(t)
	st, _ := m.CreateStory(StoryFields{Title: "Story", Role: "u", Want: "w"})
	parent, _ := m.CreateTask(TaskFields{StoryID: st.ID, Title: "Big task", EstimatedHours: 10})
	dependent, _ := m.CreateTask(TaskFields{StoryID: st.ID, Title: "Depends on big task", Dependencies: []string{parent.ID}})

	children, err := m.SplitTask(parent.ID, []string{"Part A", "Part B"})
	if err != nil {
		t.Fatalf("SplitTask: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	for _, c := range children {
		if c.EstimatedHours != 5 {
			t.Errorf("expected 5 hours per child, got %v", c.EstimatedHours)
		}
	}
	if _, err := m.store.GetTask(parent.ID); err == nil {
		t.Error("expected the parent task to be removed after split")
	}
	reloadedDependent, _ := m.store.GetTask(dependent.ID)
	if len(reloadedDependent.Dependencies) != 2 {
		t.Errorf("expected dependent task to now depend on both children, got %v", reloadedDependent.Dependencies)
	}
}
