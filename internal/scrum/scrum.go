// Package scrum implements the SCRUM Manager: story, task, bug, and
// sprint lifecycle operations.
//
// Grounded on internal/car.{Create,Get,List,Update}'s status-transition
// table idiom in the teacher, re-targeted from Car/Bead records at
// Story/Task/Bug/Sprint per spec §4.3, with auto-estimation and
// auto-planning as new domain logic (the teacher has no story-pointing
// or sprint-planning analog).
package scrum

import (
	"sort"
	"time"

	"github.com/gumruyanzh/xavier/internal/idgen"
	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/store"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// Manager is the SCRUM Manager bound to one project's store.
type Manager struct {
	store          *store.Store
	velocityTarget int
}

// NewManager constructs a Manager over a store, with the configured
// default velocity target used by plan_sprint when the caller doesn't
// override it.
func NewManager(s *store.Store, velocityTarget int) *Manager {
	return &Manager{store: s, velocityTarget: velocityTarget}
}

// StoryFields are the caller-supplied fields for CreateStory.
type StoryFields struct {
	Title, Role, Want, Benefit string
	AcceptanceCriteria         []string
	Priority                   string
	EpicID                     string
}

// CreateStory validates and persists a new story in the Backlog state.
func (m *Manager) CreateStory(f StoryFields) (model.Story, error) {
	if f.Title == "" {
		return model.Story{}, xerrors.Validation("story: title is required")
	}
	if f.Role == "" || f.Want == "" {
		return model.Story{}, xerrors.Validation("story: role and want are required")
	}
	id, err := idgen.Generate(idgen.Story, m.store.Exists)
	if err != nil {
		return model.Story{}, xerrors.Wrap(xerrors.KindIO, err, "scrum: generate story id")
	}
	now := time.Now().UTC()
	st := model.Story{
		ID: id, Title: f.Title, Role: f.Role, Want: f.Want, Benefit: f.Benefit,
		AcceptanceCriteria: f.AcceptanceCriteria,
		Priority:           model.NormalizePriority(f.Priority),
		Status:             model.StoryBacklog,
		EpicID:             f.EpicID,
		CreatedAt:          now, UpdatedAt: now,
	}
	if err := m.store.PutStory(st); err != nil {
		return model.Story{}, err
	}
	return st, nil
}

// TaskFields are the caller-supplied fields for CreateTask.
type TaskFields struct {
	StoryID, Title, Description, TechnicalDetails string
	EstimatedHours                                float64
	TestCriteria, Dependencies                    []string
	Priority                                      string
}

// CreateTask validates that the parent story and every dependency exist,
// then persists a new Pending task.
func (m *Manager) CreateTask(f TaskFields) (model.Task, error) {
	if f.Title == "" {
		return model.Task{}, xerrors.Validation("task: title is required")
	}
	if _, err := m.store.GetStory(f.StoryID); err != nil {
		return model.Task{}, xerrors.Wrap(xerrors.KindNotFound, err, "task: story_id %s must reference an existing story", f.StoryID)
	}
	for _, dep := range f.Dependencies {
		if _, err := m.store.GetTask(dep); err != nil {
			return model.Task{}, xerrors.Validation("task: dependency %s does not reference a known task", dep)
		}
	}
	id, err := idgen.Generate(idgen.Task, m.store.Exists)
	if err != nil {
		return model.Task{}, xerrors.Wrap(xerrors.KindIO, err, "scrum: generate task id")
	}
	t := model.Task{
		ID: id, StoryID: f.StoryID, Title: f.Title, Description: f.Description,
		TechnicalDetails: f.TechnicalDetails, EstimatedHours: f.EstimatedHours,
		Status: model.TaskPending, TestCriteria: f.TestCriteria, Dependencies: f.Dependencies,
		Priority: model.NormalizePriority(f.Priority), CreatedAt: time.Now().UTC(),
	}
	if err := m.store.PutTask(t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// BugFields are the caller-supplied fields for CreateBug.
type BugFields struct {
	Title, Description                  string
	StepsToReproduce                    []string
	Expected, Actual, Severity, Priority string
	StoryPoints                         int
}

// severityPoints auto-assigns points from severity when unset, per
// spec §4.3.
var severityPoints = map[string]int{
	"Critical": 8, "High": 5, "Medium": 3, "Low": 1,
}

// CreateBug validates and persists a new bug in the Open state.
func (m *Manager) CreateBug(f BugFields) (model.Bug, error) {
	if f.Title == "" {
		return model.Bug{}, xerrors.Validation("bug: title is required")
	}
	id, err := idgen.Generate(idgen.Bug, m.store.Exists)
	if err != nil {
		return model.Bug{}, xerrors.Wrap(xerrors.KindIO, err, "scrum: generate bug id")
	}
	points := f.StoryPoints
	if points == 0 {
		if p, ok := severityPoints[f.Severity]; ok {
			points = p
		}
	}
	now := time.Now().UTC()
	b := model.Bug{
		ID: id, Title: f.Title, Description: f.Description, StepsToReproduce: f.StepsToReproduce,
		Expected: f.Expected, Actual: f.Actual, Severity: f.Severity,
		Priority: model.NormalizePriority(f.Priority), Status: model.BugOpen,
		StoryPoints: points, CreatedAt: now, UpdatedAt: now,
	}
	if err := m.store.PutBug(b); err != nil {
		return model.Bug{}, err
	}
	return b, nil
}

// Velocity returns the mean committed-and-completed points over the
// last n Completed sprints, 0 when no history exists.
func (m *Manager) Velocity(n int) float64 {
	if n <= 0 {
		n = 3
	}
	sprints := m.store.ListSprints()
	var completed []model.Sprint
	for _, sp := range sprints {
		if sp.Status == model.SprintCompleted {
			completed = append(completed, sp)
		}
	}
	sort.Slice(completed, func(i, j int) bool {
		if completed[i].EndDate == nil || completed[j].EndDate == nil {
			return completed[i].ID > completed[j].ID
		}
		return completed[i].EndDate.After(*completed[j].EndDate)
	})
	if len(completed) > n {
		completed = completed[:n]
	}
	if len(completed) == 0 {
		return 0
	}
	total := 0
	for _, sp := range completed {
		total += sprintCompletedPoints(sp, m.store)
	}
	return float64(total) / float64(len(completed))
}

func sprintCompletedPoints(sp model.Sprint, s *store.Store) int {
	total := 0
	for _, item := range sp.CommittedItems {
		switch item.Kind {
		case "story":
			if st, err := s.GetStory(item.ID); err == nil && st.Status == model.StoryDone {
				total += st.StoryPoints
			}
		case "bug":
			if b, err := s.GetBug(item.ID); err == nil && b.Status == model.BugClosed {
				total += b.StoryPoints
			}
		}
	}
	return total
}
