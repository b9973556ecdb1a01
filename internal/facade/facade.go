// Package facade is Xavier's composition root: it wires the store,
// SCRUM manager, agent registry, worktree manager, and sprint
// orchestrator behind the single operation set named in spec §6, so
// external collaborators (the CLI, internal/notify) never touch an
// internal package directly.
//
// Grounded on the teacher's cmd/ry command handlers, which play the
// same role of a thin dispatch layer over the engine/car/messaging
// packages, generalized here into one Go type instead of a set of
// cobra.Command closures (cmd/xavier's job, not this package's).
package facade

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/gumruyanzh/xavier/internal/agent"
	"github.com/gumruyanzh/xavier/internal/config"
	"github.com/gumruyanzh/xavier/internal/events"
	"github.com/gumruyanzh/xavier/internal/executor"
	"github.com/gumruyanzh/xavier/internal/jirasync"
	"github.com/gumruyanzh/xavier/internal/matcher"
	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/scrum"
	"github.com/gumruyanzh/xavier/internal/sprintrun"
	"github.com/gumruyanzh/xavier/internal/store"
	"github.com/gumruyanzh/xavier/internal/worktree"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// Facade is the single entry point driving one project's Xavier state.
type Facade struct {
	cfg       *config.Config
	store     *store.Store
	scrum     *scrum.Manager
	registry  *agent.Registry
	worktrees *worktree.Manager
	bus       *events.Bus
	jira      *jirasync.Dispatcher
}

// New opens the project's store and wires every component per cfg.
// repoDir is the git repository root the worktree manager operates
// against — not part of Config since the façade is always constructed
// from inside a checkout, unlike the data directory which is portable.
func New(cfg *config.Config, repoDir string) (*Facade, error) {
	if cfg == nil {
		return nil, xerrors.Validation("facade: config is required")
	}
	dataDir := cfg.Project.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(repoDir, dataDir)
	}
	s, err := store.Open(dataDir)
	if err != nil {
		return nil, err
	}

	reg := agent.NewRegistry(filepath.Join(repoDir, cfg.Agents.DescriptorsPath))
	if err := reg.LoadDir(); err != nil {
		return nil, err
	}

	wt := worktree.NewManager(repoDir, cfg.Worktrees.Root, cfg.Project.Abbrev, cfg.PR.BaseBranch, cfg.PR.Tool, s)

	return &Facade{
		cfg: cfg, store: s, scrum: scrum.NewManager(s, cfg.Scrum.VelocityTarget),
		registry: reg, worktrees: wt, bus: events.NewBus(), jira: jirasync.NewDispatcher(),
	}, nil
}

// Subscribe registers a synchronous, in-order event consumer — the
// expansion façade callback named in SPEC_FULL.md §6, used by
// internal/notify and any CLI progress printer.
func (f *Facade) Subscribe(sub events.Subscriber) {
	f.bus.Subscribe(sub)
}

// --- §4.3 operations, unchanged from the SCRUM manager ---

func (f *Facade) CreateStory(fields scrum.StoryFields) (model.Story, error) {
	return f.scrum.CreateStory(fields)
}

func (f *Facade) CreateTask(fields scrum.TaskFields) (model.Task, error) {
	return f.scrum.CreateTask(fields)
}

func (f *Facade) CreateBug(fields scrum.BugFields) (model.Bug, error) {
	return f.scrum.CreateBug(fields)
}

func (f *Facade) EstimateStory(storyID string, points int) (model.Story, error) {
	return f.scrum.EstimateStory(storyID, points)
}

// ReestimateStory discards a story's current point value, including one
// set manually, and recomputes it from the auto-estimator.
func (f *Facade) ReestimateStory(storyID string) (model.Story, error) {
	return f.scrum.ReestimateStory(storyID)
}

func (f *Facade) PlanSprint(name, goal string, durationDays, velocityTarget int) (model.Sprint, error) {
	return f.scrum.PlanSprint(name, goal, durationDays, velocityTarget)
}

// StartSprint transitions a Planned sprint to Active without running it
// — pair with Start to drive it to completion.
func (f *Facade) StartSprint(sprintID string) (model.Sprint, error) {
	sp, err := f.scrum.StartSprint(sprintID)
	if err == nil {
		f.bus.Publish(events.New(events.SprintStarted, events.WithSprint(sprintID)))
		f.jira.Fire(jirasync.StateChange{Kind: "sprint", ID: sprintID, OldStatus: model.SprintPlanned, NewStatus: model.SprintActive})
	}
	return sp, err
}

func (f *Facade) CompleteSprint(sprintID, retrospective string) (model.Sprint, error) {
	sp, err := f.scrum.CompleteSprint(sprintID, retrospective)
	if err == nil {
		f.jira.Fire(jirasync.StateChange{Kind: "sprint", ID: sprintID, OldStatus: model.SprintActive, NewStatus: model.SprintCompleted})
	}
	return sp, err
}

// RegisterJiraHook exposes the outbound half of the Jira Sync contract
// (spec §4.9): an external sync module registers a hook here to learn of
// sprint status transitions (StartSprint: Planned→Active, CompleteSprint:
// Active→Completed). Story and task status changes do not fire the hook.
func (f *Facade) RegisterJiraHook(hook jirasync.OutboundHook) {
	f.jira.Register(hook)
}

// ApplyJiraUpdate applies one already-normalized inbound update (the
// other half of spec §4.9's contract) to the matching story, task, or
// bug. The façade never drains a jirasync.InboundQueue itself — pulling
// updates off Jira's wire format and normalizing them to ItemUpdate is
// the external sync module's job, which is why no business logic of the
// sync lives here, only the application of an already-normalized result.
func (f *Facade) ApplyJiraUpdate(u jirasync.ItemUpdate) error {
	switch u.Kind {
	case "story":
		st, err := f.store.GetStory(u.ID)
		if err != nil {
			return err
		}
		st.Status = u.Status
		return f.store.PutStory(st)
	case "task":
		t, err := f.store.GetTask(u.ID)
		if err != nil {
			return err
		}
		t.Status = u.Status
		return f.store.PutTask(t)
	case "bug":
		b, err := f.store.GetBug(u.ID)
		if err != nil {
			return err
		}
		b.Status = u.Status
		return f.store.PutBug(b)
	default:
		return xerrors.Validation("jirasync: unknown item kind %q", u.Kind)
	}
}

func (f *Facade) Velocity(n int) float64 {
	return f.scrum.Velocity(n)
}

// --- §6 façade-only operations ---

// Delegate previews the agent the matcher would assign to taskID, and
// persists that choice onto the task without changing its status or
// running the executor — it does not start work, only assigns it.
func (f *Facade) Delegate(taskID string) (matcher.Result, error) {
	t, err := f.store.GetTask(taskID)
	if err != nil {
		return matcher.Result{}, err
	}
	result := matcher.Match(t, f.registry, f.store.CountTasksByStatusForAgent)
	t.AssignedAgent = result.AgentName
	if err := f.store.PutTask(t); err != nil {
		return matcher.Result{}, err
	}
	return result, nil
}

// AssignAgent manually overrides a task's assigned agent, requiring the
// named agent to already be registered.
func (f *Facade) AssignAgent(taskID, agentName string) (model.Task, error) {
	if !f.registry.Exists(agentName) {
		return model.Task{}, xerrors.Validation("assign_agent: agent %q is not registered", agentName)
	}
	t, err := f.store.GetTask(taskID)
	if err != nil {
		return model.Task{}, err
	}
	t.AssignedAgent = agentName
	if err := f.store.PutTask(t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// Start drives sprintID's frozen task set to completion through the
// sequential sprint orchestrator, blocking until the sprint finalizes
// or halts. scaffolder may be nil for a dry run that only exercises the
// shell-invocation phases.
func (f *Facade) Start(ctx context.Context, sprintID string, scaffolder executor.Scaffolder) error {
	runner := sprintrun.New(sprintrun.Options{
		Store: f.store, Scrum: f.scrum, Registry: f.registry, Worktrees: f.worktrees,
		Bus: f.bus, CoverageMinimum: float64(f.cfg.Scrum.TestCoverageRequired),
		Scaffolder: scaffolder, StrictMode: f.cfg.IsStrictMode(),
	})
	return runner.Run(ctx, sprintID)
}

// Estimate estimates one story (storyID != "") or every unestimated
// Backlog story (storyID == "", matching §6's estimate(story_id?|all)).
func (f *Facade) Estimate(storyID string) ([]model.Story, error) {
	if storyID != "" {
		st, err := f.scrum.EstimateStory(storyID, 0)
		if err != nil {
			return nil, err
		}
		return []model.Story{st}, nil
	}
	var out []model.Story
	for _, st := range f.store.ListStories() {
		if st.Status == model.StoryBacklog && st.StoryPoints == 0 {
			estimated, err := f.scrum.EstimateStory(st.ID, 0)
			if err != nil {
				return out, err
			}
			out = append(out, estimated)
		}
	}
	return out, nil
}

// Status summarizes the project's current state for the CLI's `status`
// command and for human-readable digests.
type Status struct {
	ActiveSprint *model.Sprint
	StoryCounts  map[string]int
	TaskCounts   map[string]int
	BugCounts    map[string]int
	Velocity3    float64
}

func (f *Facade) Status() Status {
	st := Status{StoryCounts: map[string]int{}, TaskCounts: map[string]int{}, BugCounts: map[string]int{}}
	if sp, ok := f.store.ActiveSprint(); ok {
		spCopy := sp
		st.ActiveSprint = &spCopy
	}
	for _, s := range f.store.ListStories() {
		st.StoryCounts[s.Status]++
	}
	for _, t := range f.store.ListTasks() {
		st.TaskCounts[t.Status]++
	}
	for _, b := range f.store.ListBugs() {
		st.BugCounts[b.Status]++
	}
	st.Velocity3 = f.scrum.Velocity(3)
	return st
}

// Kind names one listable entity collection for List.
type Kind string

const (
	KindStories   Kind = "stories"
	KindTasks     Kind = "tasks"
	KindBugs      Kind = "bugs"
	KindSprints   Kind = "sprints"
	KindEpics     Kind = "epics"
	KindRoadmaps  Kind = "roadmaps"
	KindWorktrees Kind = "worktrees"
)

// Filter narrows List by status (empty matches everything).
type Filter struct {
	Status string
}

// List returns every entity of kind, optionally narrowed by status. The
// return type is necessarily heterogeneous across kinds (spec §6: "a
// separate CLI layer maps ... to façade calls" — the façade stays
// data-shaped, formatting is the caller's job), so each case returns its
// own concrete slice type as interface{}.
func (f *Facade) List(kind Kind, filter Filter) (interface{}, error) {
	switch kind {
	case KindStories:
		var out []model.Story
		for _, s := range f.store.ListStories() {
			if filter.Status == "" || s.Status == filter.Status {
				out = append(out, s)
			}
		}
		return out, nil
	case KindTasks:
		var out []model.Task
		for _, t := range f.store.ListTasks() {
			if filter.Status == "" || t.Status == filter.Status {
				out = append(out, t)
			}
		}
		return out, nil
	case KindBugs:
		var out []model.Bug
		for _, b := range f.store.ListBugs() {
			if filter.Status == "" || b.Status == filter.Status {
				out = append(out, b)
			}
		}
		return out, nil
	case KindSprints:
		var out []model.Sprint
		for _, sp := range f.store.ListSprints() {
			if filter.Status == "" || sp.Status == filter.Status {
				out = append(out, sp)
			}
		}
		return out, nil
	case KindEpics:
		return f.store.ListEpics(), nil
	case KindRoadmaps:
		return f.store.ListRoadmaps(), nil
	case KindWorktrees:
		recs := f.store.ListWorktrees()
		sort.Slice(recs, func(i, j int) bool { return recs[i].TaskID < recs[j].TaskID })
		var out []model.WorktreeRecord
		for _, w := range recs {
			if filter.Status == "" || w.Status == filter.Status {
				out = append(out, w)
			}
		}
		return out, nil
	default:
		return nil, xerrors.Validation("list: unknown kind %q", kind)
	}
}

// Agents exposes the registry's descriptor list, used by the CLI's
// `agent list` subcommand.
func (f *Facade) Agents() []model.AgentDescriptor {
	return f.registry.List()
}

// SplitTask is the expansion task-splitting operation (internal/scrum),
// exposed through the façade for CLI/orchestrator use when a task turns
// out to be too large mid-sprint.
func (f *Facade) SplitTask(taskID string, titles []string) ([]model.Task, error) {
	return f.scrum.SplitTask(taskID, titles)
}

// Backup snapshots the data directory, used before a schema upgrade.
func (f *Facade) Backup(reason string) (model.BackupRecord, error) {
	return f.store.Backup(reason)
}

func (f *Facade) String() string {
	return fmt.Sprintf("facade(project=%s)", f.cfg.Project.Name)
}
