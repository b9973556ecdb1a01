// Package sprintrun implements the Sprint Orchestrator: a strictly
// sequential state machine that drives one Active sprint's frozen task
// set to completion, delegating agent selection to internal/matcher,
// isolation to internal/worktree, and execution to internal/executor.
//
// Grounded on internal/yardmaster/daemon.go's phased polling loop in the
// teacher, collapsed from a concurrent multi-engine daemon into a single
// strictly sequential runner per spec §1/§5 — at most one task is ever
// In Progress at a time, so there is no engine registry, heartbeat, or
// stale-engine detection to carry over, only the phase-by-phase
// structure and the log-don't-fail-the-loop error handling idiom.
package sprintrun

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gumruyanzh/xavier/internal/agent"
	"github.com/gumruyanzh/xavier/internal/events"
	"github.com/gumruyanzh/xavier/internal/executor"
	"github.com/gumruyanzh/xavier/internal/matcher"
	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/scrum"
	"github.com/gumruyanzh/xavier/internal/store"
	"github.com/gumruyanzh/xavier/internal/worktree"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// State names one step of the orchestrator's lifecycle (spec §4.6/§5).
type State string

const (
	StateIdle        State = "Idle"
	StateStarting    State = "Starting"
	StateRunning     State = "Running"
	StateDraining    State = "Draining"
	StateFinalizing  State = "Finalizing"
	StateHalted      State = "Halted"
)

// HandoffRecord logs one agent-to-agent transition, per spec §4.6.
type HandoffRecord struct {
	FromAgent string    `json:"from_agent"`
	ToAgent   string    `json:"to_agent"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"at"`
}

// Options configures a Runner.
type Options struct {
	Store           *store.Store
	Scrum           *scrum.Manager
	Registry        *agent.Registry
	Worktrees       *worktree.Manager
	Bus             *events.Bus
	CoverageMinimum float64
	Scaffolder      executor.Scaffolder
	// StrictMode halts the sprint on the first Failed/Blocked task rather
	// than skipping past it, per spec §4.6's strict/lenient distinction.
	StrictMode bool
	// Out receives human-readable progress lines, matching the teacher's
	// io.Writer daemon-log idiom. Defaults to io.Discard.
	Out io.Writer
}

// Runner drives exactly one sprint's frozen task set at a time.
type Runner struct {
	opts     Options
	state    State
	handoffs []HandoffRecord
}

// New constructs a Runner in the Idle state.
func New(opts Options) *Runner {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	return &Runner{opts: opts, state: StateIdle}
}

// State reports the runner's current lifecycle state.
func (r *Runner) State() State { return r.state }

// Handoffs returns the accumulated handoff log for the most recent run.
func (r *Runner) Handoffs() []HandoffRecord { return r.handoffs }

func (r *Runner) publish(e events.Event) {
	if r.opts.Bus != nil {
		r.opts.Bus.Publish(e)
	}
}

// Run drives sprintID from Starting through Running to completion (or
// Halted on a fatal condition), honoring ctx cancellation as a graceful
// drain: no further task is claimed once ctx is cancelled, the in-flight
// task's executor stops at its next phase boundary, and the sprint then
// finalizes (in strict mode a task Blocked by the cancellation halts the
// run instead).
func (r *Runner) Run(ctx context.Context, sprintID string) error {
	r.state = StateStarting
	s := r.opts.Store

	sp, err := s.GetSprint(sprintID)
	if err != nil {
		r.state = StateHalted
		return err
	}
	if sp.Status != model.SprintActive {
		r.state = StateHalted
		return xerrors.Conflict("sprint %s is %s, not Active", sprintID, sp.Status)
	}

	frozen, err := freezeTaskSet(sp, s.ListTasks(), s.ListStories())
	if err != nil {
		r.state = StateHalted
		return err
	}
	fmt.Fprintf(r.opts.Out, "Sprint %s: frozen %d tasks\n", sprintID, len(frozen))

	r.state = StateRunning
	r.handoffs = nil

	for {
		if ctx.Err() != nil {
			fmt.Fprintf(r.opts.Out, "Sprint %s: context cancelled, finalizing without claiming further tasks\n", sprintID)
			r.state = StateDraining
			break
		}

		completed := completedSet(s, frozen)
		next, ok, deadlock := nextReadyTask(liveTasks(s, frozen), completed)
		if !ok {
			if deadlock {
				r.state = StateHalted
				return xerrors.Dependency("sprint %s: dependency deadlock — pending tasks remain but none are runnable", sprintID)
			}
			break // every task is Completed or Blocked; nothing left to run
		}

		if err := r.runOneTask(ctx, sp, next); err != nil {
			if r.opts.StrictMode {
				r.state = StateHalted
				return err
			}
			fmt.Fprintf(r.opts.Out, "Sprint %s: task %s failed (lenient mode, continuing): %v\n", sprintID, next.ID, err)
		}
	}

	r.state = StateFinalizing
	if _, err := r.opts.Scrum.CompleteSprint(sprintID, ""); err != nil {
		r.state = StateHalted
		return xerrors.Wrap(xerrors.KindFatal, err, "sprint %s: finalize", sprintID)
	}
	if r.opts.Worktrees != nil {
		completedIDs := map[string]bool{}
		for _, t := range s.ListTasks() {
			completedIDs[t.ID] = t.Status == model.TaskCompleted
		}
		if err := r.opts.Worktrees.Cleanup(completedIDs, true); err != nil {
			fmt.Fprintf(r.opts.Out, "Sprint %s: worktree cleanup warning: %v\n", sprintID, err)
		}
	}
	r.publish(events.New(events.SprintCompleted, events.WithSprint(sprintID)))
	r.state = StateIdle
	return nil
}

// runOneTask carries a single task from Pending to a terminal status:
// match an agent, claim a worktree, delegate to the executor, and record
// the outcome. This is the only place a task transitions to In Progress,
// which is what makes "at most one task In Progress at a time" true.
func (r *Runner) runOneTask(ctx context.Context, sp model.Sprint, task model.Task) error {
	s := r.opts.Store

	result := matcher.Match(task, r.opts.Registry, s.CountTasksByStatusForAgent)
	agentDesc, err := r.opts.Registry.Get(result.AgentName)
	if err != nil {
		return xerrors.Wrap(xerrors.KindFatal, err, "sprint: matched agent %s is not registered", result.AgentName)
	}

	r.recordHandoff(task.AssignedAgent, result.AgentName, "match: "+result.Reason)
	r.publish(events.New(events.TaskClaimed, events.WithSprint(sp.ID), events.WithTask(task.ID), events.WithAgent(result.AgentName)))

	task.Status = model.TaskInProgress
	task.AssignedAgent = result.AgentName
	if err := s.PutTask(task); err != nil {
		return err
	}
	r.publish(events.New(events.AgentTakeover, events.WithSprint(sp.ID), events.WithTask(task.ID), events.WithAgent(result.AgentName)))

	kind := worktree.ItemFeature
	wt, err := r.opts.Worktrees.Create(task.ID, result.AgentName, slugFor(task), kind)
	if err != nil {
		return r.failTask(sp, task, "Blocked", "worktree: "+err.Error())
	}

	execResult, _, err := executor.Run(ctx, executor.Options{
		WorkDir: wt.Path, Task: task, Agent: agentDesc,
		CoverageMinimum: r.opts.CoverageMinimum, Scaffolder: r.opts.Scaffolder,
		Publish: r.publish,
	})
	if err != nil {
		return r.failTask(sp, task, "Blocked", "executor: "+err.Error())
	}

	switch execResult.Status {
	case "Completed":
		return r.completeTask(sp, task, wt.TaskID, execResult)
	default:
		return r.failTask(sp, task, execResult.Status, execResult.Reason)
	}
}

func (r *Runner) completeTask(sp model.Sprint, task model.Task, worktreeTaskID string, result executor.TaskResult) error {
	s := r.opts.Store

	if err := r.opts.Worktrees.Push(worktreeTaskID); err != nil {
		fmt.Fprintf(r.opts.Out, "Sprint %s: push failed for task %s: %v\n", sp.ID, task.ID, err)
	} else if prURL, err := r.opts.Worktrees.OpenPR(worktreeTaskID, task.Title, result.Summary); err != nil {
		fmt.Fprintf(r.opts.Out, "Sprint %s: PR creation failed for task %s: %v\n", sp.ID, task.ID, err)
	} else {
		fmt.Fprintf(r.opts.Out, "Sprint %s: task %s PR opened: %s\n", sp.ID, task.ID, prURL)
	}

	now := time.Now().UTC()
	task.Status = model.TaskCompleted
	task.CompletedAt = &now
	if err := s.PutTask(task); err != nil {
		return err
	}
	r.advanceStoryProgress(task.StoryID)
	r.recordBurndown(sp.ID)
	r.publish(events.New(events.TaskCompleted, events.WithSprint(sp.ID), events.WithTask(task.ID), events.WithAgent(task.AssignedAgent)))
	return nil
}

func (r *Runner) failTask(sp model.Sprint, task model.Task, status, reason string) error {
	s := r.opts.Store
	if status != "Completed" {
		task.Status = model.TaskBlocked
	}
	_ = s.PutTask(task)
	r.publish(events.New(events.TaskFailed, events.WithSprint(sp.ID), events.WithTask(task.ID),
		events.WithAgent(task.AssignedAgent), events.WithMessage(reason)))
	return xerrors.New(xerrors.KindDependency, "task %s: %s", task.ID, reason)
}

// advanceStoryProgress marks a story Done once every one of its tasks is
// Completed, and In Progress on its first task completion otherwise.
func (r *Runner) advanceStoryProgress(storyID string) {
	if storyID == "" {
		return
	}
	s := r.opts.Store
	st, err := s.GetStory(storyID)
	if err != nil {
		return
	}
	tasks := s.ListTasksByStory(storyID)
	allDone := len(tasks) > 0
	for _, t := range tasks {
		if t.Status != model.TaskCompleted {
			allDone = false
			break
		}
	}
	if allDone {
		st.Status = model.StoryDone
	} else if st.Status == model.StoryReady {
		st.Status = model.StoryInProgress
	}
	st.UpdatedAt = time.Now().UTC()
	_ = s.PutStory(st)
}

func (r *Runner) recordBurndown(sprintID string) {
	s := r.opts.Store
	sp, err := s.GetSprint(sprintID)
	if err != nil {
		return
	}
	remaining := 0
	for _, item := range sp.CommittedItems {
		if item.Kind != "story" {
			continue
		}
		if st, err := s.GetStory(item.ID); err == nil && st.Status != model.StoryDone {
			remaining += st.StoryPoints
		}
	}
	sp.Burndown = append(sp.Burndown, model.BurndownPoint{At: time.Now().UTC(), Remaining: remaining})
	_ = s.PutSprint(sp)
}

func (r *Runner) recordHandoff(from, to, reason string) {
	if from == to {
		return
	}
	r.handoffs = append(r.handoffs, HandoffRecord{FromAgent: from, ToAgent: to, Reason: reason, At: time.Now().UTC()})
}

func slugFor(task model.Task) string {
	return task.ID
}

// completedSet reports, for each frozen task ID, whether the store's
// current record for it is Completed — re-read live rather than taken
// from the frozen snapshot, since completion happens during the run.
func completedSet(s *store.Store, frozen []model.Task) map[string]bool {
	out := make(map[string]bool, len(frozen))
	for _, t := range frozen {
		live, err := s.GetTask(t.ID)
		if err != nil {
			continue
		}
		out[t.ID] = live.Status == model.TaskCompleted
	}
	return out
}

// liveTasks re-reads each frozen task's current status from the store,
// preserving the frozen dependency-respecting order.
func liveTasks(s *store.Store, frozen []model.Task) []model.Task {
	out := make([]model.Task, 0, len(frozen))
	for _, t := range frozen {
		live, err := s.GetTask(t.ID)
		if err != nil {
			continue
		}
		out = append(out, live)
	}
	return out
}
