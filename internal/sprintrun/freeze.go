package sprintrun

import (
	"sort"

	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// priorityRank mirrors internal/scrum's Critical/High/Medium/Low ordering
// so freezeTaskSet can break topological ties the same way PlanSprint
// orders the Backlog.
var priorityRank = map[string]int{
	model.PriorityCritical: 0, model.PriorityHigh: 1, model.PriorityMedium: 2, model.PriorityLow: 3,
}

// committedStoryIDs extracts the story IDs committed to a sprint, ignoring
// bug items (bugs have no task graph to orchestrate).
func committedStoryIDs(sp model.Sprint) map[string]bool {
	ids := make(map[string]bool)
	for _, item := range sp.CommittedItems {
		if item.Kind == "story" {
			ids[item.ID] = true
		}
	}
	return ids
}

// freezeTaskSet collects every task belonging to the sprint's committed
// stories and returns them in dependency-respecting topological order,
// rejecting the freeze outright if the dependency graph contains a cycle
// (spec §4.6/§9: a sprint's scope must be frozen before it goes Active,
// and a cyclic dependency graph can never be fully executed). Ties within
// the topological order are broken by the parent story's priority, then
// task ID, per spec §4.6's "preserving story priority then task
// dependency topological order."
func freezeTaskSet(sp model.Sprint, allTasks []model.Task, stories []model.Story) ([]model.Task, error) {
	storyIDs := committedStoryIDs(sp)

	storyPriority := make(map[string]string, len(stories))
	for _, st := range stories {
		storyPriority[st.ID] = st.Priority
	}

	byID := make(map[string]model.Task)
	for _, t := range allTasks {
		if storyIDs[t.StoryID] {
			byID[t.ID] = t
		}
	}

	// less orders ready tasks by (story priority, task ID), so Kahn's
	// algorithm always picks the highest-priority story's task first
	// among ties instead of falling back to alphabetical task ID.
	less := func(ids []string) func(i, j int) bool {
		return func(i, j int) bool {
			pi, pj := byID[ids[i]], byID[ids[j]]
			ri, rj := priorityRank[storyPriority[pi.StoryID]], priorityRank[storyPriority[pj.StoryID]]
			if ri != rj {
				return ri < rj
			}
			return ids[i] < ids[j]
		}
	}

	// Kahn's algorithm restricted to the frozen set: dependencies on tasks
	// outside the set (already-completed prior work) are treated as
	// already satisfied.
	inDegree := make(map[string]int, len(byID))
	dependents := make(map[string][]string)
	for id, t := range byID {
		for _, dep := range t.Dependencies {
			if _, inSet := byID[dep]; inSet {
				inDegree[id]++
				dependents[dep] = append(dependents[dep], id)
			}
		}
	}

	var queue []string
	for id := range byID {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sort.Slice(queue, less(queue))

	var ordered []model.Task
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		ordered = append(ordered, byID[id])

		next := dependents[id]
		sort.Slice(next, less(next))
		for _, d := range next {
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = append(queue, d)
				sort.Slice(queue, less(queue))
			}
		}
	}

	if len(ordered) != len(byID) {
		return nil, xerrors.Dependency("sprint %s: task dependency graph contains a cycle", sp.ID)
	}
	return ordered, nil
}

// nextReadyTask returns the first frozen task that is still Pending and
// whose dependencies are all Completed. ok is false when no task is
// currently runnable; deadlock is true when Pending tasks remain but none
// can run (spec §4.6's dependency-deadlock diagnostic).
func nextReadyTask(frozen []model.Task, completed map[string]bool) (task model.Task, ok bool, deadlock bool) {
	anyPending := false
	for _, t := range frozen {
		if t.Status != model.TaskPending {
			continue
		}
		anyPending = true
		ready := true
		for _, dep := range t.Dependencies {
			if !completed[dep] {
				ready = false
				break
			}
		}
		if ready {
			return t, true, false
		}
	}
	return model.Task{}, false, anyPending
}
