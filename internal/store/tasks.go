package store

import (
	"sort"

	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// PutTask inserts or replaces a task and persists tasks.json.
func (s *Store) PutTask(t model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t
	return s.persist(KindTasks)
}

// GetTask returns the task with the given ID.
func (s *Store) GetTask(id string) (model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, xerrors.NotFound("task %s not found", id)
	}
	t.Status = model.NormalizeTaskStatus(t.Status)
	return t, nil
}

// ListTasks returns every task, sorted by ID.
func (s *Store) ListTasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		t.Status = model.NormalizeTaskStatus(t.Status)
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListTasksByStory returns every task belonging to a given story, sorted
// by ID.
func (s *Store) ListTasksByStory(storyID string) []model.Task {
	all := s.ListTasks()
	out := make([]model.Task, 0, len(all))
	for _, t := range all {
		if t.StoryID == storyID {
			out = append(out, t)
		}
	}
	return out
}

// CountTasksByStatusForAgent counts tasks assigned to an agent currently
// in Pending or In Progress, used by internal/matcher for workload
// balancing.
func (s *Store) CountTasksByStatusForAgent(agentName string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, t := range s.tasks {
		if t.AssignedAgent != agentName {
			continue
		}
		switch model.NormalizeTaskStatus(t.Status) {
		case model.TaskPending, model.TaskInProgress:
			count++
		}
	}
	return count
}

// DeleteTask removes a task and persists the change.
func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return xerrors.NotFound("task %s not found", id)
	}
	delete(s.tasks, id)
	return s.persist(KindTasks)
}
