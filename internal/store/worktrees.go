package store

import (
	"sort"

	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// PutWorktree inserts or replaces a worktree record and persists
// worktrees.json. Keyed by TaskID since spec §4.7 mandates one worktree
// per task.
func (s *Store) PutWorktree(w model.WorktreeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.worktrees[w.TaskID] = w
	return s.persist(KindWorktrees)
}

// GetWorktree returns the worktree record for a task.
func (s *Store) GetWorktree(taskID string) (model.WorktreeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.worktrees[taskID]
	if !ok {
		return model.WorktreeRecord{}, xerrors.NotFound("worktree for task %s not found", taskID)
	}
	return w, nil
}

// ListWorktrees returns every worktree record, sorted by TaskID.
func (s *Store) ListWorktrees() []model.WorktreeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.WorktreeRecord, 0, len(s.worktrees))
	for _, w := range s.worktrees {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out
}

// DeleteWorktree removes a worktree record and persists the change.
func (s *Store) DeleteWorktree(taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.worktrees[taskID]; !ok {
		return xerrors.NotFound("worktree for task %s not found", taskID)
	}
	delete(s.worktrees, taskID)
	return s.persist(KindWorktrees)
}
