package store

import (
	"sort"

	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// PutSprint inserts or replaces a sprint and persists sprints.json.
func (s *Store) PutSprint(sp model.Sprint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sprints[sp.ID] = sp
	return s.persist(KindSprints)
}

// GetSprint returns the sprint with the given ID.
func (s *Store) GetSprint(id string) (model.Sprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sp, ok := s.sprints[id]
	if !ok {
		return model.Sprint{}, xerrors.NotFound("sprint %s not found", id)
	}
	sp.Status = model.NormalizeSprintStatus(sp.Status)
	return sp, nil
}

// ListSprints returns every sprint, sorted by ID.
func (s *Store) ListSprints() []model.Sprint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Sprint, 0, len(s.sprints))
	for _, sp := range s.sprints {
		sp.Status = model.NormalizeSprintStatus(sp.Status)
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ActiveSprint returns the sprint currently in the Active state, if any.
// The process-wide single-Active-sprint invariant (spec §5) is enforced
// by internal/scrum before calling PutSprint; this is a read helper only.
func (s *Store) ActiveSprint() (model.Sprint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sp := range s.sprints {
		if model.NormalizeSprintStatus(sp.Status) == model.SprintActive {
			return sp, true
		}
	}
	return model.Sprint{}, false
}

// DeleteSprint removes a sprint and persists the change.
func (s *Store) DeleteSprint(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sprints[id]; !ok {
		return xerrors.NotFound("sprint %s not found", id)
	}
	delete(s.sprints, id)
	return s.persist(KindSprints)
}
