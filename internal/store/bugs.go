package store

import (
	"sort"
	"time"

	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// PutBug inserts or replaces a bug and persists bugs.json.
func (s *Store) PutBug(b model.Bug) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.UpdatedAt = time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = b.UpdatedAt
	}
	s.bugs[b.ID] = b
	return s.persist(KindBugs)
}

// GetBug returns the bug with the given ID.
func (s *Store) GetBug(id string) (model.Bug, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bugs[id]
	if !ok {
		return model.Bug{}, xerrors.NotFound("bug %s not found", id)
	}
	b.Status = model.NormalizeBugStatus(b.Status)
	return b, nil
}

// ListBugs returns every bug, sorted by ID.
func (s *Store) ListBugs() []model.Bug {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Bug, 0, len(s.bugs))
	for _, b := range s.bugs {
		b.Status = model.NormalizeBugStatus(b.Status)
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DeleteBug removes a bug and persists the change.
func (s *Store) DeleteBug(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bugs[id]; !ok {
		return xerrors.NotFound("bug %s not found", id)
	}
	delete(s.bugs, id)
	return s.persist(KindBugs)
}
