package store

import (
	"sort"

	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// PutEpic inserts or replaces an epic and persists epics.json.
func (s *Store) PutEpic(e model.Epic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epics[e.ID] = e
	return s.persist(KindEpics)
}

// GetEpic returns the epic with the given ID.
func (s *Store) GetEpic(id string) (model.Epic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.epics[id]
	if !ok {
		return model.Epic{}, xerrors.NotFound("epic %s not found", id)
	}
	return e, nil
}

// ListEpics returns every epic, sorted by ID.
func (s *Store) ListEpics() []model.Epic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Epic, 0, len(s.epics))
	for _, e := range s.epics {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PutRoadmap inserts or replaces a roadmap and persists roadmaps.json.
func (s *Store) PutRoadmap(r model.Roadmap) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roadmaps[r.ID] = r
	return s.persist(KindRoadmaps)
}

// GetRoadmap returns the roadmap with the given ID.
func (s *Store) GetRoadmap(id string) (model.Roadmap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roadmaps[id]
	if !ok {
		return model.Roadmap{}, xerrors.NotFound("roadmap %s not found", id)
	}
	return r, nil
}

// ListRoadmaps returns every roadmap, sorted by ID.
func (s *Store) ListRoadmaps() []model.Roadmap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Roadmap, 0, len(s.roadmaps))
	for _, r := range s.roadmaps {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
