package store

import (
	"sort"
	"time"

	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// PutStory inserts or replaces a story and persists stories.json.
func (s *Store) PutStory(st model.Story) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.UpdatedAt = time.Now().UTC()
	if st.CreatedAt.IsZero() {
		st.CreatedAt = st.UpdatedAt
	}
	s.stories[st.ID] = st
	return s.persist(KindStories)
}

// GetStory returns the story with the given ID.
func (s *Store) GetStory(id string) (model.Story, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stories[id]
	if !ok {
		return model.Story{}, xerrors.NotFound("story %s not found", id)
	}
	st.Status = model.NormalizeStoryStatus(st.Status)
	return st, nil
}

// ListStories returns every story, sorted by ID for deterministic output.
func (s *Store) ListStories() []model.Story {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Story, 0, len(s.stories))
	for _, st := range s.stories {
		st.Status = model.NormalizeStoryStatus(st.Status)
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DeleteStory removes a story and persists the change.
func (s *Store) DeleteStory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stories[id]; !ok {
		return xerrors.NotFound("story %s not found", id)
	}
	delete(s.stories, id)
	return s.persist(KindStories)
}
