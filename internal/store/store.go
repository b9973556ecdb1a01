// Package store persists Xavier's entities as one JSON file per entity
// kind under a project's data/ directory.
//
// Grounded on kanban.State in the teacher (sync.RWMutex guarding an
// in-memory struct, json.MarshalIndent, temp-file-then-rename writes),
// generalized per spec §4.1 from a single combined board file to one file
// per entity kind so that a corrupt bugs.json cannot take stories.json
// down with it, plus an advisory syscall.Flock so two processes pointed
// at the same project directory cannot interleave writes.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// Kind names one of the JSON files this store maintains.
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

var allKinds = []Kind{KindStories, KindTasks, KindBugs, KindSprints, KindEpics, KindRoadmaps, KindWorktrees}

// Store is the file-backed persistence layer for one project directory.
// All reads and writes for a given process go through a single *Store
// instance's RWMutex; cross-process safety is provided additionally by
// an advisory file lock taken for the duration of each write.
type Store struct {
	mu       sync.RWMutex
	dataDir  string
	lockPath string

	stories   map[string]model.Story
	tasks     map[string]model.Task
	bugs      map[string]model.Bug
	sprints   map[string]model.Sprint
	epics     map[string]model.Epic
	roadmaps  map[string]model.Roadmap
	worktrees map[string]model.WorktreeRecord

	// quarantined records kinds whose on-disk file failed to parse; reads
	// against a quarantined kind return an empty set rather than an error,
	// per spec §4.1's "other entity kinds unaffected" rule.
	quarantined map[Kind]string
}

// Open loads (or initializes) the store rooted at dataDir. A missing
// directory is created, and any missing per-kind file is created empty
// on disk — spec §4.1 requires all files to exist after startup — while
// an existing empty file is simply treated as an empty collection,
// matching the teacher's Load() semantics.
func Open(dataDir string) (*Store, error) {
	s := &Store{
		dataDir:     dataDir,
		lockPath:    filepath.Join(dataDir, ".xavier.lock"),
		stories:     map[string]model.Story{},
		tasks:       map[string]model.Task{},
		bugs:        map[string]model.Bug{},
		sprints:     map[string]model.Sprint{},
		epics:       map[string]model.Epic{},
		roadmaps:    map[string]model.Roadmap{},
		worktrees:   map[string]model.WorktreeRecord{},
		quarantined: map[Kind]string{},
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, xerrors.Wrap(xerrors.KindIO, err, "store: create data directory %s", dataDir)
	}
	for _, k := range allKinds {
		existed, err := s.loadKind(k)
		if err != nil {
			return nil, err
		}
		if !existed {
			if err := s.persist(k); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func (s *Store) pathFor(k Kind) string {
	return filepath.Join(s.dataDir, string(k)+".json")
}

// loadKind reads one kind's file, reporting whether it existed on disk. A
// parse failure quarantines the file (renamed aside with a timestamp
// suffix) rather than failing Open, per spec §4.1's per-file corruption
// isolation requirement.
func (s *Store) loadKind(k Kind) (existed bool, err error) {
	path := s.pathFor(k)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, xerrors.Wrap(xerrors.KindIO, err, "store: read %s", path)
	}
	if len(data) == 0 {
		return true, nil
	}
	if err := s.unmarshalKind(k, data); err != nil {
		quarantinePath := fmt.Sprintf("%s.corrupt.%d", path, time.Now().UnixNano())
		if renameErr := os.Rename(path, quarantinePath); renameErr == nil {
			s.quarantined[k] = quarantinePath
		}
		return false, nil
	}
	return true, nil
}

func (s *Store) unmarshalKind(k Kind, data []byte) error {
	switch k {
	case KindStories:
		var m map[string]model.Story
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		s.stories = m
	case KindTasks:
		var m map[string]model.Task
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		s.tasks = m
	case KindBugs:
		var m map[string]model.Bug
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		s.bugs = m
	case KindSprints:
		var m map[string]model.Sprint
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		s.sprints = m
	case KindEpics:
		var m map[string]model.Epic
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		s.epics = m
	case KindRoadmaps:
		var m map[string]model.Roadmap
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		s.roadmaps = m
	case KindWorktrees:
		var m map[string]model.WorktreeRecord
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		s.worktrees = m
	}
	return nil
}

func (s *Store) marshalKind(k Kind) ([]byte, error) {
	switch k {
	case KindStories:
		return json.MarshalIndent(s.stories, "", "  ")
	case KindTasks:
		return json.MarshalIndent(s.tasks, "", "  ")
	case KindBugs:
		return json.MarshalIndent(s.bugs, "", "  ")
	case KindSprints:
		return json.MarshalIndent(s.sprints, "", "  ")
	case KindEpics:
		return json.MarshalIndent(s.epics, "", "  ")
	case KindRoadmaps:
		return json.MarshalIndent(s.roadmaps, "", "  ")
	case KindWorktrees:
		return json.MarshalIndent(s.worktrees, "", "  ")
	}
	return nil, fmt.Errorf("store: unknown kind %s", k)
}

// persist writes one kind's file atomically (temp file + rename), holding
// the cross-process advisory lock for the duration of the write.
func (s *Store) persist(k Kind) error {
	unlock, err := s.lockExclusive()
	if err != nil {
		return err
	}
	defer unlock()

	data, err := s.marshalKind(k)
	if err != nil {
		return xerrors.Wrap(xerrors.KindSchema, err, "store: marshal %s", k)
	}
	path := s.pathFor(k)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return xerrors.Wrap(xerrors.KindIO, err, "store: write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return xerrors.Wrap(xerrors.KindIO, err, "store: rename %s", tmp)
	}
	return nil
}

// IsQuarantined reports whether a kind's on-disk file was corrupt at load
// time, and the path it was moved aside to.
func (s *Store) IsQuarantined(k Kind) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.quarantined[k]
	return p, ok
}

// existsLocked reports whether an ID is already present in any entity
// kind, for use as an idgen.Exists callback. Caller must hold at least a
// read lock.
func (s *Store) existsLocked(id string) bool {
	if _, ok := s.stories[id]; ok {
		return true
	}
	if _, ok := s.tasks[id]; ok {
		return true
	}
	if _, ok := s.bugs[id]; ok {
		return true
	}
	if _, ok := s.sprints[id]; ok {
		return true
	}
	if _, ok := s.epics[id]; ok {
		return true
	}
	if _, ok := s.roadmaps[id]; ok {
		return true
	}
	return false
}

// Exists returns an idgen.Exists callback bound to this store's current
// contents, taken under a read lock.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.existsLocked(id)
}
