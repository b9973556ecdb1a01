package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

func TestOpen_EmptyDirectoryYieldsEmptyCollections(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(s.ListStories()) != 0 {
		t.Error("expected no stories in a fresh directory")
	}
}

func TestOpen_CreatesEveryMissingPerKindFileOnDisk(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(dir); err != nil {
		t.Fatalf("Open: %v", err)
	}
	for _, k := range allKinds {
		path := filepath.Join(dir, string(k)+".json")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist after Open, got: %v", path, err)
		}
	}
}

func TestOpen_LeavesAnExistingFileUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stories.json")
	if err := os.WriteFile(path, []byte(`{"US-1":{"id":"US-1","title":"Keep me"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	stories := s.ListStories()
	if len(stories) != 1 || stories[0].Title != "Keep me" {
		t.Errorf("expected the pre-existing story to survive Open, got %+v", stories)
	}
}

func TestPutAndGetStory_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	st := model.Story{ID: "US-ABC123", Title: "Login", Status: model.StoryBacklog}
	if err := s.PutStory(st); err != nil {
		t.Fatalf("PutStory: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.GetStory("US-ABC123")
	if err != nil {
		t.Fatalf("GetStory: %v", err)
	}
	if got.Title != "Login" {
		t.Errorf("got title %q, want Login", got.Title)
	}
}

func TestGetStory_NotFoundIsTypedError(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_, err = s.GetStory("US-MISSING")
	if !xerrors.Is(err, xerrors.KindNotFound) {
		t.Errorf("expected NotFound error, got %v", err)
	}
}

func TestOpen_CorruptFileIsQuarantinedNotFatal(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bugs.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "stories.json"), []byte(`{"US-1":{"id":"US-1","title":"ok"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open should not fail on a corrupt sibling file: %v", err)
	}
	if _, ok := s.IsQuarantined(KindBugs); !ok {
		t.Error("expected bugs.json to be quarantined")
	}
	if len(s.ListBugs()) != 0 {
		t.Error("quarantined kind should read back empty")
	}
	if len(s.ListStories()) != 1 {
		t.Error("stories.json should be unaffected by bugs.json corruption")
	}
}

func TestPersist_WritesAtomicallyViaTempRename(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.PutTask(model.Task{ID: "TASK-1", Title: "x"}); err != nil {
		t.Fatalf("PutTask: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tasks.json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file should not remain after a successful persist")
	}
	if _, err := os.Stat(filepath.Join(dir, "tasks.json")); err != nil {
		t.Errorf("expected tasks.json to exist: %v", err)
	}
}

func TestActiveSprint_FindsTheOneActiveSprint(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = s.PutSprint(model.Sprint{ID: "SPRINT-1", Status: model.SprintPlanned})
	_ = s.PutSprint(model.Sprint{ID: "SPRINT-2", Status: model.SprintActive})
	active, ok := s.ActiveSprint()
	if !ok || active.ID != "SPRINT-2" {
		t.Errorf("expected SPRINT-2 active, got %+v ok=%v", active, ok)
	}
}

func TestBackup_CopiesFilesAndWritesManifest(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.PutStory(model.Story{ID: "US-1", Title: "x"}); err != nil {
		t.Fatalf("PutStory: %v", err)
	}
	rec, err := s.Backup("pre-upgrade")
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if len(rec.Files) == 0 {
		t.Error("expected at least one backed-up file")
	}
	if rec.Timestamp.After(time.Now()) {
		t.Error("backup timestamp should not be in the future")
	}
}
