package worktree

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gumruyanzh/xavier/internal/model"
	"github.com/gumruyanzh/xavier/internal/xerrors"
)

// Store is the subset of internal/store's surface the manager needs,
// kept narrow so this package doesn't import the concrete store type.
type Store interface {
	PutWorktree(model.WorktreeRecord) error
	GetWorktree(taskID string) (model.WorktreeRecord, error)
	ListWorktrees() []model.WorktreeRecord
	DeleteWorktree(taskID string) error
}

// ItemKind names the parent item a task belongs to, used to infer the
// branch type prefix.
type ItemKind string

const (
	ItemFeature ItemKind = "feature"
	ItemFix     ItemKind = "fix"
	ItemRefactor ItemKind = "refactor"
)

// Manager maintains the trees/ directory and branch counter for one
// project repo.
type Manager struct {
	mu sync.Mutex

	repoDir       string
	treesRoot     string // e.g. "trees", relative to repoDir
	projectAbbrev string
	baseBranch    string
	prTool        string
	store         Store

	// branchCounter is the project-global monotonic counter (spec §9's
	// Open Question resolution: numbered per project, not per sprint).
	branchCounter int
}

// NewManager constructs a Manager. treesRoot is relative to repoDir. The
// branch counter is seeded from the highest numbered branch already
// recorded in store, so it stays project-global and monotonic across
// process restarts (spec §9's Open Question resolution) rather than
// resetting to zero on every new Manager.
func NewManager(repoDir, treesRoot, projectAbbrev, configuredBaseBranch, prTool string, store Store) *Manager {
	return &Manager{
		repoDir:       repoDir,
		treesRoot:     treesRoot,
		projectAbbrev: projectAbbrev,
		baseBranch:    detectBaseBranch(repoDir, configuredBaseBranch),
		prTool:        prTool,
		store:         store,
		branchCounter: maxBranchCounter(store),
	}
}

// maxBranchCounter scans every persisted worktree's branch name
// ("<kind>/<abbrev>-<n>") and returns the highest <n> found, or 0 if none.
func maxBranchCounter(store Store) int {
	max := 0
	for _, rec := range store.ListWorktrees() {
		idx := strings.LastIndex(rec.Branch, "-")
		if idx < 0 {
			continue
		}
		n, err := strconv.Atoi(rec.Branch[idx+1:])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}

// EnsureTreesRoot idempotently creates the trees root directory and adds
// it to .gitignore if not already present.
func (m *Manager) EnsureTreesRoot() error {
	full := filepath.Join(m.repoDir, m.treesRoot)
	if err := os.MkdirAll(full, 0o755); err != nil {
		return xerrors.Wrap(xerrors.KindIO, err, "worktree: create trees root %s", full)
	}
	ignorePath := filepath.Join(m.repoDir, ".gitignore")
	data, _ := os.ReadFile(ignorePath)
	entry := m.treesRoot + "/"
	if strings.Contains(string(data), entry) {
		return nil
	}
	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return xerrors.Wrap(xerrors.KindIO, err, "worktree: open .gitignore")
	}
	defer f.Close()
	if _, err := f.WriteString("\n" + entry + "\n"); err != nil {
		return xerrors.Wrap(xerrors.KindIO, err, "worktree: append to .gitignore")
	}
	return nil
}

// nextBranch allocates the next branch name for the given item kind.
func (m *Manager) nextBranch(kind ItemKind) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.branchCounter++
	return fmt.Sprintf("%s/%s-%d", kind, m.projectAbbrev, m.branchCounter)
}

// Create ensures a worktree exists for taskID, refusing if one already
// does, per spec §4.6's create() contract.
func (m *Manager) Create(taskID, agentName, slug string, kind ItemKind) (model.WorktreeRecord, error) {
	if _, err := m.store.GetWorktree(taskID); err == nil {
		return model.WorktreeRecord{}, xerrors.Conflict("worktree for task %s already exists", taskID)
	}

	if err := m.EnsureTreesRoot(); err != nil {
		return model.WorktreeRecord{}, err
	}

	branch := m.nextBranch(kind)
	path := filepath.Join(m.repoDir, m.treesRoot, slug)

	if _, err := runGit(m.repoDir, "worktree", "add", "-b", branch, path, m.baseBranch); err != nil {
		return model.WorktreeRecord{}, xerrors.Wrap(xerrors.KindSubprocess, err, "worktree: create worktree for task %s", taskID)
	}

	rec := model.WorktreeRecord{
		TaskID: taskID, AgentName: agentName, Branch: branch, Path: path,
		CreatedAt: time.Now().UTC(), Status: model.WorktreeActive,
	}
	if err := m.store.PutWorktree(rec); err != nil {
		return model.WorktreeRecord{}, err
	}
	return rec, nil
}

// Status reports uncommitted changes and the branch's position relative
// to the base branch.
type Status struct {
	HasChanges    bool
	CommitsAhead  int
	CommitsBehind int
}

func (m *Manager) Status(taskID string) (Status, error) {
	rec, err := m.store.GetWorktree(taskID)
	if err != nil {
		return Status{}, err
	}
	changed, err := changedFiles(rec.Path)
	if err != nil {
		return Status{}, xerrors.Wrap(xerrors.KindSubprocess, err, "worktree: status for task %s", taskID)
	}
	ahead, behind, err := commitsAheadBehind(rec.Path, rec.Branch, m.baseBranch)
	if err != nil {
		return Status{}, xerrors.Wrap(xerrors.KindSubprocess, err, "worktree: rev-list for task %s", taskID)
	}
	return Status{HasChanges: len(changed) > 0, CommitsAhead: ahead, CommitsBehind: behind}, nil
}

// List enumerates live worktrees via git and reconciles them with
// persisted metadata: it returns every persisted record plus the task IDs
// of non-removed records whose path git no longer lists (ghosts). It does
// not change any record's status.
func (m *Manager) List() ([]model.WorktreeRecord, []string, error) {
	out, err := runGit(m.repoDir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, nil, xerrors.Wrap(xerrors.KindSubprocess, err, "worktree: list")
	}
	live := map[string]bool{}
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "worktree ") {
			live[strings.TrimPrefix(line, "worktree ")] = true
		}
	}
	records := m.store.ListWorktrees()
	var ghosts []string
	for _, r := range records {
		if r.Status == model.WorktreeRemoved {
			continue
		}
		if !live[r.Path] {
			ghosts = append(ghosts, r.TaskID)
		}
	}
	return records, ghosts, nil
}

// Remove removes a task's worktree, refusing if it has uncommitted
// changes unless force is set.
func (m *Manager) Remove(taskID string, force bool) error {
	rec, err := m.store.GetWorktree(taskID)
	if err != nil {
		return err
	}
	if !force {
		st, err := m.Status(taskID)
		if err == nil && st.HasChanges {
			return xerrors.Conflict("worktree for task %s has uncommitted changes", taskID).
				WithHint("pass force=true to remove anyway")
		}
	}
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, rec.Path)
	if _, err := runGit(m.repoDir, args...); err != nil {
		if !strings.Contains(err.Error(), "is not a working tree") {
			return xerrors.Wrap(xerrors.KindSubprocess, err, "worktree: remove task %s", taskID)
		}
	}
	rec.Status = model.WorktreeRemoved
	return m.store.PutWorktree(rec)
}

// Push pushes the task's branch to origin and marks it pushed.
func (m *Manager) Push(taskID string) error {
	rec, err := m.store.GetWorktree(taskID)
	if err != nil {
		return err
	}
	if err := pushBranch(rec.Path, rec.Branch); err != nil {
		return xerrors.Wrap(xerrors.KindSubprocess, err, "worktree: push task %s", taskID)
	}
	rec.Status = model.WorktreePushed
	return m.store.PutWorktree(rec)
}

// OpenPR invokes the configured PR tool and records the returned URL. A
// failure is returned without changing the record's status, per spec
// §4.6's open_pr() contract.
func (m *Manager) OpenPR(taskID, title, body string) (string, error) {
	rec, err := m.store.GetWorktree(taskID)
	if err != nil {
		return "", err
	}
	url, err := createDraftPR(m.repoDir, m.prTool, title, body, rec.Branch)
	if err != nil {
		return "", xerrors.Wrap(xerrors.KindSubprocess, err, "worktree: open PR for task %s", taskID)
	}
	rec.Status = model.WorktreePROpen
	rec.PRUrl = url
	if err := m.store.PutWorktree(rec); err != nil {
		return url, err
	}
	return url, nil
}

// Cleanup prunes ghost worktrees and, optionally, worktrees for
// Completed tasks with no uncommitted changes.
func (m *Manager) Cleanup(completedTaskIDs map[string]bool, removeCompleted bool) error {
	_, ghosts, err := m.List()
	if err != nil {
		return err
	}
	for _, taskID := range ghosts {
		rec, err := m.store.GetWorktree(taskID)
		if err != nil {
			continue
		}
		rec.Status = model.WorktreeAbandoned
		_ = m.store.PutWorktree(rec)
	}
	if _, err := runGit(m.repoDir, "worktree", "prune"); err != nil {
		return xerrors.Wrap(xerrors.KindSubprocess, err, "worktree: prune")
	}
	if !removeCompleted {
		return nil
	}
	for taskID, done := range completedTaskIDs {
		if !done {
			continue
		}
		st, err := m.Status(taskID)
		if err != nil || st.HasChanges {
			continue
		}
		_ = m.Remove(taskID, false)
	}
	return nil
}

// RecentCommits returns the last n one-line commit summaries on a task's
// branch.
func (m *Manager) RecentCommits(taskID string, n int) ([]string, error) {
	rec, err := m.store.GetWorktree(taskID)
	if err != nil {
		return nil, err
	}
	return recentCommits(rec.Path, rec.Branch, n)
}
