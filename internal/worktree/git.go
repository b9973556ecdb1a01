// Package worktree manages one git worktree per task.
//
// Grounded directly on internal/engine/git.go in the teacher
// (DetectBaseBranch, EnsureWorktree/RemoveWorktree/CleanupWorktrees,
// CreateBranch, PushBranch, RecentCommits, ChangedFiles) and on
// internal/yardmaster/switch.go's createDraftPR, generalized per spec
// §4.6/§4.7 from one worktree per engine to one worktree per task, with
// metadata tracked in internal/store rather than a SQL row.
package worktree

import (
	"fmt"
	"os/exec"
	"strings"
)

func runGit(dir string, args ...string) (string, error) {
	return runTool(dir, "git", args...)
}

func runTool(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("worktree: %s %s: %s", name, strings.Join(args, " "), strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// detectBaseBranch mirrors the teacher's DetectBaseBranch fallback chain:
// current branch via symbolic-ref, then the configured default, then
// origin/HEAD, then "main".
func detectBaseBranch(repoDir, configuredDefault string) string {
	if out, err := runGit(repoDir, "symbolic-ref", "--short", "HEAD"); err == nil && out != "" {
		return out
	}
	if configuredDefault != "" {
		return configuredDefault
	}
	if out, err := runGit(repoDir, "symbolic-ref", "refs/remotes/origin/HEAD"); err == nil {
		if i := strings.LastIndex(out, "/"); i >= 0 && i+1 < len(out) {
			return out[i+1:]
		}
	}
	return "main"
}

// pushBranch pushes branchName to origin, retrying once on failure.
func pushBranch(repoDir, branchName string) error {
	_, err := runGit(repoDir, "push", "-u", "origin", branchName)
	if err == nil {
		return nil
	}
	_, err = runGit(repoDir, "push", "-u", "origin", branchName)
	return err
}

func recentCommits(repoDir, branchName string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	out, err := runGit(repoDir, "log", "--oneline", fmt.Sprintf("-%d", n), branchName)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

func changedFiles(worktreePath string) ([]string, error) {
	out, err := runGit(worktreePath, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

func commitsAheadBehind(worktreePath, branch, base string) (ahead, behind int, err error) {
	out, err := runGit(worktreePath, "rev-list", "--left-right", "--count", base+"..."+branch)
	if err != nil {
		return 0, 0, err
	}
	parts := strings.Fields(out)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("worktree: unexpected rev-list output %q", out)
	}
	fmt.Sscanf(parts[0], "%d", &behind)
	fmt.Sscanf(parts[1], "%d", &ahead)
	return ahead, behind, nil
}

// createDraftPR invokes `gh pr create --draft` and returns the PR URL,
// grounded on internal/yardmaster/switch.go's createDraftPR. tool is
// normally "gh" (config.PRConfig.Tool).
func createDraftPR(repoDir, tool, title, body, branch string) (string, error) {
	return runTool(repoDir, tool, "pr", "create", "--draft", "--title", title, "--body", body, "--head", branch)
}
