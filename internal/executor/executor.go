// Package executor runs the test-first shell sequence for one
// (task, agent) pair inside its worktree.
//
// Grounded on internal/engine/subprocess.go's SpawnAgent/Session in the
// teacher (buffered, periodically-flushed log writer; context
// cancellation via cmd.Cancel/cmd.WaitDelay), adapted per spec §4.7 from
// "spawn an interactive claude CLI session" to "run the named shell
// steps of the test-first sequence". Session IDs use google/uuid rather
// than the teacher's crypto/rand hex scheme, which stays reserved for
// entity/worktree identifiers governed by the persistence invariants.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gumruyanzh/xavier/internal/events"
	"github.com/gumruyanzh/xavier/internal/model"
)

// Phase names one step of the executor's lifecycle, matching the status
// events named in spec §4.7.
type Phase string

const (
	PhaseWorking   Phase = "Working"
	PhaseTesting   Phase = "Testing"
	PhaseCoverage  Phase = "Coverage"
	PhaseCompleted Phase = "Completed"
	PhaseFailed    Phase = "Failed"
)

// TaskResult is the executor's terminal report for one task.
type TaskResult struct {
	Status          string // Completed, Failed, or Blocked
	Summary         string
	CoveragePercent float64
	Artifacts       []string
	CreatedPRURL    string
	Reason          string // set when Blocked, e.g. "coverage"
}

// Invocation records one external tool call for the sprint log.
type Invocation struct {
	Command  string
	ExitCode int
	Stdout   string
	At       time.Time
}

// Scaffolder authors/scaffolds tests and the implementation inside a
// worktree. The executor never writes code itself (spec §4.7); this is
// the seam where an external code-generation agent is plugged in. A nil
// Scaffolder is valid — Run then performs only the shell-invocation
// phases below it, useful for dry runs and tests.
type Scaffolder interface {
	ScaffoldTests(ctx context.Context, workDir string, task model.Task) error
	Implement(ctx context.Context, workDir string, task model.Task) error
}

// Options configures one Run.
type Options struct {
	WorkDir         string
	Task            model.Task
	Agent           model.AgentDescriptor
	CoverageMinimum float64 // percent, 0-100
	Scaffolder      Scaffolder
	Publish         func(events.Event)
}

// Run executes the full test-first sequence and returns a TaskResult.
// It never returns an error for a failed task — failure is reported as
// TaskResult.Status, matching spec §4.7's terminal contract. A non-nil
// error return means the executor itself could not run (bad options).
func Run(ctx context.Context, opts Options) (TaskResult, []Invocation, error) {
	if opts.WorkDir == "" {
		return TaskResult{}, nil, fmt.Errorf("executor: work directory is required")
	}
	sessionID := uuid.NewString()
	var invocations []Invocation
	publish := opts.Publish
	if publish == nil {
		publish = func(events.Event) {}
	}

	emit := func(phase Phase, msg string) {
		publish(events.New(events.PhaseChanged,
			events.WithTask(opts.Task.ID), events.WithAgent(opts.Agent.Name),
			events.WithMessage(msg), events.WithData(map[string]interface{}{"phase": string(phase), "session_id": sessionID})))
	}

	if ctx.Err() != nil {
		return TaskResult{Status: "Blocked", Reason: "cancelled"}, invocations, nil
	}

	emit(PhaseWorking, "scaffolding tests")
	if opts.Scaffolder != nil {
		if err := opts.Scaffolder.ScaffoldTests(ctx, opts.WorkDir, opts.Task); err != nil {
			emit(PhaseFailed, err.Error())
			return TaskResult{Status: "Failed", Summary: "scaffold failed: " + err.Error()}, invocations, nil
		}
	}

	if ctx.Err() != nil {
		return TaskResult{Status: "Blocked", Reason: "cancelled"}, invocations, nil
	}

	emit(PhaseTesting, "running tests before implementation")
	inv, exitCode, err := runCommand(ctx, opts.WorkDir, opts.Agent.TestCommand)
	invocations = append(invocations, inv)
	if err == nil && exitCode == 0 {
		// A red-first test run is expected; a green run here usually means
		// there is nothing new to implement, which is not itself a failure.
		emit(PhaseWorking, "tests already passing before implementation")
	}

	if ctx.Err() != nil {
		return TaskResult{Status: "Blocked", Reason: "cancelled"}, invocations, nil
	}

	emit(PhaseWorking, "implementing")
	if opts.Scaffolder != nil {
		if err := opts.Scaffolder.Implement(ctx, opts.WorkDir, opts.Task); err != nil {
			emit(PhaseFailed, err.Error())
			return TaskResult{Status: "Failed", Summary: "implementation failed: " + err.Error()}, invocations, nil
		}
	}

	if ctx.Err() != nil {
		return TaskResult{Status: "Blocked", Reason: "cancelled"}, invocations, nil
	}

	emit(PhaseTesting, "running tests after implementation")
	inv, exitCode, err = runCommand(ctx, opts.WorkDir, opts.Agent.TestCommand)
	invocations = append(invocations, inv)
	if err != nil || exitCode != 0 {
		emit(PhaseFailed, "tests failed after implementation")
		return TaskResult{Status: "Failed", Summary: "tests failed after implementation", Artifacts: commandArtifacts(inv)}, invocations, nil
	}

	if ctx.Err() != nil {
		return TaskResult{Status: "Blocked", Reason: "cancelled"}, invocations, nil
	}

	emit(PhaseCoverage, "measuring coverage")
	var coverage float64
	if opts.Agent.CoverageCommand != "" {
		inv, _, err = runCommand(ctx, opts.WorkDir, opts.Agent.CoverageCommand)
		invocations = append(invocations, inv)
		if err == nil {
			coverage = parseCoveragePercent(inv.Stdout)
		}
	} else {
		coverage = 100 // no coverage tool configured: treat as satisfied
	}

	if coverage < opts.CoverageMinimum {
		emit(PhaseFailed, fmt.Sprintf("coverage %.1f%% below threshold %.1f%%", coverage, opts.CoverageMinimum))
		return TaskResult{
			Status: "Blocked", Reason: "coverage", CoveragePercent: coverage,
			Summary: fmt.Sprintf("coverage %.1f%% is below the required %.1f%%", coverage, opts.CoverageMinimum),
		}, invocations, nil
	}

	emit(PhaseCompleted, "task completed")
	return TaskResult{
		Status: "Completed", CoveragePercent: coverage,
		Summary: fmt.Sprintf("%s completed with %.1f%% coverage", opts.Task.Title, coverage),
	}, invocations, nil
}

func commandArtifacts(inv Invocation) []string {
	if inv.Stdout == "" {
		return nil
	}
	return []string{inv.Command}
}

// runCommand runs a shell command string inside workDir, matching the
// teacher's practice of invoking an external tool with cmd.Dir set to
// the relevant worktree. An empty command is a no-op that reports exit
// code 0.
func runCommand(ctx context.Context, workDir, command string) (Invocation, int, error) {
	inv := Invocation{Command: command, At: time.Now().UTC()}
	if strings.TrimSpace(command) == "" {
		inv.ExitCode = 0
		return inv, 0, nil
	}
	fields := strings.Fields(command)
	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	cmd.Dir = workDir
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	inv.Stdout = buf.String()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			inv.ExitCode = -1
			return inv, -1, err
		}
	}
	inv.ExitCode = exitCode
	return inv, exitCode, nil
}

// parseCoveragePercent extracts a trailing "NN.N%" style token from tool
// output, matching the common `go test -cover`/`pytest --cov` summary
// line shape without depending on any one tool's exact format.
func parseCoveragePercent(output string) float64 {
	lines := strings.Split(output, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		idx := strings.Index(lines[i], "%")
		if idx < 0 {
			continue
		}
		start := idx
		for start > 0 && (isDigit(lines[i][start-1]) || lines[i][start-1] == '.') {
			start--
		}
		if start == idx {
			continue
		}
		if v, err := strconv.ParseFloat(lines[i][start:idx], 64); err == nil {
			return v
		}
	}
	return 0
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
