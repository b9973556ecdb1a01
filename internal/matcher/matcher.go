// Package matcher scores a Task against the agent registry and returns
// the agent best suited to carry it out.
//
// The teacher has no analog for keyword-weighted routing; this package
// is new logic, written in the query-building idiom of the pack's
// ready-work scanners (e.g. kanban.State.GetNextTicketForDomain), but the
// scoring algorithm itself is entirely spec-derived (spec §4.5).
package matcher

import (
	"regexp"
	"sort"
	"strings"

	"github.com/gumruyanzh/xavier/internal/agent"
	"github.com/gumruyanzh/xavier/internal/model"
)

// Result is the outcome of matching a task to an agent.
type Result struct {
	AgentName string
	Reason    string
	Confidence float64
	CreatedNew bool
}

// WorkloadCounter reports how many Pending/In-Progress tasks are
// currently assigned to an agent, for workload balancing (step 6 of the
// matching algorithm). Bound to internal/store.CountTasksByStatusForAgent
// by the façade.
type WorkloadCounter func(agentName string) int

// techMap is the technology → agent_name routing table (spec §4.5).
var techMap = map[string]string{
	"python": "python", "django": "python", "flask": "python", "fastapi": "python",
	"go": "go", "golang": "go", "gin": "go",
	"react": "frontend", "vue": "frontend", "angular": "frontend", "typescript": "frontend", "javascript": "frontend",
	"docker": "devops", "kubernetes": "devops", "terraform": "devops",
	"postgres": "database", "mongo": "database", "sql": "database",
	"pytest": "test-runner", "jest": "test-runner", "unittest": "test-runner", "coverage": "test-runner",
	"rails": "ruby", "ruby": "ruby",
	"spring": "java", "java": "java",
	"rust": "rust", "cargo": "rust",
	"swift": "swift", "ios": "swift",
	"kotlin": "kotlin", "android": "kotlin",
	"elixir": "elixir", "phoenix": "elixir",
	"r": "r", "ggplot": "r",
	"haskell": "haskell", "cabal": "haskell",
}

// techOrder preserves a stable scan order so the "first occurrence in
// the title wins ties" rule (spec §4.5 step 2) is deterministic.
var techOrder = []string{
	"python", "django", "flask", "fastapi",
	"go", "golang", "gin",
	"react", "vue", "angular", "typescript", "javascript",
	"docker", "kubernetes", "terraform",
	"postgres", "mongo", "sql",
	"pytest", "jest", "unittest", "coverage",
	"rails", "ruby",
	"spring", "java",
	"rust", "cargo",
	"swift", "ios",
	"kotlin", "android",
	"elixir", "phoenix",
	"r", "ggplot",
	"haskell", "cabal",
}

// taskTypeMap is the lower-weight fallback routing table (spec §4.5
// step 3), consulted only when no technology term is found.
var taskTypeMap = map[string]string{
	"test": "test-runner", "coverage": "test-runner",
	"deploy": "devops", "pipeline": "devops",
	"refactor": "project-manager", "review": "project-manager",
}

var taskTypeOrder = []string{"test", "coverage", "deploy", "pipeline", "refactor", "review"}

const genericEngineer = "go" // fallback used when nothing in the registry fits

// termRegexes matches a routing term on word boundaries rather than as a
// bare substring, so a short term like "r" or "go" doesn't spuriously hit
// inside unrelated words ("rails", "javascript") that happen to contain
// it.
var termRegexes = buildTermRegexes()

func buildTermRegexes() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(techOrder)+len(taskTypeOrder))
	for _, term := range techOrder {
		m[term] = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
	}
	for _, term := range taskTypeOrder {
		m[term] = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
	}
	return m
}

func hasTerm(text, term string) bool {
	return termRegexes[term].MatchString(text)
}

// Match scores t against the registry and returns the chosen agent. If
// t.AssignedAgent is already set, that is treated as a manual override
// per spec §4.5's final rule.
func Match(t model.Task, reg *agent.Registry, workload WorkloadCounter) Result {
	if t.AssignedAgent != "" {
		return Result{AgentName: t.AssignedAgent, Reason: "manual", Confidence: 1.0}
	}

	title := strings.ToLower(t.Title)
	desc := strings.ToLower(t.Description)
	tech := strings.ToLower(t.TechnicalDetails)

	scores := map[string]int{}
	titleHitFound := false
	for _, term := range techOrder {
		agentName := techMap[term]
		s := 0
		if hasTerm(title, term) {
			s += 3
			titleHitFound = true
		}
		if hasTerm(tech, term) {
			s += 2
		}
		if hasTerm(desc, term) {
			s += 1
		}
		if s > 0 {
			scores[agentName] += s
		}
	}

	usedTaskTypeMap := false
	if len(scores) == 0 {
		combined := title + " " + desc + " " + tech
		for _, term := range taskTypeOrder {
			if hasTerm(combined, term) {
				scores[taskTypeMap[term]] += 1
				usedTaskTypeMap = true
			}
		}
	}

	if len(scores) == 0 {
		name, created := ensureRegistered(genericEngineer, reg)
		return Result{AgentName: name, Reason: "no keyword match", Confidence: 0.25, CreatedNew: created}
	}

	type candidate struct {
		name  string
		score int
	}
	candidates := make([]candidate, 0, len(scores))
	for name, score := range scores {
		candidates = append(candidates, candidate{name, score})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	top := candidates[0].score
	threshold := float64(top) * 0.9
	var tied []candidate
	for _, c := range candidates {
		if float64(c.score) >= threshold {
			tied = append(tied, c)
		}
	}
	chosen := tied[0]
	if len(tied) > 1 && workload != nil {
		best := workload(tied[0].name)
		for _, c := range tied[1:] {
			if n := workload(c.name); n < best {
				best = n
				chosen = c
			}
		}
	}

	var confidence float64
	if titleHitFound {
		confidence = minF(1.0, float64(chosen.score)/3.0)
	} else if usedTaskTypeMap {
		confidence = minF(0.75, float64(chosen.score)/4.0)
	} else {
		confidence = minF(0.75, float64(chosen.score)/4.0)
	}

	name, created := ensureRegistered(chosen.name, reg)
	if name != chosen.name {
		confidence = 0.25
	}
	reason := "keyword match"
	if usedTaskTypeMap {
		reason = "task-type match"
	}
	return Result{AgentName: name, Reason: reason, Confidence: confidence, CreatedNew: created}
}

// ensureRegistered returns name if already in the registry; otherwise it
// attempts on-demand creation via a generic template, falling back to
// the generic engineer with confidence penalty handled by the caller.
func ensureRegistered(name string, reg *agent.Registry) (string, bool) {
	if reg == nil || reg.Exists(name) {
		return name, false
	}
	d := templateFor(name)
	if err := reg.Register(d); err != nil {
		return genericEngineer, false
	}
	return name, true
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
