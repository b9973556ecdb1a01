// Package model defines Xavier's canonical entity representation.
//
// Every entity is a single typed Go struct with explicit JSON tags — the
// dataclass/dictionary dualism flagged in spec §9 is fixed structurally
// here: there is exactly one shape per entity, (de)serialized only at the
// persistence boundary (internal/store), with no code path consuming a
// plain map instead of these structs. Grounded on internal/models/{bead,
// car,track,engine}.go in the teacher, translated from gorm tags to json
// tags since C1 persists JSON files, not SQL rows.
package model

import "time"

// Story is a user story: identity US-######.
type Story struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Role               string    `json:"role"`
	Want               string    `json:"want"`
	Benefit            string    `json:"benefit"`
	AcceptanceCriteria []string  `json:"acceptance_criteria"`
	Priority           string    `json:"priority"`
	Status             string    `json:"status"`
	StoryPoints        int       `json:"story_points"`
	EpicID             string    `json:"epic_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Task is a unit of implementable work: identity TASK-######.
type Task struct {
	ID               string     `json:"id"`
	StoryID          string     `json:"story_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	TechnicalDetails string     `json:"technical_details"`
	EstimatedHours   float64    `json:"estimated_hours"`
	Status           string     `json:"status"`
	AssignedAgent    string     `json:"assigned_agent,omitempty"`
	TestCriteria     []string   `json:"test_criteria"`
	Dependencies     []string   `json:"dependencies"`
	Priority         string     `json:"priority"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// Bug is a defect report: identity BUG-######. Schedulable like a story.
type Bug struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	StepsToReproduce []string  `json:"steps_to_reproduce"`
	Expected         string    `json:"expected"`
	Actual           string    `json:"actual"`
	Severity         string    `json:"severity"`
	Priority         string    `json:"priority"`
	Status           string    `json:"status"`
	StoryPoints      int       `json:"story_points"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CommittedItem references a Story or Bug captured by a sprint.
type CommittedItem struct {
	Kind string `json:"kind"` // "story" or "bug"
	ID   string `json:"id"`
}

// BurndownPoint is one sample of remaining points within an active sprint.
type BurndownPoint struct {
	At        time.Time `json:"at"`
	Remaining int       `json:"remaining"`
}

// Sprint is a time-boxed ordered execution of a frozen scope: SPRINT-######.
type Sprint struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Goal               string          `json:"goal"`
	DurationDays       int             `json:"duration_days"`
	Status             string          `json:"status"`
	StartDate          *time.Time      `json:"start_date,omitempty"`
	EndDate            *time.Time      `json:"end_date,omitempty"`
	CommittedItems     []CommittedItem `json:"committed_items"`
	VelocityTarget     int             `json:"velocity_target"`
	Burndown           []BurndownPoint `json:"burndown"`
	RetrospectiveNotes string          `json:"retrospective_notes,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Epic aggregates a set of stories: identity EPIC-######.
type Epic struct {
	ID             string    `json:"id"`
	Theme          string    `json:"theme"`
	BusinessValue  string    `json:"business_value"`
	StoryIDs       []string  `json:"story_ids"`
	CreatedAt      time.Time `json:"created_at"`
}

// Milestone is one entry of a Roadmap.
type Milestone struct {
	Name       string    `json:"name"`
	TargetDate time.Time `json:"target_date"`
	StoryIDs   []string  `json:"story_ids"`
	Status     string    `json:"status"`
}

// Roadmap is an ordered list of milestones: identity ROADMAP-######.
type Roadmap struct {
	ID         string      `json:"id"`
	Milestones []Milestone `json:"milestones"`
	CreatedAt  time.Time   `json:"created_at"`
}

// AgentDescriptor is inert configuration describing one agent. Descriptors
// carry no executable logic (spec §4.4/§9) — behavior is uniform across
// agents and dispatched by the executor according to descriptor fields.
type AgentDescriptor struct {
	Name          string   `json:"name" yaml:"name"`
	DisplayName   string   `json:"display_name" yaml:"display_name"`
	Color         string   `json:"color" yaml:"color"`
	Emoji         string   `json:"emoji" yaml:"emoji"`
	ShortLabel    string   `json:"short_label" yaml:"short_label"`
	Language      string   `json:"language" yaml:"language"`
	Frameworks    []string `json:"frameworks" yaml:"frameworks"`
	FilePatterns  []string `json:"file_patterns" yaml:"file_patterns"`
	SkillKeywords []string `json:"skill_keywords" yaml:"skill_keywords"`
	AllowedTools  []string `json:"allowed_tools" yaml:"allowed_tools"`
	TestCommand   string   `json:"test_command" yaml:"test_command"`
	CoverageCommand string `json:"coverage_command" yaml:"coverage_command"`
	LintCommand   string   `json:"lint_command,omitempty" yaml:"lint_command,omitempty"`
}

// WorktreeRecord is the persisted metadata for one task's git worktree.
type WorktreeRecord struct {
	TaskID    string    `json:"task_id"`
	AgentName string    `json:"agent_name"`
	Branch    string    `json:"branch"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"` // active, pushed, pr_open, abandoned, removed
	PRUrl     string    `json:"pr_url,omitempty"`
}

const (
	WorktreeActive    = "active"
	WorktreePushed    = "pushed"
	WorktreePROpen    = "pr_open"
	WorktreeAbandoned = "abandoned"
	WorktreeRemoved   = "removed"
)

// BackupRecord manifests a timestamped snapshot taken before a destructive
// upgrade, per the backups/ directory named in spec §6.
type BackupRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"`
	Files     []string  `json:"files"`
}
