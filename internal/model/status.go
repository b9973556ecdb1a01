package model

// Status string constants for each entity kind. Kept as plain strings
// (rather than a numeric enum) so persisted JSON stays human-readable and
// legacy/unknown values can degrade gracefully — see NormalizeXStatus below.
const (
	StoryBacklog    = "Backlog"
	StoryReady      = "Ready"
	StoryInProgress = "In Progress"
	StoryDone       = "Done"
	StoryBlocked    = "Blocked"

	TaskPending    = "Pending"
	TaskInProgress = "In Progress"
	TaskTesting    = "Testing"
	TaskCompleted  = "Completed"
	TaskBlocked    = "Blocked"

	BugOpen       = "Open"
	BugInProgress = "In Progress"
	BugResolved   = "Resolved"
	BugClosed     = "Closed"

	SprintPlanned   = "Planned"
	SprintActive    = "Active"
	SprintCompleted = "Completed"
	SprintCancelled = "Cancelled"

	PriorityCritical = "Critical"
	PriorityHigh     = "High"
	PriorityMedium   = "Medium"
	PriorityLow      = "Low"
)

var validStoryStatus = map[string]bool{
	StoryBacklog: true, StoryReady: true, StoryInProgress: true, StoryDone: true, StoryBlocked: true,
}

var validTaskStatus = map[string]bool{
	TaskPending: true, TaskInProgress: true, TaskTesting: true, TaskCompleted: true, TaskBlocked: true,
}

var validBugStatus = map[string]bool{
	BugOpen: true, BugInProgress: true, BugResolved: true, BugClosed: true,
}

var validSprintStatus = map[string]bool{
	SprintPlanned: true, SprintActive: true, SprintCompleted: true, SprintCancelled: true,
}

// NormalizeStoryStatus is the status-accessor rule of spec §4.3: persisted
// data may predate enum introduction or carry a typo, so reads always go
// through this helper and degrade unknown values to the most permissive
// state (Backlog) rather than failing the read.
func NormalizeStoryStatus(s string) string {
	if validStoryStatus[s] {
		return s
	}
	return StoryBacklog
}

func NormalizeTaskStatus(s string) string {
	if validTaskStatus[s] {
		return s
	}
	return TaskPending
}

func NormalizeBugStatus(s string) string {
	if validBugStatus[s] {
		return s
	}
	return BugOpen
}

func NormalizeSprintStatus(s string) string {
	if validSprintStatus[s] {
		return s
	}
	return SprintPlanned
}

var validPriority = map[string]bool{
	PriorityCritical: true, PriorityHigh: true, PriorityMedium: true, PriorityLow: true,
}

func NormalizePriority(s string) string {
	if validPriority[s] {
		return s
	}
	return PriorityMedium
}

// StoryPoints is the Fibonacci-valued effort measure. Zero means "unset".
type StoryPoints int

// ValidStoryPoints enumerates the only legal non-zero point values.
var ValidStoryPoints = []int{1, 2, 3, 5, 8, 13, 21}

func IsValidStoryPoints(p int) bool {
	if p == 0 {
		return true // unset
	}
	for _, v := range ValidStoryPoints {
		if v == p {
			return true
		}
	}
	return false
}

// NearestFibonacci maps a raw complexity score to a legal Fibonacci story
// point through fixed score bands (<5→1, <10→2, <15→3, <25→5, <40→8,
// <60→13, otherwise 21); auto-estimation (EstimateStory/ReestimateStory)
// uses it.
func NearestFibonacci(score float64) int {
	bands := []struct {
		ceiling float64
		points  int
	}{
		{5, 1}, {10, 2}, {15, 3}, {25, 5}, {40, 8}, {60, 13},
	}
	for _, b := range bands {
		if score < b.ceiling {
			return b.points
		}
	}
	return 21
}
