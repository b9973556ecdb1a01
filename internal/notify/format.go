package notify

import "github.com/gumruyanzh/xavier/internal/events"

// Color constants for event severity, matching the teacher's Slack/Discord
// sidebar-color convention (internal/telegraph/format.go).
const (
	ColorSuccess = "#36a64f"
	ColorInfo    = "#2196f3"
	ColorWarning = "#ff9800"
	ColorError   = "#e53935"
)

// FormattedEvent is one chat-ready rendering of a core event or digest.
type FormattedEvent struct {
	Title    string
	Body     string
	Severity string
	Color    string
	Fields   []Field
}

// Field is a key-value pair displayed alongside a FormattedEvent.
type Field struct {
	Name  string
	Value string
	Short bool // hint: render side-by-side with another field
}

func severityColor(severity string) string {
	switch severity {
	case "success":
		return ColorSuccess
	case "warning":
		return ColorWarning
	case "error":
		return ColorError
	default:
		return ColorInfo
	}
}

// Format renders a core event as a FormattedEvent, or reports ok=false for
// event types this consumer does not post.
func Format(e events.Event) (FormattedEvent, bool) {
	switch e.Type {
	case events.TaskCompleted:
		return FormattedEvent{
			Title:    "Task " + e.TaskID + " completed",
			Severity: "success",
			Color:    severityColor("success"),
			Fields: []Field{
				{Name: "Sprint", Value: e.SprintID, Short: true},
				{Name: "Task", Value: e.TaskID, Short: true},
				{Name: "Agent", Value: e.AgentName, Short: true},
			},
		}, true
	case events.TaskFailed:
		return FormattedEvent{
			Title:    "Task " + e.TaskID + " failed",
			Body:     e.Message,
			Severity: "error",
			Color:    severityColor("error"),
			Fields: []Field{
				{Name: "Sprint", Value: e.SprintID, Short: true},
				{Name: "Task", Value: e.TaskID, Short: true},
				{Name: "Agent", Value: e.AgentName, Short: true},
			},
		}, true
	case events.SprintCompleted:
		return FormattedEvent{
			Title:    "Sprint " + e.SprintID + " completed",
			Severity: "success",
			Color:    severityColor("success"),
			Fields:   []Field{{Name: "Sprint", Value: e.SprintID, Short: true}},
		}, true
	case events.Error:
		return FormattedEvent{
			Title:    "Error",
			Body:     e.Message,
			Severity: "error",
			Color:    severityColor("error"),
		}, true
	default:
		return FormattedEvent{}, false
	}
}
