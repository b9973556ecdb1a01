package notify

import "fmt"

// BuildVelocityDigest summarizes the average velocity over the last n
// sprints. Returns ok=false when there is no completed sprint to report,
// matching the teacher's suppress-when-no-activity digest idiom
// (internal/telegraph/digest.go's BuildDailyDigest/BuildWeeklyDigest).
func BuildVelocityDigest(src VelocitySource, n int) (FormattedEvent, bool) {
	v := src.Velocity(n)
	if v == 0 {
		return FormattedEvent{}, false
	}
	return FormattedEvent{
		Title:    "Velocity Digest",
		Body:     fmt.Sprintf("**Average velocity (last %d sprints)**: %.1f points", n, v),
		Severity: "info",
		Color:    severityColor("info"),
		Fields:   []Field{{Name: "Velocity", Value: fmt.Sprintf("%.1f", v), Short: true}},
	}, true
}
