package matcher

import "github.com/gumruyanzh/xavier/internal/model"

// templateFor builds a minimal descriptor for a technology name the
// registry doesn't yet know about, keyed by the matched technology, per
// spec §4.5 step 5's on-demand creation.
func templateFor(name string) model.AgentDescriptor {
	if t, ok := knownTemplates[name]; ok {
		return t
	}
	return model.AgentDescriptor{
		Name:          name,
		DisplayName:   titleCase(name) + " Engineer",
		Language:      name,
		SkillKeywords: []string{name},
		AllowedTools:  []string{"read", "write", "exec"},
	}
}

var knownTemplates = map[string]model.AgentDescriptor{
	"database": {
		Name: "database", DisplayName: "Database Engineer", Emoji: "🗄️",
		SkillKeywords: []string{"postgres", "mongo", "sql", "schema", "migration"},
		AllowedTools:  []string{"read", "write", "exec"},
	},
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
