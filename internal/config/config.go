// Package config provides YAML-based configuration loading for Xavier.
//
// Grounded on internal/config.Config in the teacher: the same Load/Parse
// split, the same applyDefaults()/validate() pair, and the same
// ${VAR}-style environment variable resolution via regexp, generalized
// from Railyard's owner/repo/track model to Xavier's project/scrum/
// agents/worktrees/pr key table (spec §3).
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var envVarRe = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Config is the top-level Xavier configuration, loaded from xavier.yaml.
type Config struct {
	SchemaVersion string       `yaml:"schema_version"`
	Project       ProjectConfig `yaml:"project"`
	Scrum         ScrumConfig   `yaml:"scrum"`
	Agents        AgentsConfig  `yaml:"agents"`
	Worktrees     WorktreesConfig `yaml:"worktrees"`
	PR            PRConfig      `yaml:"pr"`
	Notify        NotifyConfig  `yaml:"notify"`
}

// ProjectConfig identifies the project whose entities are persisted.
type ProjectConfig struct {
	Name    string `yaml:"name"`
	Abbrev  string `yaml:"abbrev"` // 4-char uppercase, derived from Name if absent
	DataDir string `yaml:"data_dir"`
}

// ScrumConfig governs sprint planning and execution defaults. StrictMode
// is a *bool (rather than bool) so an explicit "false" in YAML can be
// told apart from an absent key — both default-true fields need that
// distinction, which a plain bool's zero value can't express.
type ScrumConfig struct {
	VelocityTarget            int   `yaml:"velocity_target"`
	DefaultSprintDurationDays int   `yaml:"default_sprint_duration_days"`
	StrictMode                *bool `yaml:"strict_mode"`
	TestCoverageRequired      int   `yaml:"test_coverage_required"` // percent
}

// AgentsConfig governs registry behavior.
type AgentsConfig struct {
	AllowDynamicCreation *bool  `yaml:"allow_dynamic_creation"`
	DescriptorsPath      string `yaml:"descriptors_path"`
}

// WorktreesConfig governs C7's filesystem layout.
type WorktreesConfig struct {
	Root string `yaml:"root"`
}

// PRConfig governs how pull requests are opened on task completion.
type PRConfig struct {
	Tool       string `yaml:"tool"`        // e.g. "gh"
	BaseBranch string `yaml:"base_branch"` // e.g. "main"
}

// NotifyConfig governs the optional outbound event consumers.
type NotifyConfig struct {
	Platform string       `yaml:"platform"` // "slack", "discord", or "" (disabled)
	Slack    SlackConfig  `yaml:"slack"`
	Discord  DiscordConfig `yaml:"discord"`
	Digest   DigestConfig `yaml:"digest"`
}

// SlackConfig holds Slack-specific credentials.
type SlackConfig struct {
	BotToken string `yaml:"bot_token"`
	Channel  string `yaml:"channel"`
}

// DiscordConfig holds Discord-specific credentials.
type DiscordConfig struct {
	BotToken  string `yaml:"bot_token"`
	ChannelID string `yaml:"channel_id"`
}

// DigestConfig controls a periodic cron-scheduled summary post.
type DigestConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"` // default "0 9 * * *"
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values per spec §3's
// Configuration keys table.
func (c *Config) applyDefaults() {
	if c.Project.Abbrev == "" && c.Project.Name != "" {
		c.Project.Abbrev = deriveAbbrev(c.Project.Name)
	}
	if c.Project.DataDir == "" {
		c.Project.DataDir = "data"
	}
	if c.Scrum.VelocityTarget == 0 {
		c.Scrum.VelocityTarget = 20
	}
	if c.Scrum.DefaultSprintDurationDays == 0 {
		c.Scrum.DefaultSprintDurationDays = 14
	}
	if c.Scrum.TestCoverageRequired == 0 {
		c.Scrum.TestCoverageRequired = 100
	}
	if c.Scrum.StrictMode == nil {
		t := true
		c.Scrum.StrictMode = &t
	}
	if c.Agents.AllowDynamicCreation == nil {
		t := true
		c.Agents.AllowDynamicCreation = &t
	}
	if c.Agents.DescriptorsPath == "" {
		c.Agents.DescriptorsPath = "agents"
	}
	if c.Worktrees.Root == "" {
		c.Worktrees.Root = "trees"
	}
	if c.PR.Tool == "" {
		c.PR.Tool = "gh"
	}
	if c.PR.BaseBranch == "" {
		c.PR.BaseBranch = "main"
	}
	if c.Notify.Platform != "" {
		if c.Notify.Digest.Cron == "" {
			c.Notify.Digest.Cron = "0 9 * * *"
		}
		c.Notify.Slack.BotToken = resolveEnvVars(c.Notify.Slack.BotToken)
		c.Notify.Discord.BotToken = resolveEnvVars(c.Notify.Discord.BotToken)
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Project.Name == "" {
		errs = append(errs, "project.name is required")
	}
	if len(c.Project.Abbrev) != 4 {
		errs = append(errs, fmt.Sprintf("project.abbrev must be 4 characters, got %q", c.Project.Abbrev))
	}
	if c.Scrum.TestCoverageRequired < 0 || c.Scrum.TestCoverageRequired > 100 {
		errs = append(errs, "scrum.test_coverage_required must be between 0 and 100")
	}
	if c.Notify.Platform != "" {
		switch c.Notify.Platform {
		case "slack":
			if c.Notify.Slack.BotToken == "" {
				errs = append(errs, "notify.slack.bot_token is required when platform is slack")
			}
		case "discord":
			if c.Notify.Discord.BotToken == "" {
				errs = append(errs, "notify.discord.bot_token is required when platform is discord")
			}
		default:
			errs = append(errs, fmt.Sprintf("notify.platform %q is not supported (use slack or discord)", c.Notify.Platform))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// deriveAbbrev builds a 4-character uppercase abbreviation from a project
// name, e.g. "Payments Gateway" -> "PAGA".
func deriveAbbrev(name string) string {
	fields := strings.Fields(name)
	var b strings.Builder
	for _, f := range fields {
		if b.Len() >= 4 {
			break
		}
		take := 2
		if len(f) < take {
			take = len(f)
		}
		b.WriteString(f[:take])
	}
	out := strings.ToUpper(b.String())
	for len(out) < 4 {
		out += "X"
	}
	if len(out) > 4 {
		out = out[:4]
	}
	return out
}

// resolveEnvVars replaces ${VAR_NAME} tokens in s with the corresponding
// environment variable value. Unset variables resolve to empty string.
func resolveEnvVars(s string) string {
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarRe.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}

// IsStrictMode reports whether a failed task should halt the sprint,
// defaulting true if unset.
func (c *Config) IsStrictMode() bool {
	return c.Scrum.StrictMode == nil || *c.Scrum.StrictMode
}

// AllowsDynamicAgentCreation reports the agents.allow_dynamic_creation
// setting, defaulting true if unset. matcher.Match does not consult it:
// the matcher attempts on-demand descriptor creation whatever its value.
func (c *Config) AllowsDynamicAgentCreation() bool {
	return c.Agents.AllowDynamicCreation == nil || *c.Agents.AllowDynamicCreation
}

// CompareVersions implements a minimal semver-lite ordering, returning -1,
// 0 or 1 as a is older than, equal to or newer than b. Versions are dotted
// non-negative integers; missing components compare as zero. Nothing in
// this package compares schema_version against it.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}
