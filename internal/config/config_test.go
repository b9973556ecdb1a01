package config

import (
	"os"
	"testing"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("project:\n  name: Payments Gateway\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Project.Abbrev != "PAGA" {
		t.Errorf("expected derived abbrev PAGA, got %q", cfg.Project.Abbrev)
	}
	if cfg.Scrum.VelocityTarget != 20 {
		t.Errorf("expected default velocity target 20, got %d", cfg.Scrum.VelocityTarget)
	}
	if !cfg.IsStrictMode() {
		t.Error("expected strict_mode to default true")
	}
	if !cfg.AllowsDynamicAgentCreation() {
		t.Error("expected allow_dynamic_creation to default true")
	}
	if cfg.PR.Tool != "gh" || cfg.PR.BaseBranch != "main" {
		t.Errorf("unexpected pr defaults: %+v", cfg.PR)
	}
}

func TestParse_ExplicitFalseStrictModeIsRespected(t *testing.T) {
	cfg, err := Parse([]byte("project:\n  name: Test\nscrum:\n  strict_mode: false\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.IsStrictMode() {
		t.Error("explicit strict_mode: false should not be overridden by the default")
	}
}

func TestParse_MissingProjectNameFails(t *testing.T) {
	_, err := Parse([]byte("scrum:\n  velocity_target: 5\n"))
	if err == nil {
		t.Fatal("expected validation error for missing project.name")
	}
}

func TestParse_EnvVarResolution(t *testing.T) {
	os.Setenv("XAVIER_TEST_TOKEN", "secret-value")
	defer os.Unsetenv("XAVIER_TEST_TOKEN")

	cfg, err := Parse([]byte("project:\n  name: Test\nnotify:\n  platform: slack\n  slack:\n    bot_token: \"${XAVIER_TEST_TOKEN}\"\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Notify.Slack.BotToken != "secret-value" {
		t.Errorf("expected resolved env var, got %q", cfg.Notify.Slack.BotToken)
	}
}

func TestParse_UnsupportedNotifyPlatformFails(t *testing.T) {
	_, err := Parse([]byte("project:\n  name: Test\nnotify:\n  platform: teams\n"))
	if err == nil {
		t.Fatal("expected validation error for unsupported notify.platform")
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0", "1.0", 0},
		{"1.1", "1.0", 1},
		{"1.0", "1.1", -1},
		{"2", "1.9", 1},
		{"1.0.1", "1.0", 1},
	}
	for _, tt := range tests {
		if got := CompareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
