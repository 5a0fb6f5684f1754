package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaultSchedule(t *testing.T) {
	cfg := Default()
	if !reflect.DeepEqual(cfg.Schedule.SpecificDays, []int{60, 45, 30, 15}) {
		t.Fatalf("unexpected specific days: %v", cfg.Schedule.SpecificDays)
	}
	if cfg.Schedule.DailyWindow != 7 {
		t.Fatalf("unexpected daily window: %d", cfg.Schedule.DailyWindow)
	}
	if cfg.FailurePolicy != FailureQuiet {
		t.Fatalf("expected quiet policy by default, got %s", cfg.FailurePolicy)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(&cfg, envMap(map[string]string{
		"DOMAINS_LIST":             "example.com\nexample.org",
		"TELEGRAM_BOT_TOKEN":       " token ",
		"TELEGRAM_CHAT_ID":         "-100123",
		"DISCORD_WEBHOOK_URL":      "https://discord.test/hook",
		"SLACK_WEBHOOK_URL":        "",
		"ALERT_EMAIL_TO":           "a@example.com, b@example.com",
		"NOTIFY_SPECIFIC_DAYS":     "90, 30",
		"NOTIFY_DAILY_BEFORE_DAYS": "3",
		"FAILURE_POLICY":           "STRICT",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv returned error: %v", err)
	}

	if cfg.Domains.List != "example.com\nexample.org" {
		t.Errorf("unexpected domain list %q", cfg.Domains.List)
	}
	if cfg.Channels.Telegram.BotToken != "token" || cfg.Channels.Telegram.ChatID != "-100123" {
		t.Errorf("unexpected telegram config %+v", cfg.Channels.Telegram)
	}
	if !cfg.Channels.Discord.Configured() {
		t.Errorf("expected discord to be configured")
	}
	if cfg.Channels.Slack.Configured() {
		t.Errorf("empty slack url must not configure the channel")
	}
	if !reflect.DeepEqual(cfg.Channels.Email.To, []string{"a@example.com", "b@example.com"}) {
		t.Errorf("unexpected email recipients %v", cfg.Channels.Email.To)
	}
	if !reflect.DeepEqual(cfg.Schedule.SpecificDays, []int{90, 30}) {
		t.Errorf("unexpected specific days %v", cfg.Schedule.SpecificDays)
	}
	if cfg.Schedule.DailyWindow != 3 {
		t.Errorf("unexpected daily window %d", cfg.Schedule.DailyWindow)
	}
	if cfg.FailurePolicy != FailureStrict {
		t.Errorf("unexpected policy %s", cfg.FailurePolicy)
	}
}

func TestApplyEnvRejectsBadDays(t *testing.T) {
	cfg := Default()
	if err := ApplyEnv(&cfg, envMap(map[string]string{"NOTIFY_SPECIFIC_DAYS": "30,soon"})); err == nil {
		t.Fatalf("expected error for non-numeric day")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Schedule.DailyWindow = -1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected negative window to be rejected")
	}

	cfg = Default()
	cfg.FailurePolicy = "loud"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected unknown policy to be rejected")
	}
}

func TestLoadReadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `
domains:
  files: [domains.txt]
schedule:
  specificDays: [30]
  dailyWindow: 0
lookup:
  queryTimeout: 5s
channels:
  slack:
    webhookURL: https://hooks.slack.test/x
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	for _, key := range []string{"DOMAINS_LIST", "DOMAINS_FILE", "NOTIFY_SPECIFIC_DAYS", "NOTIFY_DAILY_BEFORE_DAYS", "SLACK_WEBHOOK_URL", "FAILURE_POLICY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(cfg.Schedule.SpecificDays, []int{30}) || cfg.Schedule.DailyWindow != 0 {
		t.Errorf("unexpected schedule %+v", cfg.Schedule)
	}
	if cfg.Lookup.QueryTimeout != 5*time.Second {
		t.Errorf("unexpected query timeout %s", cfg.Lookup.QueryTimeout)
	}
	if cfg.Lookup.RateLimit != time.Second {
		t.Errorf("expected default rate limit to survive, got %s", cfg.Lookup.RateLimit)
	}
	if cfg.Channels.Slack.URL != "https://hooks.slack.test/x" {
		t.Errorf("unexpected slack url %q", cfg.Channels.Slack.URL)
	}
	if len(cfg.Domains.Files) != 1 || cfg.Domains.Files[0] != "domains.txt" {
		t.Errorf("unexpected domain files %v", cfg.Domains.Files)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}
