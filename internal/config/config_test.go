package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Transport != TransportCLI {
		t.Fatalf("expected default transport %q, got %q", TransportCLI, cfg.Transport)
	}
	if cfg.APIURL != "https://api.github.com" {
		t.Fatalf("expected default API URL, got %q", cfg.APIURL)
	}
	if cfg.Repo != "" {
		t.Fatalf("expected empty repo, got %q", cfg.Repo)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", DefaultLogLevel, cfg.LogLevel)
	}
	if cfg.Assistant.MaxPicks != DefaultMaxPicks {
		t.Fatalf("expected default max picks %d, got %d", DefaultMaxPicks, cfg.Assistant.MaxPicks)
	}
	if cfg.Web.Addr != DefaultWebAddr {
		t.Fatalf("expected default web addr %q, got %q", DefaultWebAddr, cfg.Web.Addr)
	}
	if cfg.Notify.Interval != DefaultNotifyInterval {
		t.Fatalf("expected default notify interval %q, got %q", DefaultNotifyInterval, cfg.Notify.Interval)
	}
	if cfg.Notify.Command != DefaultNotifyCommand {
		t.Fatalf("expected default notify command %q, got %q", DefaultNotifyCommand, cfg.Notify.Command)
	}
	if cfg.Calendar.Name != DefaultCalendarName {
		t.Fatalf("expected default calendar name %q, got %q", DefaultCalendarName, cfg.Calendar.Name)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".taskplanner.toml")
	if err := os.WriteFile(path, []byte(`repo = "acme/backlog"
transport = "rest"
token = "tkn"
log_level = "debug"

[assistant]
model = "test-model"
max_picks = 3
`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Repo != "acme/backlog" {
		t.Fatalf("expected repo 'acme/backlog', got %q", cfg.Repo)
	}
	if cfg.Transport != "rest" {
		t.Fatalf("expected transport 'rest', got %q", cfg.Transport)
	}
	if cfg.Token != "tkn" {
		t.Fatalf("expected token 'tkn', got %q", cfg.Token)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected log_level 'debug', got %q", cfg.LogLevel)
	}
	if cfg.Assistant.Model != "test-model" {
		t.Fatalf("expected assistant model, got %q", cfg.Assistant.Model)
	}
	if cfg.Assistant.MaxPicks != 3 {
		t.Fatalf("expected max picks 3, got %d", cfg.Assistant.MaxPicks)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFile("/nonexistent/path/.taskplanner.toml", &cfg); err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Transport != TransportCLI {
		t.Fatalf("defaults should be preserved")
	}
}

func TestIsAllowedKey(t *testing.T) {
	for _, key := range []string{
		"repo",
		"transport",
		"api_url",
		"token",
		"log_level",
		"assistant.model",
		"assistant.max_picks",
		"web.addr",
		"web.password_hash",
		"notify.interval",
		"notify.ledger_path",
		"notify.command",
		"calendar.name",
	} {
		if !IsAllowedKey(key) {
			t.Fatalf("expected %q to be allowed", key)
		}
	}
	if IsAllowedKey("invalid") {
		t.Fatal("expected 'invalid' to not be allowed")
	}
}

func TestGetKey(t *testing.T) {
	cfg := Config{
		Repo:      "acme/backlog",
		Transport: "rest",
		APIURL:    "https://ghe.local/api/v3",
		Token:     "tkn",
		LogLevel:  "debug",
		Assistant: AssistantConfig{Model: "test-model", MaxPicks: 3},
		Web:       WebConfig{Addr: ":8080", PasswordHash: "hash"},
		Notify:    NotifyConfig{Interval: "1h", LedgerPath: "/tmp/ledger.db", Command: "say"},
		Calendar:  CalendarConfig{Name: "work"},
	}

	want := map[string]string{
		"repo":                "acme/backlog",
		"transport":           "rest",
		"api_url":             "https://ghe.local/api/v3",
		"token":               "tkn",
		"log_level":           "debug",
		"assistant.model":     "test-model",
		"assistant.max_picks": "3",
		"web.addr":            ":8080",
		"web.password_hash":   "hash",
		"notify.interval":     "1h",
		"notify.ledger_path":  "/tmp/ledger.db",
		"notify.command":      "say",
		"calendar.name":       "work",
	}
	for key, expected := range want {
		val, err := cfg.Get(key)
		if err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
		if val != expected {
			t.Fatalf("expected %s=%q, got %q", key, expected, val)
		}
	}
	if _, err := cfg.Get("invalid"); err == nil {
		t.Fatal("expected error for invalid key")
	}
}

func TestSetKeyCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.toml")
	if err := SetKey(path, "repo", "acme/backlog"); err != nil {
		t.Fatalf("set: %v", err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Repo != "acme/backlog" {
		t.Fatalf("expected 'acme/backlog', got %q", cfg.Repo)
	}
}

func TestSetKeyUpdatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "existing.toml")
	if err := os.WriteFile(path, []byte("repo = \"old/repo\"\napi_url = \"http://keep\"\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := SetKey(path, "repo", "new/repo"); err != nil {
		t.Fatalf("set: %v", err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Repo != "new/repo" {
		t.Fatalf("expected 'new/repo', got %q", cfg.Repo)
	}
	if cfg.APIURL != "http://keep" {
		t.Fatalf("expected preserved api_url 'http://keep', got %q", cfg.APIURL)
	}
}

func TestSetNestedKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested.toml")
	if err := SetKey(path, "assistant.max_picks", "7"); err != nil {
		t.Fatalf("set nested key: %v", err)
	}

	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Assistant.MaxPicks != 7 {
		t.Fatalf("expected max_picks 7, got %d", cfg.Assistant.MaxPicks)
	}
}

func TestSetKeyInvalidKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.toml")
	if err := SetKey(path, "invalid_key", "value"); err == nil {
		t.Fatal("expected error for invalid key")
	}
}

func TestSetKeyValidatesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.toml")
	if err := SetKey(path, "assistant.max_picks", "zero"); err == nil {
		t.Fatal("expected error for non-numeric max_picks")
	}
	if err := SetKey(path, "assistant.max_picks", "-1"); err == nil {
		t.Fatal("expected error for negative max_picks")
	}
	if err := SetKey(path, "transport", "carrier-pigeon"); err == nil {
		t.Fatal("expected error for unknown transport")
	}
	if err := SetKey(path, "notify.interval", "soon"); err == nil {
		t.Fatal("expected error for unparseable interval")
	}
	if err := SetKey(path, "transport", "REST"); err != nil {
		t.Fatalf("uppercase transport should normalize: %v", err)
	}
	cfg := Default()
	if err := loadFile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Transport != "rest" {
		t.Fatalf("expected lowercased transport, got %q", cfg.Transport)
	}
}

func TestConfigDirOverridePath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKPLANNER_CONFIG_DIR", dir)

	path, err := GlobalPath()
	if err != nil {
		t.Fatalf("global path: %v", err)
	}
	if path != filepath.Join(dir, ".taskplanner.toml") {
		t.Fatalf("unexpected global path: %s", path)
	}
}

func TestLoadConfigDirOverride(t *testing.T) {
	configDir := t.TempDir()
	cfgPath := filepath.Join(configDir, ".taskplanner.toml")
	if err := os.WriteFile(cfgPath, []byte("repo = \"acme/backlog\"\ntoken = \"tkn\"\n"), 0644); err != nil {
		t.Fatalf("write override config: %v", err)
	}

	t.Setenv("TASKPLANNER_CONFIG_DIR", configDir)
	t.Setenv("TASKPLANNER_REPO", "")
	t.Setenv("TASKPLANNER_TRANSPORT", "")
	t.Setenv("TASKPLANNER_API_URL", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("TASKPLANNER_TOKEN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Repo != "acme/backlog" {
		t.Fatalf("expected config-dir repo, got %q", cfg.Repo)
	}
	if cfg.Token != "tkn" {
		t.Fatalf("expected config-dir token, got %q", cfg.Token)
	}
	if cfg.Notify.LedgerPath != filepath.Join(configDir, DefaultLedgerFileName) {
		t.Fatalf("expected ledger path beside config, got %q", cfg.Notify.LedgerPath)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TASKPLANNER_CONFIG_DIR", t.TempDir())
	t.Setenv("TASKPLANNER_REPO", "env/repo")
	t.Setenv("TASKPLANNER_TRANSPORT", "rest")
	t.Setenv("TASKPLANNER_API_URL", "https://ghe.local/api/v3")
	t.Setenv("GITHUB_TOKEN", "gh-token")
	t.Setenv("TASKPLANNER_TOKEN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Repo != "env/repo" {
		t.Fatalf("expected env repo override, got %q", cfg.Repo)
	}
	if cfg.Transport != "rest" {
		t.Fatalf("expected env transport override, got %q", cfg.Transport)
	}
	if cfg.APIURL != "https://ghe.local/api/v3" {
		t.Fatalf("expected env api_url override, got %q", cfg.APIURL)
	}
	if cfg.Token != "gh-token" {
		t.Fatalf("expected GITHUB_TOKEN override, got %q", cfg.Token)
	}
}

func TestTaskplannerTokenBeatsGithubToken(t *testing.T) {
	t.Setenv("TASKPLANNER_CONFIG_DIR", t.TempDir())
	t.Setenv("TASKPLANNER_REPO", "")
	t.Setenv("TASKPLANNER_TRANSPORT", "")
	t.Setenv("TASKPLANNER_API_URL", "")
	t.Setenv("GITHUB_TOKEN", "generic")
	t.Setenv("TASKPLANNER_TOKEN", "specific")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "specific" {
		t.Fatalf("expected TASKPLANNER_TOKEN to win, got %q", cfg.Token)
	}
}

func TestLoadFallsBackToDefaultsWhenConfiguredEmpty(t *testing.T) {
	configDir := t.TempDir()
	cfgPath := filepath.Join(configDir, ".taskplanner.toml")
	if err := os.WriteFile(cfgPath, []byte("log_level = \"\"\ntransport = \"\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TASKPLANNER_CONFIG_DIR", configDir)
	t.Setenv("TASKPLANNER_REPO", "")
	t.Setenv("TASKPLANNER_TRANSPORT", "")
	t.Setenv("TASKPLANNER_API_URL", "")
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("TASKPLANNER_TOKEN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", DefaultLogLevel, cfg.LogLevel)
	}
	if cfg.Transport != DefaultTransport {
		t.Fatalf("expected default transport %q, got %q", DefaultTransport, cfg.Transport)
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{Transport: TransportCLI}
	var missing *MissingError
	err := cfg.Validate()
	if !errors.As(err, &missing) || missing.Key != "repo" {
		t.Fatalf("expected MissingError for repo, got %v", err)
	}

	cfg.Repo = "acme-backlog"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for repo without owner")
	}

	cfg.Repo = "acme/backlog"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("cli transport should not need a token: %v", err)
	}

	cfg.Transport = TransportREST
	err = cfg.Validate()
	if !errors.As(err, &missing) || missing.Key != "token" {
		t.Fatalf("expected MissingError for token, got %v", err)
	}

	cfg.Token = "tkn"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("rest transport with token should validate: %v", err)
	}

	cfg.Transport = "smoke-signal"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown transport")
	}
}

func TestNotifyInterval(t *testing.T) {
	cfg := Config{}
	interval, err := cfg.NotifyInterval()
	if err != nil {
		t.Fatalf("default interval: %v", err)
	}
	if interval != 30*time.Minute {
		t.Fatalf("expected default 30m, got %v", interval)
	}

	cfg.Notify.Interval = "90s"
	interval, err = cfg.NotifyInterval()
	if err != nil {
		t.Fatalf("parse interval: %v", err)
	}
	if interval != 90*time.Second {
		t.Fatalf("expected 90s, got %v", interval)
	}

	cfg.Notify.Interval = "never"
	if _, err := cfg.NotifyInterval(); err == nil {
		t.Fatal("expected error for unparseable interval")
	}

	cfg.Notify.Interval = "-5m"
	if _, err := cfg.NotifyInterval(); err == nil {
		t.Fatal("expected error for negative interval")
	}
}
