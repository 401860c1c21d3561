package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	TransportCLI  = "cli"
	TransportREST = "rest"

	DefaultTransport      = TransportCLI
	DefaultAPIURL         = "https://api.github.com"
	DefaultLogLevel       = "warn"
	DefaultMaxPicks       = 5
	DefaultWebAddr        = "127.0.0.1:7337"
	DefaultNotifyInterval = "30m"
	DefaultNotifyCommand  = "notify-send"
	DefaultCalendarName   = "taskplanner"
	DefaultLedgerFileName = ".taskplanner-notify.db"

	configFileName  = ".taskplanner.toml"
	configDirEnvKey = "TASKPLANNER_CONFIG_DIR"

	repoEnvKey      = "TASKPLANNER_REPO"
	transportEnvKey = "TASKPLANNER_TRANSPORT"
	apiURLEnvKey    = "TASKPLANNER_API_URL"
	tokenEnvKey     = "TASKPLANNER_TOKEN"
	githubTokenKey  = "GITHUB_TOKEN"
)

// AssistantConfig selects the planning model.
type AssistantConfig struct {
	Model    string `toml:"model"`
	MaxPicks int    `toml:"max_picks"`
}

// WebConfig defines the dashboard listener.
type WebConfig struct {
	Addr         string `toml:"addr"`
	PasswordHash string `toml:"password_hash"`
}

// NotifyConfig defines the due-task notification loop.
type NotifyConfig struct {
	Interval   string `toml:"interval"`
	LedgerPath string `toml:"ledger_path"`
	Command    string `toml:"command"`
}

// CalendarConfig names the Google Calendar used for sync.
type CalendarConfig struct {
	Name string `toml:"name"`
}

// Config defines runtime configuration for taskplanner.
type Config struct {
	Repo      string          `toml:"repo"`
	Transport string          `toml:"transport"`
	APIURL    string          `toml:"api_url"`
	Token     string          `toml:"token"`
	LogLevel  string          `toml:"log_level"`
	Assistant AssistantConfig `toml:"assistant"`
	Web       WebConfig       `toml:"web"`
	Notify    NotifyConfig    `toml:"notify"`
	Calendar  CalendarConfig  `toml:"calendar"`
}

// MissingError reports required configuration that is absent.
type MissingError struct {
	Key string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing configuration: %s", e.Key)
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		Transport: DefaultTransport,
		APIURL:    DefaultAPIURL,
		LogLevel:  DefaultLogLevel,
		Assistant: AssistantConfig{
			MaxPicks: DefaultMaxPicks,
		},
		Web: WebConfig{
			Addr: DefaultWebAddr,
		},
		Notify: NotifyConfig{
			Interval: DefaultNotifyInterval,
			Command:  DefaultNotifyCommand,
		},
		Calendar: CalendarConfig{
			Name: DefaultCalendarName,
		},
	}
}

func loadFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func overrideConfigPath() (string, bool) {
	dir := strings.TrimSpace(os.Getenv(configDirEnvKey))
	if dir == "" {
		return "", false
	}
	return filepath.Join(dir, configFileName), true
}

var allowedKeys = []string{
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
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "repo":
		return c.Repo, nil
	case "transport":
		return c.Transport, nil
	case "api_url":
		return c.APIURL, nil
	case "token":
		return c.Token, nil
	case "log_level":
		return c.LogLevel, nil
	case "assistant.model":
		return c.Assistant.Model, nil
	case "assistant.max_picks":
		return strconv.Itoa(c.Assistant.MaxPicks), nil
	case "web.addr":
		return c.Web.Addr, nil
	case "web.password_hash":
		return c.Web.PasswordHash, nil
	case "notify.interval":
		return c.Notify.Interval, nil
	case "notify.ledger_path":
		return c.Notify.LedgerPath, nil
	case "notify.command":
		return c.Notify.Command, nil
	case "calendar.name":
		return c.Calendar.Name, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// GlobalPath returns the path to the config file.
func GlobalPath() (string, error) {
	if path, ok := overrideConfigPath(); ok {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// Dir returns the directory holding the config file, which also hosts the
// notification ledger and cached OAuth tokens.
func Dir() (string, error) {
	path, err := GlobalPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

// Load reads the config file and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := GlobalPath()
	if err == nil {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if repo := os.Getenv(repoEnvKey); repo != "" {
		cfg.Repo = repo
	}
	if transport := os.Getenv(transportEnvKey); transport != "" {
		cfg.Transport = transport
	}
	if apiURL := os.Getenv(apiURLEnvKey); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if token := os.Getenv(githubTokenKey); token != "" {
		cfg.Token = token
	}
	if token := os.Getenv(tokenEnvKey); token != "" {
		cfg.Token = token
	}

	cfg.normalizeDefaults()

	if cfg.Notify.LedgerPath == "" {
		if dir, err := Dir(); err == nil {
			cfg.Notify.LedgerPath = filepath.Join(dir, DefaultLedgerFileName)
		}
	}

	return &cfg, nil
}

// Validate checks the store location and credentials are usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Repo) == "" {
		return &MissingError{Key: "repo"}
	}
	if !strings.Contains(c.Repo, "/") {
		return fmt.Errorf("repo must be owner/name, got %q", c.Repo)
	}
	switch c.Transport {
	case TransportCLI:
	case TransportREST:
		if strings.TrimSpace(c.Token) == "" {
			return &MissingError{Key: "token"}
		}
	default:
		return fmt.Errorf("transport must be %q or %q, got %q", TransportCLI, TransportREST, c.Transport)
	}
	return nil
}

// NotifyInterval parses the configured notification interval.
func (c *Config) NotifyInterval() (time.Duration, error) {
	raw := strings.TrimSpace(c.Notify.Interval)
	if raw == "" {
		raw = DefaultNotifyInterval
	}
	interval, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid notify.interval %q: %w", c.Notify.Interval, err)
	}
	if interval <= 0 {
		return 0, fmt.Errorf("notify.interval must be positive, got %q", c.Notify.Interval)
	}
	return interval, nil
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "assistant.max_picks":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "transport":
		value = strings.ToLower(value)
		if value != TransportCLI && value != TransportREST {
			return nil, fmt.Errorf("%s must be %q or %q", key, TransportCLI, TransportREST)
		}
		return value, nil
	case "notify.interval":
		if _, err := time.ParseDuration(value); err != nil {
			return nil, fmt.Errorf("%s must be a duration like 30m or 1h", key)
		}
		return value, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}

func (c *Config) normalizeDefaults() {
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	if c.Transport == "" {
		c.Transport = DefaultTransport
	}
	if strings.TrimSpace(c.APIURL) == "" {
		c.APIURL = DefaultAPIURL
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Assistant.MaxPicks <= 0 {
		c.Assistant.MaxPicks = DefaultMaxPicks
	}
	if strings.TrimSpace(c.Web.Addr) == "" {
		c.Web.Addr = DefaultWebAddr
	}
	if strings.TrimSpace(c.Notify.Interval) == "" {
		c.Notify.Interval = DefaultNotifyInterval
	}
	if strings.TrimSpace(c.Notify.Command) == "" {
		c.Notify.Command = DefaultNotifyCommand
	}
	if strings.TrimSpace(c.Calendar.Name) == "" {
		c.Calendar.Name = DefaultCalendarName
	}
}
