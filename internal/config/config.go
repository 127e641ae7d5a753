// Package config loads the schedule-mcp configuration from defaults, an
// optional YAML file, a .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvNotionToken         = "NOTION_TOKEN"
	EnvAppointmentsDBID    = "NOTION_APPOINTMENTS_DB_ID"
	EnvTasksDBID           = "NOTION_TASKS_DB_ID"
	EnvDefaultCalendarID   = "GOOGLE_DEFAULT_CALENDAR_ID"
	EnvTimezone            = "LOCAL_TIMEZONE"
	EnvGoogleCredentials   = "GOOGLE_CREDENTIALS_FILE"
	EnvGoogleToken         = "GOOGLE_TOKEN_FILE"
	EnvEarliestHour        = "SCHEDULE_EARLIEST_HOUR"
	EnvLatestHour          = "SCHEDULE_LATEST_HOUR"
	EnvReadOnly            = "SCHEDULE_READ_ONLY"
	defaultCalendarID      = "primary"
	defaultTimezone        = "America/Los_Angeles"
	defaultCredentialsFile = "~/.schedule_mcp/google_credentials.json"
	defaultTokenFile       = "~/.schedule_mcp/google_token.json"
	defaultEarliestHour    = 8
	defaultLatestHour      = 20
	redacted               = "[REDACTED]"
)

// Config is the effective server configuration.
type Config struct {
	NotionToken       string `yaml:"notion_token" json:"notion_token"`
	AppointmentsDBID  string `yaml:"appointments_db_id" json:"appointments_db_id"`
	TasksDBID         string `yaml:"tasks_db_id" json:"tasks_db_id"`
	DefaultCalendarID string `yaml:"default_calendar_id" json:"default_calendar_id"`

	// Timezone is an IANA zone name. Naive timestamps and "today" are
	// interpreted in it.
	Timezone string `yaml:"timezone" json:"timezone"`

	GoogleCredentialsFile string `yaml:"google_credentials_file" json:"google_credentials_file"`
	GoogleTokenFile       string `yaml:"google_token_file" json:"google_token_file"`

	// EarliestHour and LatestHour are the default working-hours window for
	// free-slot searches.
	EarliestHour int `yaml:"earliest_hour" json:"earliest_hour"`
	LatestHour   int `yaml:"latest_hour" json:"latest_hour"`

	// ReadOnly disables every tool that writes to a provider.
	ReadOnly bool `yaml:"read_only" json:"read_only"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultCalendarID:     defaultCalendarID,
		Timezone:              defaultTimezone,
		GoogleCredentialsFile: defaultCredentialsFile,
		GoogleTokenFile:       defaultTokenFile,
		EarliestHour:          defaultEarliestHour,
		LatestHour:            defaultLatestHour,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/schedule-mcp/config.yaml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "schedule-mcp", "config.yaml")
}

// Load builds the configuration: defaults, then the YAML file at path (a
// missing file is not an error), then .env, then the environment.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	// A missing .env file is the common case.
	_ = godotenv.Load()

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.Normalize()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields with any environment variables that are set.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	setString := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	setString(EnvNotionToken, &c.NotionToken)
	setString(EnvAppointmentsDBID, &c.AppointmentsDBID)
	setString(EnvTasksDBID, &c.TasksDBID)
	setString(EnvDefaultCalendarID, &c.DefaultCalendarID)
	setString(EnvTimezone, &c.Timezone)
	setString(EnvGoogleCredentials, &c.GoogleCredentialsFile)
	setString(EnvGoogleToken, &c.GoogleTokenFile)

	var errs []error
	setInt := func(key string, dst *int) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, v))
			return
		}
		*dst = n
	}
	setInt(EnvEarliestHour, &c.EarliestHour)
	setInt(EnvLatestHour, &c.LatestHour)

	if v, ok := lookup(EnvReadOnly); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid boolean %q", EnvReadOnly, v))
		} else {
			c.ReadOnly = b
		}
	}

	return errors.Join(errs...)
}

// Normalize fills empty fields with defaults and expands a leading ~ in
// file paths.
func (c *Config) Normalize() {
	if c.DefaultCalendarID == "" {
		c.DefaultCalendarID = defaultCalendarID
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.GoogleCredentialsFile == "" {
		c.GoogleCredentialsFile = defaultCredentialsFile
	}
	if c.GoogleTokenFile == "" {
		c.GoogleTokenFile = defaultTokenFile
	}
	c.GoogleCredentialsFile = ExpandHome(c.GoogleCredentialsFile)
	c.GoogleTokenFile = ExpandHome(c.GoogleTokenFile)
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	if c.NotionToken == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvNotionToken))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err))
	}
	if c.EarliestHour < 0 || c.EarliestHour > 23 {
		errs = append(errs, fmt.Errorf("earliest_hour must be between 0 and 23, got %d", c.EarliestHour))
	}
	if c.LatestHour < 1 || c.LatestHour > 24 {
		errs = append(errs, fmt.Errorf("latest_hour must be between 1 and 24, got %d", c.LatestHour))
	}
	return errors.Join(errs...)
}

// Location loads the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Redacted returns a copy safe to expose to clients.
func (c *Config) Redacted() Config {
	out := *c
	if out.NotionToken != "" {
		out.NotionToken = redacted
	}
	return out
}

// Save writes cfg to path atomically with mode 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".schedule-mcp-config-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
