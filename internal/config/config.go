// Package config handles the XDG configuration directory, settings file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"taskboard/internal/metrics"
)

const (
	// AppName is the application directory name.
	AppName = "taskboard"

	// SettingsFile is the optional YAML settings filename.
	SettingsFile = "config.yaml"

	// EnvFile is the optional dotenv filename.
	EnvFile = ".env"

	// SessionFile is the stored session filename.
	SessionFile = "session.json"

	// CacheFile is the task cache database filename.
	CacheFile = "cache.db"

	// LogFile is the default log filename.
	LogFile = "taskboard.log"

	// DefaultAPIURL matches the development server of the web client.
	DefaultAPIURL = "http://localhost:5000/api"

	// DefaultTimeout bounds every API call.
	DefaultTimeout = 10 * time.Second
)

// Environment variables that override settings.
const (
	EnvAPIURL   = "TASKBOARD_API_URL"
	EnvLogLevel = "TASKBOARD_LOG_LEVEL"
	EnvTimeout  = "TASKBOARD_TIMEOUT"
)

// Settings is the on-disk shape of config.yaml.
type Settings struct {
	APIURL      string `yaml:"api_url"`
	Timeout     string `yaml:"timeout"`
	LogLevel    string `yaml:"log_level"`
	LogFile     string `yaml:"log_file"`
	Cache       *bool  `yaml:"cache"`
	MetricsFile string `yaml:"metrics_file"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIURL is the base URL of the task service.
	APIURL string

	// Timeout bounds each API call.
	Timeout time.Duration

	// LogLevel is one of debug/info/warn/error.
	LogLevel string

	// LogFile is the rotating log destination. Empty disables file logging.
	LogFile string

	// CacheEnabled turns on the persistent task cache.
	CacheEnabled bool

	// MetricsFile receives HTTP client metrics after each run when set.
	MetricsFile string

	// Debug enables debug logging to stderr.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Log is the run's logger. Never nil after New.
	Log *slog.Logger

	// Metrics records API and command metrics for the run. May be nil.
	Metrics *metrics.Recorder
}

// New creates a Config for the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskboard or
// $HOME/.config/taskboard. Settings are layered: defaults, config.yaml,
// .env in the config directory, then the process environment.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{
		Dir:          dir,
		APIURL:       DefaultAPIURL,
		Timeout:      DefaultTimeout,
		LogLevel:     "info",
		LogFile:      filepath.Join(dir, LogFile),
		CacheEnabled: true,
		Log:          slog.New(slog.DiscardHandler),
	}

	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}

	env, err := readEnvFile(filepath.Join(dir, EnvFile))
	if err != nil {
		return nil, err
	}
	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return env[key]
	}

	if v := lookup(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := lookup(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := lookup(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return cfg, nil
}

func (c *Config) loadSettings() error {
	data, err := os.ReadFile(c.SettingsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}

	if s.APIURL != "" {
		c.APIURL = s.APIURL
	}
	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout in %s: %w", SettingsFile, err)
		}
		c.Timeout = d
	}
	if s.LogLevel != "" {
		c.LogLevel = s.LogLevel
	}
	if s.LogFile != "" {
		c.LogFile = s.LogFile
	}
	if s.Cache != nil {
		c.CacheEnabled = *s.Cache
	}
	c.MetricsFile = s.MetricsFile
	return nil
}

// readEnvFile parses a dotenv file without touching the process environment.
func readEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvFile, err)
	}
	return env, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// CachePath returns the path to the task cache database.
func (c *Config) CachePath() string {
	return filepath.Join(c.Dir, CacheFile)
}

// HasSession checks if the session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}

// Logger returns the configured logger, or a discarding one.
func (c *Config) Logger() *slog.Logger {
	if c == nil || c.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Log
}
