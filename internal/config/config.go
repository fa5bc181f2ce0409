package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/xolan/pomidor/internal/osutil"
	"github.com/xolan/pomidor/internal/session"
)

const (
	// ConfigFile is the name of the TOML configuration file
	ConfigFile = "config.toml"
	// EnvPrefix prefixes every environment override, e.g. POMIDOR_DEFAULT_MINUTES.
	EnvPrefix = "POMIDOR_"
)

// History backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config represents the application configuration
type Config struct {
	// DefaultMinutes is offered by the TUI start prompt.
	DefaultMinutes int `toml:"default_minutes"`
	// DefaultLabel replaces an empty timer label.
	DefaultLabel string `toml:"default_label"`
	// DisplayEnabled is the initial status display flag.
	DisplayEnabled bool `toml:"display_enabled"`
	// HistoryBackend selects the session store: "json" or "sqlite".
	HistoryBackend string `toml:"history_backend"`
	// NotificationSeconds is how long the completion notification is shown.
	NotificationSeconds int `toml:"notification_seconds"`
	// ListenAddr is the control server address (host:port).
	ListenAddr string `toml:"listen_addr"`
	// Theme is the TUI color theme name.
	Theme string `toml:"theme"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// DefaultConfig returns a Config with the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DefaultMinutes:      25,
		DefaultLabel:        session.DefaultLabel,
		DisplayEnabled:      true,
		HistoryBackend:      BackendJSON,
		NotificationSeconds: 10,
		ListenAddr:          "127.0.0.1:7425",
		Theme:               "dracula",
		LogLevel:            "info",
	}
}

// NotificationDuration returns NotificationSeconds as a duration.
func (c Config) NotificationDuration() time.Duration {
	return time.Duration(c.NotificationSeconds) * time.Second
}

// SlogLevel maps LogLevel to a slog.Level. Unknown values map to info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads and validates the config file at path. Keys missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads the config at path, returning the defaults when the
// file does not exist. Any other read or parse failure is returned.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// ApplyEnv overrides fields from POMIDOR_* environment variables. Values
// that fail to parse are ignored.
func (c *Config) ApplyEnv() {
	c.DefaultMinutes = envInt("DEFAULT_MINUTES", c.DefaultMinutes)
	c.DefaultLabel = envStr("DEFAULT_LABEL", c.DefaultLabel)
	c.DisplayEnabled = envBool("DISPLAY_ENABLED", c.DisplayEnabled)
	c.HistoryBackend = envStr("HISTORY_BACKEND", c.HistoryBackend)
	c.NotificationSeconds = envInt("NOTIFICATION_SECONDS", c.NotificationSeconds)
	c.ListenAddr = envStr("LISTEN_ADDR", c.ListenAddr)
	c.Theme = envStr("THEME", c.Theme)
	c.LogLevel = envStr("LOG_LEVEL", c.LogLevel)
	c.Normalize()
}

// Normalize lowercases enum fields and trims whitespace.
func (c *Config) Normalize() {
	c.DefaultLabel = strings.TrimSpace(c.DefaultLabel)
	c.HistoryBackend = strings.ToLower(strings.TrimSpace(c.HistoryBackend))
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	c.Theme = strings.TrimSpace(c.Theme)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// Validate checks the config values. Call Normalize first.
func (c Config) Validate() error {
	if c.DefaultMinutes < 1 {
		return fmt.Errorf("invalid default_minutes %d: must be a positive integer", c.DefaultMinutes)
	}
	switch c.HistoryBackend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("invalid history_backend %q: must be %q or %q", c.HistoryBackend, BackendJSON, BackendSQLite)
	}
	if c.NotificationSeconds < 1 {
		return fmt.Errorf("invalid notification_seconds %d: must be a positive integer", c.NotificationSeconds)
	}
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return fmt.Errorf("invalid listen_addr %q: %w", c.ListenAddr, err)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be debug, info, warn or error", c.LogLevel)
	}
	return nil
}

// GenerateSampleConfig returns a commented config file with every option
// at its default value.
func GenerateSampleConfig() string {
	d := DefaultConfig()
	var b strings.Builder
	b.WriteString("# pomidor configuration file\n")
	b.WriteString("# Every option is commented out and shows its default value.\n")
	b.WriteString("# Environment variables prefixed with " + EnvPrefix + " override these.\n\n")
	b.WriteString("# Minutes offered by the TUI start prompt\n")
	fmt.Fprintf(&b, "# default_minutes = %d\n\n", d.DefaultMinutes)
	b.WriteString("# Label used when a timer is started without one\n")
	fmt.Fprintf(&b, "# default_label = %q\n\n", d.DefaultLabel)
	b.WriteString("# Show the countdown in the status display\n")
	fmt.Fprintf(&b, "# display_enabled = %t\n\n", d.DisplayEnabled)
	b.WriteString("# Session history store: \"json\" or \"sqlite\"\n")
	fmt.Fprintf(&b, "# history_backend = %q\n\n", d.HistoryBackend)
	b.WriteString("# Seconds the completion notification stays visible\n")
	fmt.Fprintf(&b, "# notification_seconds = %d\n\n", d.NotificationSeconds)
	b.WriteString("# Control server address used by the CLI commands\n")
	fmt.Fprintf(&b, "# listen_addr = %q\n\n", d.ListenAddr)
	b.WriteString("# TUI color theme\n")
	fmt.Fprintf(&b, "# theme = %q\n\n", d.Theme)
	b.WriteString("# Log level: debug, info, warn, error\n")
	fmt.Fprintf(&b, "# log_level = %q\n", d.LogLevel)
	return b.String()
}

// Encode renders cfg as TOML.
func Encode(cfg Config) (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return "", err
	}
	return b.String(), nil
}

// GetConfigPath returns the path to the config file.
// Creates the config directory if it doesn't exist.
func GetConfigPath() (string, error) {
	return osutil.AppFile(ConfigFile)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}
