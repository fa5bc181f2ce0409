package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xolan/pomidor/internal/config"
	"github.com/xolan/pomidor/internal/storage"
)

// ConfigService provides operations for managing configuration
type ConfigService struct {
	configPath string
	config     config.Config
}

// NewConfigService creates a new ConfigService
func NewConfigService(configPath string, cfg config.Config) *ConfigService {
	return &ConfigService{
		configPath: configPath,
		config:     cfg,
	}
}

// Get returns the current configuration
func (s *ConfigService) Get() config.Config {
	return s.config
}

// GetPath returns the path to the config file
func (s *ConfigService) GetPath() string {
	return s.configPath
}

// Exists checks if the config file exists
func (s *ConfigService) Exists() bool {
	_, err := os.Stat(s.configPath)
	return err == nil
}

// Update validates cfg, writes it to the config file and keeps it in memory.
// cfg is written as given, so callers holding env overrides should use
// SetTheme or start from the file contents.
func (s *ConfigService) Update(cfg config.Config) error {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	content, err := config.Encode(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := s.write([]byte(content)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	s.config = cfg
	return nil
}

// SetTheme saves name as the theme. Only the theme key changes: the file is
// re-read so that POMIDOR_* overrides in effect are never written to it.
func (s *ConfigService) SetTheme(name string) error {
	onDisk, err := config.LoadOrDefault(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	onDisk.Theme = name
	onDisk.Normalize()
	if err := onDisk.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	content, err := config.Encode(onDisk)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := s.write([]byte(content)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	s.config.Theme = onDisk.Theme
	return nil
}

// Init creates a sample config file
func (s *ConfigService) Init() error {
	if s.Exists() {
		return fmt.Errorf("config file already exists at %s", s.configPath)
	}

	if err := s.write([]byte(config.GenerateSampleConfig())); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Reload reloads the configuration from disk and reapplies POMIDOR_*
// overrides.
func (s *ConfigService) Reload() error {
	cfg, err := config.LoadOrDefault(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyEnv()
	s.config = cfg
	return nil
}

// Show returns the effective configuration as TOML.
func (s *ConfigService) Show() (string, error) {
	return config.Encode(s.config)
}

func (s *ConfigService) write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}
	return storage.WriteFileAtomic(s.configPath, data)
}
