// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for teacherhub.
type Config struct {
	DataDir          string        `mapstructure:"data_dir"`
	LogLevel         string        `mapstructure:"log_level"`
	LogFile          string        `mapstructure:"log_file"`
	SubmitTimeout    time.Duration `mapstructure:"submit_timeout"`
	ResetDelay       time.Duration `mapstructure:"reset_delay"`
	StrictSubmit     bool          `mapstructure:"strict_submit"`
	CrossFieldChecks bool          `mapstructure:"cross_field_checks"`
}

// fileConfig is the on-disk shape; durations are written as "30s".
type fileConfig struct {
	DataDir          string `yaml:"data_dir"`
	LogLevel         string `yaml:"log_level"`
	LogFile          string `yaml:"log_file,omitempty"`
	SubmitTimeout    string `yaml:"submit_timeout"`
	ResetDelay       string `yaml:"reset_delay"`
	StrictSubmit     bool   `yaml:"strict_submit"`
	CrossFieldChecks bool   `yaml:"cross_field_checks"`
}

var defaults = map[string]any{
	"data_dir":           ".teacherhub",
	"log_level":          "info",
	"log_file":           "",
	"submit_timeout":     "30s",
	"reset_delay":        "3s",
	"strict_submit":      false,
	"cross_field_checks": false,
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:       ".teacherhub",
		LogLevel:      "info",
		SubmitTimeout: 30 * time.Second,
		ResetDelay:    3 * time.Second,
	}
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("teacherhub")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("TEACHERHUB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Explicit ENV bindings so Unmarshal sees env-only values
	for key := range defaults {
		if err := v.BindEnv(key, "TEACHERHUB_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that viper cannot reject on its own.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.SubmitTimeout < 0 {
		return fmt.Errorf("submit_timeout must not be negative")
	}
	if c.ResetDelay < 0 {
		return fmt.Errorf("reset_delay must not be negative")
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/teacherhub/teacherhub.yml or $XDG_CONFIG_HOME/teacherhub/teacherhub.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "teacherhub", "teacherhub.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "teacherhub", "teacherhub.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "teacherhub.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(fileConfig{
		DataDir:          cfg.DataDir,
		LogLevel:         cfg.LogLevel,
		LogFile:          cfg.LogFile,
		SubmitTimeout:    cfg.SubmitTimeout.String(),
		ResetDelay:       cfg.ResetDelay.String(),
		StrictSubmit:     cfg.StrictSubmit,
		CrossFieldChecks: cfg.CrossFieldChecks,
	})
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
