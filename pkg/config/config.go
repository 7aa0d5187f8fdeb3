// Package config loads offtimer configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/offtimer/offtimer-go/pkg/poweroff"
)

// ErrInvalidConfig is matched by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// LoadError reports a configuration file that could not be used.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Config holds the offtimer settings.
type Config struct {
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// EventLog is the CBOR event log path. Empty disables it.
	EventLog string `yaml:"event_log"`

	// HistoryDB is the SQLite history path. Empty disables it.
	HistoryDB string `yaml:"history_db"`

	// DefaultMinutes prefills the timer in interactive mode.
	DefaultMinutes int `yaml:"default_minutes"`

	PowerOff PowerOffConfig `yaml:"power_off"`
}

// PowerOffConfig selects the power-off action.
type PowerOffConfig struct {
	// Command overrides the platform shutdown command.
	Command []string `yaml:"command"`

	// DryRun logs instead of powering off.
	DryRun bool `yaml:"dry_run"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:       "info",
		DefaultMinutes: 30,
		PowerOff: PowerOffConfig{
			Command: poweroff.DefaultCommand().Argv,
		},
	}
}

// DefaultDir returns the per-user data directory (~/.offtimer).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".offtimer"
	}
	return filepath.Join(home, ".offtimer")
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the file at path. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return Config{}, le
		}
		return Config{}, &LoadError{File: path, Message: "invalid settings", Cause: err}
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level must be debug, info, warn or error, got %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.DefaultMinutes <= 0 {
		return fmt.Errorf("%w: default_minutes must be positive, got %d", ErrInvalidConfig, c.DefaultMinutes)
	}
	if !c.PowerOff.DryRun && (len(c.PowerOff.Command) == 0 || c.PowerOff.Command[0] == "") {
		return fmt.Errorf("%w: power_off.command is empty", ErrInvalidConfig)
	}
	return nil
}

// Action builds the configured power-off action.
func (c Config) Action() poweroff.Action {
	cmd := poweroff.Command{Argv: c.PowerOff.Command}
	if c.PowerOff.DryRun {
		return poweroff.DryRun{Describe: cmd.String()}
	}
	return cmd
}
