// Package config persists orgrun settings to a YAML file under the orgrun
// home directory.
//
// The config is loaded once per command and passed down explicitly; nothing
// in the lower layers reads it as ambient state. The runner receives the
// relevant values (default org, working directory, environment) per call.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// defaultPollInterval is used when poll_interval_seconds is unset. Two
// seconds matches the server-side job granularity without hammering the API.
const defaultPollInterval = 2 * time.Second

// Config holds persisted settings. Access through the methods; fields are
// exported only for YAML round-tripping.
type Config struct {
	mu sync.RWMutex

	// DefaultOrg is the username or alias identity-scoped subcommands run
	// against.
	DefaultOrg string `yaml:"default_org,omitempty"`

	// Binary overrides the sfdx executable name or path.
	Binary string `yaml:"binary,omitempty"`

	// PollIntervalSec is the interval between job status checks.
	PollIntervalSec int `yaml:"poll_interval_seconds,omitempty"`

	// ExtraEnv holds additional KEY=VALUE entries passed to every invocation.
	ExtraEnv []string `yaml:"extra_env,omitempty"`

	path string
}

// DefaultDir returns the orgrun home directory (~/.orgrun).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".orgrun"), nil
}

// Load reads the config from dir, returning defaults when no file exists yet.
func Load(dir string) (*Config, error) {
	cfg := &Config{path: filepath.Join(dir, configFileName)}

	data, err := os.ReadFile(cfg.path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", cfg.path, err)
	}
	return cfg, nil
}

// Save writes the config back to disk, creating the directory if needed.
func (c *Config) Save() error {
	c.mu.RLock()
	data, err := yaml.Marshal(c)
	path := c.path
	c.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GetDefaultOrg returns the configured default org, empty when unset.
func (c *Config) GetDefaultOrg() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.DefaultOrg
}

// SetDefaultOrg updates the default org.
func (c *Config) SetDefaultOrg(org string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DefaultOrg = org
}

// BinaryName returns the configured executable override, empty for the
// default.
func (c *Config) BinaryName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Binary
}

// PollInterval returns the configured poll interval, or the default.
func (c *Config) PollInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.PollIntervalSec > 0 {
		return time.Duration(c.PollIntervalSec) * time.Second
	}
	return defaultPollInterval
}

// GetExtraEnv returns a copy of the extra environment entries.
func (c *Config) GetExtraEnv() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	env := make([]string, len(c.ExtraEnv))
	copy(env, c.ExtraEnv)
	return env
}
