// Package config loads and validates service configuration from an
// optional YAML file with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the export service.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8065".
	Addr string `yaml:"addr"`

	// OutputDir is the root directory for export artifacts. Each job
	// writes into its own subdirectory.
	OutputDir string `yaml:"output_dir"`

	// Workers bounds how many channels of one job are exported
	// concurrently.
	Workers int `yaml:"workers"`

	// LogFile receives the full debug log alongside stderr.
	LogFile string `yaml:"log_file"`

	// Mattermost carries default connection settings. The HTTP API lets
	// each job override these; the MCP server relies on them entirely.
	Mattermost Mattermost `yaml:"mattermost"`
}

// Mattermost is one set of connection credentials. Token and the
// username/password pair are alternatives; token wins when both are set.
type Mattermost struct {
	URL      string `yaml:"url"`
	Token    string `yaml:"token"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Load reads the YAML file when path is non-empty, then applies
// environment overrides and defaults. A missing file is an error; a
// missing path is not.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
	}

	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

func (c *Config) applyEnv() {
	setString(&c.Addr, "EXPORT_ADDR")
	setString(&c.OutputDir, "EXPORT_OUTPUT_DIR")
	setString(&c.LogFile, "EXPORT_LOG_FILE")
	setString(&c.Mattermost.URL, "MATTERMOST_URL")
	setString(&c.Mattermost.Token, "MATTERMOST_TOKEN")
	setString(&c.Mattermost.Username, "MATTERMOST_USERNAME")
	setString(&c.Mattermost.Password, "MATTERMOST_PASSWORD")
	if w := os.Getenv("EXPORT_WORKERS"); w != "" {
		if n, err := strconv.Atoi(w); err == nil {
			c.Workers = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks ranges and fills defaults so the rest of the service
// never has to.
func (c *Config) Validate() error {
	if c.Addr == "" {
		c.Addr = ":8065"
	}
	if c.OutputDir == "" {
		c.OutputDir = "./exports"
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
	return nil
}
