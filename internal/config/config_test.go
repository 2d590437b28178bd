package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Addr != ":8065" {
		t.Errorf("Addr = %q, want %q", c.Addr, ":8065")
	}
	if c.OutputDir != "./exports" {
		t.Errorf("OutputDir = %q, want %q", c.OutputDir, "./exports")
	}
	if c.Workers != 4 {
		t.Errorf("Workers = %d, want 4", c.Workers)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
addr: ":9000"
output_dir: /var/exports
workers: 8
mattermost:
  url: https://chat.example.com
  token: abc123
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Addr != ":9000" {
		t.Errorf("Addr = %q, want %q", c.Addr, ":9000")
	}
	if c.OutputDir != "/var/exports" {
		t.Errorf("OutputDir = %q, want %q", c.OutputDir, "/var/exports")
	}
	if c.Workers != 8 {
		t.Errorf("Workers = %d, want 8", c.Workers)
	}
	if c.Mattermost.URL != "https://chat.example.com" {
		t.Errorf("Mattermost.URL = %q", c.Mattermost.URL)
	}
	if c.Mattermost.Token != "abc123" {
		t.Errorf("Mattermost.Token = %q", c.Mattermost.Token)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
addr: ":9000"
workers: 8
`)
	t.Setenv("EXPORT_ADDR", ":7000")
	t.Setenv("EXPORT_WORKERS", "2")
	t.Setenv("MATTERMOST_TOKEN", "env-token")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Addr != ":7000" {
		t.Errorf("Addr = %q, want %q", c.Addr, ":7000")
	}
	if c.Workers != 2 {
		t.Errorf("Workers = %d, want 2", c.Workers)
	}
	if c.Mattermost.Token != "env-token" {
		t.Errorf("Mattermost.Token = %q, want %q", c.Mattermost.Token, "env-token")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() accepted a missing file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "addr: [not a string")
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed yaml")
	}
}

func TestValidate_NegativeWorkers(t *testing.T) {
	c := &Config{Workers: -1}
	if err := c.Validate(); err == nil {
		t.Error("Validate() accepted negative workers")
	}
}
