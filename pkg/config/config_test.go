package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("blockgen", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return fs
}

func TestValidateLogLevel(t *testing.T) {
	validLevels := []string{"debug", "info", "warn", "error", "DEBUG", "INFO", "WARN", "ERROR"}
	for _, level := range validLevels {
		if err := ValidateLogLevel(level); err != nil {
			t.Errorf("ValidateLogLevel(%s) returned error: %v", level, err)
		}
	}

	invalidLevels := []string{"", "trace", "fatal", "invalid", "debugging"}
	for _, level := range invalidLevels {
		if err := ValidateLogLevel(level); err == nil {
			t.Errorf("ValidateLogLevel(%s) should return error", level)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configEnvVar, "")

	cfg, err := Load(newFlags(t))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Output.Type != "bind9" {
		t.Errorf("Output.Type = %q, want bind9", cfg.Output.Type)
	}
	if cfg.Output.Format != "{0}" {
		t.Errorf("Output.Format = %q, want {0}", cfg.Output.Format)
	}
	if filepath.Base(cfg.Output.File) != defaultOutputName {
		t.Errorf("Output.File = %q, want file named %s", cfg.Output.File, defaultOutputName)
	}
	if cfg.Input.Sources != "sources" || cfg.Input.LocalBlockList != "local-block-list" {
		t.Errorf("unexpected input defaults %+v", cfg.Input)
	}
	if cfg.Fetch.Timeout != 20*time.Second {
		t.Errorf("Fetch.Timeout = %s, want 20s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxBodyBytes != 64<<20 {
		t.Errorf("Fetch.MaxBodyBytes = %d", cfg.Fetch.MaxBodyBytes)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.File != "stderr" || cfg.Logging.InvalidEntryLimit != 20 {
		t.Errorf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "blockgen.toml")
	content := []byte(`
[output]
type = "hosts"
file = "/tmp/from-file.txt"

[fetch]
timeout = "5s"

[logging]
level = "warn"
`)
	if err := os.WriteFile(configPath, content, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(configEnvVar, configPath)
	t.Setenv("BLOCKGEN_LOGGING_LEVEL", "debug")
	t.Setenv("BLOCKGEN_OUTPUT_FILE", "/tmp/from-env.txt")

	cfg, err := Load(newFlags(t, "--output", "/tmp/from-flag.txt", "--timeout", "3s"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Output.Type != "hosts" {
		t.Errorf("Output.Type = %q, want hosts from file", cfg.Output.Type)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug from env", cfg.Logging.Level)
	}
	if cfg.Output.File != "/tmp/from-flag.txt" {
		t.Errorf("Output.File = %q, want flag value", cfg.Output.File)
	}
	if cfg.Fetch.Timeout != 3*time.Second {
		t.Errorf("Fetch.Timeout = %s, want 3s from flag", cfg.Fetch.Timeout)
	}
}

func TestLoadConfigFlag(t *testing.T) {
	t.Setenv(configEnvVar, "")
	configPath := filepath.Join(t.TempDir(), "blockgen.toml")
	if err := os.WriteFile(configPath, []byte("[output]\nformat = \"address=/{0}/0.0.0.0\"\ntype = \"custom\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(newFlags(t, "--config", configPath))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Output.Type != "custom" || cfg.Output.Format != "address=/{0}/0.0.0.0" {
		t.Errorf("unexpected output config %+v", cfg.Output)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv(configEnvVar, filepath.Join(t.TempDir(), "missing.toml"))
	if _, err := Load(newFlags(t)); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	t.Setenv(configEnvVar, "")

	cases := [][]string{
		{"--log-level", "trace"},
		{"--timeout", "-1s"},
		{"--max-body-size", "-5"},
		{"--sources", " "},
	}
	for _, args := range cases {
		if _, err := Load(newFlags(t, args...)); err == nil {
			t.Errorf("Load(%v) should return error", args)
		}
	}
}
