// Package config loads configuration for the block list compiler.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"blockgen/pkg/blocklist"
	"blockgen/pkg/version"
)

const (
	configEnvVar = "BLOCKGEN_CONFIG"
	envPrefix    = "BLOCKGEN"

	defaultOutputName = "named.conf.blocks"
)

// Config contains all runtime options of a compilation run.
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Input   InputConfig   `mapstructure:"input"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// OutputConfig holds output file and line format settings.
type OutputConfig struct {
	File     string `mapstructure:"file"`
	Type     string `mapstructure:"type"`
	Format   string `mapstructure:"format"`
	ZoneFile string `mapstructure:"zone_file"`
}

// InputConfig names the sources list and the local block list.
type InputConfig struct {
	Sources        string `mapstructure:"sources"`
	LocalBlockList string `mapstructure:"local_block_list"`
}

// FetchConfig holds download settings.
type FetchConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	File              string `mapstructure:"file"`
	InvalidEntryLimit int    `mapstructure:"invalid_entry_limit"`
}

// MetricsConfig holds the optional textfile collector output.
type MetricsConfig struct {
	File string `mapstructure:"file"`
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"output":              "output.file",
	"type":                "output.type",
	"format":              "output.format",
	"zone-file":           "output.zone_file",
	"sources":             "input.sources",
	"local-block-list":    "input.local_block_list",
	"timeout":             "fetch.timeout",
	"user-agent":          "fetch.user_agent",
	"max-body-size":       "fetch.max_body_bytes",
	"log-level":           "logging.level",
	"log-file":            "logging.file",
	"invalid-entry-limit": "logging.invalid_entry_limit",
	"metrics-file":        "metrics.file",
}

// RegisterFlags declares the command line flags. Defaults live in viper so that flags only
// override when set explicitly.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path of an optional TOML configuration file (env "+configEnvVar+").")
	fs.StringP("output", "o", "", "The output file, containing all formatted domains.")
	fs.StringP("type", "t", "", "Type of the format used for each line: bind9, hosts or custom (--format specifies the custom format).")
	fs.StringP("format", "f", "", "Custom line format. {0} is replaced by the domain name.")
	fs.String("zone-file", "", "Zone file referenced by bind9 stanzas.")
	fs.String("sources", "", "File listing the block list URLs, one per line.")
	fs.String("local-block-list", "", "File listing domains that are always blocked, one per line.")
	fs.Duration("timeout", 0, "Timeout for each download.")
	fs.String("user-agent", "", "User-Agent header sent with downloads.")
	fs.Int64("max-body-size", 0, "Largest accepted block list in bytes.")
	fs.String("log-level", "", "Log level: debug, info, warn, error.")
	fs.String("log-file", "", "Log destination: stderr, stdout or a file path.")
	fs.Int("invalid-entry-limit", 0, "Invalid entries logged per source at debug level (0 disables, negative logs all).")
	fs.String("metrics-file", "", "Write Prometheus textfile collector metrics to this path.")
}

// Load builds a Config from defaults, the optional config file, environment variables and fs.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for flag, key := range flagKeys {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
	}

	if configPath := configFile(fs); configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc())
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configFile(fs *pflag.FlagSet) string {
	if fs != nil {
		if path, err := fs.GetString("config"); err == nil && strings.TrimSpace(path) != "" {
			return path
		}
	}
	return strings.TrimSpace(os.Getenv(configEnvVar))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("output.file", DefaultOutputPath())
	v.SetDefault("output.type", string(blocklist.ModeBind9))
	v.SetDefault("output.format", blocklist.DefaultTemplate)
	v.SetDefault("output.zone_file", blocklist.DefaultZoneFile)
	v.SetDefault("input.sources", "sources")
	v.SetDefault("input.local_block_list", "local-block-list")
	v.SetDefault("fetch.timeout", "20s")
	v.SetDefault("fetch.user_agent", version.UserAgent())
	v.SetDefault("fetch.max_body_bytes", 64<<20)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "stderr")
	v.SetDefault("logging.invalid_entry_limit", 20)
	v.SetDefault("metrics.file", "")
}

// DefaultOutputPath places the output next to the running binary.
func DefaultOutputPath() string {
	exe, err := os.Executable()
	if err != nil {
		return defaultOutputName
	}
	return filepath.Join(filepath.Dir(exe), defaultOutputName)
}

// ValidateLogLevel ensures the user-provided log level matches the supported set.
func ValidateLogLevel(level string) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(level)] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", level)
	}
	return nil
}

// Validate checks a decoded Config. The output type is resolved later so that it can be logged.
func Validate(cfg *Config) error {
	if err := ValidateLogLevel(cfg.Logging.Level); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Output.File) == "" {
		return errors.New("output.file is required")
	}
	if strings.TrimSpace(cfg.Input.Sources) == "" {
		return errors.New("input.sources is required")
	}
	if strings.TrimSpace(cfg.Input.LocalBlockList) == "" {
		return errors.New("input.local_block_list is required")
	}
	if cfg.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive, got %s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxBodyBytes <= 0 {
		return fmt.Errorf("fetch.max_body_bytes must be positive, got %d", cfg.Fetch.MaxBodyBytes)
	}
	return nil
}
