package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds defaults loaded from an optional YAML file. Every field
// mirrors a CLI flag; flags given on the command line win.
type Config struct {
	Depth       int      `yaml:"depth"`
	Concurrency int      `yaml:"concurrency"`
	Interval    duration `yaml:"interval"`
	Timeout     duration `yaml:"timeout"`
	Out         string   `yaml:"out"`
	DB          string   `yaml:"db"`
	Engine      string   `yaml:"engine"`
	Locale      string   `yaml:"locale"`
}

// duration decodes YAML strings like "500ms" or "1m30s".
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = duration(parsed)
	return nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// apply copies config values into CLI fields still holding their flag
// defaults, so explicit flags always take precedence.
func (cfg *Config) apply(cli *CLI) {
	if cli.Depth == defaultDepth && cfg.Depth > 0 {
		cli.Depth = cfg.Depth
	}
	if cli.Concurrency == defaultConcurrency && cfg.Concurrency > 0 {
		cli.Concurrency = cfg.Concurrency
	}
	if cli.Interval == defaultInterval && cfg.Interval > 0 {
		cli.Interval = time.Duration(cfg.Interval)
	}
	if cli.Timeout == defaultTimeout && cfg.Timeout > 0 {
		cli.Timeout = time.Duration(cfg.Timeout)
	}
	if cli.Out == defaultOut && cfg.Out != "" {
		cli.Out = cfg.Out
	}
	if cli.DB == "" && cfg.DB != "" {
		cli.DB = cfg.DB
	}
	if cli.Engine == defaultEngine && cfg.Engine != "" {
		cli.Engine = cfg.Engine
	}
	if cli.Locale == defaultLocale && cfg.Locale != "" {
		cli.Locale = cfg.Locale
	}
}
