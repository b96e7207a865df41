// Package config builds the immutable run configuration from defaults, an
// optional YAML file, the environment and command-line flags.
//
// Precedence, highest first: flags, environment, config file, defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/naka-gawa/merged-pr-export/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOutput   = "pr_data.csv"
	DefaultPageSize = 30
	DefaultMaxPRs   = 100
)

// Environment variables consulted by FromEnv.
const (
	EnvToken  = "GITHUB_TOKEN"
	EnvAPIURL = "GITHUB_API_URL"
)

// Config is built once per run and passed by value to the collector and exporter.
type Config struct {
	Owner    string `yaml:"owner"`
	Repo     string `yaml:"repo"`
	Token    string `yaml:"-"`
	Output   string `yaml:"output"`
	PageSize int    `yaml:"page_size"`
	MaxPRs   int    `yaml:"max_prs"`
	// APIURL overrides https://api.github.com/, e.g. for GitHub Enterprise.
	APIURL string `yaml:"api_url"`
	// Timeout bounds every HTTP call. Zero leaves the transport default in place.
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns a Config holding the built-in defaults.
func Default() Config {
	return Config{
		Output:   DefaultOutput,
		PageSize: DefaultPageSize,
		MaxPRs:   DefaultMaxPRs,
	}
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the file
// keep their current value.
func LoadFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.ConfigError{Msg: fmt.Sprintf("failed to read config file %s", path), Err: err}
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &domain.ConfigError{Msg: fmt.Sprintf("failed to parse config file %s", path), Err: err}
	}
	return cfg, nil
}

// FromEnv overlays environment variables onto cfg.
func FromEnv(cfg Config, getenv func(string) string) Config {
	if token := getenv(EnvToken); token != "" {
		cfg.Token = token
	}
	if apiURL := getenv(EnvAPIURL); apiURL != "" {
		cfg.APIURL = apiURL
	}
	return cfg
}

// Validate checks the fields the pipeline cannot run without.
func (c Config) Validate() error {
	if c.Owner == "" {
		return &domain.ConfigError{Msg: "--owner is required", Err: domain.ErrMissingRequired}
	}
	if c.Repo == "" {
		return &domain.ConfigError{Msg: "--repo is required", Err: domain.ErrMissingRequired}
	}
	if c.PageSize <= 0 {
		return &domain.ConfigError{Msg: fmt.Sprintf("--page-size must be positive, got %d", c.PageSize)}
	}
	if c.MaxPRs <= 0 {
		return &domain.ConfigError{Msg: fmt.Sprintf("--max-prs must be positive, got %d", c.MaxPRs)}
	}
	if c.Output == "" {
		return &domain.ConfigError{Msg: "--output must not be empty"}
	}
	if c.Timeout < 0 {
		return &domain.ConfigError{Msg: fmt.Sprintf("--timeout must not be negative, got %s", c.Timeout)}
	}
	return nil
}
