package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

const (
	configDirName    = "doq"
	defaultConfigDir = ".config"
	legacyConfigFile = ".doq-config.yaml"
)

var configFiles = []string{
	"config.yaml",
	"config.yml",
}

// Config represents the structure of the configuration file used by the
// application. Every field has a sensible default; the file is optional.
type Config struct {
	// Provider is the default dispatch target when --llm is not given.
	Provider string `yaml:"provider" default:"claude"`
	// Providers holds optional per-provider overrides.
	Providers map[string]Provider `yaml:"providers"`
	Render    Render              `yaml:"render"`
	Files     Files               `yaml:"files"`
}

// Provider overrides the model or endpoint of one provider.
type Provider struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// Render controls terminal output.
type Render struct {
	// Format is "markdown" or "plain".
	Format string `yaml:"format" default:"markdown"`
}

// Files exposes the file-loading heuristics so boundary cases can be tuned
// without rebuilding.
type Files struct {
	LargeFileThreshold  int64   `yaml:"large_file_threshold" default:"10485760"`
	BinaryTruncateBytes int     `yaml:"binary_truncate_bytes" default:"1024"`
	SniffLen            int     `yaml:"sniff_len" default:"8192"`
	NonTextRatio        float64 `yaml:"non_text_ratio" default:"0.3"`
}

// configResult is a struct used to return the configuration and any error
// that occurs during loading.
type configResult struct {
	config *Config
	err    error
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	return cfg
}

// getConfigPath retrieves the path to the configuration directory based on
// the XDG_CONFIG_HOME environment variable.
func getConfigPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configHome = filepath.Join(home, defaultConfigDir)
	}

	return filepath.Join(configHome, configDirName), nil
}

// tryLoadConfig attempts to load a configuration file from the specified path.
func tryLoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	return cfg, nil
}

// Load loads the configuration from the user's config directory, with a
// timeout so a hung filesystem never stalls startup.
func Load(ctx context.Context) (*Config, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result := make(chan configResult, 1)

	go func() {
		cfg, err := loadConfigFiles(ctx)
		result <- configResult{config: cfg, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-result:
		return r.config, r.err
	}
}

// loadConfigFiles checks $XDG_CONFIG_HOME/doq/config.{yaml,yml} first and
// falls back to the legacy ~/.doq-config.yaml location.
func loadConfigFiles(ctx context.Context) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error before loading config: %w", err)
	}

	configDir, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	candidates := make([]string, 0, len(configFiles)+1)
	for _, filename := range configFiles {
		candidates = append(candidates, filepath.Join(configDir, filename))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, legacyConfigFile))
	}

	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cfg, err := tryLoadConfig(path)
		if err == nil {
			return cfg, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	return Default(), nil
}
