package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/syntaxdoc/pkg/indexer"
)

// configFileName is looked up in the project root, then the home directory.
const configFileName = ".syntaxdoc.yaml"

// ProjectConfig holds the contents of .syntaxdoc.yaml. Zero values mean
// "not set" and leave the built-in default in place.
type ProjectConfig struct {
	Include    []string `yaml:"include"`
	Exclude    []string `yaml:"exclude"`
	OutputDir  string   `yaml:"output_dir"`
	Format     string   `yaml:"format"`
	Workers    int      `yaml:"workers"`
	DebounceMs int      `yaml:"debounce_ms"`
	LogLevel   string   `yaml:"log_level"`
	LogFormat  string   `yaml:"log_format"`
	MCPLog     string   `yaml:"mcp_log"`

	// path is the file the config was read from, empty for built-in defaults.
	path string
}

// Replaceable for testing.
var userHomeDir = os.UserHomeDir

// loadProjectConfig applies the fallback chain:
//  1. Explicit --config flag value (must exist)
//  2. .syntaxdoc.yaml in the project root
//  3. .syntaxdoc.yaml in the home directory
//
// Returns an empty config (no error) when no file is found.
func loadProjectConfig(explicit, projectRoot string) (*ProjectConfig, error) {
	if explicit != "" {
		return readProjectConfig(explicit)
	}

	candidates := []string{filepath.Join(projectRoot, configFileName)}
	if home, err := userHomeDir(); err == nil && home != "" {
		candidates = append(candidates, filepath.Join(home, configFileName))
	}

	for _, path := range candidates {
		cfg, err := readProjectConfig(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return &ProjectConfig{}, nil
}

func readProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if cfg.Format != "" && cfg.Format != formatXML && cfg.Format != formatJSON {
		return nil, fmt.Errorf("invalid config %s: format %q (want xml or json)", path, cfg.Format)
	}
	cfg.path = path
	return &cfg, nil
}

// batchOptions merges the config over indexer.DefaultBatchOptions.
func (c *ProjectConfig) batchOptions() indexer.BatchOptions {
	opts := indexer.DefaultBatchOptions()
	if len(c.Include) > 0 {
		opts.Include = c.Include
	}
	if len(c.Exclude) > 0 {
		opts.Exclude = c.Exclude
	}
	if c.Workers > 0 {
		opts.Workers = c.Workers
	}
	return opts
}

// watchOptions merges the config over indexer.DefaultWatchOptions.
func (c *ProjectConfig) watchOptions() indexer.WatchOptions {
	opts := indexer.DefaultWatchOptions()
	if c.DebounceMs > 0 {
		opts.DebounceMs = c.DebounceMs
	}
	return opts
}

// resolve returns flag when it is set, then the config value, then def.
func resolve(flag, config, def string) string {
	if flag != "" {
		return flag
	}
	if config != "" {
		return config
	}
	return def
}
