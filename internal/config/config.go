package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the top-level configuration for vlog-lint
type Config struct {
	// Rules maps finding codes (UNUSED, UNDRIVEN) to severity:
	// "off", "warning", "error"
	Rules map[string]string `json:"rules,omitempty"`

	// IgnorePatterns is a list of file patterns to skip entirely
	IgnorePatterns []string `json:"ignorePatterns,omitempty"`

	// PolicyDir points at a directory of additional .rego policies
	// applied on top of the built-in severity policy
	PolicyDir string `json:"policyDir,omitempty"`

	// Top names the top module; informational only for now
	Top string `json:"top,omitempty"`
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Rules: map[string]string{
			"UNUSED":   "warning",
			"UNDRIVEN": "warning",
		},
		IgnorePatterns: []string{},
	}
}

// Load finds and loads the configuration file
// Search order:
//  1. ./vlog_lint.json (current working directory)
//  2. ./.vlog_lint.json (current working directory)
//  3. <rootPath>/vlog_lint.json (if different from cwd)
//  4. ~/.config/vlog_lint/config.json
//
// Returns DefaultConfig if no config file is found
func Load(rootPath string) (*Config, error) {
	cwd, _ := os.Getwd()

	searchPaths := []string{
		filepath.Join(cwd, "vlog_lint.json"),
		filepath.Join(cwd, ".vlog_lint.json"),
	}

	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		absRoot, _ := filepath.Abs(rootPath)
		if absRoot != cwd {
			searchPaths = append(searchPaths,
				filepath.Join(rootPath, "vlog_lint.json"),
				filepath.Join(rootPath, ".vlog_lint.json"),
			)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".config", "vlog_lint", "config.json"))
	}

	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFile loads configuration from a specific file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Rules == nil {
		c.Rules = make(map[string]string)
	}
	for code, severity := range DefaultConfig().Rules {
		if _, ok := c.Rules[code]; !ok {
			c.Rules[code] = severity
		}
	}
}

// Save writes the configuration to a file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetRuleSeverity returns the severity for a finding code, or the
// default if not configured
func (c *Config) GetRuleSeverity(code string, defaultSeverity string) string {
	if severity, ok := c.Rules[code]; ok {
		return severity
	}
	return defaultSeverity
}

// IsRuleEnabled returns true if the finding code is not set to "off"
func (c *Config) IsRuleEnabled(code string) bool {
	if severity, ok := c.Rules[code]; ok {
		return severity != "off"
	}
	return true // enabled by default
}

// ShouldIgnoreFile checks if a file should be skipped entirely
func (c *Config) ShouldIgnoreFile(filePath string) bool {
	for _, pattern := range c.IgnorePatterns {
		if matched, _ := filepath.Match(pattern, filePath); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, filepath.Base(filePath)); matched {
			return true
		}
	}
	return false
}
