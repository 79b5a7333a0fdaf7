package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config represents the pathmatch configuration
type Config struct {
	Reporter      string `json:"reporter,omitempty"`   // console, json, junit or tap
	OutputFile    string `json:"outputFile,omitempty"` // write the report here instead of stdout
	SchemaDir     string `json:"schemaDir,omitempty"`  // where schema files are resolved
	Concurrency   int    `json:"concurrency,omitempty"`
	Bail          *bool  `json:"bail,omitempty"`
	Verbose       *bool  `json:"verbose,omitempty"`
	NoColor       *bool  `json:"noColor,omitempty"`
	FailOnWarning *bool  `json:"failOnWarning,omitempty"`
}

// BoolPtr returns a pointer to b
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetBail returns the bail setting, defaulting to false
func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetFailOnWarning returns the fail on warning setting, defaulting to false
func (c *Config) GetFailOnWarning() bool {
	return getBool(c.FailOnWarning, false)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".pathmatch.config.json",
	"pathmatch.config.json",
	".pathmatchrc",
	".pathmatchrc.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	// A relative schemaDir is relative to the config file, not the working directory.
	if config.SchemaDir != "" && !filepath.IsAbs(config.SchemaDir) {
		config.SchemaDir = filepath.Join(filepath.Dir(path), config.SchemaDir)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.Reporter != "" {
		result.Reporter = other.Reporter
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.SchemaDir != "" {
		result.SchemaDir = other.SchemaDir
	}
	if other.Concurrency > 0 {
		result.Concurrency = other.Concurrency
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if other.FailOnWarning != nil {
		result.FailOnWarning = other.FailOnWarning
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
