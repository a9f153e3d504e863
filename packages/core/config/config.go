package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the specpretty configuration
type Config struct {
	BaseDir      string `yaml:"baseDir,omitempty"`      // Directory file paths are relativized against
	Format       string `yaml:"format,omitempty"`       // Output format: console, json, junit, tap, html
	OutputFile   string `yaml:"outputFile,omitempty"`   // File to write output to instead of stdout
	TimingFile   string `yaml:"timingFile,omitempty"`   // File to write timing statistics to
	ForceColor   *bool  `yaml:"forceColor,omitempty"`
	NoColor      *bool  `yaml:"noColor,omitempty"`
	Follow       *bool  `yaml:"follow,omitempty"`
	Timing       *bool  `yaml:"timing,omitempty"`
	Notify       *bool  `yaml:"notify,omitempty"`
	NotifyOn     string `yaml:"notifyOn,omitempty"`     // always, failure, success, recovery
	SlackWebhook string `yaml:"slackWebhook,omitempty"`
	TeamsWebhook string `yaml:"teamsWebhook,omitempty"`
	Verbose      *bool  `yaml:"verbose,omitempty"`
	Slowest      *int   `yaml:"slowest,omitempty"`  // Number of entries in the slowest-tests list
	ExitZero     *bool  `yaml:"exitZero,omitempty"` // Exit 0 even when the run fails
}

// boolPtr returns a pointer to a bool value
func boolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// intPtr returns a pointer to an int value
func intPtr(i int) *int {
	return &i
}

// getInt returns the value of an int pointer, or the default if nil
func getInt(i *int, defaultVal int) int {
	if i == nil {
		return defaultVal
	}
	return *i
}

// GetForceColor returns the force color setting, defaulting to false
func (c *Config) GetForceColor() bool {
	return getBool(c.ForceColor, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetFollow returns the follow setting, defaulting to false
func (c *Config) GetFollow() bool {
	return getBool(c.Follow, false)
}

// GetTiming returns the timing setting, defaulting to false
func (c *Config) GetTiming() bool {
	return getBool(c.Timing, false)
}

// GetNotify returns the notify setting, defaulting to false
func (c *Config) GetNotify() bool {
	return getBool(c.Notify, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetSlowest returns the slowest-tests list size, defaulting to 10
func (c *Config) GetSlowest() int {
	return getInt(c.Slowest, 10)
}

// GetExitZero returns the exit-zero setting, defaulting to false
func (c *Config) GetExitZero() bool {
	return getBool(c.ExitZero, false)
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".specpretty.yaml",
	".specpretty.yml",
	"specpretty.config.yaml",
	"specpretty.config.yml",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
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

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.BaseDir != "" {
		result.BaseDir = other.BaseDir
	}
	if other.Format != "" {
		result.Format = other.Format
	}
	if other.OutputFile != "" {
		result.OutputFile = other.OutputFile
	}
	if other.TimingFile != "" {
		result.TimingFile = other.TimingFile
	}
	if other.NotifyOn != "" {
		result.NotifyOn = other.NotifyOn
	}
	if other.SlackWebhook != "" {
		result.SlackWebhook = other.SlackWebhook
	}
	if other.TeamsWebhook != "" {
		result.TeamsWebhook = other.TeamsWebhook
	}

	// Boolean flags - only override if explicitly set in other config
	if other.ForceColor != nil {
		result.ForceColor = other.ForceColor
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if other.Follow != nil {
		result.Follow = other.Follow
	}
	if other.Timing != nil {
		result.Timing = other.Timing
	}
	if other.Notify != nil {
		result.Notify = other.Notify
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.Slowest != nil {
		result.Slowest = other.Slowest
	}
	if other.ExitZero != nil {
		result.ExitZero = other.ExitZero
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
