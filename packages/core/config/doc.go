// Package config handles configuration loading and management for
// specpretty.
//
// It provides functionality for:
//   - Loading configuration from .specpretty.yaml files
//   - Default configuration values
//   - Merging file configuration with flag overrides
package config
