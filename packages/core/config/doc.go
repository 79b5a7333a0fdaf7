// Package config handles configuration loading and management for pathmatch.
//
// It provides functionality for:
//   - Discovering .pathmatch.config.json, pathmatch.config.json, .pathmatchrc
//     or .pathmatchrc.json in a directory
//   - Default configuration values
//   - Merging file settings with command-line overrides
package config
