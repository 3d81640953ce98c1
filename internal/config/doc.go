// Package config loads and merges codereg configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags, passed to [Load] as dotted-key overrides
//  2. Environment variables (CODEREG_SOFTWARE_NAME, CODEREG_REDACTION_SAMPLING_RATIO, etc.)
//  3. Config file ($XDG_CONFIG_HOME/codereg/config.yaml, or --config)
//  4. Built-in defaults
//
// Layers are merged with koanf. Use [Load] to obtain a validated [Config],
// [Init] to write a default config file, and [Set] to update a single key
// in the config file.
package config
