// Package config loads apiflow CLI settings.
//
// Settings come from three layers, each overriding the previous one: the
// built-in defaults, a TOML file (~/.config/apiflow/config.toml unless a
// path is given), and APIFLOW_* environment variables. Command-line flags
// are applied on top by the CLI itself.
//
// Invalid environment values log a warning and keep the value from the
// lower layers; invalid file values fail Load.
package config
