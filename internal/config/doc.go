// Package config handles configuration loading, defaults, and hot reload.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. Config file (config.toml in the data directory)
// 3. Environment variables (STICKYWEEK_*)
// 4. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// Data directory:
// - Windows: %APPDATA%\Cal
// - macOS: ~/Library/Application Support/stickyweek
// - Linux/BSD: $XDG_CONFIG_HOME/stickyweek or ~/.config/stickyweek
// - overridden by STICKYWEEK_DATA_DIR or -data-dir
//
// The config file is a flat table of colors, layout and logging keys. When
// it is missing, EnsureFile writes a commented copy of the defaults.
//
// A Watcher follows the file and delivers a freshly loaded Config after each
// change. A file that fails to parse or validate is reported as an error and
// the previous Config stays in effect.
package config
