package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. Config file (<data-dir>/config.toml unless -config or STICKYWEEK_CONFIG)
// 3. Environment variables
// 4. CLI flags
//
// fs receives the global flags; args are parsed with it. A missing config
// file is not an error. When the file or the resulting values are invalid,
// Load returns the error together with a default config whose paths still
// honor the flags and environment, so callers can report the problem.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	if fs == nil {
		fs = flag.NewFlagSet("stickyweek", flag.ContinueOnError)
	}
	fv := bindFlags(fs)
	if err := fv.parse(fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	cfg, err := build(fv)
	if err != nil {
		return fallback(fv), err
	}
	return cfg, nil
}

// fallback is the default config placed where fv and the environment say.
func fallback(fv *flagValues) *Config {
	cfg := &Config{Sources: make(map[string]ConfigSource)}
	setDefaults(cfg)
	resolvePaths(cfg, fv)
	cfg.flags = fv
	return cfg
}

// Reload reads the configuration again from the same locations, keeping the
// flags given to Load. c is not modified.
func (c *Config) Reload() (*Config, error) {
	return build(c.flags)
}

func build(fv *flagValues) (*Config, error) {
	cfg := &Config{Sources: make(map[string]ConfigSource)}

	// 1. Set defaults
	setDefaults(cfg)
	resolvePaths(cfg, fv)

	// 2. Config file
	if err := loadConfigFile(cfg, cfg.ConfigFile); err != nil {
		return nil, fmt.Errorf("loading config file %s: %w", cfg.ConfigFile, err)
	}

	// 3. Override from environment
	loadFromEnv(cfg)

	// 4. Flags override everything
	if fv != nil {
		fv.apply(cfg)
	}
	cfg.flags = fv

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Accent = DefaultAccent
	cfg.Today = DefaultToday
	cfg.Text = DefaultText
	cfg.DoneText = DefaultDoneText
	cfg.NoteText = DefaultNoteText
	cfg.Border = DefaultBorder

	cfg.Margin = DefaultMargin
	cfg.Padding = DefaultPadding
	cfg.ColumnGap = DefaultColumnGap
	cfg.FocusedStretch = DefaultFocusedStretch
	cfg.UnfocusedStretch = DefaultUnfocusedStretch
	cfg.Screen = DefaultScreen

	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = DefaultLogTimestamps
	cfg.LogCaller = DefaultLogCaller
}

// loadConfigFile decodes the TOML file at path over cfg and records which
// keys it set. A missing file leaves cfg unchanged.
func loadConfigFile(cfg *Config, path string) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, key := range Keys() {
		if meta.IsDefined(key) {
			cfg.Sources[key] = SourceFile
		}
	}
	for _, key := range meta.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, key.String())
	}
	return nil
}

// EnsureFile writes the default config to path if nothing exists there.
// It reports whether the file was created.
func EnsureFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("checking config file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(ExampleConfig()), 0o644); err != nil {
		return false, fmt.Errorf("writing default config: %w", err)
	}
	return true, nil
}
