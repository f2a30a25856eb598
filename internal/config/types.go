package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceFile    ConfigSource = "config file"
	SourceEnv     ConfigSource = "environment"
	SourceFlag    ConfigSource = "flag"
)

// Default values.
const (
	DefaultAccent   = "#FFB6C1"
	DefaultToday    = "#FF69B4"
	DefaultText     = "#FFFFFF"
	DefaultDoneText = "#808080"
	DefaultNoteText = "#D8BFD8"
	DefaultBorder   = "#FFB6C1"

	DefaultMargin           = 1
	DefaultPadding          = 0
	DefaultColumnGap        = 1
	DefaultFocusedStretch   = 10
	DefaultUnfocusedStretch = 1
	DefaultScreen           = 0

	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultLogTimestamps = true
	DefaultLogCaller     = false
)

// Config holds the full configuration for stickyweek.
type Config struct {
	// Colors
	Accent   string `toml:"accent"`
	Today    string `toml:"today"`
	Text     string `toml:"text"`
	DoneText string `toml:"done_text"`
	NoteText string `toml:"note_text"`
	Border   string `toml:"border"`

	// Layout
	Margin           int `toml:"margin"`
	Padding          int `toml:"padding"`
	ColumnGap        int `toml:"column_gap"`
	FocusedStretch   int `toml:"focused_stretch"`
	UnfocusedStretch int `toml:"unfocused_stretch"`
	Screen           int `toml:"screen"` // monitor index used by the desktop widget

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Paths (computed)
	DataDir    string `toml:"-"`
	ConfigFile string `toml:"-"`

	// Sources maps each key to where its value came from.
	Sources map[string]ConfigSource `toml:"-"`
	// Unknown lists keys present in the config file that stickyweek does not use.
	Unknown []string `toml:"-"`
	// Warnings collects non-fatal problems found while loading.
	Warnings []string `toml:"-"`

	flags *flagValues
}

// field binds a config key to the struct member holding its value.
type field struct {
	key string
	ptr interface{} // *string, *int or *bool
}

func (c *Config) fields() []field {
	return []field{
		{"accent", &c.Accent},
		{"today", &c.Today},
		{"text", &c.Text},
		{"done_text", &c.DoneText},
		{"note_text", &c.NoteText},
		{"border", &c.Border},
		{"margin", &c.Margin},
		{"padding", &c.Padding},
		{"column_gap", &c.ColumnGap},
		{"focused_stretch", &c.FocusedStretch},
		{"unfocused_stretch", &c.UnfocusedStretch},
		{"screen", &c.Screen},
		{"log_level", &c.LogLevel},
		{"log_format", &c.LogFormat},
		{"log_timestamps", &c.LogTimestamps},
		{"log_caller", &c.LogCaller},
	}
}

// Keys returns the configurable keys in file order.
func Keys() []string {
	var c Config
	fields := c.fields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

func (f field) set(value string) error {
	switch p := f.ptr.(type) {
	case *string:
		*p = value
	case *int:
		i, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", f.key, value)
		}
		*p = i
	case *bool:
		*p = boolFromString(value)
	}
	return nil
}

func (f field) String() string {
	switch p := f.ptr.(type) {
	case *string:
		return *p
	case *int:
		return strconv.Itoa(*p)
	case *bool:
		return strconv.FormatBool(*p)
	}
	return ""
}

// Value returns the effective value of key as text.
func (c *Config) Value(key string) (string, bool) {
	for _, f := range c.fields() {
		if f.key == key {
			return f.String(), true
		}
	}
	return "", false
}

// Source returns where key's value came from.
func (c *Config) Source(key string) ConfigSource {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
