package config

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/charmbracelet/log"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidColor reports whether s is a #RGB or #RRGGBB hex color or an ANSI
// color number between 0 and 255.
func ValidColor(s string) bool {
	if hexColor.MatchString(s) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 255
}

// Validate checks every key and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	colors := []struct {
		key, value string
	}{
		{"accent", c.Accent},
		{"today", c.Today},
		{"text", c.Text},
		{"done_text", c.DoneText},
		{"note_text", c.NoteText},
		{"border", c.Border},
	}
	for _, col := range colors {
		if !ValidColor(col.value) {
			errs = append(errs, fmt.Errorf("%s: %q is not a #RRGGBB or 0-255 color", col.key, col.value))
		}
	}

	nonNegative := []struct {
		key   string
		value int
	}{
		{"margin", c.Margin},
		{"padding", c.Padding},
		{"column_gap", c.ColumnGap},
		{"screen", c.Screen},
	}
	for _, n := range nonNegative {
		if n.value < 0 {
			errs = append(errs, fmt.Errorf("%s: must not be negative, got %d", n.key, n.value))
		}
	}
	if c.FocusedStretch < 1 {
		errs = append(errs, fmt.Errorf("focused_stretch: must be at least 1, got %d", c.FocusedStretch))
	}
	if c.UnfocusedStretch < 1 {
		errs = append(errs, fmt.Errorf("unfocused_stretch: must be at least 1, got %d", c.UnfocusedStretch))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %q is not one of debug, info, warn, error", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("log_format: %q is not one of text, json, logfmt", c.LogFormat))
	}

	return errors.Join(errs...)
}
