package config

// ExampleConfig returns the default configuration file, showing all available options.
func ExampleConfig() string {
	return `# stickyweek configuration file
# Changes are picked up while the board is running.
# Any key can be overridden with STICKYWEEK_<KEY>, e.g. STICKYWEEK_ACCENT="#00FFAA".

# Colors: "#RGB", "#RRGGBB" or an ANSI color number (0-255)
accent = "#FFB6C1"
today = "#FF69B4"
text = "#FFFFFF"
done_text = "#808080"
note_text = "#D8BFD8"
border = "#FFB6C1"

# Layout (terminal cells)
margin = 1
padding = 0
column_gap = 1

# Width weight of the selected day and of the other days
focused_stretch = 10
unfocused_stretch = 1

# Monitor index used by the desktop widget
screen = 0

# Logging: debug, info, warn, error / text, json, logfmt
log_level = "info"
log_format = "text"
log_timestamps = true
log_caller = false
`
}
