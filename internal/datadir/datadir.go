// Package datadir provides the names and locations of the files stickyweek keeps on disk.
package datadir

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// Name is the directory name used under the OS config directory.
	Name = "stickyweek"

	// WindowsName matches the directory the desktop widget used under %APPDATA%.
	WindowsName = "Cal"

	// TasksFile holds the current-format task data.
	TasksFile = "tasks.json"

	// NotesFile holds the per-day notes.
	NotesFile = "notes.json"

	// ConfigFile holds colors and layout.
	ConfigFile = "config.toml"

	// LegacyFile is the pickled task data written by the first releases.
	LegacyFile = "data.pkl"

	// LogFile receives the structured log.
	LogFile = "stickyweek.log"

	// PidFile records the running instance.
	PidFile = "stickyweek.pid"
)

// Default returns the platform data directory:
//   - Windows: %APPDATA%\Cal
//   - macOS: ~/Library/Application Support/stickyweek
//   - Linux/BSD: $XDG_CONFIG_HOME/stickyweek or ~/.config/stickyweek
//
// It falls back to ./.stickyweek when no home directory can be found.
func Default() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return filepath.Join(appdata, WindowsName)
		}
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support", Name)
		}
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, Name)
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".config", Name)
		}
	}
	return "." + Name
}

// Ensure creates dir if it is missing.
func Ensure(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// TasksPath returns the task file inside dir.
func TasksPath(dir string) string { return filepath.Join(dir, TasksFile) }

// NotesPath returns the note file inside dir.
func NotesPath(dir string) string { return filepath.Join(dir, NotesFile) }

// ConfigPath returns the config file inside dir.
func ConfigPath(dir string) string { return filepath.Join(dir, ConfigFile) }

// LegacyPath returns the legacy pickle inside dir.
func LegacyPath(dir string) string { return filepath.Join(dir, LegacyFile) }

// LogPath returns the log file inside dir.
func LogPath(dir string) string { return filepath.Join(dir, LogFile) }

// PidPath returns the pid file inside dir.
func PidPath(dir string) string { return filepath.Join(dir, PidFile) }
