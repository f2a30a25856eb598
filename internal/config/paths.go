package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/nibzard/stickyweek/internal/datadir"
)

// resolvePaths sets DataDir and ConfigFile from env and flags, falling back
// to the platform data directory.
func resolvePaths(cfg *Config, fv *flagValues) {
	cfg.DataDir = datadir.Default()
	if v := os.Getenv("STICKYWEEK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if fv != nil && fv.isSet("data-dir") {
		cfg.DataDir = fv.dataDir
	}
	cfg.DataDir = absPath(expandPath(cfg.DataDir))

	cfg.ConfigFile = datadir.ConfigPath(cfg.DataDir)
	if v := os.Getenv("STICKYWEEK_CONFIG"); v != "" {
		cfg.ConfigFile = v
	}
	if fv != nil && fv.isSet("config") {
		cfg.ConfigFile = fv.configFile
	}
	cfg.ConfigFile = absPath(expandPath(cfg.ConfigFile))
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// expandPath expands home directory and environment variables in paths.
// It supports ~/ or ~\ prefixes and %VAR% expansion on Windows.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := expandEnv(p)
	if expanded == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return home
	}
	if strings.HasPrefix(expanded, "~/") || (runtime.GOOS == "windows" && strings.HasPrefix(expanded, "~\\")) {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}

func expandEnv(p string) string {
	expanded := os.ExpandEnv(p)
	if runtime.GOOS != "windows" {
		return expanded
	}
	return expandWindowsEnv(expanded)
}

// expandWindowsEnv replaces %VAR% references; unknown names are left as is.
func expandWindowsEnv(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	var b strings.Builder
	for i := 0; i < len(p); {
		if p[i] == '%' {
			end := strings.IndexByte(p[i+1:], '%')
			if end >= 0 {
				key := p[i+1 : i+1+end]
				if key == "" {
					b.WriteByte('%')
					i++
					continue
				}
				if val, ok := os.LookupEnv(key); ok {
					b.WriteString(val)
				} else {
					b.WriteByte('%')
					b.WriteString(key)
					b.WriteByte('%')
				}
				i += end + 2
				continue
			}
		}
		b.WriteByte(p[i])
		i++
	}
	return b.String()
}
