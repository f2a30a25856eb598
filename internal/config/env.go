package config

import (
	"fmt"
	"os"
	"strings"
)

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return "STICKYWEEK_" + strings.ToUpper(key)
}

// loadFromEnv overrides config from STICKYWEEK_<KEY> variables.
// Values that do not parse are skipped and reported in cfg.Warnings.
func loadFromEnv(cfg *Config) {
	for _, f := range cfg.fields() {
		v, ok := os.LookupEnv(EnvName(f.key))
		if !ok || v == "" {
			continue
		}
		if err := f.set(v); err != nil {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("ignoring %s: %v", EnvName(f.key), err))
			continue
		}
		cfg.Sources[f.key] = SourceEnv
	}
}
