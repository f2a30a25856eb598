package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/stickyweek/internal/config"
)

// configCommand prints where the config lives and the effective values.
// With loadErr set only the locations and the error are shown.
func configCommand(cfg *config.Config, loadErr error, args []string) error {
	fs := newFlagSet("config")
	asTOML := fs.Bool("toml", false, "Print the effective configuration as TOML")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if loadErr != nil {
		fmt.Fprintf(stdout, "Data dir:    %s\n", cfg.DataDir)
		fmt.Fprintf(stdout, "Config file: %s (invalid)\n", cfg.ConfigFile)
		fmt.Fprintf(stdout, "  %v\n", loadErr)
		return fmt.Errorf("loading config: %w", loadErr)
	}

	if *asTOML {
		return toml.NewEncoder(stdout).Encode(cfg)
	}

	state := "not found, defaults in use"
	if _, err := os.Stat(cfg.ConfigFile); err == nil {
		state = "found"
	}
	fmt.Fprintf(stdout, "Data dir:    %s\n", cfg.DataDir)
	fmt.Fprintf(stdout, "Config file: %s (%s)\n", cfg.ConfigFile, state)
	fmt.Fprintln(stdout)

	for _, key := range config.Keys() {
		value, _ := cfg.Value(key)
		fmt.Fprintf(stdout, "  %-18s %-10s (%s)\n", key, value, cfg.Source(key))
	}
	for _, key := range cfg.Unknown {
		fmt.Fprintf(stdout, "  %-18s unknown key, ignored\n", key)
	}
	for _, w := range cfg.Warnings {
		fmt.Fprintf(stdout, "  warning: %s\n", w)
	}
	return nil
}
