package config

import (
	"flag"
)

// flagValues keeps the parsed global flags so a reload can apply them again.
type flagValues struct {
	dataDir    string
	configFile string
	logLevel   string
	logFormat  string
	set        map[string]bool
}

// bindFlags defines the global flags on fs.
func bindFlags(fs *flag.FlagSet) *flagValues {
	fv := &flagValues{set: make(map[string]bool)}
	fs.StringVar(&fv.dataDir, "data-dir", "", "Directory holding tasks, notes and config (default: platform config dir)")
	fs.StringVar(&fv.configFile, "config", "", "Path to config file (default: <data-dir>/config.toml)")
	fs.StringVar(&fv.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	fs.StringVar(&fv.logFormat, "log-format", "", "Log format (text|json|logfmt)")
	return fv
}

// parse parses args and records which flags were given explicitly.
func (fv *flagValues) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		fv.set[f.Name] = true
	})
	return nil
}

func (fv *flagValues) isSet(name string) bool {
	return fv != nil && fv.set[name]
}

// apply overrides cfg with explicitly set non-path flags.
func (fv *flagValues) apply(cfg *Config) {
	if fv.isSet("log-level") {
		cfg.LogLevel = fv.logLevel
		cfg.Sources["log_level"] = SourceFlag
	}
	if fv.isSet("log-format") {
		cfg.LogFormat = fv.logFormat
		cfg.Sources["log_format"] = SourceFlag
	}
}
