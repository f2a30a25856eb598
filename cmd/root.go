// Package cmd implements the CLI command structure for stickyweek.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/stickyweek/internal/config"
	"github.com/nibzard/stickyweek/internal/datadir"
	"github.com/nibzard/stickyweek/internal/logging"
	"github.com/nibzard/stickyweek/internal/notes"
	"github.com/nibzard/stickyweek/internal/todo"
	"github.com/nibzard/stickyweek/internal/week"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the stickyweek CLI.
func Run(ctx context.Context, args []string) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("stickyweek", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags. A bad config file still yields cfg so that help, doctor
	// and config can run.
	cfg, loadErr := config.Load(fs, args)
	if cfg == nil {
		return fmt.Errorf("loading config: %w", loadErr)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// No command runs the board.
	subcommand := "board"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "doctor":
		return doctorCommand(cfg, loadErr, remainingArgs)
	case "config":
		return configCommand(cfg, loadErr, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	}
	if loadErr != nil {
		return fmt.Errorf("loading config: %w", loadErr)
	}

	switch subcommand {
	case "board":
		return boardCommand(ctx, cfg, remainingArgs)
	case "ls":
		return lsCommand(cfg, remainingArgs)
	case "add":
		return addCommand(cfg, remainingArgs)
	case "edit":
		return editCommand(cfg, remainingArgs)
	case "done":
		return doneCommand(cfg, remainingArgs, true)
	case "undo":
		return doneCommand(cfg, remainingArgs, false)
	case "rm":
		return rmCommand(cfg, remainingArgs)
	case "note":
		return noteCommand(cfg, remainingArgs)
	case "clear":
		return clearCommand(cfg, remainingArgs)
	case "migrate":
		return migrateCommand(cfg, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// app holds what the data commands share: the logger and both stores.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	logFile *logging.File
	tasks   *todo.Store
	notes   *notes.Store
}

// openApp prepares the data directory, writes the default config if none
// exists and opens the log file.
func openApp(cfg *config.Config) (*app, error) {
	if err := datadir.Ensure(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	logFile, err := logging.Open(datadir.LogPath(cfg.DataDir))
	if err != nil {
		return nil, err
	}
	logger := logging.New(logFile.Writer(), logging.OptionsFromConfig(cfg))

	created, err := config.EnsureFile(cfg.ConfigFile)
	if err != nil {
		logger.Warn("could not write default config", "path", cfg.ConfigFile, "error", err)
	} else if created {
		logger.Info("wrote default config", "path", cfg.ConfigFile)
	}
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}
	for _, key := range cfg.Unknown {
		logger.Warn("unknown config key", "key", key, "path", cfg.ConfigFile)
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		logFile: logFile,
		tasks:   todo.NewStore(cfg.DataDir, logger),
		notes:   notes.NewStore(cfg.DataDir, logger),
	}, nil
}

func (a *app) Close() error {
	return a.logFile.Close()
}

// newFlagSet returns a sub-command flag set that reports to stderr.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("stickyweek "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

// parseDay accepts a day name or "today".
func parseDay(s string) (week.Day, error) {
	if strings.EqualFold(strings.TrimSpace(s), "today") {
		return week.Today(), nil
	}
	return week.Parse(s)
}

// parseTaskNumber parses a 1-based task number.
func parseTaskNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid task number %q (want 1, 2, ...)", s)
	}
	return n, nil
}

func versionCommand() error {
	fmt.Fprintf(stdout, "stickyweek version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "stickyweek - A week of sticky notes in your terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  stickyweek [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  board                     Show the week board (default command)")
	fmt.Fprintln(w, "  ls [day]                  List tasks and notes")
	fmt.Fprintln(w, "  add <day> <text...>       Add a task")
	fmt.Fprintln(w, "  edit <day> <n> <text...>  Replace the text of task n")
	fmt.Fprintln(w, "  done <day> <n>            Mark task n done")
	fmt.Fprintln(w, "  undo <day> <n>            Mark task n not done")
	fmt.Fprintln(w, "  rm <day> <n>              Delete task n")
	fmt.Fprintln(w, "  note <day> [text...]      Show or replace the day's note")
	fmt.Fprintln(w, "  clear <day>|week          Clear tasks and notes")
	fmt.Fprintln(w, "  migrate                   Convert legacy data.pkl to tasks.json")
	fmt.Fprintln(w, "  doctor                    Check the data directory and files")
	fmt.Fprintln(w, "  config                    Show the effective configuration")
	fmt.Fprintln(w, "  tail                      Show the log file")
	fmt.Fprintln(w, "  version                   Show version information")
	fmt.Fprintln(w, "  help                      Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Days are Mon..Sun, full names, or \"today\". Task numbers start at 1.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -json    Print tasks in tasks.json format")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -toml    Print the effective configuration as TOML")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options:")
	fmt.Fprintln(w, "  -f, -follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
