package cmd

import (
	"fmt"
	"os"

	"github.com/nibzard/stickyweek/internal/config"
	"github.com/nibzard/stickyweek/internal/datadir"
	"github.com/nibzard/stickyweek/internal/notes"
	"github.com/nibzard/stickyweek/internal/todo"
	"github.com/nibzard/stickyweek/internal/week"
)

// doctorCommand checks the data directory and files without changing them.
// loadErr is the error config.Load returned, if any; cfg then holds defaults.
func doctorCommand(cfg *config.Config, loadErr error, args []string) error {
	fs := newFlagSet("doctor")
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fmt.Fprintln(stdout, "stickyweek doctor")
	fmt.Fprintln(stdout, "=================")
	fmt.Fprintln(stdout)

	allOK := true

	// Data directory
	fmt.Fprintf(stdout, "Data dir: %s\n", cfg.DataDir)
	if info, err := os.Stat(cfg.DataDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(stdout, "  ⚠️  Not found (will be created on first use)")
		} else {
			fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(stdout, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
	}
	fmt.Fprintln(stdout)

	// Config file
	fmt.Fprintf(stdout, "Config file: %s\n", cfg.ConfigFile)
	_, statErr := os.Stat(cfg.ConfigFile)
	switch {
	case statErr != nil && !os.IsNotExist(statErr):
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", statErr)
		allOK = false
	case loadErr != nil:
		fmt.Fprintf(stdout, "  ❌ %v\n", loadErr)
		allOK = false
	case statErr != nil:
		fmt.Fprintln(stdout, "  ⚠️  Not found (defaults in use, will be written on first use)")
	default:
		fmt.Fprintln(stdout, "  ✅ Valid")
	}
	for _, key := range cfg.Unknown {
		fmt.Fprintf(stdout, "  ⚠️  Unknown key: %s\n", key)
	}
	for _, w := range cfg.Warnings {
		fmt.Fprintf(stdout, "  ⚠️  %s\n", w)
	}
	fmt.Fprintln(stdout)

	// Tasks
	tasks := &todo.Store{Path: datadir.TasksPath(cfg.DataDir)}
	fmt.Fprintf(stdout, "Tasks file: %s\n", tasks.Path)
	if exists, ok := checkFile(tasks.Path); !ok {
		allOK = false
	} else if exists {
		w, err := tasks.Current()
		switch {
		case err != nil:
			fmt.Fprintf(stdout, "  ❌ %v\n", err)
			allOK = false
		case *verbose:
			fmt.Fprintln(stdout, "  ✅ Valid")
			for _, d := range week.Days {
				done, total := w.Counts(d)
				fmt.Fprintf(stdout, "    %s: %d/%d done\n", d, done, total)
			}
		default:
			fmt.Fprintln(stdout, "  ✅ Valid")
		}
	}

	legacy := datadir.LegacyPath(cfg.DataDir)
	if _, err := os.Stat(legacy); err == nil {
		fmt.Fprintf(stdout, "  ⚠️  Legacy file %s will be migrated on next use (replaces tasks file)\n", legacy)
	}
	fmt.Fprintln(stdout)

	// Notes
	noteStore := &notes.Store{Path: datadir.NotesPath(cfg.DataDir)}
	fmt.Fprintf(stdout, "Notes file: %s\n", noteStore.Path)
	if exists, ok := checkFile(noteStore.Path); !ok {
		allOK = false
	} else if exists {
		if _, err := noteStore.Load(); err != nil {
			fmt.Fprintf(stdout, "  ❌ %v\n", err)
			allOK = false
		} else {
			fmt.Fprintln(stdout, "  ✅ Valid")
		}
	}
	fmt.Fprintln(stdout)

	fmt.Fprintf(stdout, "Log file: %s\n", datadir.LogPath(cfg.DataDir))
	fmt.Fprintln(stdout)

	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// checkFile reports whether path exists and whether it is usable as a data
// file. A missing file is fine: the store starts empty.
func checkFile(path string) (exists, ok bool) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(stdout, "  ⚠️  Not found (starts empty)")
			return false, true
		}
		fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
		return false, false
	}
	if info.IsDir() {
		fmt.Fprintln(stdout, "  ❌ Error: path is a directory")
		return true, false
	}
	return true, true
}
