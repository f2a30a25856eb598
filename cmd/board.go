package cmd

import (
	"context"
	"fmt"

	"github.com/nibzard/stickyweek/internal/config"
	"github.com/nibzard/stickyweek/internal/datadir"
	"github.com/nibzard/stickyweek/internal/instance"
	"github.com/nibzard/stickyweek/internal/logging"
	"github.com/nibzard/stickyweek/internal/ui"
)

// boardCommand takes over from any running board and shows the week.
func boardCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("board")
	noWatch := fs.Bool("no-watch", false, "Do not reload the config file when it changes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// Loading before taking over keeps a running board alive when the
	// files are unreadable.
	tasks, err := a.tasks.Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	notesWeek, err := a.notes.Load()
	if err != nil {
		return fmt.Errorf("loading notes: %w", err)
	}

	var guard instance.Guard = instance.NewPIDFile(datadir.PidPath(cfg.DataDir), a.logger)
	if err := guard.Acquire(ctx); err != nil {
		return fmt.Errorf("acquiring instance: %w", err)
	}
	defer func() {
		if err := guard.Release(); err != nil {
			a.logger.Warn("release instance", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := ui.BoardOptions{
		Config: cfg,
		Tasks:  a.tasks,
		Notes:  a.notes,
		Week:   tasks,
		NoteWk: notesWeek,
		Logger: a.logger,
	}
	if !*noWatch {
		watcher, err := config.NewWatcher(cfg, a.logger)
		if err != nil {
			a.logger.Warn("config hot reload disabled", "error", err)
		} else {
			defer watcher.Close()
			go watcher.Run(ctx)
			opts.Updates = watcher.Updates()
		}
	}

	board := ui.NewBoard(opts)
	board.OnConfig = func(c *config.Config) {
		logging.OptionsFromConfig(c).Apply(a.logger)
	}

	a.logger.Info("board started", "data_dir", cfg.DataDir)
	if _, err := ui.Run(ctx, board); err != nil {
		return err
	}
	a.logger.Info("board closed")
	return nil
}
