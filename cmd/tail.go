package cmd

import (
	"context"
	"fmt"

	"github.com/nibzard/stickyweek/internal/config"
	"github.com/nibzard/stickyweek/internal/datadir"
	"github.com/nibzard/stickyweek/internal/logging"
)

// tailCommand shows the log file.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := newFlagSet("tail")
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	logPath, err := logging.FindLatestLog(datadir.LogPath(cfg.DataDir))
	if err != nil {
		return fmt.Errorf("finding log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(stdout, "No log file found.")
		return nil
	}

	fmt.Fprintf(stdout, "Tailing: %s\n", logPath)
	if *follow {
		fmt.Fprintln(stdout, "(Ctrl+C to stop)")
	}
	fmt.Fprintln(stdout)

	return logging.TailLog(ctx, stdout, logPath, *n, *follow)
}
