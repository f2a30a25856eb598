package cmd

import (
	"fmt"
	"strings"

	"github.com/nibzard/stickyweek/internal/config"
	"github.com/nibzard/stickyweek/internal/notes"
	"github.com/nibzard/stickyweek/internal/todo"
	"github.com/nibzard/stickyweek/internal/week"
)

// withWeek loads the task week, runs fn and saves when fn reports a change.
func withWeek(cfg *config.Config, fn func(a *app, w todo.Week) (bool, error)) error {
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	w, err := a.tasks.Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	changed, err := fn(a, w)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if err := a.tasks.Save(w); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	return nil
}

// lsCommand prints the week, or one day.
func lsCommand(cfg *config.Config, args []string) error {
	fs := newFlagSet("ls")
	asJSON := fs.Bool("json", false, "Print tasks in tasks.json format")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	days := week.Days
	if len(remaining) == 1 {
		d, err := parseDay(remaining[0])
		if err != nil {
			return err
		}
		days = []week.Day{d}
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	w, err := a.tasks.Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	if *asJSON {
		data, err := w.Encode()
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	nw, err := a.notes.Load()
	if err != nil {
		return fmt.Errorf("loading notes: %w", err)
	}

	today := week.Today()
	for i, d := range days {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		printDay(d, d == today, w, nw)
	}
	return nil
}

func printDay(d week.Day, today bool, w todo.Week, nw notes.Week) {
	done, total := w.Counts(d)
	label := string(d)
	if today {
		label += " (today)"
	}
	if total > 0 {
		fmt.Fprintf(stdout, "%s  %d/%d\n", label, done, total)
	} else {
		fmt.Fprintln(stdout, label)
	}

	tasks := w.Day(d)
	if len(tasks) == 0 {
		fmt.Fprintln(stdout, "  (no tasks)")
	}
	for i, t := range tasks {
		box := "[ ]"
		if t.Done {
			box = "[x]"
		}
		fmt.Fprintf(stdout, "  %d. %s %s\n", i+1, box, t.Description)
	}
	if note := nw.Note(d); note != "" {
		for _, line := range strings.Split(note, "\n") {
			fmt.Fprintf(stdout, "  > %s\n", line)
		}
	}
}

// addCommand appends a task to a day.
func addCommand(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: stickyweek add <day> <text...>")
	}
	d, err := parseDay(args[0])
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")

	return withWeek(cfg, func(a *app, w todo.Week) (bool, error) {
		w.AddTask(d).SetDescription(text)
		n := len(w.Day(d))
		a.logger.Info("added task", "day", d, "n", n)
		fmt.Fprintf(stdout, "Added %s #%d: %s\n", d, n, text)
		return true, nil
	})
}

// editCommand replaces a task's description.
func editCommand(cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: stickyweek edit <day> <n> <text...>")
	}
	d, n, err := parseDayTask(args[0], args[1])
	if err != nil {
		return err
	}
	text := strings.Join(args[2:], " ")

	return withWeek(cfg, func(a *app, w todo.Week) (bool, error) {
		t, err := w.At(d, n-1)
		if err != nil {
			return false, err
		}
		t.SetDescription(text)
		a.logger.Info("edited task", "day", d, "n", n)
		fmt.Fprintf(stdout, "Edited %s #%d: %s\n", d, n, text)
		return true, nil
	})
}

// doneCommand sets or clears a task's done flag.
func doneCommand(cfg *config.Config, args []string, done bool) error {
	if len(args) != 2 {
		if done {
			return fmt.Errorf("usage: stickyweek done <day> <n>")
		}
		return fmt.Errorf("usage: stickyweek undo <day> <n>")
	}
	d, n, err := parseDayTask(args[0], args[1])
	if err != nil {
		return err
	}

	return withWeek(cfg, func(a *app, w todo.Week) (bool, error) {
		t, err := w.At(d, n-1)
		if err != nil {
			return false, err
		}
		t.SetDone(done)
		a.logger.Info("set task done", "day", d, "n", n, "done", done)
		box := "[ ]"
		if done {
			box = "[x]"
		}
		fmt.Fprintf(stdout, "%s %s #%d: %s\n", box, d, n, t.Description)
		return true, nil
	})
}

// rmCommand deletes a task.
func rmCommand(cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: stickyweek rm <day> <n>")
	}
	d, n, err := parseDayTask(args[0], args[1])
	if err != nil {
		return err
	}

	return withWeek(cfg, func(a *app, w todo.Week) (bool, error) {
		t, err := w.RemoveAt(d, n-1)
		if err != nil {
			return false, err
		}
		a.logger.Info("removed task", "day", d, "n", n)
		fmt.Fprintf(stdout, "Removed %s #%d: %s\n", d, n, t.Description)
		return true, nil
	})
}

// noteCommand prints a day's note, or replaces it when text is given.
func noteCommand(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: stickyweek note <day> [text...]")
	}
	d, err := parseDay(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	nw, err := a.notes.Load()
	if err != nil {
		return fmt.Errorf("loading notes: %w", err)
	}
	if len(args) == 1 {
		if note := nw.Note(d); note != "" {
			fmt.Fprintln(stdout, note)
		}
		return nil
	}

	text := strings.Join(args[1:], " ")
	nw.SetNote(d, text)
	if err := a.notes.Save(nw); err != nil {
		return fmt.Errorf("saving notes: %w", err)
	}
	a.logger.Info("set note", "day", d)
	fmt.Fprintf(stdout, "Note for %s saved\n", d)
	return nil
}

// clearCommand clears tasks and notes for one day or the whole week.
func clearCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: stickyweek clear <day>|week")
	}
	all := strings.EqualFold(args[0], "week")
	var d week.Day
	if !all {
		var err error
		if d, err = parseDay(args[0]); err != nil {
			return err
		}
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	w, err := a.tasks.Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	nw, err := a.notes.Load()
	if err != nil {
		return fmt.Errorf("loading notes: %w", err)
	}

	if all {
		w.ClearWeek()
		nw.ClearWeek()
	} else {
		w.ClearDay(d)
		nw.ClearDay(d)
	}
	if err := a.tasks.Save(w); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	if err := a.notes.Save(nw); err != nil {
		return fmt.Errorf("saving notes: %w", err)
	}

	if all {
		a.logger.Info("cleared week")
		fmt.Fprintln(stdout, "Cleared week")
	} else {
		a.logger.Info("cleared day", "day", d)
		fmt.Fprintf(stdout, "Cleared %s\n", d)
	}
	return nil
}

// migrateCommand converts a legacy data.pkl if one exists.
func migrateCommand(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	w, migrated, err := a.tasks.Migrate()
	if err != nil {
		return fmt.Errorf("migrating %s: %w", a.tasks.LegacyPath, err)
	}
	if !migrated {
		fmt.Fprintf(stdout, "No legacy data at %s\n", a.tasks.LegacyPath)
		return nil
	}
	total := 0
	for _, d := range week.Days {
		total += len(w.Day(d))
	}
	fmt.Fprintf(stdout, "Migrated %d tasks from %s to %s\n", total, a.tasks.LegacyPath, a.tasks.Path)
	return nil
}

func parseDayTask(day, num string) (week.Day, int, error) {
	d, err := parseDay(day)
	if err != nil {
		return "", 0, err
	}
	n, err := parseTaskNumber(num)
	if err != nil {
		return "", 0, err
	}
	return d, n, nil
}
