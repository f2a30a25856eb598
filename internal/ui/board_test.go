package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/stickyweek/internal/config"
	"github.com/nibzard/stickyweek/internal/notes"
	"github.com/nibzard/stickyweek/internal/todo"
	"github.com/nibzard/stickyweek/internal/week"
)

// 2024-01-03 is a Wednesday.
var wednesday = time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)

type fakeTasks struct {
	saves int
	last  todo.Week
	err   error
}

func (f *fakeTasks) Load() (todo.Week, error) {
	if f.last == nil {
		return todo.NewWeek(), nil
	}
	return f.last.Clone(), nil
}

func (f *fakeTasks) Changed() (bool, error) { return false, nil }

func (f *fakeTasks) Save(w todo.Week) error {
	if f.err != nil {
		return f.err
	}
	f.saves++
	f.last = w.Clone()
	return nil
}

type fakeNotes struct {
	saves int
	last  notes.Week
	err   error
}

func (f *fakeNotes) Load() (notes.Week, error) {
	if f.last == nil {
		return notes.NewWeek(), nil
	}
	return f.last.Clone(), nil
}

func (f *fakeNotes) Changed() (bool, error) { return false, nil }

func (f *fakeNotes) Save(w notes.Week) error {
	if f.err != nil {
		return f.err
	}
	f.saves++
	f.last = w.Clone()
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Accent:           config.DefaultAccent,
		Today:            config.DefaultToday,
		Text:             config.DefaultText,
		DoneText:         config.DefaultDoneText,
		NoteText:         config.DefaultNoteText,
		Border:           config.DefaultBorder,
		Margin:           config.DefaultMargin,
		Padding:          config.DefaultPadding,
		ColumnGap:        config.DefaultColumnGap,
		FocusedStretch:   config.DefaultFocusedStretch,
		UnfocusedStretch: config.DefaultUnfocusedStretch,
	}
}

func newTestBoard(t *testing.T, w todo.Week) (*Board, *fakeTasks, *fakeNotes) {
	t.Helper()
	tasks := &fakeTasks{}
	nts := &fakeNotes{}
	b := NewBoard(BoardOptions{
		Config: testConfig(),
		Tasks:  tasks,
		Notes:  nts,
		Week:   w,
		Now:    func() time.Time { return wednesday },
	})
	return b, tasks, nts
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(b *Board, keys ...string) {
	for _, k := range keys {
		b.Update(key(k))
	}
}

func weekWith(d week.Day, descriptions ...string) todo.Week {
	w := todo.NewWeek()
	for _, desc := range descriptions {
		w.AddTask(d).SetDescription(desc)
	}
	return w
}

func TestBoardFocusesToday(t *testing.T) {
	b, _, _ := newTestBoard(t, nil)
	if b.focus != week.Wed || b.today != week.Wed {
		t.Fatalf("focus/today: got %s/%s, want Wed", b.focus, b.today)
	}

	press(b, "right", "right")
	if b.focus != week.Fri {
		t.Errorf("after right right: got %s, want Fri", b.focus)
	}
	press(b, "h", "h", "h", "h", "h")
	if b.focus != week.Sun {
		t.Errorf("left wraps to Sun, got %s", b.focus)
	}
	press(b, "t")
	if b.focus != week.Wed {
		t.Errorf("t returns to today, got %s", b.focus)
	}
}

func TestBoardAddAndEdit(t *testing.T) {
	b, tasks, _ := newTestBoard(t, nil)

	press(b, "a")
	if b.mode != modeEditTask {
		t.Fatalf("add should open the editor, mode %d", b.mode)
	}
	if got := len(b.Week().Day(week.Wed)); got != 1 {
		t.Fatalf("Wed tasks: got %d, want 1", got)
	}
	if tasks.saves != 1 {
		t.Errorf("add should save once, got %d", tasks.saves)
	}
	if desc := tasks.last[week.Wed][0].Description; desc != "" {
		t.Errorf("new task saved as %q, want empty", desc)
	}

	press(b, "Buy milk", "enter")
	if b.mode != modeBoard {
		t.Fatalf("enter should close the editor, mode %d", b.mode)
	}
	if got := b.Week().Day(week.Wed)[0].Description; got != "Buy milk" {
		t.Errorf("description: got %q, want Buy milk", got)
	}
	if tasks.saves != 2 || tasks.last[week.Wed][0].Description != "Buy milk" {
		t.Errorf("edit not written through: saves=%d last=%v", tasks.saves, tasks.last[week.Wed])
	}
}

func TestBoardEditCancel(t *testing.T) {
	b, tasks, _ := newTestBoard(t, weekWith(week.Wed, "Call mum"))

	press(b, "e", "!!!", "esc")
	if got := b.Week().Day(week.Wed)[0].Description; got != "Call mum" {
		t.Errorf("cancelled edit changed description to %q", got)
	}
	if tasks.saves != 0 {
		t.Errorf("cancelled edit saved %d times", tasks.saves)
	}
}

func TestBoardToggleAndDelete(t *testing.T) {
	b, tasks, _ := newTestBoard(t, weekWith(week.Wed, "one", "two", "three"))

	press(b, "j", "x")
	day := b.Week().Day(week.Wed)
	if !day[1].Done || day[0].Done {
		t.Fatalf("toggle hit the wrong task: %v %v", day[0].Done, day[1].Done)
	}
	if tasks.saves != 1 || !tasks.last[week.Wed][1].Done {
		t.Errorf("toggle not saved")
	}

	press(b, "x")
	if b.Week().Day(week.Wed)[1].Done {
		t.Error("second toggle should clear done")
	}

	press(b, "d")
	day = b.Week().Day(week.Wed)
	if len(day) != 2 || day[0].Description != "one" || day[1].Description != "three" {
		t.Fatalf("after delete: %v", descriptions(day))
	}
	if tasks.saves != 3 {
		t.Errorf("saves: got %d, want 3", tasks.saves)
	}

	press(b, "j", "j", "j", "d", "d", "d")
	if got := len(b.Week().Day(week.Wed)); got != 0 {
		t.Errorf("expected empty day, got %d tasks", got)
	}
	press(b, "d", "x", "e")
	if b.mode != modeBoard {
		t.Errorf("keys on an empty day must not open an editor")
	}
}

func TestBoardNote(t *testing.T) {
	b, _, nts := newTestBoard(t, nil)

	press(b, "n")
	if b.mode != modeEditNote {
		t.Fatalf("n should open the note editor, mode %d", b.mode)
	}
	press(b, "dentist 3pm", "esc")
	if b.mode != modeBoard {
		t.Fatalf("esc should close the note editor")
	}
	if got := b.Notes().Note(week.Wed); got != "dentist 3pm" {
		t.Errorf("note: got %q", got)
	}
	if nts.saves != 1 || nts.last.Note(week.Wed) != "dentist 3pm" {
		t.Errorf("note not written through: saves=%d", nts.saves)
	}
	if !strings.Contains(b.View(), "dentist 3pm") {
		t.Error("note should be shown on the board")
	}
}

func TestBoardClear(t *testing.T) {
	w := weekWith(week.Wed, "a", "b")
	w.AddTask(week.Fri).SetDescription("c")

	t.Run("day", func(t *testing.T) {
		b, tasks, nts := newTestBoard(t, w.Clone())
		b.Notes().SetNote(week.Wed, "gone")
		press(b, "c")
		if b.mode != modeClear {
			t.Fatalf("c should open the clear popup")
		}
		press(b, "d")
		if b.mode != modeBoard {
			t.Error("popup should close after clearing")
		}
		if len(b.Week().Day(week.Wed)) != 0 || len(b.Week().Day(week.Fri)) != 1 {
			t.Errorf("clear day touched the wrong days")
		}
		if b.Notes().Note(week.Wed) != "" {
			t.Error("clear day should clear the note")
		}
		if tasks.saves != 1 || nts.saves != 1 {
			t.Errorf("saves: tasks=%d notes=%d", tasks.saves, nts.saves)
		}
	})

	t.Run("week", func(t *testing.T) {
		b, _, _ := newTestBoard(t, w.Clone())
		press(b, "c", "w")
		for _, d := range week.Days {
			if n := len(b.Week().Day(d)); n != 0 {
				t.Errorf("%s: %d tasks left", d, n)
			}
		}
	})

	t.Run("close", func(t *testing.T) {
		b, tasks, _ := newTestBoard(t, w.Clone())
		press(b, "c", "esc")
		if b.mode != modeBoard || tasks.saves != 0 {
			t.Errorf("esc must close without clearing")
		}
	})
}

func TestBoardSaveFailureKeepsState(t *testing.T) {
	b, tasks, _ := newTestBoard(t, nil)
	tasks.err = errors.New("disk full")

	press(b, "a", "esc")
	if got := len(b.Week().Day(week.Wed)); got != 1 {
		t.Fatalf("in-memory task lost after failed save, got %d", got)
	}
	if !b.statusErr || !strings.Contains(b.status, "disk full") {
		t.Errorf("status: got %q (err=%v)", b.status, b.statusErr)
	}
	if !strings.Contains(b.View(), "disk full") {
		t.Error("error should be visible")
	}

	tasks.err = nil
	press(b, "x")
	if b.statusErr {
		t.Error("successful save should clear the error")
	}
}

func TestBoardConfigUpdate(t *testing.T) {
	b, _, _ := newTestBoard(t, nil)
	var applied *config.Config
	b.OnConfig = func(c *config.Config) { applied = c }

	next := testConfig()
	next.FocusedStretch = 3
	b.Update(configMsg{update: config.Update{Config: next}})
	if b.theme.FocusedStretch != 3 {
		t.Errorf("theme not rebuilt: stretch %d", b.theme.FocusedStretch)
	}
	if applied != next {
		t.Error("OnConfig not called")
	}

	b.Update(configMsg{update: config.Update{Err: errors.New("bad color")}})
	if b.theme.FocusedStretch != 3 {
		t.Error("failed reload must keep the previous theme")
	}
	if !b.statusErr || !strings.Contains(b.status, "bad color") {
		t.Errorf("status: got %q", b.status)
	}
}

func TestBoardQuit(t *testing.T) {
	b, _, nts := newTestBoard(t, nil)
	_, cmd := b.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}

	press(b, "n", "pending")
	_, cmd = b.Update(key("ctrl+c"))
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
	if b.Notes().Note(week.Wed) != "pending" || nts.saves != 1 {
		t.Error("ctrl+c should keep the note being edited")
	}
}

func TestBoardDayRollover(t *testing.T) {
	b, _, _ := newTestBoard(t, nil)
	b.Update(tickMsg(wednesday.Add(24 * time.Hour)))
	if b.today != week.Thu {
		t.Errorf("today: got %s, want Thu", b.today)
	}
	if b.focus != week.Wed {
		t.Error("rollover must not move the focus")
	}
}

func TestBoardView(t *testing.T) {
	b, _, _ := newTestBoard(t, weekWith(week.Wed, "Ship release"))
	b.Update(tea.WindowSizeMsg{Width: 160, Height: 30})

	view := b.View()
	for _, d := range week.Days {
		if !strings.Contains(view, string(d)) {
			t.Errorf("view missing %s", d)
		}
	}
	if !strings.Contains(view, "Ship release") {
		t.Error("view missing task")
	}
	if !strings.Contains(view, "Wed 0/1") {
		t.Error("focused header should show counts")
	}

	press(b, "?")
	if !strings.Contains(b.View(), "Keyboard Shortcuts") {
		t.Error("? should show help")
	}
	press(b, "z")
	if b.mode != modeBoard {
		t.Error("any key should close help")
	}
}

func TestColumnWidths(t *testing.T) {
	theme := NewTheme(testConfig())

	widths := theme.columnWidths(160, 2, 5)
	total := 0
	for i, w := range widths {
		total += w
		if i != 2 && w >= widths[2] {
			t.Errorf("column %d (%d) not narrower than focused (%d)", i, w, widths[2])
		}
	}
	if want := 160 - 2*theme.Margin - 6*theme.ColumnGap; total != want {
		t.Errorf("total width: got %d, want %d", total, want)
	}

	for _, w := range theme.columnWidths(20, 0, 5) {
		if w != 5 {
			t.Errorf("narrow terminal: got %d, want minimum 5", w)
		}
	}
}

// newDiskBoard returns a board backed by real stores in dir, loaded the way
// the board command loads them.
func newDiskBoard(t *testing.T, dir string) *Board {
	t.Helper()
	tasks := todo.NewStore(dir, nil)
	nts := notes.NewStore(dir, nil)
	w, err := tasks.Load()
	if err != nil {
		t.Fatal(err)
	}
	nw, err := nts.Load()
	if err != nil {
		t.Fatal(err)
	}
	return NewBoard(BoardOptions{
		Config: testConfig(),
		Tasks:  tasks,
		Notes:  nts,
		Week:   w,
		NoteWk: nw,
		Now:    func() time.Time { return wednesday },
	})
}

// writeElsewhere changes the files through separate stores, as a CLI
// command running next to the board does.
func writeElsewhere(t *testing.T, dir string, fn func(todo.Week, notes.Week)) {
	t.Helper()
	tasks := todo.NewStore(dir, nil)
	nts := notes.NewStore(dir, nil)
	w, err := tasks.Load()
	if err != nil {
		t.Fatal(err)
	}
	nw, err := nts.Load()
	if err != nil {
		t.Fatal(err)
	}
	fn(w, nw)
	if err := tasks.Save(w); err != nil {
		t.Fatal(err)
	}
	if err := nts.Save(nw); err != nil {
		t.Fatal(err)
	}
}

func onDisk(t *testing.T, dir string) (todo.Week, notes.Week) {
	t.Helper()
	w, err := todo.NewStore(dir, nil).Load()
	if err != nil {
		t.Fatal(err)
	}
	nw, err := notes.NewStore(dir, nil).Load()
	if err != nil {
		t.Fatal(err)
	}
	return w, nw
}

func TestBoardKeepsExternalWrites(t *testing.T) {
	t.Run("toggle", func(t *testing.T) {
		dir := t.TempDir()
		if err := todo.NewStore(dir, nil).Save(weekWith(week.Wed, "board task")); err != nil {
			t.Fatal(err)
		}
		b := newDiskBoard(t, dir)

		writeElsewhere(t, dir, func(w todo.Week, nw notes.Week) {
			w.AddTask(week.Wed).SetDescription("from cli")
			nw.SetNote(week.Mon, "cli note")
		})
		press(b, "x")

		w, _ := onDisk(t, dir)
		day := w.Day(week.Wed)
		if got := descriptions(day); strings.Join(got, ",") != "board task,from cli" {
			t.Fatalf("Wed on disk: got %v", got)
		}
		if !day[0].Done || day[1].Done {
			t.Errorf("toggle hit the wrong task: %v %v", day[0].Done, day[1].Done)
		}
		if !strings.Contains(b.status, "Reloaded") {
			t.Errorf("status: got %q", b.status)
		}
	})

	t.Run("note", func(t *testing.T) {
		dir := t.TempDir()
		b := newDiskBoard(t, dir)

		writeElsewhere(t, dir, func(w todo.Week, nw notes.Week) {
			nw.SetNote(week.Mon, "cli note")
		})
		press(b, "n", "board note", "esc")

		_, nw := onDisk(t, dir)
		if nw.Note(week.Mon) != "cli note" || nw.Note(week.Wed) != "board note" {
			t.Errorf("notes on disk: Mon=%q Wed=%q", nw.Note(week.Mon), nw.Note(week.Wed))
		}
	})

	t.Run("edit in progress", func(t *testing.T) {
		dir := t.TempDir()
		if err := todo.NewStore(dir, nil).Save(weekWith(week.Wed, "first", "second")); err != nil {
			t.Fatal(err)
		}
		b := newDiskBoard(t, dir)

		press(b, "j", "e")
		writeElsewhere(t, dir, func(w todo.Week, nw notes.Week) {
			w.AddTask(week.Wed).SetDescription("third")
		})
		press(b, "!", "enter")

		w, _ := onDisk(t, dir)
		if got := descriptions(w.Day(week.Wed)); strings.Join(got, ",") != "first,second!,third" {
			t.Errorf("Wed on disk: got %v", got)
		}
	})

	t.Run("clear day", func(t *testing.T) {
		dir := t.TempDir()
		b := newDiskBoard(t, dir)

		writeElsewhere(t, dir, func(w todo.Week, nw notes.Week) {
			w.AddTask(week.Fri).SetDescription("keep me")
			w.AddTask(week.Wed).SetDescription("clear me")
		})
		press(b, "c", "d")

		w, _ := onDisk(t, dir)
		if len(w.Day(week.Wed)) != 0 || len(w.Day(week.Fri)) != 1 {
			t.Errorf("after clear: Wed=%v Fri=%v", descriptions(w.Day(week.Wed)), descriptions(w.Day(week.Fri)))
		}
	})
}

func TestBoardTickShowsExternalWrites(t *testing.T) {
	dir := t.TempDir()
	b := newDiskBoard(t, dir)

	writeElsewhere(t, dir, func(w todo.Week, nw notes.Week) {
		w.AddTask(week.Wed).SetDescription("added elsewhere")
	})
	b.Update(tickMsg(wednesday.Add(time.Minute)))
	if !strings.Contains(b.View(), "added elsewhere") {
		t.Error("tick should pick up the new task")
	}
}

func TestBoardEditorWidth(t *testing.T) {
	b, _, _ := newTestBoard(t, weekWith(week.Wed, "task"))
	b.Update(tea.WindowSizeMsg{Width: 160, Height: 30})

	press(b, "e")
	widths := b.theme.columnWidths(160, week.Wed.Index(), minColumnWidth)
	want := columnInner(widths[week.Wed.Index()], b.theme.Padding) - len(checkbox) - 1
	if b.input.Width != want {
		t.Fatalf("input width: got %d, want %d", b.input.Width, want)
	}

	b.View()
	if b.input.Width != want {
		t.Error("View must not change the input width")
	}

	b.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if b.input.Width >= want {
		t.Errorf("input width should shrink with the window, got %d", b.input.Width)
	}
}

func TestBoardFlush(t *testing.T) {
	t.Run("task", func(t *testing.T) {
		b, tasks, _ := newTestBoard(t, weekWith(week.Wed, "draft"))
		press(b, "e", " v2")
		b.Flush()
		if b.mode != modeBoard {
			t.Error("Flush should close the editor")
		}
		if tasks.saves != 1 || tasks.last[week.Wed][0].Description != "draft v2" {
			t.Errorf("pending task edit not saved: saves=%d", tasks.saves)
		}
	})

	t.Run("note", func(t *testing.T) {
		b, _, nts := newTestBoard(t, nil)
		press(b, "n", "half written")
		b.Flush()
		if nts.saves != 1 || nts.last.Note(week.Wed) != "half written" {
			t.Errorf("pending note not saved: saves=%d", nts.saves)
		}
	})

	t.Run("idle", func(t *testing.T) {
		b, tasks, nts := newTestBoard(t, weekWith(week.Wed, "x"))
		b.Flush()
		if tasks.saves != 0 || nts.saves != 0 {
			t.Error("Flush without an edit must not save")
		}
	})
}

func descriptions(tasks []*todo.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Description
	}
	return out
}
