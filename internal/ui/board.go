package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nibzard/stickyweek/internal/config"
	"github.com/nibzard/stickyweek/internal/notes"
	"github.com/nibzard/stickyweek/internal/todo"
	"github.com/nibzard/stickyweek/internal/week"
)

// TaskStore persists the task week. Changed reports whether another writer
// replaced the file since the store last loaded or saved it.
type TaskStore interface {
	Load() (todo.Week, error)
	Save(todo.Week) error
	Changed() (bool, error)
}

// NoteStore persists the note week.
type NoteStore interface {
	Load() (notes.Week, error)
	Save(notes.Week) error
	Changed() (bool, error)
}

type mode int

const (
	modeBoard mode = iota
	modeEditTask
	modeEditNote
	modeClear
	modeHelp
)

const (
	newTaskPlaceholder = "New Task"
	minColumnWidth     = 5
	checkbox           = "[ ] "
)

// Board is the bubbletea model for the week view.
type Board struct {
	cfg     *config.Config
	theme   Theme
	tasks   TaskStore
	notes   NoteStore
	week    todo.Week
	noteWk  notes.Week
	logger  *log.Logger
	updates <-chan config.Update

	// OnConfig is called with every successfully reloaded config.
	OnConfig func(*config.Config)

	now    func() time.Time
	today  week.Day
	focus  week.Day
	cursor map[week.Day]int

	mode      mode
	editID    string
	editIndex int
	editOrig  string
	input  textinput.Model
	area   textarea.Model

	status    string
	statusErr bool
	width     int
	height    int

	tickInterval time.Duration
}

// BoardOptions configures NewBoard.
type BoardOptions struct {
	Config  *config.Config
	Tasks   TaskStore
	Notes   NoteStore
	Week    todo.Week
	NoteWk  notes.Week
	Updates <-chan config.Update
	Logger  *log.Logger
	Now     func() time.Time
}

type tickMsg time.Time

type configMsg struct {
	update config.Update
}

type watcherClosedMsg struct{}

// NewBoard creates the board focused on today.
func NewBoard(opts BoardOptions) *Board {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	w := opts.Week
	if w == nil {
		w = todo.NewWeek()
	}
	nw := opts.NoteWk
	if nw == nil {
		nw = notes.NewWeek()
	}

	input := textinput.New()
	input.Placeholder = newTaskPlaceholder
	input.Prompt = ""

	area := textarea.New()
	area.ShowLineNumbers = false
	area.Placeholder = "Note"

	today := week.Of(now())
	b := &Board{
		cfg:          opts.Config,
		theme:        NewTheme(opts.Config),
		tasks:        opts.Tasks,
		notes:        opts.Notes,
		week:         w,
		noteWk:       nw,
		logger:       logger,
		updates:      opts.Updates,
		now:          now,
		today:        today,
		focus:        today,
		cursor:       make(map[week.Day]int),
		input:        input,
		area:         area,
		width:        120,
		height:       24,
		tickInterval: time.Minute,
	}
	b.sizeEditors()
	return b
}

func (m *Board) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tickInterval)}
	if m.updates != nil {
		cmds = append(cmds, waitForUpdate(m.updates))
	}
	return tea.Batch(cmds...)
}

func (m *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.sizeEditors()
		return m, nil
	case tickMsg:
		m.today = week.Of(time.Time(msg))
		if m.mode == modeBoard {
			m.syncTasks()
			m.syncNotes()
		}
		return m, tickCmd(m.tickInterval)
	case configMsg:
		m.applyConfig(msg.update)
		return m, waitForUpdate(m.updates)
	case watcherClosedMsg:
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.commitEdit()
			return m, tea.Quit
		}
		switch m.mode {
		case modeEditTask:
			return m.updateEditTask(msg)
		case modeEditNote:
			return m.updateEditNote(msg)
		case modeClear:
			return m.updateClear(msg)
		case modeHelp:
			m.mode = modeBoard
			return m, nil
		}
		return m.updateBoard(msg)
	}

	switch m.mode {
	case modeEditTask:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case modeEditNote:
		var cmd tea.Cmd
		m.area, cmd = m.area.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Board) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h", "shift+tab":
		m.setFocus(m.focus.Prev())
		m.sizeEditors()
	case "right", "l", "tab":
		m.setFocus(m.focus.Next())
		m.sizeEditors()
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "t":
		m.setFocus(m.today)
		m.sizeEditors()
	case " ", "x":
		if !m.syncTasks() {
			return m, nil
		}
		if t := m.selected(); t != nil {
			t.Toggle()
			m.saveTasks()
		}
	case "a", "+":
		if !m.syncTasks() {
			return m, nil
		}
		return m, m.addTask()
	case "e", "enter":
		if !m.syncTasks() {
			return m, nil
		}
		if t := m.selected(); t != nil {
			return m, m.startEditTask(t)
		}
	case "d", "delete":
		m.deleteSelected()
	case "n":
		if !m.syncNotes() {
			return m, nil
		}
		return m, m.startEditNote()
	case "c":
		m.mode = modeClear
	case "?":
		m.mode = modeHelp
	}
	return m, nil
}

func (m *Board) updateEditTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.commitEdit()
		return m, nil
	case "esc":
		m.cancelEdit()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Board) updateEditNote(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+s":
		m.commitEdit()
		return m, nil
	}
	var cmd tea.Cmd
	m.area, cmd = m.area.Update(msg)
	return m, cmd
}

func (m *Board) updateClear(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "d":
		m.clearDay(m.focus)
	case "w":
		m.clearWeek()
	case "esc", "c", "q":
	default:
		return m, nil
	}
	m.mode = modeBoard
	return m, nil
}

func (m *Board) setFocus(d week.Day) {
	m.focus = d
	m.clampCursor()
}

func (m *Board) moveCursor(delta int) {
	m.cursor[m.focus] += delta
	m.clampCursor()
}

func (m *Board) clampCursor() {
	n := len(m.week.Day(m.focus))
	c := m.cursor[m.focus]
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	m.cursor[m.focus] = c
}

// selected returns the task under the cursor in the focused day.
func (m *Board) selected() *todo.Task {
	t, err := m.week.At(m.focus, m.cursor[m.focus])
	if err != nil {
		return nil
	}
	return t
}

func (m *Board) addTask() tea.Cmd {
	t := m.week.AddTask(m.focus)
	m.cursor[m.focus] = len(m.week.Day(m.focus)) - 1
	m.saveTasks()
	return m.startEditTask(t)
}

func (m *Board) startEditTask(t *todo.Task) tea.Cmd {
	m.mode = modeEditTask
	m.editID = t.ID
	m.editIndex = m.week.Index(m.focus, t.ID)
	m.editOrig = t.Description
	m.sizeEditors()
	m.input.SetValue(t.Description)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Board) startEditNote() tea.Cmd {
	m.mode = modeEditNote
	m.area.SetValue(m.noteWk.Note(m.focus))
	m.sizeEditors()
	m.area.SetHeight(5)
	return m.area.Focus()
}

// sizeEditors fits the task input to the focused column and the note
// editor to the screen.
func (m *Board) sizeEditors() {
	i := m.focus.Index()
	if i < 0 {
		return
	}
	widths := m.theme.columnWidths(m.width, i, minColumnWidth)
	w := columnInner(widths[i], m.theme.Padding) - len(checkbox) - 1
	if w < 1 {
		w = 1
	}
	m.input.Width = w
	m.area.SetWidth(m.editorWidth())
}

// Flush saves an edit that is still open and returns to the board. Run calls
// it once the program has stopped, so an edit cut short by a signal or a
// cancelled context is kept.
func (m *Board) Flush() {
	if m.mode == modeEditTask || m.mode == modeEditNote {
		m.commitEdit()
	}
}

// commitEdit stores the text being edited, if any, and returns to the board.
func (m *Board) commitEdit() {
	switch m.mode {
	case modeEditTask:
		synced := m.syncTasks()
		text := m.input.Value()
		t := m.editedTask()
		if t == nil && text != "" {
			// Removed by another writer while being edited; keep the text.
			t = m.week.AddTask(m.focus)
		}
		if t != nil && text != t.Description {
			t.SetDescription(text)
			if synced {
				m.saveTasks()
			}
		}
		m.input.Blur()
	case modeEditNote:
		synced := m.syncNotes()
		text := m.area.Value()
		if text != m.noteWk.Note(m.focus) {
			m.noteWk.SetNote(m.focus, text)
			if synced {
				m.saveNotes()
			}
		}
		m.area.Blur()
	}
	m.editID = ""
	m.mode = modeBoard
}

// editedTask finds the task being edited. After a reload IDs are new, so the
// task is matched by its position and original text instead.
func (m *Board) editedTask() *todo.Task {
	if t := m.week.Task(m.focus, m.editID); t != nil {
		return t
	}
	tasks := m.week.Day(m.focus)
	if m.editIndex >= 0 && m.editIndex < len(tasks) && tasks[m.editIndex].Description == m.editOrig {
		return tasks[m.editIndex]
	}
	for _, t := range tasks {
		if t.Description == m.editOrig {
			return t
		}
	}
	return nil
}

func (m *Board) cancelEdit() {
	m.input.Blur()
	m.area.Blur()
	m.editID = ""
	m.mode = modeBoard
}

func (m *Board) deleteSelected() {
	if !m.syncTasks() {
		return
	}
	t := m.selected()
	if t == nil {
		return
	}
	if err := m.week.RemoveTask(m.focus, t.ID); err != nil {
		m.setError(err)
		return
	}
	m.clampCursor()
	m.saveTasks()
}

func (m *Board) clearDay(d week.Day) {
	if !m.syncTasks() || !m.syncNotes() {
		return
	}
	m.week.ClearDay(d)
	m.noteWk.ClearDay(d)
	m.cursor[d] = 0
	if m.saveTasks() && m.saveNotes() {
		m.setStatus(fmt.Sprintf("Cleared %s", d))
	}
}

func (m *Board) clearWeek() {
	if !m.syncTasks() || !m.syncNotes() {
		return
	}
	m.week.ClearWeek()
	m.noteWk.ClearWeek()
	m.cursor = make(map[week.Day]int)
	if m.saveTasks() && m.saveNotes() {
		m.setStatus("Cleared week")
	}
}

// syncTasks reloads the task week if another writer, such as a CLI command,
// replaced the file since the board last read or wrote it. It reports
// whether the board may go on to change and save the week.
func (m *Board) syncTasks() bool {
	if m.tasks == nil {
		return true
	}
	changed, err := m.tasks.Changed()
	if err != nil {
		m.setError(err)
		return false
	}
	if !changed {
		return true
	}
	w, err := m.tasks.Load()
	if err != nil {
		m.setError(fmt.Errorf("tasks changed on disk: %w", err))
		return false
	}
	m.week = w
	m.clampCursor()
	m.logger.Info("reloaded tasks changed on disk")
	m.setStatus("Reloaded tasks changed on disk")
	return true
}

func (m *Board) syncNotes() bool {
	if m.notes == nil {
		return true
	}
	changed, err := m.notes.Changed()
	if err != nil {
		m.setError(err)
		return false
	}
	if !changed {
		return true
	}
	nw, err := m.notes.Load()
	if err != nil {
		m.setError(fmt.Errorf("notes changed on disk: %w", err))
		return false
	}
	m.noteWk = nw
	m.logger.Info("reloaded notes changed on disk")
	m.setStatus("Reloaded notes changed on disk")
	return true
}

// saveTasks writes the task week through to disk. On failure the in-memory
// state is kept and the error shown.
func (m *Board) saveTasks() bool {
	if m.tasks == nil {
		return true
	}
	if err := m.tasks.Save(m.week); err != nil {
		m.setError(err)
		return false
	}
	m.clearStatusError()
	return true
}

func (m *Board) saveNotes() bool {
	if m.notes == nil {
		return true
	}
	if err := m.notes.Save(m.noteWk); err != nil {
		m.setError(err)
		return false
	}
	m.clearStatusError()
	return true
}

func (m *Board) applyConfig(u config.Update) {
	if u.Err != nil {
		m.setError(fmt.Errorf("config: %w", u.Err))
		return
	}
	m.cfg = u.Config
	m.theme = NewTheme(u.Config)
	m.sizeEditors()
	if m.OnConfig != nil {
		m.OnConfig(u.Config)
	}
	m.setStatus("Config reloaded")
}

func (m *Board) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Board) setError(err error) {
	m.logger.Error("board", "error", err)
	m.status = err.Error()
	m.statusErr = true
}

func (m *Board) clearStatusError() {
	if m.statusErr {
		m.status = ""
		m.statusErr = false
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForUpdate(ch <-chan config.Update) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return watcherClosedMsg{}
		}
		return configMsg{update: u}
	}
}

// View renders the week.
func (m *Board) View() string {
	var b strings.Builder
	b.WriteString(m.renderColumns())
	b.WriteString("\n")

	switch m.mode {
	case modeEditNote:
		b.WriteString(m.theme.Header.Render("Note for "+string(m.focus)) + "\n")
		b.WriteString(m.area.View() + "\n")
		b.WriteString(m.theme.Help.Render("esc save note") + "\n")
	case modeEditTask:
		b.WriteString(m.theme.Help.Render("enter save | esc cancel") + "\n")
	case modeClear:
		return m.overlay(m.renderClearPopup())
	case modeHelp:
		return m.overlay(m.renderHelp())
	default:
		b.WriteString(m.renderStatus())
	}
	return lipgloss.NewStyle().Margin(0, m.theme.Margin).Render(b.String())
}

func (m *Board) overlay(box string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Board) renderColumns() string {
	widths := m.theme.columnWidths(m.width, m.focus.Index(), minColumnWidth)

	cols := make([]string, 0, 2*len(week.Days)-1)
	for i, d := range week.Days {
		if i > 0 && m.theme.ColumnGap > 0 {
			cols = append(cols, strings.Repeat(" ", m.theme.ColumnGap))
		}
		cols = append(cols, m.renderDay(d, widths[i]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m *Board) renderDay(d week.Day, width int) string {
	style := m.theme.Column
	if d == m.focus {
		style = m.theme.FocusedColumn
	}
	inner := columnInner(width, m.theme.Padding)
	line := lipgloss.NewStyle().MaxWidth(inner)

	var rows []string
	header := string(d)
	if done, total := m.week.Counts(d); total > 0 && d == m.focus {
		header = fmt.Sprintf("%s %d/%d", d, done, total)
	}
	if d == m.today {
		rows = append(rows, line.Render(m.theme.TodayHeader.Render(header)))
	} else {
		rows = append(rows, line.Render(m.theme.Header.Render(header)))
	}

	for i, t := range m.week.Day(d) {
		rows = append(rows, line.Render(m.renderTask(d, i, t)))
	}

	if note := m.noteWk.Note(d); note != "" && !(m.mode == modeEditNote && d == m.focus) {
		rows = append(rows, "")
		for _, l := range strings.Split(note, "\n") {
			rows = append(rows, line.Render(m.theme.Note.Render(l)))
		}
	}
	if d == m.focus && m.mode == modeBoard {
		rows = append(rows, line.Render(m.theme.Help.Render("+")))
	}

	return style.Width(width - 2).Render(strings.Join(rows, "\n"))
}

// columnInner is the text width of a column: borders take one cell on each
// side, padding the rest.
func columnInner(width, padding int) int {
	inner := width - 2 - 2*padding
	if inner < 1 {
		inner = 1
	}
	return inner
}

func (m *Board) renderTask(d week.Day, i int, t *todo.Task) string {
	box := checkbox
	if t.Done {
		box = "[x] "
	}
	if m.mode == modeEditTask && d == m.focus && t.ID == m.editID {
		return box + m.input.View()
	}
	text := t.Description
	if text == "" {
		text = newTaskPlaceholder
	}
	style := m.theme.Task
	if t.Done {
		style = m.theme.DoneTask
	}
	row := box + style.Render(text)
	if d == m.focus && i == m.cursor[d] && m.mode == modeBoard {
		return m.theme.Selected.Render(box + text)
	}
	return row
}

func (m *Board) renderStatus() string {
	var b strings.Builder
	if m.status != "" {
		if m.statusErr {
			b.WriteString(m.theme.Error.Render("Error: "+m.status) + "\n")
		} else {
			b.WriteString(m.theme.Status.Render(m.status) + "\n")
		}
	}
	b.WriteString(m.theme.Help.Render("? help | a add | x toggle | e edit | d delete | n note | c clear | q quit"))
	return b.String()
}

func (m *Board) renderClearPopup() string {
	body := fmt.Sprintf("Clear\n\n  d  Clear %s\n  w  Clear week\n\n  esc  Close", m.focus)
	return m.theme.Popup.Render(body)
}

func (m *Board) renderHelp() string {
	var b strings.Builder
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  h, left      Previous day\n")
	b.WriteString("  l, right     Next day\n")
	b.WriteString("  k, up        Previous task\n")
	b.WriteString("  j, down      Next task\n")
	b.WriteString("  t            Jump to today\n")
	b.WriteString("  x, space     Toggle done\n")
	b.WriteString("  a, +         Add a task\n")
	b.WriteString("  e, enter     Edit task\n")
	b.WriteString("  d, delete    Delete task\n")
	b.WriteString("  n            Edit the day's note\n")
	b.WriteString("  c            Clear day or week\n")
	b.WriteString("  ?            Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
	b.WriteString("Press any key to close")
	return m.theme.Popup.Render(b.String())
}

func (m *Board) editorWidth() int {
	w := m.width - 2*m.theme.Margin
	if w < 20 {
		w = 20
	}
	return w
}

// Week returns the board's current task week.
func (m *Board) Week() todo.Week { return m.week }

// Notes returns the board's current note week.
func (m *Board) Notes() notes.Week { return m.noteWk }
