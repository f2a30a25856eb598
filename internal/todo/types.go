package todo

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nibzard/stickyweek/internal/persist"
	"github.com/nibzard/stickyweek/internal/week"
)

// Task is a single checklist item.
type Task struct {
	ID          string `json:"-"`
	Description string `json:"Description"`
	Done        bool   `json:"Done"`
}

// SetDescription replaces the task text.
func (t *Task) SetDescription(text string) {
	t.Description = text
}

// SetDone marks the task done or not done.
func (t *Task) SetDone(done bool) {
	t.Done = done
}

// Toggle flips Done and returns the new value.
func (t *Task) Toggle() bool {
	t.Done = !t.Done
	return t.Done
}

// Week maps every day key to its ordered tasks.
type Week map[week.Day][]*Task

// NewWeek returns a week with every day present and empty.
func NewWeek() Week {
	w := make(Week, len(week.Days))
	for _, d := range week.Days {
		w[d] = []*Task{}
	}
	return w
}

// normalize fills missing days, drops nil records, and assigns IDs.
func (w Week) normalize() {
	for _, d := range week.Days {
		tasks := make([]*Task, 0, len(w[d]))
		for _, t := range w[d] {
			if t == nil {
				continue
			}
			if t.ID == "" {
				t.ID = uuid.NewString()
			}
			tasks = append(tasks, t)
		}
		w[d] = tasks
	}
}

// Day returns the tasks for d in order.
func (w Week) Day(d week.Day) []*Task {
	return w[d]
}

// AddTask appends an empty, not-done task to d and returns it.
// It returns nil when d is not a day key.
func (w Week) AddTask(d week.Day) *Task {
	if !d.Valid() {
		return nil
	}
	t := &Task{ID: uuid.NewString()}
	w[d] = append(w[d], t)
	return t
}

// Task returns the task with the given ID on d, or nil.
func (w Week) Task(d week.Day, id string) *Task {
	if i := w.Index(d, id); i >= 0 {
		return w[d][i]
	}
	return nil
}

// Index returns the position of the task with the given ID on d, or -1.
func (w Week) Index(d week.Day, id string) int {
	for i, t := range w[d] {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// RemoveTask removes the first task on d with the given ID.
// If no task matches, the week is unchanged and a persist.ErrNotFound error is returned.
func (w Week) RemoveTask(d week.Day, id string) error {
	i := w.Index(d, id)
	if i < 0 {
		return persist.NotFound("remove task", "", fmt.Errorf("%s has no task %s", d, id))
	}
	w.removeAt(d, i)
	return nil
}

// RemoveAt removes the task at index i (0-based) on d.
func (w Week) RemoveAt(d week.Day, i int) (*Task, error) {
	if i < 0 || i >= len(w[d]) {
		return nil, persist.NotFound("remove task", "", fmt.Errorf("%s has no task #%d", d, i+1))
	}
	return w.removeAt(d, i), nil
}

func (w Week) removeAt(d week.Day, i int) *Task {
	tasks := w[d]
	t := tasks[i]
	w[d] = append(tasks[:i:i], tasks[i+1:]...)
	return t
}

// At returns the task at index i (0-based) on d.
func (w Week) At(d week.Day, i int) (*Task, error) {
	if i < 0 || i >= len(w[d]) {
		return nil, persist.NotFound("get task", "", fmt.Errorf("%s has no task #%d", d, i+1))
	}
	return w[d][i], nil
}

// ClearDay removes every task on d.
func (w Week) ClearDay(d week.Day) {
	if d.Valid() {
		w[d] = []*Task{}
	}
}

// ClearWeek removes every task on every day.
func (w Week) ClearWeek() {
	for _, d := range week.Days {
		w.ClearDay(d)
	}
}

// Counts returns the number of done tasks and the total for d.
func (w Week) Counts(d week.Day) (done, total int) {
	for _, t := range w[d] {
		if t.Done {
			done++
		}
	}
	return done, len(w[d])
}

// Clone returns a deep copy that keeps task IDs.
func (w Week) Clone() Week {
	c := make(Week, len(w))
	for d, tasks := range w {
		copied := make([]*Task, len(tasks))
		for i, t := range tasks {
			tc := *t
			copied[i] = &tc
		}
		c[d] = copied
	}
	return c
}

// Equal reports whether both weeks hold the same descriptions and done flags
// in the same order. IDs are ignored.
func (w Week) Equal(other Week) bool {
	for _, d := range week.Days {
		a, b := w[d], other[d]
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i].Description != b[i].Description || a[i].Done != b[i].Done {
				return false
			}
		}
	}
	return true
}

// Encode renders the week in the tasks.json format.
func (w Week) Encode() ([]byte, error) {
	return persist.MarshalOrdered(week.Names(), func(key string) interface{} {
		tasks := w[week.Day(key)]
		if tasks == nil {
			return []*Task{}
		}
		return tasks
	})
}
