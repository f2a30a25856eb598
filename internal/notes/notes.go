// Package notes keeps one free-text note per weekday.
//
// The note file (notes.json) maps every day key to a string:
//
//	{
//	  "Mon": "dentist at 3",
//	  "Tue": "",
//	  ...
//	}
//
// Missing days load as empty strings. Notes are replaced wholesale; there is
// no partial update.
package notes

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/stickyweek/internal/datadir"
	"github.com/nibzard/stickyweek/internal/persist"
	"github.com/nibzard/stickyweek/internal/week"
)

const notesSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "stickyweek notes",
  "type": "object",
  "propertyNames": {"enum": ["Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"]},
  "additionalProperties": {"type": ["string", "null"]}
}`

var schema = persist.MustCompileSchema("notes.schema.json", notesSchema)

// Week maps every day key to its note.
type Week map[week.Day]string

// NewWeek returns a week with every note empty.
func NewWeek() Week {
	w := make(Week, len(week.Days))
	for _, d := range week.Days {
		w[d] = ""
	}
	return w
}

// Note returns the note for d.
func (w Week) Note(d week.Day) string {
	return w[d]
}

// SetNote replaces the note for d. Unknown days are ignored.
func (w Week) SetNote(d week.Day, text string) {
	if d.Valid() {
		w[d] = text
	}
}

// ClearDay empties the note for d.
func (w Week) ClearDay(d week.Day) {
	w.SetNote(d, "")
}

// ClearWeek empties every note.
func (w Week) ClearWeek() {
	for _, d := range week.Days {
		w[d] = ""
	}
}

// Clone returns a copy of w.
func (w Week) Clone() Week {
	c := make(Week, len(w))
	for d, n := range w {
		c[d] = n
	}
	return c
}

// Encode renders the week in the notes.json format.
func (w Week) Encode() ([]byte, error) {
	return persist.MarshalOrdered(week.Names(), func(key string) interface{} {
		return w[week.Day(key)]
	})
}

// Store reads and writes the note file of one data directory.
type Store struct {
	Path   string
	Logger *log.Logger

	seen persist.Version
}

// NewStore returns a store for the note file inside dir.
func NewStore(dir string, logger *log.Logger) *Store {
	return &Store{Path: datadir.NotesPath(dir), Logger: logger}
}

func (s *Store) log() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

// Load returns the persisted notes, or empty notes when the file is missing.
func (s *Store) Load() (Week, error) {
	v, err := persist.Stat(s.Path)
	if err != nil {
		return nil, err
	}
	data, ok, err := persist.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log().Debug("no note file, starting empty", "path", s.Path)
		s.seen = persist.Version{}
		return NewWeek(), nil
	}

	raw := map[week.Day]*string{}
	if err := persist.DecodeJSON(s.Path, data, schema, &raw); err != nil {
		return nil, err
	}
	w := NewWeek()
	for d, n := range raw {
		if n != nil {
			w[d] = *n
		}
	}
	s.seen = v
	return w, nil
}

// Changed reports whether the note file was replaced by another writer
// since this store last read or wrote it.
func (s *Store) Changed() (bool, error) {
	v, err := persist.Stat(s.Path)
	if err != nil {
		return false, err
	}
	return !v.Same(s.seen), nil
}

// Save replaces the note file with w.
func (s *Store) Save(w Week) error {
	data, err := w.Encode()
	if err != nil {
		return persist.Corrupt("save", s.Path, err)
	}
	v, err := persist.WriteFileVersion(s.Path, data)
	if err != nil {
		return err
	}
	s.seen = v
	s.log().Debug("saved notes", "path", s.Path, "bytes", len(data))
	return nil
}
