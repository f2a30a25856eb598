package todo

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/stickyweek/internal/datadir"
	"github.com/nibzard/stickyweek/internal/persist"
)

const tasksSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "stickyweek tasks",
  "type": "object",
  "propertyNames": {"enum": ["Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"]},
  "additionalProperties": {
    "type": ["array", "null"],
    "items": {
      "type": "object",
      "properties": {
        "Description": {"type": "string"},
        "Done": {"type": "boolean"}
      },
      "required": ["Description", "Done"],
      "additionalProperties": false
    }
  }
}`

var schema = persist.MustCompileSchema("tasks.schema.json", tasksSchema)

// Store reads and writes the task file of one data directory.
type Store struct {
	// Path is the current-format task file.
	Path string
	// LegacyPath is the pickle migrated on load. Empty disables migration.
	LegacyPath string
	// Logger receives migration and save events. Nil discards them.
	Logger *log.Logger

	// seen is the task file as last read or written through this store.
	seen persist.Version
}

// NewStore returns a store for the task and legacy files inside dir.
func NewStore(dir string, logger *log.Logger) *Store {
	return &Store{
		Path:       datadir.TasksPath(dir),
		LegacyPath: datadir.LegacyPath(dir),
		Logger:     logger,
	}
}

func (s *Store) log() *log.Logger {
	if s.Logger == nil {
		return log.New(io.Discard)
	}
	return s.Logger
}

// Load returns the persisted week. A legacy file, when present, is migrated
// first. A missing task file yields an empty week.
func (s *Store) Load() (Week, error) {
	w, migrated, err := s.Migrate()
	if err != nil {
		return nil, err
	}
	if migrated {
		return w, nil
	}
	return s.Current()
}

// Current reads the task file without looking at the legacy file.
func (s *Store) Current() (Week, error) {
	v, err := persist.Stat(s.Path)
	if err != nil {
		return nil, err
	}
	data, ok, err := persist.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log().Debug("no task file, starting empty", "path", s.Path)
		s.seen = persist.Version{}
		return NewWeek(), nil
	}
	w, err := decode(s.Path, data)
	if err != nil {
		return nil, err
	}
	s.seen = v
	return w, nil
}

// Changed reports whether the task file was replaced by another writer
// since this store last read or wrote it.
func (s *Store) Changed() (bool, error) {
	v, err := persist.Stat(s.Path)
	if err != nil {
		return false, err
	}
	return !v.Same(s.seen), nil
}

// Save replaces the task file with w.
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
	s.log().Debug("saved tasks", "path", s.Path, "bytes", len(data))
	return nil
}

// Migrate converts the legacy pickle to the current format. It reports
// whether a legacy file was found; if so the returned week is what was
// written. An existing task file is overwritten.
func (s *Store) Migrate() (Week, bool, error) {
	if s.LegacyPath == "" {
		return nil, false, nil
	}
	found, err := persist.Exists(s.LegacyPath)
	if err != nil || !found {
		return nil, false, err
	}

	w, err := loadLegacy(s.LegacyPath)
	if err != nil {
		return nil, true, err
	}
	if err := s.Save(w); err != nil {
		return nil, true, err
	}
	if err := persist.Remove(s.LegacyPath); err != nil {
		return nil, true, err
	}
	s.log().Info("migrated legacy task file", "from", s.LegacyPath, "to", s.Path)
	return w, true, nil
}

func decode(path string, data []byte) (Week, error) {
	w := Week{}
	if err := persist.DecodeJSON(path, data, schema, &w); err != nil {
		return nil, err
	}
	w.normalize()
	return w, nil
}
