// Package persist holds the file handling shared by the task and note stores:
// the typed error surface, schema-checked JSON decoding and file replacement.
package persist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ReadFile reads path. A missing file is reported as (nil, false, nil).
func ReadFile(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, IO("read", path, err)
	}
	return data, true, nil
}

// Exists reports whether path exists. Stat failures other than
// "does not exist" are returned as KindIO.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, IO("stat", path, err)
}

// DecodeJSON validates data against schema (when non-nil) and unmarshals it into v.
// Any failure is KindCorrupt.
func DecodeJSON(path string, data []byte, schema *Schema, v interface{}) error {
	if schema != nil {
		if err := schema.Validate(data); err != nil {
			return Corrupt("load", path, err)
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return Corrupt("load", path, err)
	}
	return nil
}

// MarshalOrdered encodes a JSON object whose keys appear in the given order,
// indented with two spaces and terminated by a newline.
func MarshalOrdered(keys []string, value func(key string) interface{}) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			compact.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", key, err)
		}
		v, err := json.Marshal(value(key))
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", key, err)
		}
		compact.Write(k)
		compact.WriteByte(':')
		compact.Write(v)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("indent: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Version identifies one write of a file. WriteFile always puts a new file
// in place, so any rewrite by any process yields a different Version.
type Version struct {
	info fs.FileInfo
}

// Stat returns the current Version of path. A missing file has the zero Version.
func Stat(path string) (Version, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Version{}, nil
		}
		return Version{}, IO("stat", path, err)
	}
	return Version{info: info}, nil
}

// Same reports whether v and o describe the same file on disk.
func (v Version) Same(o Version) bool {
	if v.info == nil || o.info == nil {
		return v.info == nil && o.info == nil
	}
	return os.SameFile(v.info, o.info) &&
		v.info.Size() == o.info.Size() &&
		v.info.ModTime().Equal(o.info.ModTime())
}

// WriteFile replaces path with data. The data goes to a temporary file in the
// same directory which is synced and renamed over path, so a crash leaves
// either the old or the new content.
func WriteFile(path string, data []byte) error {
	_, err := WriteFileVersion(path, data)
	return err
}

// WriteFileVersion is WriteFile that also returns the Version it wrote.
func WriteFileVersion(path string, data []byte) (Version, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Version{}, IO("save", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return Version{}, IO("save", path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return Version{}, IO("save", path, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return Version{}, IO("save", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return Version{}, IO("save", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return Version{}, IO("save", path, err)
	}
	info, err := os.Stat(tmpName)
	if err != nil {
		os.Remove(tmpName)
		return Version{}, IO("save", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return Version{}, IO("save", path, err)
	}
	return Version{info: info}, nil
}

// Remove deletes path. Removing a missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return IO("remove", path, err)
	}
	return nil
}
