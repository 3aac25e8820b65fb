// Package jsonfile provides the mechanical, per-database JSON file I/O
// that the Write Coordinator and Namespace Surface rely on. It is
// deliberately simple: the storage collaborator's durability, compaction,
// and concurrent-process safety are explicitly out of scope for this
// module (spec §1); this package only needs to give that collaborator a
// working backing file.
//
// No flock-style file-locking library appears anywhere in the retrieved
// reference pack (checked the teacher and every other_examples/manifests
// go.mod), so this package uses only the standard library: an atomic
// write-to-temp-then-rename keeps a crash from ever leaving a half-written
// database file, which is the one durability property worth guaranteeing
// in-process without a real lock manager.
package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ReadJSON reads and unmarshals path into v. A missing file is not an
// error — v is left at its zero value, so callers see an empty database.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// WriteJSON marshals v and writes it to path atomically: it writes to a
// sibling temp file first, then renames it over the target so a reader
// never observes a partially written file.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}
