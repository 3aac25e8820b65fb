package store

import (
	"sort"
	"sync"

	"github.com/relux-works/flatdoc/doc"
	"github.com/relux-works/flatdoc/internal/jsonfile"
)

// fileRecord is one record's on-disk shape.
type fileRecord struct {
	ID  int64          `json:"id"`
	Doc map[string]any `json:"doc"`
}

// fileTable is one table's on-disk shape.
type fileTable struct {
	NextID  int64        `json:"nextId"`
	Records []fileRecord `json:"records"`
}

// fileLayout is the whole database file's on-disk shape: one fileTable per
// collection name.
type fileLayout map[string]fileTable

// Database owns the tables backed by a single JSON file on disk. It loads
// the file lazily, on first access, and persists the whole file back on
// every mutation — there is no write-ahead log or incremental diffing,
// matching the "flat file, not an index" framing of spec §1.
type Database struct {
	mu     sync.Mutex
	path   string
	tables map[string]*Table
	loaded bool
}

// NewDatabase returns a Database backed by the JSON file at path. The file
// is not read until the first call to Table or Tables.
func NewDatabase(path string) *Database {
	return &Database{path: path, tables: map[string]*Table{}}
}

func (db *Database) ensureLoaded() error {
	if db.loaded {
		return nil
	}

	var layout fileLayout
	if err := jsonfile.ReadJSON(db.path, &layout); err != nil {
		return err
	}
	for name, ft := range layout {
		tbl := &Table{nextID: ft.NextID}
		for _, fr := range ft.Records {
			decoded := jsonfile.DecodeValue(fr.Doc)
			m, _ := decoded.(map[string]any)
			tbl.records = append(tbl.records, record{id: fr.ID, doc: doc.Document(m)})
		}
		db.tables[name] = tbl
	}
	db.loaded = true
	return nil
}

// Table returns the named table, creating it empty if it does not yet
// exist (tables are created lazily, the same way collections are in the
// Namespace Surface).
func (db *Database) Table(name string) (*Table, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.ensureLoaded(); err != nil {
		return nil, err
	}
	tbl, ok := db.tables[name]
	if !ok {
		tbl = NewTable()
		db.tables[name] = tbl
	}
	return tbl, nil
}

// Tables returns the names of every table that currently exists, sorted.
func (db *Database) Tables() ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.ensureLoaded(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DropTable removes a table entirely, so a subsequent Table call recreates
// it empty with a fresh record-id counter.
func (db *Database) DropTable(name string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.tables, name)
}

// Persist writes every table's current contents back to the database's
// JSON file, atomically.
func (db *Database) Persist() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	layout := fileLayout{}
	for name, tbl := range db.tables {
		tbl.mu.Lock()
		ft := fileTable{NextID: tbl.nextID}
		for _, r := range tbl.records {
			encoded := jsonfile.EncodeValue(map[string]any(r.doc))
			ft.Records = append(ft.Records, fileRecord{ID: r.id, Doc: encoded.(map[string]any)})
		}
		tbl.mu.Unlock()
		layout[name] = ft
	}
	return jsonfile.WriteJSON(db.path, layout)
}
