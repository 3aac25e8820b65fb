// Package store implements the storage collaborator backing a collection
// (an in-memory table materialized from, and persisted back to, a
// database's JSON file) and the Write Coordinator that layers insert/
// update/delete invariants on top of it.
//
// Spec §1 explicitly treats the persistent JSON table store as an external
// collaborator out of scope for this module's core; Table is nonetheless
// the concrete implementation that gives the Write Coordinator and
// Namespace Surface something real to operate against, kept deliberately
// mechanical per the spec's own framing of everything outside the query
// engine.
package store

import (
	"sync"

	"github.com/relux-works/flatdoc/doc"
	"github.com/relux-works/flatdoc/query"
)

// record pairs a storage-assigned record id with the document it holds.
type record struct {
	id  int64
	doc doc.Document
}

// Table is a single collection's in-memory document store: an ordered
// sequence of records plus a monotonic record-id counter. All exported
// methods are safe for concurrent use within one process; cross-process
// coordination is delegated to whatever owns the backing file (spec §5).
type Table struct {
	mu      sync.Mutex
	records []record
	nextID  int64
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Insert appends a document and returns its assigned record id.
func (t *Table) Insert(d doc.Document) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insertLocked(d)
}

func (t *Table) insertLocked(d doc.Document) int64 {
	id := t.nextID
	t.nextID++
	t.records = append(t.records, record{id: id, doc: d})
	return id
}

// InsertMultiple appends documents in the given order and returns their
// assigned record ids in the same order, as a single batch.
func (t *Table) InsertMultiple(docs []doc.Document) []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]int64, len(docs))
	for i, d := range docs {
		ids[i] = t.insertLocked(d)
	}
	return ids
}

// Search returns every document for which predicate evaluates true, in
// storage-native (insertion) order. Each returned document is a shallow
// clone: changing its top-level keys does not affect the table, but nested
// documents and lists are shared with the stored record.
func (t *Table) Search(predicate query.Predicate) []doc.Document {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []doc.Document
	for _, r := range t.records {
		if predicate.Eval(r.doc) {
			out = append(out, r.doc.Clone())
		}
	}
	return out
}

// Get returns the first document matching predicate, or (nil, false).
func (t *Table) Get(predicate query.Predicate) (doc.Document, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range t.records {
		if predicate.Eval(r.doc) {
			return r.doc.Clone(), true
		}
	}
	return nil, false
}

// All returns every document in storage-native order.
func (t *Table) All() []doc.Document {
	return t.Search(query.MatchAll())
}

// Update applies patch to every document matching predicate, merging
// patch's keys into each document. It reports how many documents matched
// and how many were actually changed (a key whose new value compares
// equal to the old one does not count as modified).
func (t *Table) Update(patch doc.Document, predicate query.Predicate) (matched, modified int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.records {
		if !predicate.Eval(t.records[i].doc) {
			continue
		}
		matched++
		changed := false
		for k, v := range patch {
			if existing, ok := t.records[i].doc[k]; !ok || doc.Compare(existing, v) != 0 {
				changed = true
			}
			t.records[i].doc[k] = v
		}
		if changed {
			modified++
		}
	}
	return matched, modified
}

// Remove deletes every document matching predicate and returns the count
// removed.
func (t *Table) Remove(predicate query.Predicate) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.records[:0:0]
	deleted := 0
	for _, r := range t.records {
		if predicate.Eval(r.doc) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	t.records = kept
	return deleted
}

// ResetCounter resets the monotonic record-id counter to zero. Used by
// delete_many({}) per spec §4.2/§5: deleting the whole collection restarts
// record-id assignment from the base state.
func (t *Table) ResetCounter() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID = 0
}

// Len returns the number of records currently stored.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}
