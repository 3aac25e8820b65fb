// Package cursor implements the materialized result holder that wraps a
// storage collaborator's search results with stable multi-key sort and
// (skip, limit) pagination.
//
// Grounded on the teacher package's sort.go (SortComparator chaining via
// "first non-zero wins", slices.SortStableFunc) and paginate.go
// (ParseSkipTake / applySkipTake slicing), generalized from typed
// per-field comparators over a domain struct to the spec's dynamic
// cross-type ordering over doc.Document values reached by dot-path.
package cursor

import (
	"slices"

	"github.com/relux-works/flatdoc/doc"
	"github.com/relux-works/flatdoc/flatdocerr"
)

// SortDirection indicates ascending or descending order.
type SortDirection int

const (
	Asc SortDirection = iota
	Desc
)

// SortSpec represents one parsed sort key: a dot-path field and direction.
type SortSpec struct {
	Field     string
	Direction SortDirection
}

// Cursor is an ordered, in-memory snapshot of matching documents with a
// current position, assembled by New from a storage search result. The
// snapshot holds its own copy of the slice of matches, so later inserts,
// updates and deletes on the collection do not change it.
type Cursor struct {
	items []doc.Document
	pos   int
}

// New builds a Cursor from a storage search result. If sort is non-empty,
// the items are sorted before pagination is applied, per the component's
// construction contract. Position starts at -1 (before the first
// element).
func New(items []doc.Document, sort []SortSpec, skip, limit int) (*Cursor, error) {
	snapshot := make([]doc.Document, len(items))
	copy(snapshot, items)

	if len(sort) > 0 {
		if err := sortDocuments(snapshot, sort); err != nil {
			return nil, err
		}
	}

	snapshot = paginate(snapshot, skip, limit)

	return &Cursor{items: snapshot, pos: -1}, nil
}

// paginate retains documents at indices [skip, skip+limit) of the sorted
// sequence. skip < 0 is treated as 0. limit <= 0 means "no limit" — skip
// alone is a documented no-op of this cursor, per the component's design:
// callers needing skip-only pagination must pair it with an explicit
// large limit.
func paginate(items []doc.Document, skip, limit int) []doc.Document {
	if limit <= 0 {
		return items
	}
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []doc.Document{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

// At returns the document at the given index.
func (c *Cursor) At(i int) (doc.Document, error) {
	if i < 0 || i >= len(c.items) {
		return nil, flatdocerr.Newf(flatdocerr.OutOfRange, "index %d out of range [0, %d)", i, len(c.items))
	}
	return c.items[i], nil
}

// Field returns a field of the document at the cursor's current position.
func (c *Cursor) Field(key string) (any, error) {
	d, err := c.current()
	if err != nil {
		return nil, err
	}
	v, _ := d.Get(key)
	return v, nil
}

func (c *Cursor) current() (doc.Document, error) {
	if c.pos < 0 || c.pos >= len(c.items) {
		return nil, flatdocerr.New(flatdocerr.OutOfRange, "cursor is not positioned on a document")
	}
	return c.items[c.pos], nil
}

// Next advances the cursor and returns the document at the new position,
// failing with OutOfRange once the sequence is exhausted.
func (c *Cursor) Next() (doc.Document, error) {
	if c.pos+1 >= len(c.items) {
		return nil, flatdocerr.New(flatdocerr.OutOfRange, "no more documents")
	}
	c.pos++
	return c.items[c.pos], nil
}

// HasNext peeks one position ahead without advancing and never fails.
func (c *Cursor) HasNext() bool {
	return c.pos+1 < len(c.items)
}

// Count returns the number of documents in the materialized sequence,
// after sorting and pagination.
func (c *Cursor) Count() int {
	return len(c.items)
}

// All returns every document in the materialized sequence, in order.
func (c *Cursor) All() []doc.Document {
	out := make([]doc.Document, len(c.items))
	copy(out, c.items)
	return out
}

// sortDocuments applies a multi-key stable sort: keys are applied left to
// right, each later key only breaking ties left by the earlier keys. Go's
// slices.SortStableFunc gives this "section" stability for free — the
// chained comparator is exactly the lexicographic-tuple construction the
// component's stability requirement describes as equivalent.
func sortDocuments(items []doc.Document, specs []SortSpec) error {
	for _, s := range specs {
		if s.Field == "" {
			return flatdocerr.New(flatdocerr.Invalid, "sort spec requires a non-empty field path")
		}
	}

	slices.SortStableFunc(items, func(a, b doc.Document) int {
		for _, s := range specs {
			descending := s.Direction == Desc
			av := doc.ResolveForSort(a, s.Field, descending)
			bv := doc.ResolveForSort(b, s.Field, descending)
			c := doc.CompareForSort(av, bv, descending)
			if descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return nil
}
