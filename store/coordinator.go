// The Write Coordinator is the component named in spec §4.2: it sits
// between the Namespace Surface and a Table, applying the insert/update/
// delete invariants (id assignment, duplicate-key checks, $set extraction,
// record-id counter reset) that the storage collaborator itself does not
// know about.
package store

import (
	"github.com/relux-works/flatdoc/doc"
	"github.com/relux-works/flatdoc/flatdocerr"
	"github.com/relux-works/flatdoc/idgen"
	"github.com/relux-works/flatdoc/query"
)

// Coordinator is the Write Coordinator for a single table. persist, when
// non-nil, is invoked after every mutating operation so changes reach the
// backing file; tests may leave it nil to exercise the table in memory
// only.
type Coordinator struct {
	table   *Table
	persist func() error
}

// NewCoordinator returns a Write Coordinator for table. persist may be nil.
func NewCoordinator(table *Table, persist func() error) *Coordinator {
	return &Coordinator{table: table, persist: persist}
}

func (c *Coordinator) maybePersist() error {
	if c.persist == nil {
		return nil
	}
	return c.persist()
}

func idFromPredicateValue(id string) query.Predicate {
	return query.Predicate{Kind: query.KindEq, Field: "_id", Value: id}
}

// assignID extracts or generates the `_id` for a document to be inserted,
// mutating a clone of d so the caller's original is untouched.
func assignID(d doc.Document) (doc.Document, string, error) {
	out := d.Clone()
	if raw, ok := out["_id"]; ok {
		id, ok := raw.(string)
		if !ok || id == "" {
			return nil, "", flatdocerr.New(flatdocerr.Invalid, "_id must be a non-empty string")
		}
		return out, id, nil
	}
	id := idgen.New()
	out["_id"] = id
	return out, id, nil
}

// InsertOne inserts a single document. If it has no `_id`, one is
// generated. Unless bypassDuplicateCheck is set, inserting a document
// whose `_id` already exists in the table fails with a duplicate-key
// error instead of silently overwriting.
func (c *Coordinator) InsertOne(d doc.Document, bypassDuplicateCheck bool) (InsertResult, error) {
	prepared, id, err := assignID(d)
	if err != nil {
		return InsertResult{}, err
	}
	if !bypassDuplicateCheck {
		if _, found := c.table.Get(idFromPredicateValue(id)); found {
			return InsertResult{}, flatdocerr.Newf(flatdocerr.Duplicate, "document with _id %q already exists", id)
		}
	}

	recordID := c.table.Insert(prepared)
	if err := c.maybePersist(); err != nil {
		return InsertResult{}, err
	}
	return InsertResult{RecordID: recordID, ID: id}, nil
}

// InsertMany inserts a batch of documents as one storage operation.
// Duplicate `_id`s, either against the existing table or within the batch
// itself, fail the whole batch unless bypassDuplicateCheck is set.
func (c *Coordinator) InsertMany(docs []doc.Document, bypassDuplicateCheck bool) ([]InsertResult, error) {
	existing := map[string]bool{}
	if !bypassDuplicateCheck {
		for _, d := range c.table.All() {
			existing[d.ID()] = true
		}
	}

	prepared := make([]doc.Document, len(docs))
	ids := make([]string, len(docs))
	seen := map[string]bool{}
	for i, d := range docs {
		out, id, err := assignID(d)
		if err != nil {
			return nil, err
		}
		if !bypassDuplicateCheck {
			if existing[id] || seen[id] {
				return nil, flatdocerr.Newf(flatdocerr.Duplicate, "document with _id %q already exists", id)
			}
		}
		seen[id] = true
		prepared[i] = out
		ids[i] = id
	}

	recordIDs := c.table.InsertMultiple(prepared)
	if err := c.maybePersist(); err != nil {
		return nil, err
	}

	results := make([]InsertResult, len(docs))
	for i := range docs {
		results[i] = InsertResult{RecordID: recordIDs[i], ID: ids[i]}
	}
	return results, nil
}

// extractPatch returns the actual key/value patch to apply for an update
// document: its $set value when present, otherwise the document itself
// (spec §4.2, "the update document may itself be the patch").
func extractPatch(update doc.Document) doc.Document {
	raw, ok := update["$set"]
	if !ok {
		return update
	}
	switch v := raw.(type) {
	case doc.Document:
		return v
	case map[string]any:
		return doc.Document(v)
	default:
		return doc.Document{}
	}
}

// UpdateOne builds a predicate from filter and applies update's patch to
// every document it matches. A malformed filter is reported as an error;
// spec §4.2 also calls for storage-update failures to be swallowed into
// UpdateResult.Ok rather than propagated, but this table's Update cannot
// itself fail, so Ok is always true here — the field exists for parity
// with a storage collaborator that can.
func (c *Coordinator) UpdateOne(filter, update doc.Document) (UpdateResult, error) {
	predicate, err := query.Build(filter)
	if err != nil {
		return UpdateResult{}, err
	}
	patch := extractPatch(update)

	matched, modified := c.table.Update(patch, predicate)
	if err := c.maybePersist(); err != nil {
		return UpdateResult{}, err
	}
	return UpdateResult{Matched: matched, Modified: modified, Ok: true}, nil
}

// UpdateMany applies update against filter. For backwards compatibility
// with the source API, update may be a single document (delegated
// straight to UpdateOne) or a slice of documents, each applied in turn
// against the same filter with its results aggregated (spec §4.2).
func (c *Coordinator) UpdateMany(filter doc.Document, update any) (UpdateResult, error) {
	switch u := update.(type) {
	case doc.Document:
		return c.UpdateOne(filter, u)
	case map[string]any:
		return c.UpdateOne(filter, doc.Document(u))
	case []doc.Document:
		agg := UpdateResult{Ok: true}
		for _, one := range u {
			r, err := c.UpdateOne(filter, one)
			if err != nil {
				return UpdateResult{}, err
			}
			agg.Matched += r.Matched
			agg.Modified += r.Modified
			agg.Ok = agg.Ok && r.Ok
		}
		return agg, nil
	default:
		return UpdateResult{}, flatdocerr.New(flatdocerr.Invalid, "update_many requires a document or a list of documents")
	}
}

// DeleteOne removes the first document matching filter. It fails with a
// not-found error if nothing matches, unlike DeleteMany which treats an
// empty match set as a no-op.
func (c *Coordinator) DeleteOne(filter doc.Document) (DeleteResult, error) {
	predicate, err := query.Build(filter)
	if err != nil {
		return DeleteResult{}, err
	}
	match, found := c.table.Get(predicate)
	if !found {
		return DeleteResult{}, flatdocerr.New(flatdocerr.NotFound, "no document matches delete_one filter")
	}

	deleted := c.table.Remove(idFromPredicateValue(match.ID()))
	if err := c.maybePersist(); err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Deleted: deleted}, nil
}

// DeleteMany removes every document matching filter. When filter is the
// empty (match-all) query, the table's record-id counter is reset, per
// spec §4.2/§5 — the convention that clearing a collection restarts it
// from its base state rather than leaving the counter wherever it was.
func (c *Coordinator) DeleteMany(filter doc.Document) (DeleteResult, error) {
	predicate, err := query.Build(filter)
	if err != nil {
		return DeleteResult{}, err
	}

	deleted := c.table.Remove(predicate)
	if len(filter) == 0 {
		c.table.ResetCounter()
	}
	if err := c.maybePersist(); err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Deleted: deleted}, nil
}

// Count returns how many documents match filter.
func (c *Coordinator) Count(filter doc.Document) (int, error) {
	predicate, err := query.Build(filter)
	if err != nil {
		return 0, err
	}
	return len(c.table.Search(predicate)), nil
}
